/*
Copyright © 2025 beatsaver

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/beatsaver/ingest/pkg/beatmap"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(codesCmd)

	codesCmd.Flags().BoolP("json", "j", false, "Output as JSON")
	viper.BindPFlag("codes.json", codesCmd.Flags().Lookup("json"))
}

// codesCmd represents the codes command
var codesCmd = &cobra.Command{
	Use:           "codes",
	Short:         "List the rejection codes returned for invalid uploads",
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		type code struct {
			Code    int    `json:"code"`
			Name    string `json:"identifier"`
			Status  int    `json:"status"`
			Message string `json:"message"`
		}
		var codes []code
		for _, k := range beatmap.Kinds() {
			codes = append(codes, code{k.Code(), k.Name(), k.Status(), k.Message()})
		}

		if viper.GetBool("codes.json") {
			dat, err := json.MarshalIndent(codes, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal codes: %w", err)
			}
			fmt.Println(string(dat))
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 1, ' ', 0)
		fmt.Fprintf(w, "CODE\tIDENTIFIER\tSTATUS\tMESSAGE\n")
		fmt.Fprintf(w, "----\t----------\t------\t-------\n")
		for _, c := range codes {
			fmt.Fprintf(w, "%#x\t%s\t%d\t%s\n", c.Code, c.Name, c.Status, c.Message)
		}
		return w.Flush()
	},
}
