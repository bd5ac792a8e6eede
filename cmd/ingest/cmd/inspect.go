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
	"path/filepath"
	"text/tabwriter"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/apex/log"
	"github.com/beatsaver/ingest/internal/colors"
	"github.com/beatsaver/ingest/internal/magic"
	"github.com/beatsaver/ingest/pkg/container"
	"github.com/beatsaver/ingest/pkg/info"
	"github.com/dustin/go-humanize"
	"github.com/gabriel-vasile/mimetype"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(inspectCmd)

	inspectCmd.Flags().BoolP("json", "j", false, "Output as JSON")
	viper.BindPFlag("inspect.json", inspectCmd.Flags().Lookup("json"))

	inspectCmd.MarkZshCompPositionalArgumentFile(1, "*.zip")
}

type member struct {
	Path  string `json:"path"`
	Size  int    `json:"size"`
	MIME  string `json:"mime"`
	Magic string `json:"magic"`
	Role  string `json:"role,omitempty"`
}

// inspectCmd represents the inspect command
var inspectCmd = &cobra.Command{
	Use:     "inspect <ZIP>",
	Aliases: []string{"i", "ls"},
	Short:   "List the members of a map upload",
	Example: heredoc.Doc(`
		# Show every member with its size and detected type
		❯ ingest inspect map.zip

		# Same as JSON
		❯ ingest inspect map.zip --json`),
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {

		if Verbose {
			log.SetLevel(log.DebugLevel)
		}
		initColors()

		fPath := filepath.Clean(args[0])
		raw, err := os.ReadFile(fPath)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", fPath, err)
		}
		c, err := container.Load(raw, 0)
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", fPath, err)
		}

		roles := memberRoles(c)
		var members []member
		for _, m := range c.Members() {
			if m.IsDir() {
				continue
			}
			members = append(members, member{
				Path:  m.Name,
				Size:  len(m.Data),
				MIME:  mimetype.Detect(m.Data).String(),
				Magic: magic.Detect(m.Data).String(),
				Role:  roles[m.Name],
			})
		}

		if viper.GetBool("inspect.json") {
			dat, err := json.MarshalIndent(members, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal members: %w", err)
			}
			fmt.Println(string(dat))
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 1, ' ', 0)
		fmt.Fprintf(w, "PATH\tSIZE\tMIME\tMAGIC\tROLE\n")
		fmt.Fprintf(w, "----\t----\t----\t-----\t----\n")
		for _, m := range members {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", m.Path, humanize.Bytes(uint64(m.Size)), m.MIME, m.Magic, colors.Role(m.Role).Sprint(m.Role))
		}
		return w.Flush()
	},
}

// memberRoles labels the members info.dat refers to. A missing or broken
// info.dat yields no labels.
func memberRoles(c *container.Container) map[string]string {
	roles := make(map[string]string)
	data, ok := c.Get(info.FileName)
	if !ok {
		return roles
	}
	m, err := info.Parse(data)
	if err != nil {
		log.WithError(err).Warn("info.dat is not valid JSON")
		return roles
	}
	roles[info.FileName] = "manifest"
	if name, err := m.CoverImageFilename(); err == nil {
		roles[name] = "cover"
	}
	if name, err := m.SongFilename(); err == nil {
		roles[name] = "audio"
	}
	if sets, err := m.DifficultyBeatmapSets(); err == nil {
		for _, d := range info.Flatten(sets) {
			roles[d.BeatmapFilename] = "difficulty"
		}
	}
	return roles
}
