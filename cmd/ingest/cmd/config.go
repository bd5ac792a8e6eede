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
	"fmt"
	"os"
	"path/filepath"

	"github.com/apex/log"
	"github.com/beatsaver/ingest/internal/config"
	"github.com/beatsaver/ingest/internal/static"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)

	configInitCmd.Flags().StringP("output", "o", "", "Where to write the config (default is $HOME/.config/ingest/config.yaml)")
	viper.BindPFlag("config.init.output", configInitCmd.Flags().Lookup("output"))
}

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the ingest config file",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// configInitCmd represents the config init command
var configInitCmd = &cobra.Command{
	Use:           "init",
	Aliases:       []string{"i"},
	Short:         "Generates an example config.yaml file",
	SilenceUsage:  true,
	SilenceErrors: true,
	Args:          cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		fname := viper.GetString("config.init.output")
		if fname == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return fmt.Errorf("failed to get user home directory: %v", err)
			}
			fname = filepath.Join(home, ".config", "ingest", "config.yaml")
		}
		if err := os.MkdirAll(filepath.Dir(fname), 0o755); err != nil {
			return err
		}

		conf, err := os.OpenFile(fname, os.O_WRONLY|os.O_CREATE|os.O_TRUNC|os.O_EXCL, 0o644)
		if err != nil {
			return err
		}
		defer conf.Close()

		log.Infof("Generating %s file", fname)
		if _, err := conf.Write(static.ExampleConfig); err != nil {
			return err
		}

		log.WithField("file", fname).Info("config created; please edit accordingly to your needs")
		return nil
	},
}

// configShowCmd represents the config show command
var configShowCmd = &cobra.Command{
	Use:           "show",
	Short:         "Print the effective settings",
	SilenceUsage:  true,
	SilenceErrors: true,
	Args:          cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		conf, err := config.LoadConfig()
		if err != nil {
			return err
		}
		log.WithFields(log.Fields{
			"parallelism":     conf.Ingest.Parallelism,
			"compression":     conf.Compression(),
			"max-member-size": conf.MaxMemberSize(),
			"output":          conf.Output.Dir,
			"format":          conf.Output.Format,
			"key":             conf.Output.Key,
		}).Info("config")
		return nil
	},
}
