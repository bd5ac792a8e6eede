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
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/apex/log"
	"github.com/beatsaver/ingest"
	"github.com/beatsaver/ingest/internal/colors"
	"github.com/beatsaver/ingest/internal/config"
	"github.com/beatsaver/ingest/pkg/beatmap"
	"github.com/briandowns/spinner"
	"github.com/caarlos0/ctrlc"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

func init() {
	rootCmd.AddCommand(processCmd)

	processCmd.Flags().StringP("output", "o", ".", "Folder to write the normalized files to")
	processCmd.MarkFlagDirname("output")
	processCmd.Flags().IntP("parallelism", "p", ingest.DefaultParallelism, "Maximum number of difficulty files read at once")
	processCmd.Flags().StringP("compression", "c", "store", "Output archive compression (store, deflate)")
	processCmd.Flags().String("max-member-size", "0", "Reject members larger than this (e.g. 64MB)")
	processCmd.Flags().BoolP("yaml", "y", false, "Write metadata as YAML instead of JSON")
	processCmd.Flags().StringP("key", "k", "", "Map key used to print the CDN object names")
	processCmd.Flags().DurationP("timeout", "t", 0, "Abort processing after this long")
	processCmd.Flags().Bool("dry-run", false, "Validate only, do not write any files")
	viper.BindPFlag("output.dir", processCmd.Flags().Lookup("output"))
	viper.BindPFlag("ingest.parallelism", processCmd.Flags().Lookup("parallelism"))
	viper.BindPFlag("ingest.compression", processCmd.Flags().Lookup("compression"))
	viper.BindPFlag("ingest.max-member-size", processCmd.Flags().Lookup("max-member-size"))
	viper.BindPFlag("process.yaml", processCmd.Flags().Lookup("yaml"))
	viper.BindPFlag("output.key", processCmd.Flags().Lookup("key"))
	viper.BindPFlag("process.timeout", processCmd.Flags().Lookup("timeout"))
	viper.BindPFlag("process.dry-run", processCmd.Flags().Lookup("dry-run"))

	processCmd.MarkZshCompPositionalArgumentFile(1, "*.zip")
	processCmd.ValidArgsFunction = func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return []string{"zip"}, cobra.ShellCompDirectiveFilterFileExt
	}
}

// processCmd represents the process command
var processCmd = &cobra.Command{
	Use:     "process <ZIP>",
	Aliases: []string{"p"},
	Short:   "Validate a map upload and write the normalized archive, cover and metadata",
	Example: heredoc.Doc(`
		# Validate and normalize a map into ./out
		❯ ingest process map.zip -o out

		# Only validate
		❯ ingest process map.zip --dry-run

		# Deflate the output archive and write YAML metadata
		❯ ingest process map.zip -c deflate --yaml`),
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {

		if Verbose {
			log.SetLevel(log.DebugLevel)
		}
		initColors()

		conf, err := config.LoadConfig()
		if err != nil {
			return err
		}
		if viper.GetBool("process.yaml") {
			conf.Output.Format = "yaml"
		}

		fPath := filepath.Clean(args[0])
		raw, err := os.ReadFile(fPath)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", fPath, err)
		}
		log.WithFields(log.Fields{
			"file": fPath,
			"size": humanize.Bytes(uint64(len(raw))),
		}).Info("Processing")

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		if timeout := viper.GetDuration("process.timeout"); timeout > 0 {
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}

		s := spinner.New(spinner.CharSets[38], 100*time.Millisecond, spinner.WithWriterFile(os.Stderr))
		s.Prefix = colors.Key().Sprint("   • Validating... ")
		if !Verbose {
			s.Start()
		}
		var res *ingest.Result
		err = ctrlc.Default.Run(ctx, func() error {
			var err error
			res, err = ingest.Process(ctx, raw,
				ingest.WithParallelism(conf.Ingest.Parallelism),
				ingest.WithCompression(conf.Compression()),
				ingest.WithMaxMemberSize(conf.MaxMemberSize()),
			)
			return err
		})
		s.Stop()
		if err != nil {
			var uerr *beatmap.UploadError
			if errors.As(err, &uerr) {
				return fmt.Errorf("%s %s (%#x): %v", colors.Reject().Sprint("rejected"), uerr.Kind.Name(), uerr.Kind.Code(), uerr)
			}
			return err
		}

		printSummary(res, conf.Output.Key)

		if viper.GetBool("process.dry-run") {
			return nil
		}
		return writeResult(res, conf)
	},
}

func printSummary(res *ingest.Result, key string) {
	meta := res.Parsed.Metadata
	fmt.Printf("%s  %s\n", colors.Key().Sprint("Hash:"), colors.Hash().Sprint(res.Parsed.Hash))
	fmt.Printf("%s  %s", colors.Key().Sprint("Song:"), meta.SongName)
	if meta.SongSubName != "" {
		fmt.Printf(" %s", meta.SongSubName)
	}
	fmt.Printf(" by %s\n", meta.SongAuthorName)
	fmt.Printf("%s %s\n", colors.Key().Sprint("Mapper:"), meta.LevelAuthorName)
	fmt.Printf("%s   %s\n", colors.Key().Sprint("BPM:"), humanize.Ftoa(meta.BPM))
	fmt.Printf("%s %s\n", colors.Key().Sprint("Tiers:"), strings.Join(tiers(meta.Difficulties), ", "))
	fmt.Printf("%s  %s\n", colors.Key().Sprint("Sets:"), strings.Join(meta.Characteristics, ", "))
	fmt.Printf("%s %s (%s), archive %s\n", colors.Key().Sprint("Cover:"), res.Parsed.CoverExt, humanize.Bytes(uint64(len(res.Cover))), humanize.Bytes(uint64(len(res.Archive))))
	if key != "" {
		fmt.Printf("%s %s, %s\n", colors.Key().Sprint("Objects:"), res.Parsed.ArchiveKey(key), res.Parsed.CoverKey(key))
	}
}

func tiers(d beatmap.Difficulties) []string {
	var out []string
	for _, t := range []struct {
		name string
		ok   bool
	}{
		{"Easy", d.Easy},
		{"Normal", d.Normal},
		{"Hard", d.Hard},
		{"Expert", d.Expert},
		{"ExpertPlus", d.ExpertPlus},
	} {
		if t.ok {
			out = append(out, t.name)
		}
	}
	if len(out) == 0 {
		return []string{"none"}
	}
	return out
}

func writeResult(res *ingest.Result, conf *config.Config) error {
	if err := os.MkdirAll(conf.Output.Dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output folder: %w", err)
	}

	var (
		meta []byte
		err  error
	)
	switch conf.Output.Format {
	case "yaml":
		meta, err = yaml.Marshal(res.Parsed)
	default:
		meta, err = json.MarshalIndent(res.Parsed, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}

	hash := res.Parsed.Hash
	for _, f := range []struct {
		name string
		data []byte
	}{
		{hash + ".zip", res.Archive},
		{hash + res.Parsed.CoverExt, res.Cover},
		{hash + "." + conf.Output.Format, meta},
	} {
		fname := filepath.Join(conf.Output.Dir, f.name)
		if err := os.WriteFile(fname, f.data, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", fname, err)
		}
		log.WithField("file", fname).Info("Created")
	}

	return nil
}
