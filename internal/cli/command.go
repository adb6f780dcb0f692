package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/idelchi/dirsize/internal/dirstat"
	"github.com/idelchi/dirsize/internal/integration"
)

// CLI represents the command-line interface.
type CLI struct {
	version string
}

// New creates a new CLI instance with the given version.
func New(version string) CLI {
	return CLI{version: version}
}

// flags holds the command-line switches that are not part of the configuration.
type flags struct {
	config string
	init   bool
	paths  bool
}

// Execute runs the CLI. An interrupt cancels the scan; the partial report
// is still written and an error is returned.
func (c CLI) Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return c.Command().ExecuteContext(ctx)
}

// Command builds the root command.
func (c CLI) Command() *cobra.Command {
	var f flags

	cfg := newConfig()

	cmd := &cobra.Command{
		Use:   "dirsize [flags] [path]",
		Short: "Rank directories by the size of the files they hold directly",
		Long: heredoc.Doc(`
			dirsize finds the directories holding the most data directly,
			not counting their subdirectories, and breaks the content down by type.

			The path defaults to the current directory. The results of the scan are
			written to the output file in text, csv or json format, and directories
			that could not be read are listed in the access log.

			Settings can also be given in a config file, by default
			$HOME/.config/dirsize/config.yaml or ./.dirsize.yaml, or as environment
			variables prefixed with DIRSIZE_ (for example DIRSIZE_MIN_SIZE=10MB).
			Custom content categories are read from the 'categories' section:

			  categories:
			    raw_photos: [.cr2, .nef]

			The '--init' flag prints a zsh function that pipes '--paths' to 'fzf'
			and changes into the selected directory.
		`),
		Example: heredoc.Doc(`
			dirsize ~/Downloads
			dirsize --min-size 100MB --top 20 --format json -o sizes.json /data
			dirsize --ext .jpg,.png --hidden ~
		`),
		Version:       c.version,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if f.init {
				rendered, err := integration.Render()
				if err != nil {
					return fmt.Errorf("rendering integration script: %w", err)
				}

				fmt.Fprintln(cmd.OutOrStdout(), rendered)

				return nil
			}

			if err := cfg.load(f.config); err != nil {
				return err
			}

			path := "."
			if len(args) > 0 {
				path = args[0]
			}

			settings, err := cfg.settings(path)
			if err != nil {
				return err
			}

			return run(cmd.Context(), cmd, settings, f.paths)
		},
	}

	fs := cmd.Flags()
	fs.SortFlags = false

	fs.StringP("output-file", "o", dirstat.DefaultOutputFile, "File the full results are written to")
	fs.IntP("top", "t", dirstat.DefaultTopN, "Number of top directories to display")
	fs.Bool("hidden", false, "Include hidden directories")
	fs.String("min-size", "0", "Minimum direct size of a reported directory (e.g. 10MB; plain numbers are megabytes)")
	fs.StringP("format", "f", dirstat.FormatText, fmt.Sprintf("Results file format, one of %v", dirstat.Formats))
	fs.StringSliceP("ext", "x", nil, "Only count files with these extensions (e.g. .pdf,.txt)")
	fs.String("no-access-log", dirstat.DefaultErrorLog, "File inaccessible directories are logged to")
	fs.IntP("workers", "w", dirstat.DefaultWorkers, "Number of concurrent workers (1 scans sequentially)")
	fs.Bool("sequential", false, "Scan directories one at a time")
	fs.BoolP("verbose", "v", false, "Show individual access errors and progress messages")
	fs.Bool("debug", false, "Enable debug logging")
	fs.Bool("sniff-mime", false, "Detect MIME types from file content")

	fs.BoolVar(&f.paths, "paths", false, "Print only the paths of the top directories")
	fs.BoolVarP(&f.init, "init", "i", false, "Output init script for shell usage")
	fs.StringVar(&f.config, "config", "", "Config file (default $HOME/.config/dirsize/config.yaml or ./.dirsize.yaml)")

	cobra.CheckErr(cfg.bind(fs))

	return cmd
}
