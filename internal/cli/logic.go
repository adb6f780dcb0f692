package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/idelchi/dirsize/internal/dirstat"
	"github.com/idelchi/dirsize/internal/report"
)

// ErrInterrupted is returned when the scan was cancelled before completion.
var ErrInterrupted = errors.New("scan interrupted, results are partial")

// newLogger creates the stderr logger: debug with --debug, info with --verbose, warn otherwise.
func newLogger(cmd *cobra.Command, s settings) *slog.Logger {
	level := slog.LevelWarn

	switch {
	case s.debug:
		level = slog.LevelDebug
	case s.options.Verbose:
		level = slog.LevelInfo
	}

	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
}

// showProgress reports whether the status line can be drawn.
func showProgress(cmd *cobra.Command, s settings, paths bool) bool {
	if paths || s.debug || s.options.Format == dirstat.FormatJSON {
		return false
	}

	file, ok := cmd.ErrOrStderr().(*os.File)

	return ok && isatty.IsTerminal(file.Fd())
}

func run(ctx context.Context, cmd *cobra.Command, s settings, paths bool) error {
	logger := newLogger(cmd, s)

	options := []dirstat.Option{dirstat.WithLogger(logger)}

	printer := progressPrinter{w: cmd.ErrOrStderr()}

	enableProgress := showProgress(cmd, s, paths)
	if enableProgress {
		options = append(options, dirstat.WithProgress(printer.update))
	}

	scanner, err := dirstat.New(s.options, options...)
	if err != nil {
		return err
	}

	if enableProgress {
		printer.start()
	}

	outcome, err := scanner.Run(ctx)

	if enableProgress {
		printer.stop()
	}

	if err != nil {
		return fmt.Errorf("scanning: %w", err)
	}

	out := cmd.OutOrStdout()

	if paths {
		if err := report.WritePaths(out, outcome); err != nil {
			return fmt.Errorf("printing paths: %w", err)
		}
	} else if err := report.PrintSummary(out, outcome); err != nil {
		return fmt.Errorf("printing summary: %w", err)
	}

	if err := report.WriteFile(outcome); err != nil {
		return err
	}

	logger.InfoContext(ctx, "results written", "path", outcome.Options.OutputFile, "format", outcome.Options.Format)

	if outcome.ErrorCount > 0 {
		logger.InfoContext(ctx, "inaccessible directories logged", "path", outcome.Options.ErrorLog, "count", outcome.ErrorCount)
	}

	if outcome.Interrupted {
		return ErrInterrupted
	}

	return nil
}
