package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"qaconv/internal/batch"
	"qaconv/internal/config"
	"qaconv/internal/logging"
	"qaconv/internal/ui/live"
)

// signalContext is replaced in tests.
var signalContext = func() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

// startLiveUI is replaced in tests.
var startLiveUI = func(stdout io.Writer, opts live.Options) liveUI {
	return live.Start(stdout, opts)
}

// liveUI is the part of the live controller the CLI drives.
type liveUI interface {
	batch.Observer
	Close()
	Wait()
}

// runBatch builds the handler for a batch command running in mode.
func runBatch(mode string) func(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
		return func(args []string, stdout, stderr io.Writer) int {
			if wantsHelp(args) {
				printCommandUsage(cmd, stdout)
				return ExitOK
			}
			fs := flag.NewFlagSet(cmd.Name, flag.ContinueOnError)
			fs.SetOutput(stderr)
			flags := bindBatchFlags(fs)
			if code, ok := parseFlags(cmd, fs, args, stdout, stderr); !ok {
				return code
			}

			requested, err := parseUIMode(flags.uiMode)
			if err != nil {
				fmt.Fprintf(stderr, "%v\n", err)
				return ExitUsage
			}

			cfg, err := flags.loadConfig(fs, mode)
			if err != nil {
				fmt.Fprintf(stderr, "Failed to load config:\n%v\n", err)
				return ExitError
			}
			decision := resolveUIMode(requested, uiInputs{
				verbose:  flags.verbose,
				jsonLogs: cfg.Log.Format == logging.FormatJSON,
			}, stdout)
			if decision.warning != "" {
				fmt.Fprintln(stderr, decision.warning)
			}
			logger, err := newLogger(cfg, flags.verbose, decision.live, stderr)
			if err != nil {
				fmt.Fprintf(stderr, "Failed to create logger: %v\n", err)
				return ExitError
			}
			defer func() { _ = logger.Sync() }()

			driverCfg, err := batch.FromConfig(cfg)
			if err != nil {
				fmt.Fprintf(stderr, "Invalid config: %v\n", err)
				return ExitError
			}
			ctx, cancel := signalContext()
			defer cancel()

			opts := []batch.Option{batch.WithLogger(logger)}
			var ui liveUI
			if decision.live {
				ui = startLiveUI(stdout, live.Options{NoColor: flags.noColor, Mode: cfg.Mode, OnInterrupt: cancel})
				opts = append(opts, batch.WithObserver(ui))
			}
			driver, err := batch.New(driverCfg, opts...)
			if err != nil {
				if ui != nil {
					ui.Close()
					ui.Wait()
				}
				fmt.Fprintf(stderr, "Invalid config: %v\n", err)
				return ExitError
			}

			summary, runErr := driver.Run(ctx)
			if ui != nil {
				ui.Close()
				ui.Wait()
			}
			if runErr != nil && summary.RunID == "" {
				fmt.Fprintf(stderr, "Run failed: %v\n", runErr)
				return ExitError
			}

			printSummary(stdout, summary, !flags.noColor && isTerminal(stdout))
			if runErr != nil {
				fmt.Fprintf(stderr, "Run interrupted: %v\n", runErr)
				return ExitError
			}
			if !summary.OK() {
				return ExitError
			}
			return ExitOK
		}
	}
}

func newLogger(cfg config.Config, verbose, useLive bool, stderr io.Writer) (*zap.Logger, error) {
	if useLive {
		return logging.Nop(), nil
	}
	return logging.New(logging.Options{
		Format:  cfg.Log.Format,
		Level:   cfg.Log.Level,
		Verbose: verbose,
		Writer:  stderr,
	})
}

// printSummary writes the totals line followed by one line per failure.
func printSummary(w io.Writer, summary batch.Summary, color bool) {
	line := fmt.Sprintf("Processed: %d Changed: %d Unchanged: %d Errored: %d Mismatched: %d",
		summary.Processed, summary.Changed, summary.Unchanged, summary.Errored, summary.Mismatched)
	if color {
		style := lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
		if !summary.OK() {
			style = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
		}
		line = style.Render(line)
	}
	fmt.Fprintln(w, line)
	if summary.Mode == batch.ModeQA {
		fmt.Fprintf(w, "QA pairs: %d Perfect: %d Good: %d Below: %d Invalid: %d\n",
			summary.QA.Pairs, summary.QA.Perfect, summary.QA.Good, summary.QA.Below, summary.QA.Invalid)
	}
	for _, failure := range summary.Failures {
		fmt.Fprintf(w, "%s: %s\n", failure.Path, failure.Reason)
	}
}
