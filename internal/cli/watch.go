package cli

import (
	"flag"
	"fmt"
	"io"

	"qaconv/internal/batch"
	"qaconv/internal/config"
	"qaconv/internal/watch"
)

// runWatch builds the handler for the watch command.
func runWatch(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
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

		cfg, err := flags.loadConfig(fs, config.ModeEncode)
		if err != nil {
			fmt.Fprintf(stderr, "Failed to load config:\n%v\n", err)
			return ExitError
		}
		logger, err := newLogger(cfg, flags.verbose, false, stderr)
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
		driver, err := batch.New(driverCfg, batch.WithLogger(logger))
		if err != nil {
			fmt.Fprintf(stderr, "Invalid config: %v\n", err)
			return ExitError
		}

		ctx, cancel := signalContext()
		defer cancel()

		summary, err := driver.Run(ctx)
		if err != nil && summary.RunID == "" {
			fmt.Fprintf(stderr, "Initial run failed: %v\n", err)
			return ExitError
		}
		printSummary(stdout, summary, false)

		watcher, err := watch.New(driver,
			watch.WithLogger(logger),
			watch.WithResultHandler(func(result batch.FileResult) {
				printResult(stdout, result)
			}))
		if err != nil {
			fmt.Fprintf(stderr, "Watch failed: %v\n", err)
			return ExitError
		}
		fmt.Fprintf(stdout, "Watching %s (Ctrl+C to stop)\n", cfg.CaseDir())
		if err := watcher.Run(ctx); err != nil {
			fmt.Fprintf(stderr, "Watch failed: %v\n", err)
			return ExitError
		}
		return ExitOK
	}
}

// printResult writes one line for a watched file.
func printResult(w io.Writer, result batch.FileResult) {
	if result.Err != nil {
		fmt.Fprintf(w, "%s: %s\n", result.Path, result.Reason())
		return
	}
	fmt.Fprintf(w, "%s: %s\n", result.Path, result.Outcome)
}
