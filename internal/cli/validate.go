package cli

import (
	"flag"
	"fmt"
	"io"

	"qaconv/internal/batch"
	"qaconv/internal/record"
)

// runValidate builds the handler for the validate command.
func runValidate(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
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

		cfg, err := flags.loadConfig(fs, "")
		if err != nil {
			fmt.Fprintf(stderr, "Validation failed:\n%v\n", err)
			return ExitError
		}
		fmt.Fprintln(stdout, "Config OK")

		files, err := batch.Discover(cfg.CaseDir())
		if err != nil {
			fmt.Fprintf(stderr, "Validation failed:\n%v\n", err)
			return ExitError
		}
		failed := 0
		for _, path := range files {
			if _, err := record.LoadFile(path); err != nil {
				failed++
				fmt.Fprintf(stderr, "%s: %v\n", path, err)
			}
		}
		fmt.Fprintf(stdout, "Cases: %d Valid: %d Invalid: %d\n", len(files), len(files)-failed, failed)
		if failed > 0 {
			return ExitError
		}
		return ExitOK
	}
}
