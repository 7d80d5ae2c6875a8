package cli

import (
	"flag"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"qaconv/internal/config"
)

// batchFlags holds the options shared by the batch commands.
type batchFlags struct {
	configPath string
	baseDir    string
	dataset    string
	task       string
	outputDir  string
	formats    string
	markers    string
	workers    int
	goodScore  int
	maxScore   int
	uiMode     string
	logFormat  string
	noColor    bool
	verbose    bool
	dryRun     bool
}

func bindBatchFlags(fs *flag.FlagSet) *batchFlags {
	f := &batchFlags{}
	fs.StringVar(&f.configPath, "config", "", "Path to qaconv config (default: search for qaconv.yml)")
	fs.StringVar(&f.baseDir, "base-dir", "", "Base directory holding datasets")
	fs.StringVar(&f.dataset, "dataset", "", "Dataset name")
	fs.StringVar(&f.task, "task", "", "Task name")
	fs.StringVar(&f.outputDir, "output-dir", "", "Output directory (default: case directory)")
	fs.StringVar(&f.formats, "formats", "", "Comma-separated output formats (json,xml,html,ttl,txt)")
	fs.StringVar(&f.markers, "markers", "", "Comma-separated checker markers replacing the defaults")
	fs.IntVar(&f.workers, "workers", 0, "Files processed concurrently")
	fs.IntVar(&f.goodScore, "good-score", 0, "Minimum QA score counted as good")
	fs.IntVar(&f.maxScore, "max-score", 0, "Top of the QA score scale")
	fs.StringVar(&f.uiMode, "ui", "auto", "Console UI mode: auto|live|plain")
	fs.StringVar(&f.logFormat, "log-format", "", "Log format: console|json")
	fs.BoolVar(&f.noColor, "no-color", false, "Disable colors in console output")
	fs.BoolVar(&f.verbose, "verbose", false, "Enable debug logging")
	fs.BoolVar(&f.dryRun, "dry-run", false, "Report changes without writing files")
	return f
}

// parseFlags parses args, printing usage on errors.
func parseFlags(cmd *Command, fs *flag.FlagSet, args []string, stdout, stderr io.Writer) (int, bool) {
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			printCommandUsage(cmd, stdout)
			return ExitOK, false
		}
		fmt.Fprintf(stderr, "invalid arguments: %v\n", err)
		printCommandUsage(cmd, stderr)
		return ExitUsage, false
	}
	if fs.NArg() > 0 {
		fmt.Fprintf(stderr, "unexpected arguments: %s\n", strings.Join(fs.Args(), " "))
		printCommandUsage(cmd, stderr)
		return ExitUsage, false
	}
	return ExitOK, true
}

// loadConfig reads the config file if any, applies explicitly set flags,
// then normalizes and validates the result.
func (f *batchFlags) loadConfig(fs *flag.FlagSet, mode string) (config.Config, error) {
	var cfg config.Config
	path, err := resolveConfigPath(f.configPath)
	if err != nil {
		return config.Config{}, err
	}
	if path != "" {
		cfg, err = config.Read(path)
		if err != nil {
			return config.Config{}, err
		}
	}

	set := map[string]bool{}
	fs.Visit(func(fl *flag.Flag) { set[fl.Name] = true })
	if set["base-dir"] {
		abs, err := filepath.Abs(f.baseDir)
		if err != nil {
			return config.Config{}, fmt.Errorf("resolve base dir: %w", err)
		}
		cfg.BaseDir = abs
	}
	if set["dataset"] {
		cfg.Dataset = f.dataset
	}
	if set["task"] {
		cfg.Task = f.task
	}
	if set["output-dir"] {
		cfg.OutputDir = f.outputDir
	}
	if set["formats"] {
		cfg.Formats = splitList(f.formats)
	}
	if set["markers"] {
		cfg.Markers = splitList(f.markers)
	}
	if set["workers"] {
		cfg.Workers = f.workers
	}
	if set["good-score"] {
		cfg.QA.GoodScore = f.goodScore
	}
	if set["max-score"] {
		cfg.QA.MaxScore = f.maxScore
	}
	if set["log-format"] {
		cfg.Log.Format = f.logFormat
	}
	if set["dry-run"] {
		cfg.DryRun = f.dryRun
	}
	if mode != "" {
		cfg.Mode = mode
	}

	config.Normalize(&cfg)
	if err := config.Validate(&cfg); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
