package batch

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"qaconv/internal/config"
	"qaconv/internal/format"
)

// Driver walks one case directory and applies the configured mode to each file.
type Driver struct {
	cfg      Config
	logger   *zap.Logger
	observer Observer
	newRunID func() (string, error)
}

// Option customizes a Driver.
type Option func(*Driver)

// WithLogger sets the logger for per-file events.
func WithLogger(logger *zap.Logger) Option {
	return func(d *Driver) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// WithObserver sets the observer for run events.
func WithObserver(observer Observer) Option {
	return func(d *Driver) {
		if observer != nil {
			d.observer = observer
		}
	}
}

// WithRunIDFunc overrides run id generation.
func WithRunIDFunc(fn func() (string, error)) Option {
	return func(d *Driver) {
		if fn != nil {
			d.newRunID = fn
		}
	}
}

// New validates cfg and returns a driver.
func New(cfg Config, opts ...Option) (*Driver, error) {
	if strings.TrimSpace(cfg.BaseDir) == "" || strings.TrimSpace(cfg.Dataset) == "" || strings.TrimSpace(cfg.Task) == "" {
		return nil, fmt.Errorf("base dir, dataset, and task are required")
	}
	switch cfg.Mode {
	case "":
		cfg.Mode = ModeEncode
	case ModeEncode, ModeCheck, ModeQA:
	default:
		return nil, fmt.Errorf("unsupported mode %q", cfg.Mode)
	}
	if len(cfg.Formats) == 0 {
		cfg.Formats = append([]format.Format(nil), format.Derived...)
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	d := &Driver{
		cfg:      cfg,
		logger:   zap.NewNop(),
		observer: nopObserver{},
		newRunID: NewRunID,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// FromConfig converts a loaded config file into a driver config.
func FromConfig(cfg config.Config) (Config, error) {
	formats, err := format.ParseFormats(cfg.Formats)
	if err != nil {
		return Config{}, err
	}
	return Config{
		BaseDir:   cfg.BaseDir,
		Dataset:   cfg.Dataset,
		Task:      cfg.Task,
		OutputDir: cfg.OutputDir,
		Formats:   formats,
		Mode:      Mode(cfg.Mode),
		Markers:   cfg.Markers,
		Workers:   cfg.Workers,
		DryRun:    cfg.DryRun,
		QA:        cfg.Thresholds(),
	}, nil
}

// Config returns the effective driver configuration.
func (d *Driver) Config() Config {
	return d.cfg
}

// Run processes every case file. Per-file failures are tallied, never
// returned; the error result is reserved for setup failures and cancellation.
func (d *Driver) Run(ctx context.Context) (Summary, error) {
	runID, err := d.newRunID()
	if err != nil {
		return Summary{}, err
	}
	files, err := Discover(d.cfg.CaseDir())
	if err != nil {
		return Summary{}, err
	}
	if d.cfg.Mode == ModeEncode {
		if err := checkDisjointOutputs(d.cfg, files); err != nil {
			return Summary{}, err
		}
	}

	d.logger.Info("batch run started",
		zap.String("run_id", runID),
		zap.String("mode", string(d.cfg.Mode)),
		zap.String("case_dir", d.cfg.CaseDir()),
		zap.Int("files", len(files)))

	var mu sync.Mutex
	d.observer.OnRunStart(runID, d.cfg.CaseDir(), files)

	results := make([]FileResult, len(files))
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(d.cfg.Workers)
	for index, path := range files {
		index, path := index, path
		group.Go(func() error {
			mu.Lock()
			d.observer.OnFileStart(path)
			mu.Unlock()

			result := d.ProcessFile(groupCtx, path)
			d.logResult(result)

			mu.Lock()
			results[index] = result
			d.observer.OnFileDone(result)
			mu.Unlock()
			return nil
		})
	}
	_ = group.Wait()

	summary := summarize(runID, d.cfg.Mode, results)
	d.observer.OnRunEnd(summary)
	d.logger.Info("batch run finished",
		zap.String("run_id", runID),
		zap.Int("processed", summary.Processed),
		zap.Int("changed", summary.Changed),
		zap.Int("errored", summary.Errored),
		zap.Int("mismatched", summary.Mismatched))
	return summary, ctx.Err()
}

func (d *Driver) logResult(result FileResult) {
	switch result.Outcome {
	case OutcomeError:
		d.logger.Warn("file failed", zap.String("file", result.Path), zap.Error(result.Err))
	case OutcomeMismatch:
		d.logger.Warn("file mismatched", zap.String("file", result.Path), zap.Error(result.Err))
	default:
		d.logger.Debug("file processed",
			zap.String("file", result.Path),
			zap.String("outcome", string(result.Outcome)),
			zap.Strings("written", result.Written))
	}
}
