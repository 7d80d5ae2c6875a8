package config

import (
	"qaconv/internal/format"
	"qaconv/internal/logging"
	"qaconv/internal/qa"
)

// Supported run modes.
const (
	ModeEncode = "encode"
	ModeCheck  = "check"
	ModeQA     = "qa"
)

// CurrentVersion is the only accepted config version.
const CurrentVersion = 1

// Normalize fills defaults for optional fields.
func Normalize(cfg *Config) {
	if cfg.Version == 0 {
		cfg.Version = CurrentVersion
	}
	if cfg.Mode == "" {
		cfg.Mode = ModeEncode
	}
	if len(cfg.Formats) == 0 {
		cfg.Formats = make([]string, 0, len(format.Derived))
		for _, f := range format.Derived {
			cfg.Formats = append(cfg.Formats, string(f))
		}
	}
	if cfg.Workers == 0 {
		cfg.Workers = 1
	}
	if cfg.QA.GoodScore == 0 {
		cfg.QA.GoodScore = qa.DefaultGoodScore
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = logging.FormatConsole
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
}

// Thresholds converts the QA section into grading thresholds.
func (cfg Config) Thresholds() qa.Thresholds {
	return qa.Thresholds{
		GoodScore:    cfg.QA.GoodScore,
		PerfectScore: cfg.QA.PerfectScore,
		MaxScore:     cfg.QA.MaxScore,
	}
}
