package config

// Config describes one batch run over a dataset task directory.
type Config struct {
	Version   int       `yaml:"version" toml:"version" json:"version" validate:"eq=1"`
	BaseDir   string    `yaml:"base_dir" toml:"base_dir" json:"base_dir" validate:"required"`
	Dataset   string    `yaml:"dataset" toml:"dataset" json:"dataset" validate:"required"`
	Task      string    `yaml:"task" toml:"task" json:"task" validate:"required"`
	OutputDir string    `yaml:"output_dir,omitempty" toml:"output_dir,omitempty" json:"output_dir,omitempty"`
	Mode      string    `yaml:"mode,omitempty" toml:"mode,omitempty" json:"mode,omitempty" validate:"omitempty,oneof=encode check qa"`
	Formats   []string  `yaml:"formats,omitempty" toml:"formats,omitempty" json:"formats,omitempty" validate:"dive,required"`
	Markers   []string  `yaml:"markers,omitempty" toml:"markers,omitempty" json:"markers,omitempty" validate:"dive,required"`
	Workers   int       `yaml:"workers,omitempty" toml:"workers,omitempty" json:"workers,omitempty" validate:"gte=0,lte=64"`
	DryRun    bool      `yaml:"dry_run,omitempty" toml:"dry_run,omitempty" json:"dry_run,omitempty"`
	QA        QAConfig  `yaml:"qa,omitempty" toml:"qa,omitempty" json:"qa,omitempty"`
	Log       LogConfig `yaml:"log,omitempty" toml:"log,omitempty" json:"log,omitempty"`
}

// QAConfig holds the named score thresholds for QA validation.
type QAConfig struct {
	GoodScore    int `yaml:"good_score,omitempty" toml:"good_score,omitempty" json:"good_score,omitempty" validate:"gte=0"`
	PerfectScore int `yaml:"perfect_score,omitempty" toml:"perfect_score,omitempty" json:"perfect_score,omitempty" validate:"gte=0"`
	MaxScore     int `yaml:"max_score,omitempty" toml:"max_score,omitempty" json:"max_score,omitempty" validate:"gte=0"`
}

// LogConfig selects logger output.
type LogConfig struct {
	Format string `yaml:"format,omitempty" toml:"format,omitempty" json:"format,omitempty" validate:"omitempty,oneof=console json"`
	Level  string `yaml:"level,omitempty" toml:"level,omitempty" json:"level,omitempty" validate:"omitempty,oneof=debug info warn error"`
}
