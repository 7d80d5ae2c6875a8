package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Default config file names searched in order.
var ConfigFileNames = []string{"qaconv.yml", "qaconv.yaml", "qaconv.toml", "qaconv.json"}

// CaseDir returns BaseDir/Dataset/Task.
func (cfg Config) CaseDir() string {
	return filepath.Join(cfg.BaseDir, cfg.Dataset, cfg.Task)
}

// ResolvedOutputDir returns OutputDir, falling back to the case directory.
func (cfg Config) ResolvedOutputDir() string {
	if strings.TrimSpace(cfg.OutputDir) == "" {
		return cfg.CaseDir()
	}
	return cfg.OutputDir
}

// FindConfigPath searches upward from a directory for a config file.
// It returns an empty path without error when none exists.
func FindConfigPath(startDir string) (string, error) {
	dir := strings.TrimSpace(startDir)
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("get working directory: %w", err)
		}
		dir = wd
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolve start directory: %w", err)
	}
	dir = abs

	for {
		for _, name := range ConfigFileNames {
			candidate := filepath.Join(dir, name)
			info, err := os.Stat(candidate)
			if err == nil {
				if info.IsDir() {
					return "", fmt.Errorf("config path %q is a directory", candidate)
				}
				return candidate, nil
			}
			if !os.IsNotExist(err) {
				return "", fmt.Errorf("stat config path %q: %w", candidate, err)
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}
