package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"qaconv/internal/config"
)

// resolveConfigPath normalizes a config path or finds one from CWD. An
// empty result means no config file is in use.
func resolveConfigPath(configPath string) (string, error) {
	if strings.TrimSpace(configPath) == "" {
		return config.FindConfigPath("")
	}
	abs, err := filepath.Abs(configPath)
	if err != nil {
		return "", fmt.Errorf("resolve config path: %w", err)
	}
	return abs, nil
}
