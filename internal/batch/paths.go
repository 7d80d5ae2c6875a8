package batch

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"qaconv/internal/format"
	"qaconv/internal/qa"
	"qaconv/internal/record"
)

// CaseDir returns BaseDir/Dataset/Task.
func (c Config) CaseDir() string {
	return filepath.Join(c.BaseDir, c.Dataset, c.Task)
}

// ResolvedOutputDir returns OutputDir or the case directory.
func (c Config) ResolvedOutputDir() string {
	if strings.TrimSpace(c.OutputDir) == "" {
		return c.CaseDir()
	}
	return c.OutputDir
}

// OutputPath returns <output dir>/<case id>.<ext>.
func (c Config) OutputPath(caseID string, f format.Format) string {
	return filepath.Join(c.ResolvedOutputDir(), caseID+f.Extension())
}

// QAPath returns the QA score file for a case.
func (c Config) QAPath(caseID string) string {
	return filepath.Join(c.CaseDir(), caseID+qa.FileSuffix)
}

// IsCaseFile reports whether a file name is a canonical case JSON file.
func IsCaseFile(name string) bool {
	lower := strings.ToLower(name)
	return strings.HasSuffix(lower, ".json") && !strings.HasSuffix(lower, qa.FileSuffix)
}

// Discover lists canonical case files in dir, sorted by name.
func Discover(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read case dir: %w", err)
	}
	files := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !IsCaseFile(entry.Name()) {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(files)
	return files, nil
}

// checkDisjointOutputs rejects configurations where two case files share an output path.
func checkDisjointOutputs(cfg Config, files []string) error {
	seen := make(map[string]string, len(files))
	for _, path := range files {
		caseID := record.CaseID(path)
		for _, f := range cfg.Formats {
			out := cfg.OutputPath(caseID, f)
			if prior, ok := seen[out]; ok {
				return fmt.Errorf("%s and %s both write %s", prior, path, out)
			}
			seen[out] = path
		}
	}
	return nil
}
