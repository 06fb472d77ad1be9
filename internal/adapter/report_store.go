package adapter

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	m "github.com/platformbuild/analyze-bcpf/internal/model"
)

// ReportStore persists analysis results so successive runs of the tool can
// be compared after build or Android.bp changes.
type ReportStore interface {
	// Save writes the result for the named fragment into dir and returns
	// the path of the written report.
	Save(dir, bcpf string, result m.Result) (string, error)

	// Load reads a previously saved report.
	Load(path string) (m.Result, error)
}

// YAMLReportStore stores results as YAML files named after the fragment.
type YAMLReportStore struct{}

// NewReportStore constructs a YAMLReportStore.
func NewReportStore() *YAMLReportStore {
	return &YAMLReportStore{}
}

// Save writes the result as <dir>/<bcpf>.yaml, creating dir if needed.
func (s *YAMLReportStore) Save(dir, bcpf string, result m.Result) (string, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("create report dir: %w", err)
	}

	data, err := yaml.Marshal(result)
	if err != nil {
		return "", fmt.Errorf("marshal report: %w", err)
	}

	path := filepath.Join(dir, bcpf+".yaml")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}

	return path, nil
}

// Load reads a report written by Save.
func (s *YAMLReportStore) Load(path string) (m.Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return m.Result{}, fmt.Errorf("read report: %w", err)
	}

	var result m.Result
	if err := yaml.Unmarshal(data, &result); err != nil {
		return m.Result{}, fmt.Errorf("parse report %s: %w", path, err)
	}

	return result, nil
}
