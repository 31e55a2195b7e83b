package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"sctest/internal/domain"
)

// Save summarizes run and writes it to the JSON output file. The written
// output is returned so callers can render it without reading it back.
func (s *JSONStorage) Save(run *domain.RunResult) (*domain.TestResultsOutput, error) {
	output := domain.NewTestResultsOutput(run)
	if err := s.SaveOutput(output); err != nil {
		return nil, err
	}
	return output, nil
}

// Load reads the last test results from the JSON output file.
func (s *JSONStorage) Load() (*domain.TestResultsOutput, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read results file: %w", err)
	}
	var output domain.TestResultsOutput
	if err := json.Unmarshal(data, &output); err != nil {
		return nil, fmt.Errorf("parse results: %w", err)
	}
	return &output, nil
}

// SaveOutput writes the full output to the JSON file.
func (s *JSONStorage) SaveOutput(output *domain.TestResultsOutput) error {
	data, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal results: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("write results: %w", err)
	}
	return nil
}
