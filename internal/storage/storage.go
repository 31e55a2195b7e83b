package storage

import (
	"sctest/internal/domain"
)

// Storage persists and loads test run results (e.g. for the faills viewer).
type Storage interface {
	Save(run *domain.RunResult) (*domain.TestResultsOutput, error)
	Load() (*domain.TestResultsOutput, error)
	// SaveOutput writes the full output (e.g. after resolved flags change).
	SaveOutput(output *domain.TestResultsOutput) error
}

// JSONStorage stores results in a single JSON file.
type JSONStorage struct {
	path string
}

// NewJSONStorage returns a Storage that reads/writes the JSON file at path.
func NewJSONStorage(path string) *JSONStorage {
	return &JSONStorage{path: path}
}

// Path returns the results file location.
func (s *JSONStorage) Path() string {
	return s.path
}
