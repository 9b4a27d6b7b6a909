package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"bb84/internal/domain"
)

const reportExt = ".json"

// ErrBadName is returned for report names that are empty or contain a path.
var ErrBadName = errors.New("store: invalid report name")

// ReportFileStore keeps simulation reports as JSON files in dir.
type ReportFileStore struct {
	dir string
	mu  sync.Mutex
}

// NewReportFileStore returns a ReportFileStore rooted at dir.
func NewReportFileStore(dir string) *ReportFileStore {
	return &ReportFileStore{dir: dir}
}

// SaveReport writes result under name and returns the file path. An existing
// report with the same name is replaced.
func (s *ReportFileStore) SaveReport(name string, result domain.SimulationResult) (string, error) {
	path, err := s.path(name)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", err
	}
	if err := writeJSON(path, result, 0o644); err != nil {
		return "", fmt.Errorf("save report %s: %w", name, err)
	}
	return path, nil
}

// LoadReport reads the report called name. A missing report is not an error.
func (s *ReportFileStore) LoadReport(name string) (domain.SimulationResult, bool, error) {
	path, err := s.path(name)
	if err != nil {
		return domain.SimulationResult{}, false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var out domain.SimulationResult
	ok, err := readJSON(path, &out)
	if err != nil {
		return domain.SimulationResult{}, false, fmt.Errorf("load report %s: %w", name, err)
	}
	if !ok {
		return domain.SimulationResult{}, false, nil
	}
	return out, true, nil
}

func (s *ReportFileStore) path(name string) (string, error) {
	name = strings.TrimSuffix(name, reportExt)
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return "", fmt.Errorf("%w: %q", ErrBadName, name)
	}
	return filepath.Join(s.dir, name+reportExt), nil
}

// Compile-time assertion that ReportFileStore implements domain.ReportStore.
var _ domain.ReportStore = (*ReportFileStore)(nil)
