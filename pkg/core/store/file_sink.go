package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"filing_extract/pkg/models"
)

// FileSink writes records as JSON files, one per key, for runs without a
// database. Writing the same key again overwrites the file.
type FileSink struct {
	dir string
}

// NewFileSink creates a sink in dir, defaulting to .cache/filing_extract
func NewFileSink(dir string) (*FileSink, error) {
	if dir == "" {
		dir = filepath.Join(".cache", "filing_extract", "records")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output dir %s: %w", dir, err)
	}
	return &FileSink{dir: dir}, nil
}

func (s *FileSink) path(key models.FilingKey) string {
	name := strings.Join([]string{key.CIK, key.FormType, key.PeriodEnding}, "_")
	name = strings.NewReplacer("/", "-", " ", "").Replace(name)
	return filepath.Join(s.dir, name+".json")
}

// Replace writes rec via a temp file and rename so readers never see a partial record
func (s *FileSink) Replace(_ context.Context, rec *models.FilingRecord) error {
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}
	path := s.path(rec.Key())
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}

// Load reads the record stored for key
func (s *FileSink) Load(key models.FilingKey) (*models.FilingRecord, error) {
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		return nil, err
	}
	var rec models.FilingRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal record: %w", err)
	}
	return &rec, nil
}

// UpdateOutstandingShares rewrites the stored record when shares differ
func (s *FileSink) UpdateOutstandingShares(ctx context.Context, key models.FilingKey, _ string, shares int64) (bool, error) {
	if shares == -1 {
		return false, nil
	}
	rec, err := s.Load(key)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if rec.OutstandingShares == shares {
		return false, nil
	}
	rec.OutstandingShares = shares
	return true, s.Replace(ctx, rec)
}
