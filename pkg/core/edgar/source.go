package edgar

import (
	"crypto/md5"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// FilingSource provides file-based access to downloaded submissions.
// Files are laid out as <root>/<cik>/<form>/<accession>.txt.
type FilingSource struct {
	root string
}

// NewFilingSource creates a source rooted at dir
func NewFilingSource(dir string) *FilingSource {
	return &FilingSource{root: dir}
}

// Read returns the raw submission text
func (s *FilingSource) Read(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read filing %s: %w", path, err)
	}
	return string(data), nil
}

// Walk lists the .txt submissions below the root whose path names one of
// forms, sorted by path. max < 0 means no limit.
func (s *FilingSource) Walk(forms []string, max int) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(path), ".txt") {
			return nil
		}
		if len(forms) > 0 && !FormIsInFileName(forms, path) {
			return nil
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", s.root, err)
	}

	sort.Strings(paths)
	if max >= 0 && len(paths) > max {
		paths = paths[:max]
	}
	return paths, nil
}

// ContentHash returns MD5 hash of content for verification
func ContentHash(content string) string {
	return fmt.Sprintf("%x", md5.Sum([]byte(content)))
}
