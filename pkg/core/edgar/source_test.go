package edgar

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFilingSource_Walk(t *testing.T) {
	root := t.TempDir()
	files := []string{
		"320193/10-Q/b.txt",
		"320193/10-Q/a.txt",
		"320193/10-K/c.txt",
		"320193/8-K/d.txt",
		"320193/10-Q/notes.md",
	}
	for _, f := range files {
		path := filepath.Join(root, f)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(f), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	src := NewFilingSource(root)
	paths, err := src.Walk([]string{"10-Q"}, -1)
	if err != nil {
		t.Fatalf("Walk() error = %v", err)
	}
	want := []string{
		filepath.Join(root, "320193/10-Q/a.txt"),
		filepath.Join(root, "320193/10-Q/b.txt"),
	}
	if len(paths) != len(want) {
		t.Fatalf("Walk() = %v, want %v", paths, want)
	}
	for i := range want {
		if paths[i] != want[i] {
			t.Errorf("Walk()[%d] = %s, want %s", i, paths[i], want[i])
		}
	}

	limited, _ := src.Walk([]string{"10-Q", "10-K"}, 1)
	if len(limited) != 1 {
		t.Errorf("Walk() with max 1 returned %d paths", len(limited))
	}

	text, err := src.Read(want[0])
	if err != nil || text != "320193/10-Q/a.txt" {
		t.Errorf("Read() = %q, %v", text, err)
	}
	if _, err := src.Read(filepath.Join(root, "missing.txt")); err == nil {
		t.Errorf("Read() of a missing file should fail")
	}
}
