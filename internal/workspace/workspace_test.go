package workspace

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/bevzzz/cody/internal/items"
)

func newTestWorkspace(t *testing.T, files map[string]string) *Workspace {
	t.Helper()
	root := t.TempDir()
	for path, content := range files {
		full := filepath.Join(root, filepath.FromSlash(path))
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	w, err := New(root)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return w
}

func TestListFiles(t *testing.T) {
	w := newTestWorkspace(t, map[string]string{
		"main.go":           "package main\n",
		"src/util.go":       "package src\n",
		".git/config":       "ref\n",
		".cody/ignore.toml": "",
	})

	files, err := w.ListFiles(context.Background())
	if err != nil {
		t.Fatalf("ListFiles: %v", err)
	}
	sort.Strings(files)

	want := []string{"main.go", filepath.Join("src", "util.go")}
	if len(files) != len(want) {
		t.Fatalf("expected %v, got %v", want, files)
	}
	for i := range want {
		if files[i] != want[i] {
			t.Errorf("file %d: expected %q, got %q", i, want[i], files[i])
		}
	}
}

func TestListFilesHonorsCancellation(t *testing.T) {
	w := newTestWorkspace(t, map[string]string{"a/b.go": "x"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := w.ListFiles(ctx); err == nil {
		t.Error("expected error from cancelled listing")
	}
}

func TestTextFullAndRanged(t *testing.T) {
	w := newTestWorkspace(t, map[string]string{
		"doc.txt": "line0\nline1\nline2\nline3\n",
	})

	full, err := w.Text(context.Background(), "doc.txt", nil)
	if err != nil {
		t.Fatalf("Text: %v", err)
	}
	if full != "line0\nline1\nline2\nline3\n" {
		t.Errorf("unexpected full text %q", full)
	}

	rng := items.NewRange(1, 0, 3, 0)
	part, err := w.Text(context.Background(), "doc.txt", rng)
	if err != nil {
		t.Fatalf("Text ranged: %v", err)
	}
	if part != "line1\nline2" {
		t.Errorf("unexpected ranged text %q", part)
	}
}

func TestTextRangeClampsOutOfBounds(t *testing.T) {
	w := newTestWorkspace(t, map[string]string{"short.txt": "only\n"})

	rng := items.NewRange(0, 0, 100, 0)
	got, err := w.Text(context.Background(), "short.txt", rng)
	if err != nil {
		t.Fatalf("Text: %v", err)
	}
	if got != "only\n" {
		t.Errorf("unexpected clamped text %q", got)
	}
}

func TestStat(t *testing.T) {
	w := newTestWorkspace(t, map[string]string{"f.md": "# title\n"})

	info, err := w.Stat(context.Background(), "f.md")
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if info.Size() != int64(len("# title\n")) {
		t.Errorf("unexpected size %d", info.Size())
	}
	if !info.Mode().IsRegular() {
		t.Error("expected regular file")
	}
}
