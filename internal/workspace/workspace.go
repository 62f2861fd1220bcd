// Package workspace implements the editor collaborator contracts against a
// plain directory tree, for headless CLI use.
package workspace

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bevzzz/cody/internal/items"
)

// Workspace serves file listings and text from a directory root.
type Workspace struct {
	root string
}

// New creates a workspace rooted at dir.
func New(dir string) (*Workspace, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve workspace root: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("failed to stat workspace root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("workspace root %s is not a directory", abs)
	}
	return &Workspace{root: abs}, nil
}

// Root returns the absolute workspace root.
func (w *Workspace) Root() string {
	return w.root
}

// skippedDirs are never descended into during a listing sweep.
var skippedDirs = map[string]bool{
	".git":   true,
	".cody":  true,
	".hg":    true,
	".svn":   true,
	".cache": true,
}

// ListFiles walks the tree and returns workspace-relative paths of regular
// files. The walk checks ctx between directories so a superseded sweep stops
// early.
func (w *Workspace) ListFiles(ctx context.Context) ([]string, error) {
	var files []string
	err := filepath.WalkDir(w.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable entries are skipped, not fatal.
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if err := ctx.Err(); err != nil {
				return err
			}
			if skippedDirs[d.Name()] && path != w.root {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(w.root, path)
		if err != nil {
			return nil
		}
		files = append(files, rel)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

// Text reads a file, optionally sliced to a line range.
func (w *Workspace) Text(ctx context.Context, uri string, rng *items.Range) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	data, err := os.ReadFile(w.resolve(uri))
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", uri, err)
	}
	return items.SliceLines(string(data), rng), nil
}

// Stat reports size and mode for a workspace file.
func (w *Workspace) Stat(ctx context.Context, uri string) (os.FileInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return os.Stat(w.resolve(uri))
}

func (w *Workspace) resolve(uri string) string {
	p := strings.TrimPrefix(uri, "/")
	if filepath.IsAbs(uri) {
		return uri
	}
	return filepath.Join(w.root, filepath.FromSlash(p))
}
