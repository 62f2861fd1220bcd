// Package policy decides which paths and repositories may ever reach a
// prompt. Rules come from .cody/ignore.toml; the zero-value policy allows
// everything.
package policy

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/pelletier/go-toml/v2"
)

// File is the on-disk rule declaration.
type File struct {
	// PathPatterns are doublestar globs matched against workspace-relative
	// paths. A match excludes the file.
	PathPatterns []string `toml:"paths"`

	// Repositories are remote repository names excluded wholesale.
	Repositories []string `toml:"repositories"`
}

// Policy evaluates ignore rules. Safe for concurrent use.
type Policy struct {
	mu           sync.RWMutex
	patterns     []string
	repositories map[string]bool
}

// New creates a policy from explicit rules.
func New(patterns, repositories []string) (*Policy, error) {
	for _, p := range patterns {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("invalid ignore pattern %q", p)
		}
	}
	repos := make(map[string]bool, len(repositories))
	for _, r := range repositories {
		repos[r] = true
	}
	return &Policy{patterns: patterns, repositories: repos}, nil
}

// Load reads rules from <root>/.cody/ignore.toml. A missing file means an
// allow-everything policy.
func Load(root string) (*Policy, error) {
	path := filepath.Join(root, ".cody", "ignore.toml")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return New(nil, nil)
		}
		return nil, fmt.Errorf("failed to read ignore rules: %w", err)
	}

	var file File
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse ignore rules: %w", err)
	}
	return New(file.PathPatterns, file.Repositories)
}

// IsPathIgnored reports whether a workspace-relative path is excluded.
func (p *Policy) IsPathIgnored(ctx context.Context, uri string) (bool, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	rel := filepath.ToSlash(strings.TrimPrefix(uri, "/"))
	for _, pattern := range p.patterns {
		ok, err := doublestar.Match(pattern, rel)
		if err != nil {
			return false, fmt.Errorf("ignore pattern %q: %w", pattern, err)
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

// IsRepoNameIgnored reports whether a remote repository is excluded.
func (p *Policy) IsRepoNameIgnored(ctx context.Context, name string) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.repositories[name]
}

// IsContentIgnored is the content-level check applied after the path check
// has passed. Synthetic remote URIs carry their repository name as a prefix,
// so repository rules reach files whose paths match no pattern.
func (p *Policy) IsContentIgnored(ctx context.Context, uri string) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	for name := range p.repositories {
		if strings.HasPrefix(uri, name) {
			return true
		}
	}
	return false
}
