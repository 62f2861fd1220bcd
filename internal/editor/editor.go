// Package editor declares the collaborator contracts the retrieval engine
// expects from the hosting editor or IDE. The engine never talks to editor
// APIs directly; it consumes these interfaces and lets the host (or the
// workspace package, for headless use) provide implementations.
package editor

import (
	"context"

	"github.com/bevzzz/cody/internal/items"
)

// FileLister enumerates every file in the workspace. A full sweep is
// expensive; callers must go through the request coalescer's throttle.
type FileLister interface {
	ListFiles(ctx context.Context) ([]string, error)
}

// Symbol is one hit from the workspace symbol index.
type Symbol struct {
	Name string
	Kind items.SymbolKind
	URI  string
	Rng  *items.Range
}

// SymbolSource queries the workspace symbol index.
//
// Editor symbol indexes typically expose no cancellation hook: a lookup runs
// to completion even when the provided context is done. Callers must not
// assume resources are released on cancellation; the coalescer shields them
// from the wait, not from the work.
type SymbolSource interface {
	Symbols(ctx context.Context, query string) ([]Symbol, error)
}

// TextSource reads text for a URI, optionally restricted to a range. Live
// editor buffers take precedence over on-disk content.
type TextSource interface {
	Text(ctx context.Context, uri string, rng *items.Range) (string, error)
}

// IgnorePolicy is the ignore/ACL filter. Paths and repository names are
// checked through separate predicates because remote items carry no local
// path.
type IgnorePolicy interface {
	IsPathIgnored(ctx context.Context, uri string) (bool, error)
	IsRepoNameIgnored(ctx context.Context, repoName string) bool
}
