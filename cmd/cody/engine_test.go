package main

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bevzzz/cody/internal/coalesce"
	"github.com/bevzzz/cody/internal/config"
	"github.com/bevzzz/cody/internal/editor"
	"github.com/bevzzz/cody/internal/items"
	"github.com/bevzzz/cody/internal/logging"
	"github.com/bevzzz/cody/internal/policy"
	"github.com/bevzzz/cody/internal/remote"
	"github.com/bevzzz/cody/internal/resolve"
	"github.com/bevzzz/cody/internal/workspace"
)

type stubBackend struct {
	fileCalls   atomic.Int32
	symbolCalls atomic.Int32
}

func (s *stubBackend) SearchFiles(ctx context.Context, repos []string, query string, limit int) ([]remote.FileHit, error) {
	s.fileCalls.Add(1)
	return []remote.FileHit{{Repository: repos[0], Path: "src/remote.go"}}, nil
}

func (s *stubBackend) SearchSymbols(ctx context.Context, repos []string, query string, limit int) ([]remote.SymbolHit, error) {
	s.symbolCalls.Add(1)
	return []remote.SymbolHit{{Repository: repos[0], Path: "src/remote.go", Name: "RemoteFn", StartLine: 1, EndLine: 2}}, nil
}

type stubSymbols struct {
	symbols []editor.Symbol
}

func (s *stubSymbols) Symbols(ctx context.Context, query string) ([]editor.Symbol, error) {
	return s.symbols, nil
}

func newSearchEngine(t *testing.T, files []string, repos []string, backend remote.Searcher) *engine {
	t.Helper()

	root := t.TempDir()
	for _, f := range files {
		path := filepath.Join(root, filepath.FromSlash(f))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(path, []byte("package x\n"), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}

	ws, err := workspace.New(root)
	if err != nil {
		t.Fatalf("workspace.New: %v", err)
	}
	pol, err := policy.New(nil, nil)
	if err != nil {
		t.Fatalf("policy.New: %v", err)
	}

	cfg := config.DefaultConfig()
	cfg.RepoRoot = root
	cfg.Remote.Repositories = repos

	e := &engine{
		cfg:          cfg,
		logger:       logging.Silent(),
		ws:           ws,
		policy:       pol,
		listThrottle: coalesce.NewThrottle[[]string](time.Minute),
		filter:       resolve.NewFilter(statWorkspace(ws), logging.Silent()),
		normalizer:   resolve.NewNormalizer(pol, pol),
	}
	if backend != nil {
		e.adapter = remote.NewAdapter(backend, pol, logging.Silent(), time.Millisecond, 10)
		t.Cleanup(e.adapter.Close)
	}
	return e
}

func TestSearchFilesDelegatesToRemote(t *testing.T) {
	backend := &stubBackend{}
	e := newSearchEngine(t, []string{"src/local.go"}, []string{"github.com/org/repo"}, backend)

	out, err := e.searchFiles(context.Background(), "local", 10)
	if err != nil {
		t.Fatalf("searchFiles: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("expected only the remote hit, got %d items", len(out))
	}
	if out[0].RemoteRepositoryName == "" {
		t.Errorf("expected a remote item, got %+v", out[0])
	}
	for _, it := range out {
		if it.URI == "src/local.go" {
			t.Error("local ranking must not run when remote repositories are configured")
		}
	}
	if backend.fileCalls.Load() != 1 {
		t.Errorf("expected 1 backend call, got %d", backend.fileCalls.Load())
	}
}

func TestSearchFilesLocalWithoutRepositories(t *testing.T) {
	backend := &stubBackend{}
	e := newSearchEngine(t, []string{"src/local.go"}, nil, backend)

	out, err := e.searchFiles(context.Background(), "local", 10)
	if err != nil {
		t.Fatalf("searchFiles: %v", err)
	}
	if len(out) != 1 || out[0].URI != "src/local.go" {
		t.Fatalf("expected the local hit, got %+v", out)
	}
	if backend.fileCalls.Load() != 0 {
		t.Errorf("backend must not be queried without configured repositories, got %d calls", backend.fileCalls.Load())
	}
}

func TestSearchSymbolsDelegatesToRemote(t *testing.T) {
	backend := &stubBackend{}
	e := newSearchEngine(t, nil, []string{"github.com/org/repo"}, backend)
	e.symbols = &stubSymbols{symbols: []editor.Symbol{
		{Name: "LocalFn", Kind: items.KindFunction, URI: "src/local.go", Rng: items.NewRange(0, 0, 1, 0)},
	}}

	out, err := e.searchSymbols(context.Background(), "Fn", 10)
	if err != nil {
		t.Fatalf("searchSymbols: %v", err)
	}
	if len(out) != 1 || out[0].SymbolName != "RemoteFn" {
		t.Fatalf("expected only the remote symbol, got %+v", out)
	}
	if backend.symbolCalls.Load() != 1 {
		t.Errorf("expected 1 backend call, got %d", backend.symbolCalls.Load())
	}
}

func TestSearchSymbolsLocalDropsIgnoredPaths(t *testing.T) {
	e := newSearchEngine(t, nil, nil, nil)
	pol, err := policy.New([]string{"secrets/**"}, nil)
	if err != nil {
		t.Fatalf("policy.New: %v", err)
	}
	e.policy = pol
	e.normalizer = resolve.NewNormalizer(pol, pol)
	e.symbols = &stubSymbols{symbols: []editor.Symbol{
		{Name: "Key", Kind: items.KindFunction, URI: "secrets/key.go", Rng: items.NewRange(0, 0, 1, 0)},
		{Name: "KeyRing", Kind: items.KindFunction, URI: "src/ring.go", Rng: items.NewRange(0, 0, 1, 0)},
	}}

	out, err := e.searchSymbols(context.Background(), "Key", 10)
	if err != nil {
		t.Fatalf("searchSymbols: %v", err)
	}
	if len(out) != 1 || out[0].URI != "src/ring.go" {
		t.Fatalf("expected the ignored-path symbol to be dropped, got %+v", out)
	}
}
