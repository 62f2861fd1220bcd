package remote

import (
	"context"
	"time"

	"github.com/bevzzz/cody/internal/coalesce"
	"github.com/bevzzz/cody/internal/editor"
	"github.com/bevzzz/cody/internal/errors"
	"github.com/bevzzz/cody/internal/items"
	"github.com/bevzzz/cody/internal/logging"
)

// Searcher is the slice of the backend API the adapter needs. The concrete
// Client satisfies it; tests substitute stubs.
type Searcher interface {
	SearchFiles(ctx context.Context, repos []string, query string, limit int) ([]FileHit, error)
	SearchSymbols(ctx context.Context, repos []string, query string, limit int) ([]SymbolHit, error)
}

// searchArgs is one debounced search request.
type searchArgs struct {
	repos []string
	query string
}

// Adapter turns backend search hits into context items. When remote
// repositories are in play, ranking is delegated entirely to the backend:
// no local fuzzy pass runs, and every query goes through a debouncer so
// keystroke-speed re-querying sends only the latest arguments.
type Adapter struct {
	policy editor.IgnorePolicy
	logger *logging.Logger
	limit  int

	files   *coalesce.Debounce[searchArgs, []FileHit]
	symbols *coalesce.Debounce[searchArgs, []SymbolHit]
}

// NewAdapter wires a backend searcher behind debouncers with the given
// window.
func NewAdapter(searcher Searcher, policy editor.IgnorePolicy, logger *logging.Logger, window time.Duration, limit int) *Adapter {
	a := &Adapter{
		policy: policy,
		logger: logger.Named("remote"),
		limit:  limit,
	}
	a.files = coalesce.NewDebounce(window, func(ctx context.Context, args searchArgs) ([]FileHit, error) {
		return searcher.SearchFiles(ctx, args.repos, args.query, limit)
	})
	a.symbols = coalesce.NewDebounce(window, func(ctx context.Context, args searchArgs) ([]SymbolHit, error) {
		return searcher.SearchSymbols(ctx, args.repos, args.query, limit)
	})
	return a
}

// Close abandons pending debounced calls.
func (a *Adapter) Close() {
	a.files.Close()
	a.symbols.Close()
}

// Files searches the named repositories for query. A backend failure or a
// skipped (superseded) call yields an empty result, never an error: remote
// trouble degrades to no results instead of failing the query.
func (a *Adapter) Files(ctx context.Context, repos []string, query string) []items.ContextItem {
	hits, err := a.files.Do(ctx, searchArgs{repos: repos, query: query})
	if err != nil {
		a.logSearchMiss("file", query, err)
		return nil
	}

	out := make([]items.ContextItem, 0, len(hits))
	for _, h := range hits {
		it := items.NewFileItem(items.RemoteURI(h.Repository, h.Path), items.SourceRemote, nil)
		it.RemoteRepositoryName = h.Repository
		it.IsIgnored = a.policy.IsRepoNameIgnored(ctx, h.Repository)
		out = append(out, it)
	}
	return out
}

// Symbols searches the named repositories for query. The backend reports no
// usable kind taxonomy, so every remote symbol is mapped to the function
// kind; extending the protocol is the only correct way to change this.
func (a *Adapter) Symbols(ctx context.Context, repos []string, query string) []items.ContextItem {
	hits, err := a.symbols.Do(ctx, searchArgs{repos: repos, query: query})
	if err != nil {
		a.logSearchMiss("symbol", query, err)
		return nil
	}

	out := make([]items.ContextItem, 0, len(hits))
	for _, h := range hits {
		rng := items.NewRange(h.StartLine, 0, h.EndLine, 0)
		it := items.NewSymbolItem(items.RemoteURI(h.Repository, h.Path), items.SourceRemote, rng, h.Name, items.KindFunction)
		it.RemoteRepositoryName = h.Repository
		it.IsIgnored = a.policy.IsRepoNameIgnored(ctx, h.Repository)
		out = append(out, it)
	}
	return out
}

func (a *Adapter) logSearchMiss(what, query string, err error) {
	if errors.IsSkipped(err) {
		a.logger.Debug("Remote search superseded", map[string]interface{}{
			"kind":  what,
			"query": query,
		})
		return
	}
	a.logger.Warn("Remote search unavailable", map[string]interface{}{
		"kind":  what,
		"query": query,
		"error": err.Error(),
	})
}
