package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/bevzzz/cody/internal/coalesce"
	"github.com/bevzzz/cody/internal/config"
	"github.com/bevzzz/cody/internal/editor"
	"github.com/bevzzz/cody/internal/items"
	"github.com/bevzzz/cody/internal/logging"
	"github.com/bevzzz/cody/internal/policy"
	"github.com/bevzzz/cody/internal/rank"
	"github.com/bevzzz/cody/internal/remote"
	"github.com/bevzzz/cody/internal/resolve"
	"github.com/bevzzz/cody/internal/scipindex"
	"github.com/bevzzz/cody/internal/storage"
	"github.com/bevzzz/cody/internal/tokens"
	"github.com/bevzzz/cody/internal/workspace"
)

// engine wires the retrieval pipeline for one CLI invocation.
type engine struct {
	cfg    *config.Config
	logger *logging.Logger

	ws     *workspace.Workspace
	policy *policy.Policy

	// listThrottle shares full-workspace sweeps across rapid queries.
	listThrottle *coalesce.Throttle[[]string]

	// symbols is nil when no SCIP index is available.
	symbols editor.SymbolSource

	// adapter and client are nil when no remote server is declared;
	// remoteClient is additionally nil when result caching is off.
	adapter      *remote.Adapter
	client       *remote.Client
	remoteClient *remote.CachedClient

	db         *storage.DB
	filter     *resolve.Filter
	normalizer *resolve.Normalizer
	resolver   *resolve.Resolver
}

func newEngine() (*engine, error) {
	cfg, err := config.LoadConfig(repoFlag)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if logLevelFlag != "" {
		cfg.Logging.Level = logLevelFlag
	}
	if logFormatFlag != "" {
		cfg.Logging.Format = logFormatFlag
	}

	logger := logging.NewLogger(logging.Config{
		Format: logging.Format(cfg.Logging.Format),
		Level:  logging.LogLevel(cfg.Logging.Level),
	})

	ws, err := workspace.New(cfg.RepoRoot)
	if err != nil {
		return nil, err
	}

	pol, err := policy.Load(cfg.RepoRoot)
	if err != nil {
		return nil, err
	}

	e := &engine{
		cfg:          cfg,
		logger:       logger,
		ws:           ws,
		policy:       pol,
		listThrottle: coalesce.NewThrottle[[]string](time.Duration(cfg.Coalesce.ThrottleWindowMs) * time.Millisecond),
		filter:       resolve.NewFilter(statWorkspace(ws), logger),
		normalizer:   resolve.NewNormalizer(pol, pol),
	}

	if path := cfg.ResolvePath(cfg.Symbols.IndexPath); path != "" {
		if idx, err := scipindex.Load(path); err == nil {
			e.symbols = idx
		} else if !errors.Is(err, os.ErrNotExist) {
			logger.Warn("Failed to load symbol index", map[string]interface{}{
				"path":  path,
				"error": err.Error(),
			})
		}
	}

	if err := e.connectRemote(); err != nil {
		return nil, err
	}

	e.resolver, err = resolve.NewResolver(ws, remoteFetcher(e.remoteClient), nil, nil, tokens.NewHeuristic(), logger)
	if err != nil {
		return nil, err
	}
	return e, nil
}

// connectRemote wires the first declared server, if any. A missing
// declaration file means local-only operation.
func (e *engine) connectRemote() error {
	path := e.cfg.ResolvePath(e.cfg.Remote.ServersFile)
	servers, err := remote.LoadServers(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if len(servers.Servers) == 0 {
		return nil
	}

	client := remote.NewClient(&servers.Servers[0], e.logger)
	e.client = client

	var searcher remote.Searcher = client
	if e.cfg.Remote.CacheResults {
		db, err := storage.Open(e.cfg.RepoRoot, e.logger)
		if err != nil {
			return err
		}
		cache, err := storage.NewRemoteCache(db)
		if err != nil {
			db.Close()
			return err
		}
		e.db = db
		e.remoteClient = remote.NewCachedClient(client, cache, e.logger)
		searcher = e.remoteClient
	}

	window := time.Duration(e.cfg.Coalesce.DebounceWindowMs) * time.Millisecond
	e.adapter = remote.NewAdapter(searcher, e.policy, e.logger, window, e.cfg.Remote.SearchLimit)
	return nil
}

func (e *engine) Close() {
	if e.adapter != nil {
		e.adapter.Close()
	}
	if e.db != nil {
		_ = e.db.Close()
	}
}

// listFiles runs the throttled workspace sweep.
func (e *engine) listFiles(ctx context.Context) ([]string, error) {
	return e.listThrottle.Do(ctx, e.ws.ListFiles)
}

// remoteEnabled reports whether search delegates to the remote backend.
// Configured remote repositories replace the local rankers entirely; results
// from the two are never merged.
func (e *engine) remoteEnabled() bool {
	return e.adapter != nil && len(e.cfg.Remote.Repositories) > 0
}

// searchFiles ranks files against the query. With remote repositories
// configured the workspace sweep and the local ranker are bypassed and the
// backend's ranking comes back as-is.
func (e *engine) searchFiles(ctx context.Context, query string, limit int) ([]items.ContextItem, error) {
	if e.remoteEnabled() {
		return e.adapter.Files(ctx, e.cfg.Remote.Repositories, query), nil
	}

	files, err := e.listFiles(ctx)
	if err != nil {
		return nil, fmt.Errorf("workspace sweep failed: %w", err)
	}

	candidates := make([]rank.FileCandidate, len(files))
	for i, f := range files {
		candidates[i] = rank.FileCandidate{URI: f, Rel: f}
	}

	var out []items.ContextItem
	for _, rf := range rank.Files(query, limit, candidates) {
		out = append(out, items.NewFileItem(rf.URI, items.SourceSearch, nil))
	}
	e.markIgnored(ctx, out)
	return out, nil
}

// searchSymbols ranks symbols against the query. Local hits pass through the
// normalizer so the ignore policy applies at the same door as user
// references.
func (e *engine) searchSymbols(ctx context.Context, query string, limit int) ([]items.ContextItem, error) {
	if e.remoteEnabled() {
		return e.adapter.Symbols(ctx, e.cfg.Remote.Repositories, query), nil
	}
	if e.symbols == nil {
		return nil, nil
	}

	ranked, err := rank.Symbols(ctx, query, limit, e.symbols)
	if err != nil {
		return nil, fmt.Errorf("symbol search failed: %w", err)
	}

	var out []items.ContextItem
	for _, rs := range ranked {
		it, err := e.normalizer.FromReference(ctx, resolve.Reference{
			Typ:        items.TypeSymbol,
			URI:        rs.URI,
			Source:     items.SourceSearch,
			Rng:        rs.Rng,
			SymbolName: rs.Name,
			Kind:       rs.Kind,
		})
		if err != nil || it == nil {
			continue
		}
		out = append(out, *it)
	}
	return out, nil
}

// markIgnored stamps the ignore flag on local items.
func (e *engine) markIgnored(ctx context.Context, batch []items.ContextItem) {
	for i := range batch {
		if batch[i].RemoteRepositoryName != "" {
			continue
		}
		ignored, err := e.policy.IsPathIgnored(ctx, batch[i].URI)
		if err == nil && ignored {
			batch[i].IsIgnored = true
		}
	}
}

func statWorkspace(ws *workspace.Workspace) resolve.StatFunc {
	return func(ctx context.Context, uri string) (os.FileInfo, error) {
		return ws.Stat(ctx, uri)
	}
}

// remoteFetcher adapts the possibly-nil cached client to the resolver's
// fetcher interface without handing it a typed nil.
func remoteFetcher(c *remote.CachedClient) resolve.RemoteFetcher {
	if c == nil {
		return nil
	}
	return c
}
