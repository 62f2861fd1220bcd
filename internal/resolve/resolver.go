package resolve

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/errgroup"

	"github.com/bevzzz/cody/internal/editor"
	"github.com/bevzzz/cody/internal/errors"
	"github.com/bevzzz/cody/internal/items"
	"github.com/bevzzz/cody/internal/logging"
	"github.com/bevzzz/cody/internal/openctx"
	"github.com/bevzzz/cody/internal/tokens"
)

// DefaultContentCacheSize bounds the in-memory full-file content cache.
const DefaultContentCacheSize = 128

// RemoteFetcher fetches file content from the remote backend. CachedClient
// satisfies it.
type RemoteFetcher interface {
	GetFileContent(ctx context.Context, repoName, path string) (string, error)
}

// Warning is a non-fatal per-item resolution failure. The batch carries on;
// the warning tells the caller which item fell out and why.
type Warning struct {
	URI string
	Err error
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: %v", w.URI, w.Err)
}

// Resolver resolves a batch of context items into prompt-ready content. All
// collaborators are optional except the text source and the counter; a nil
// provider client resolves provider items to nothing, a nil annotator means
// no annotations, a nil remote fetcher forces the local fallback.
type Resolver struct {
	text      editor.TextSource
	remote    RemoteFetcher
	providers openctx.Client
	annotator openctx.Annotator
	counter   tokens.Counter
	logger    *logging.Logger

	contentCache *lru.Cache[string, string]
}

// NewResolver wires a resolver.
func NewResolver(text editor.TextSource, remote RemoteFetcher, providers openctx.Client, annotator openctx.Annotator, counter tokens.Counter, logger *logging.Logger) (*Resolver, error) {
	cache, err := lru.New[string, string](DefaultContentCacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create content cache: %w", err)
	}
	return &Resolver{
		text:         text,
		remote:       remote,
		providers:    providers,
		annotator:    annotator,
		counter:      counter,
		logger:       logger.Named("resolver"),
		contentCache: cache,
	}, nil
}

// Resolve fans the batch out, one goroutine per item, and fans results back
// in preserving input order. A failing item becomes a warning and a gap, not
// a batch failure. One item may expand into several outputs when providers
// or annotators contribute.
func (r *Resolver) Resolve(ctx context.Context, input string, batch []items.ContextItem) ([]items.ContextItemWithContent, []Warning) {
	traceID := uuid.NewString()
	r.logger.Debug("Resolving batch", map[string]interface{}{
		"trace": traceID,
		"count": len(batch),
	})

	results := make([][]items.ContextItemWithContent, len(batch))
	failures := make([]error, len(batch))

	g, gctx := errgroup.WithContext(ctx)
	for i, it := range batch {
		i, it := i, it
		g.Go(func() error {
			resolved, err := r.resolveOne(gctx, input, it)
			if err != nil {
				failures[i] = err
				return nil
			}
			results[i] = resolved
			return nil
		})
	}
	_ = g.Wait()

	var out []items.ContextItemWithContent
	var warnings []Warning
	for i := range batch {
		if err := failures[i]; err != nil {
			warnings = append(warnings, Warning{URI: batch[i].URI, Err: err})
			r.logger.Warn("Item resolution failed", map[string]interface{}{
				"trace": traceID,
				"uri":   batch[i].URI,
				"code":  string(errors.CodeOf(err)),
				"error": err.Error(),
			})
			continue
		}
		out = append(out, results[i]...)
	}
	return out, warnings
}

func (r *Resolver) resolveOne(ctx context.Context, input string, it items.ContextItem) ([]items.ContextItemWithContent, error) {
	if it.IsIgnored {
		return nil, nil
	}

	switch it.Typ {
	case items.TypeOpenCtx:
		return r.resolveProviderItem(ctx, input, it)
	case items.TypeFile, items.TypeSymbol:
		return r.resolveTextItem(ctx, it)
	default:
		return nil, errors.New(errors.InternalError, fmt.Sprintf("unknown item type %q", it.Typ), nil)
	}
}

// resolveTextItem resolves a file or symbol item plus any annotations over
// its content.
func (r *Resolver) resolveTextItem(ctx context.Context, it items.ContextItem) ([]items.ContextItemWithContent, error) {
	content, err := r.contentFor(ctx, it)
	if err != nil {
		return nil, errors.New(errors.ResolutionFailed, "failed to resolve content", err)
	}

	size := r.counter.Count(content)
	it.Size = &size
	it.Content = nil

	out := []items.ContextItemWithContent{{ContextItem: it, Content: content}}

	annotations, err := r.annotationsFor(ctx, it, content)
	if err != nil {
		// Annotation trouble never sinks the item itself.
		r.logger.Warn("Annotation lookup failed", map[string]interface{}{
			"uri":   it.URI,
			"error": err.Error(),
		})
		return out, nil
	}
	out = append(out, annotations...)
	return out, nil
}

// contentFor picks the cheapest available content source: inline content the
// caller already had, then the cache, then the remote backend, then the
// local text source.
func (r *Resolver) contentFor(ctx context.Context, it items.ContextItem) (string, error) {
	if it.Content != nil {
		return *it.Content, nil
	}

	cacheable := it.Range == nil
	if cacheable {
		if cached, ok := r.contentCache.Get(it.URI); ok {
			return cached, nil
		}
	}

	content, err := r.fetch(ctx, it)
	if err != nil {
		return "", err
	}
	if cacheable {
		r.contentCache.Add(it.URI, content)
	}
	return content, nil
}

func (r *Resolver) fetch(ctx context.Context, it items.ContextItem) (string, error) {
	if it.RemoteRepositoryName != "" && r.remote != nil {
		path, err := items.SplitRemoteURI(it.URI, it.RemoteRepositoryName)
		if err == nil {
			content, rerr := r.remote.GetFileContent(ctx, it.RemoteRepositoryName, strings.TrimPrefix(path, "/"))
			if rerr == nil {
				// The backend returns whole files; restrict here.
				return items.SliceLines(content, it.Range), nil
			}
			r.logger.Debug("Remote content fetch failed, trying local", map[string]interface{}{
				"uri":   it.URI,
				"error": rerr.Error(),
			})
		}
	}
	return r.text.Text(ctx, it.URI, it.Range)
}

// annotationsFor queries the annotator and keeps annotations whose range
// lies within the item's range by line. An item without a range covers the
// whole file and keeps everything.
func (r *Resolver) annotationsFor(ctx context.Context, it items.ContextItem, content string) ([]items.ContextItemWithContent, error) {
	if r.annotator == nil {
		return nil, nil
	}

	annotations, err := r.annotator.Annotations(ctx, it.URI, func() string { return content })
	if err != nil {
		return nil, err
	}

	var out []items.ContextItemWithContent
	for _, ann := range annotations {
		if ann.AIContent == "" {
			continue
		}
		if it.Range != nil && !it.Range.ContainsLines(ann.Rng) {
			continue
		}
		annItem := items.NewOpenCtxItem(ann.URI, ann.Provider, ann.URI, ann.Title, items.OpenCtxAnnotation)
		annItem.Range = ann.Rng
		size := r.counter.Count(ann.AIContent)
		annItem.Size = &size
		out = append(out, items.ContextItemWithContent{ContextItem: annItem, Content: ann.AIContent})
	}
	return out, nil
}

// resolveProviderItem re-queries the item's mention provider and keeps the
// results that carry AI-ready content. A missing client or missing mention
// metadata is a wiring gap, not a per-item failure: both are logged and
// resolve to nothing.
func (r *Resolver) resolveProviderItem(ctx context.Context, input string, it items.ContextItem) ([]items.ContextItemWithContent, error) {
	if r.providers == nil {
		r.logger.Debug("No provider client configured, dropping provider item", map[string]interface{}{
			"uri":  it.URI,
			"code": string(errors.ProviderUnconfigured),
		})
		return nil, nil
	}
	if it.Mention == nil {
		r.logger.Warn("Provider item has no mention metadata, dropping", map[string]interface{}{
			"uri":      it.URI,
			"provider": it.Provider,
			"code":     string(errors.MentionMetadataMissing),
		})
		return nil, nil
	}

	providerItems, err := r.providers.Items(ctx, it.Provider, openctx.ItemsRequest{
		Input:   input,
		Mention: it.Mention,
	})
	if err != nil {
		return nil, errors.New(errors.ResolutionFailed, "provider query failed", err)
	}

	var out []items.ContextItemWithContent
	for _, pi := range providerItems {
		if pi.AIContent == "" {
			continue
		}
		resolved := items.NewOpenCtxItem(pi.URI, it.Provider, it.ProviderURI, pi.Title, items.OpenCtxItem)
		resolved.Source = it.Source
		resolved.Mention = it.Mention
		size := r.counter.Count(pi.AIContent)
		resolved.Size = &size
		out = append(out, items.ContextItemWithContent{ContextItem: resolved, Content: pi.AIContent})
	}
	return out, nil
}
