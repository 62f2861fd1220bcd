// Package resolve turns context-item references into prompt-ready content.
// It hosts the normalization boundary for editor-native references, the
// size/eligibility filter for local file candidates and the concurrent
// content resolver.
package resolve

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/bevzzz/cody/internal/editor"
	"github.com/bevzzz/cody/internal/items"
)

// ContentFilter is the second, content-level ignore check. It is distinct
// from the path check: a path that is allowed to be seen may still be barred
// from prompt content by repository-level rules, and the check may be slow,
// so it runs asynchronously. A flagged item survives normalization with
// IsIgnored set instead of being dropped.
type ContentFilter interface {
	IsContentIgnored(ctx context.Context, uri string) bool
}

// Reference is an editor-native reference as the host hands it over: URI,
// a type tag, and an optional selection whose end line is inclusive. It
// exists only at the normalization boundary.
type Reference struct {
	// Typ selects the item shape; empty means TypeFile.
	Typ    items.Type
	URI    string
	Source items.Source

	// HasRange marks whether the selection fields are meaningful.
	HasRange  bool
	StartLine int
	StartChar int
	// EndLine is inclusive, editor-style.
	EndLine int
	EndChar int

	// Rng is a selection already in canonical half-open form, from sources
	// that normalize ranges at their own boundary. Takes precedence over the
	// line fields.
	Rng *items.Range

	// SymbolName and Kind describe the symbol for TypeSymbol references.
	SymbolName string
	Kind       items.SymbolKind

	// Content carries buffer text the host already has.
	Content *string
}

// Normalizer converts editor references into context items and applies the
// ignore policy at the door.
type Normalizer struct {
	policy editor.IgnorePolicy
	filter ContentFilter
}

// NewNormalizer creates a normalizer over the given policy. A nil filter
// disables the content-level check.
func NewNormalizer(policy editor.IgnorePolicy, filter ContentFilter) *Normalizer {
	return &Normalizer{policy: policy, filter: filter}
}

// FromReference converts one reference. An ignored path yields (nil, nil):
// the drop is silent so the host cannot distinguish "ignored" from "nothing
// there" and leak policy contents. File items additionally run the content
// filter, which flags rather than drops.
func (n *Normalizer) FromReference(ctx context.Context, ref Reference) (*items.ContextItem, error) {
	ignored, err := n.policy.IsPathIgnored(ctx, ref.URI)
	if err != nil {
		return nil, fmt.Errorf("ignore check for %s: %w", ref.URI, err)
	}
	if ignored {
		return nil, nil
	}

	source := ref.Source
	if source == "" {
		source = items.SourceUser
	}

	if ref.Typ == items.TypeSymbol {
		it := items.NewSymbolItem(ref.URI, source, canonicalRange(ref), ref.SymbolName, ref.Kind)
		return &it, nil
	}

	it := items.NewFileItem(ref.URI, source, canonicalRange(ref))
	it.Content = ref.Content
	if n.filter != nil {
		it.IsIgnored = n.filter.IsContentIgnored(ctx, ref.URI)
	}
	return &it, nil
}

// FromReferences converts a batch. Path checks and item construction run
// inline per reference; the content-filter checks fan out across the batch
// since the filter may consult repository-level policy. Order is preserved,
// ignored paths leave gaps.
func (n *Normalizer) FromReferences(ctx context.Context, refs []Reference) ([]items.ContextItem, error) {
	converted := make([]*items.ContextItem, len(refs))
	g, gctx := errgroup.WithContext(ctx)
	for i, ref := range refs {
		i, ref := i, ref
		g.Go(func() error {
			it, err := n.FromReference(gctx, ref)
			if err != nil {
				return err
			}
			converted[i] = it
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]items.ContextItem, 0, len(refs))
	for _, it := range converted {
		if it != nil {
			out = append(out, *it)
		}
	}
	return out, nil
}

// canonicalRange converts the reference's selection into the half-open form
// used past this boundary.
func canonicalRange(ref Reference) *items.Range {
	if ref.Rng != nil {
		return ref.Rng
	}
	if !ref.HasRange {
		return nil
	}
	return items.NewRange(ref.StartLine, ref.StartChar, ref.EndLine+1, 0)
}
