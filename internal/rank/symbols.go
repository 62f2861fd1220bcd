package rank

import (
	"context"
	"sort"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/bevzzz/cody/internal/editor"
	"github.com/bevzzz/cody/internal/items"
)

// symbolTrigger is the optional leading character users type to ask for a
// symbol search; it is stripped before matching.
const symbolTrigger = '#'

// rankableKinds is the allow-list of symbol kinds worth offering as context.
// Everything else (fields, locals, modules, ...) is noise at prompt scale.
var rankableKinds = map[items.SymbolKind]struct{}{
	items.KindFunction:  {},
	items.KindMethod:    {},
	items.KindClass:     {},
	items.KindInterface: {},
	items.KindEnum:      {},
	items.KindStruct:    {},
	items.KindConstant:  {},
	items.KindVariable:  {},
}

// dependencyDirs name directories whose symbols belong to third-party code.
var dependencyDirs = map[string]struct{}{
	"node_modules": {},
	"vendor":       {},
}

// RankedSymbol is a symbol hit with its fuzzy score.
type RankedSymbol struct {
	editor.Symbol
	Score int
}

// nameSource adapts symbols to the scorer by display name.
type nameSource []editor.Symbol

func (s nameSource) String(i int) string { return s[i].Name }
func (s nameSource) Len() int            { return len(s) }

// Symbols queries source for the (trigger-stripped) query, filters hits to
// rankable kinds outside dependency directories, fuzzy-scores them by name
// and returns up to cap non-zero matches. Unlike file ranking there is no
// score floor: the symbol index has already narrowed the candidate set.
//
// The underlying symbol lookup has no cancellation hook; it runs to
// completion even if ctx is done before it returns.
func Symbols(ctx context.Context, query string, cap int, source editor.SymbolSource) ([]RankedSymbol, error) {
	query = strings.TrimSpace(query)
	query = strings.TrimPrefix(query, string(symbolTrigger))
	if query == "" {
		return nil, nil
	}

	hits, err := source.Symbols(ctx, query)
	if err != nil {
		return nil, err
	}

	eligible := hits[:0:0]
	for _, h := range hits {
		if _, ok := rankableKinds[h.Kind]; !ok {
			continue
		}
		if inDependencyDir(h.URI) {
			continue
		}
		eligible = append(eligible, h)
	}

	matches := fuzzy.FindFrom(query, nameSource(eligible))

	ranked := make([]RankedSymbol, 0, len(matches))
	for _, m := range matches {
		if m.Score == 0 {
			continue
		}
		ranked = append(ranked, RankedSymbol{Symbol: eligible[m.Index], Score: m.Score})
	}

	coll := newCollator()
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		if c := coll.CompareString(ranked[i].Name, ranked[j].Name); c != 0 {
			return c < 0
		}
		// Same name in different files; the URI settles the order.
		return coll.CompareString(ranked[i].URI, ranked[j].URI) < 0
	})

	if cap > 0 && len(ranked) > cap {
		ranked = ranked[:cap]
	}
	return ranked, nil
}

func inDependencyDir(uri string) bool {
	for _, seg := range strings.FieldsFunc(uri, isPathSeparator) {
		if _, ok := dependencyDirs[seg]; ok {
			return true
		}
	}
	return false
}
