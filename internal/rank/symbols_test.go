package rank

import (
	"context"
	"testing"

	"github.com/bevzzz/cody/internal/editor"
	"github.com/bevzzz/cody/internal/items"
)

// stubSymbolSource returns canned hits and records the queries it saw.
type stubSymbolSource struct {
	hits    []editor.Symbol
	err     error
	queries []string
}

func (s *stubSymbolSource) Symbols(ctx context.Context, query string) ([]editor.Symbol, error) {
	s.queries = append(s.queries, query)
	return s.hits, s.err
}

func sym(name string, kind items.SymbolKind, uri string) editor.Symbol {
	return editor.Symbol{Name: name, Kind: kind, URI: uri, Rng: items.NewRange(0, 0, 10, 0)}
}

func TestSymbolsStripsTriggerAndFilters(t *testing.T) {
	source := &stubSymbolSource{hits: []editor.Symbol{
		sym("ParseConfig", items.KindFunction, "/ws/config.go"),
		sym("parseHelper", items.KindFunction, "/ws/vendor/dep/parse.go"),
		sym("ParseState", items.SymbolKind("field"), "/ws/state.go"),
		sym("Parser", items.KindStruct, "/ws/parser.go"),
	}}

	got, err := Symbols(context.Background(), "#Parse", 10, source)
	if err != nil {
		t.Fatalf("Symbols failed: %v", err)
	}

	if len(source.queries) != 1 || source.queries[0] != "Parse" {
		t.Errorf("expected trigger-stripped query %q, got %v", "Parse", source.queries)
	}

	for _, r := range got {
		if r.URI == "/ws/vendor/dep/parse.go" {
			t.Errorf("vendored symbol leaked into results")
		}
		if r.Name == "ParseState" {
			t.Errorf("disallowed kind leaked into results")
		}
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 ranked symbols, got %d", len(got))
	}
}

func TestSymbolsEmptyAfterTrigger(t *testing.T) {
	source := &stubSymbolSource{}
	got, err := Symbols(context.Background(), "#", 10, source)
	if err != nil {
		t.Fatalf("Symbols failed: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil result for empty query, got %v", got)
	}
	if len(source.queries) != 0 {
		t.Errorf("empty query must not hit the symbol index")
	}
}

func TestSymbolsDeterministicAcrossEqualNames(t *testing.T) {
	source := &stubSymbolSource{hits: []editor.Symbol{
		sym("Handler", items.KindStruct, "/ws/b/handler.go"),
		sym("Handler", items.KindStruct, "/ws/a/handler.go"),
	}}

	got, err := Symbols(context.Background(), "Handler", 10, source)
	if err != nil {
		t.Fatalf("Symbols failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 results, got %d", len(got))
	}
	if got[0].URI != "/ws/a/handler.go" {
		t.Errorf("equal names must order by URI, got %q first", got[0].URI)
	}
}
