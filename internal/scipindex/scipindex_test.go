package scipindex

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	scippb "github.com/sourcegraph/scip/bindings/go/scip"
	"google.golang.org/protobuf/proto"

	"github.com/bevzzz/cody/internal/items"
)

func writeIndex(t *testing.T, index *scippb.Index) string {
	t.Helper()
	data, err := proto.Marshal(index)
	if err != nil {
		t.Fatalf("marshal index: %v", err)
	}
	path := filepath.Join(t.TempDir(), "index.scip")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write index: %v", err)
	}
	return path
}

func TestLoadExtractsDefinitions(t *testing.T) {
	path := writeIndex(t, &scippb.Index{
		Documents: []*scippb.Document{
			{
				RelativePath: "pkg/server.go",
				Symbols: []*scippb.SymbolInformation{
					{Symbol: "sym:Serve", DisplayName: "Serve", Kind: scippb.SymbolInformation_Function},
					{Symbol: "sym:noName", Kind: scippb.SymbolInformation_Function},
					{Symbol: "sym:pkg", DisplayName: "server", Kind: scippb.SymbolInformation_Package},
				},
				Occurrences: []*scippb.Occurrence{
					{Symbol: "sym:Serve", SymbolRoles: int32(scippb.SymbolRole_Definition), Range: []int32{10, 5, 12}},
					{Symbol: "sym:Serve", SymbolRoles: 0, Range: []int32{40, 2, 7}},
					{Symbol: "sym:noName", SymbolRoles: int32(scippb.SymbolRole_Definition), Range: []int32{1, 0, 3}},
					{Symbol: "sym:pkg", SymbolRoles: int32(scippb.SymbolRole_Definition), Range: []int32{0, 0, 6}},
				},
			},
		},
	})

	idx, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	syms, err := idx.Symbols(context.Background(), "anything")
	if err != nil {
		t.Fatalf("Symbols: %v", err)
	}
	// Only the named function definition survives: references, nameless
	// symbols and unmappable kinds are dropped.
	if len(syms) != 1 {
		t.Fatalf("expected 1 symbol, got %d", len(syms))
	}
	s := syms[0]
	if s.Name != "Serve" || s.Kind != items.KindFunction || s.URI != "pkg/server.go" {
		t.Errorf("unexpected symbol %+v", s)
	}
	if s.Rng == nil || s.Rng.Start.Line != 10 || s.Rng.End.Line != 10 {
		t.Errorf("unexpected range %+v", s.Rng)
	}
}

func TestOccurrenceRange(t *testing.T) {
	tests := []struct {
		name string
		in   []int32
		want *items.Range
	}{
		{"single line", []int32{3, 1, 9}, items.NewRange(3, 1, 3, 9)},
		{"multi line", []int32{3, 1, 6, 0}, items.NewRange(3, 1, 6, 0)},
		{"malformed", []int32{3}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := occurrenceRange(tt.in)
			if (got == nil) != (tt.want == nil) {
				t.Fatalf("got %+v, want %+v", got, tt.want)
			}
			if got != nil && *got != *tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.scip")); err == nil {
		t.Error("expected error for missing index")
	}
}
