// Package scipindex serves workspace symbols out of a SCIP index file, for
// headless use where no editor symbol provider exists. The index is loaded
// once; lookups return every definition and leave scoring to the ranker.
package scipindex

import (
	"context"
	"fmt"
	"os"

	scippb "github.com/sourcegraph/scip/bindings/go/scip"
	"google.golang.org/protobuf/proto"

	"github.com/bevzzz/cody/internal/editor"
	"github.com/bevzzz/cody/internal/items"
)

// Index is a loaded SCIP index exposing symbol definitions.
type Index struct {
	symbols []editor.Symbol
}

// Load reads and parses a SCIP index file.
func Load(path string) (*Index, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read SCIP index: %w", err)
	}

	var raw scippb.Index
	if err := proto.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse SCIP index %s: %w", path, err)
	}

	return &Index{symbols: extractSymbols(&raw)}, nil
}

// Symbols implements editor.SymbolSource. The SCIP index has no query
// engine, so every definition is returned and fuzzy scoring happens
// downstream.
func (i *Index) Symbols(ctx context.Context, query string) ([]editor.Symbol, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return i.symbols, nil
}

// Len returns the number of indexed definitions.
func (i *Index) Len() int {
	return len(i.symbols)
}

func extractSymbols(raw *scippb.Index) []editor.Symbol {
	// Display names and kinds live on SymbolInformation; positions live on
	// definition occurrences. Join the two per document.
	var out []editor.Symbol
	for _, doc := range raw.Documents {
		info := make(map[string]*scippb.SymbolInformation, len(doc.Symbols))
		for _, sym := range doc.Symbols {
			info[sym.Symbol] = sym
		}

		for _, occ := range doc.Occurrences {
			if occ.SymbolRoles&int32(scippb.SymbolRole_Definition) == 0 {
				continue
			}
			sym, ok := info[occ.Symbol]
			if !ok || sym.DisplayName == "" {
				continue
			}
			kind := mapKind(sym.Kind)
			if kind == "" {
				continue
			}
			out = append(out, editor.Symbol{
				Name: sym.DisplayName,
				Kind: kind,
				URI:  doc.RelativePath,
				Rng:  occurrenceRange(occ.Range),
			})
		}
	}
	return out
}

// occurrenceRange decodes SCIP's compact range encoding: three elements when
// the occurrence fits on one line, four otherwise.
func occurrenceRange(r []int32) *items.Range {
	switch len(r) {
	case 3:
		return items.NewRange(int(r[0]), int(r[1]), int(r[0]), int(r[2]))
	case 4:
		return items.NewRange(int(r[0]), int(r[1]), int(r[2]), int(r[3]))
	default:
		return nil
	}
}

func mapKind(kind scippb.SymbolInformation_Kind) items.SymbolKind {
	switch kind {
	case scippb.SymbolInformation_Function:
		return items.KindFunction
	case scippb.SymbolInformation_Method, scippb.SymbolInformation_StaticMethod:
		return items.KindMethod
	case scippb.SymbolInformation_Class:
		return items.KindClass
	case scippb.SymbolInformation_Interface, scippb.SymbolInformation_Trait:
		return items.KindInterface
	case scippb.SymbolInformation_Enum:
		return items.KindEnum
	case scippb.SymbolInformation_Struct:
		return items.KindStruct
	case scippb.SymbolInformation_Constant:
		return items.KindConstant
	case scippb.SymbolInformation_Variable:
		return items.KindVariable
	default:
		return ""
	}
}
