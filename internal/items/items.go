// Package items defines the context-item data model shared by the rankers,
// the eligibility filter and the content resolver. A context item is a typed
// reference to a piece of potential prompt context; it carries no content
// until the resolver has run.
package items

import (
	"fmt"
	"strings"
)

// Type tags the closed set of context-item variants.
type Type string

const (
	// TypeFile references a file, local or remote.
	TypeFile Type = "file"
	// TypeSymbol references a named symbol inside a file.
	TypeSymbol Type = "symbol"
	// TypeOpenCtx references an item supplied by an external context provider.
	TypeOpenCtx Type = "openctx"
)

// Source records where an item came from.
type Source string

const (
	// SourceUser marks items added explicitly by the user.
	SourceUser Source = "user"
	// SourceSearch marks items produced by the local rankers.
	SourceSearch Source = "search"
	// SourceRemote marks items produced by the remote backend.
	SourceRemote Source = "unified"
	// SourceEditor marks items snapshotted from open editor tabs.
	SourceEditor Source = "editor"
)

// SymbolKind classifies symbol items.
type SymbolKind string

const (
	KindFunction  SymbolKind = "function"
	KindMethod    SymbolKind = "method"
	KindClass     SymbolKind = "class"
	KindInterface SymbolKind = "interface"
	KindEnum      SymbolKind = "enum"
	KindStruct    SymbolKind = "struct"
	KindConstant  SymbolKind = "constant"
	KindVariable  SymbolKind = "variable"
)

// OpenCtxKind distinguishes primary provider items from annotations attached
// to a line range of a file.
type OpenCtxKind string

const (
	// OpenCtxItem is a primary provider-supplied item.
	OpenCtxItem OpenCtxKind = "item"
	// OpenCtxAnnotation is a supplementary item scoped to a line range.
	OpenCtxAnnotation OpenCtxKind = "annotation"
)

// ContextItem is the tagged union over file, symbol and openctx references.
// Exactly the fields for the variant named by Typ are meaningful; behavior
// that branches on the variant must switch on Typ exhaustively.
type ContextItem struct {
	Typ    Type   `json:"type"`
	URI    string `json:"uri"`
	Source Source `json:"source"`
	// Range is the half-open line/column span the item covers, when known.
	Range     *Range `json:"range,omitempty"`
	IsIgnored bool   `json:"isIgnored,omitempty"`
	// Size is an estimated or exact token count. Nil means "not yet sized";
	// the resolver replaces estimates with exact counts.
	Size *int `json:"size,omitempty"`
	// Content carries pre-resolved text, if the caller already has it. The
	// resolver reuses it instead of re-reading the source.
	Content *string `json:"content,omitempty"`

	// RemoteRepositoryName is set on file/symbol items that live in a remote
	// repository. When set, URI is the concatenation <repoName><path>; any
	// consumer splitting the two must split at len(RemoteRepositoryName).
	RemoteRepositoryName string `json:"remoteRepositoryName,omitempty"`

	// Symbol variant fields.
	SymbolName string     `json:"symbolName,omitempty"`
	Kind       SymbolKind `json:"kind,omitempty"`

	// OpenCtx variant fields.
	Provider    string      `json:"provider,omitempty"`
	ProviderURI string      `json:"providerUri,omitempty"`
	Title       string      `json:"title,omitempty"`
	OpenCtx     OpenCtxKind `json:"openCtxKind,omitempty"`
	// Mention carries provider-specific metadata required to query the
	// provider for this item again.
	Mention *Mention `json:"mention,omitempty"`
}

// Mention is the provider-specific metadata an openctx item needs to be
// re-queried against its provider.
type Mention struct {
	URI  string                 `json:"uri"`
	Data map[string]interface{} `json:"data,omitempty"`
}

// ContextItemWithContent is a ContextItem whose text has been resolved and
// whose size is an exact token count. It lives for one prompt-construction
// cycle and is never persisted.
type ContextItemWithContent struct {
	ContextItem
	Content string `json:"content"`
}

// core is the shared builder behind the per-variant constructors.
func core(typ Type, uri string, source Source) ContextItem {
	return ContextItem{Typ: typ, URI: uri, Source: source}
}

// NewFileItem constructs a file reference.
func NewFileItem(uri string, source Source, rng *Range) ContextItem {
	it := core(TypeFile, uri, source)
	it.Range = rng
	return it
}

// NewSymbolItem constructs a symbol reference.
func NewSymbolItem(uri string, source Source, rng *Range, name string, kind SymbolKind) ContextItem {
	it := core(TypeSymbol, uri, source)
	it.Range = rng
	it.SymbolName = name
	it.Kind = kind
	return it
}

// NewOpenCtxItem constructs a provider-supplied item.
func NewOpenCtxItem(uri string, provider, providerURI, title string, kind OpenCtxKind) ContextItem {
	it := core(TypeOpenCtx, uri, SourceUser)
	it.Provider = provider
	it.ProviderURI = providerURI
	it.Title = title
	it.OpenCtx = kind
	return it
}

// RemoteURI builds the self-describing URI for a remote file: the repository
// name concatenated with the rooted in-repo path.
func RemoteURI(repoName, path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return repoName + path
}

// SplitRemoteURI recovers the rooted in-repo path from a remote URI. The
// split point is the repository name's length; anything else corrupts paths
// whose leading segments repeat the repository name.
func SplitRemoteURI(uri, repoName string) (string, error) {
	if len(uri) < len(repoName) || uri[:len(repoName)] != repoName {
		return "", fmt.Errorf("uri %q does not start with repository %q", uri, repoName)
	}
	return uri[len(repoName):], nil
}
