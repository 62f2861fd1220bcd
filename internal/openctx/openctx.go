// Package openctx declares the contracts for pluggable external-context
// providers: mention providers that answer "give me items for this input"
// and annotation providers that attach supplementary context to line ranges
// of a file. Providers live outside this module; the resolver only consumes
// these interfaces.
package openctx

import (
	"context"

	"github.com/bevzzz/cody/internal/items"
)

// Item is a provider result. Only items carrying non-empty AI-ready content
// become context items; the rest are display-only and are dropped during
// resolution.
type Item struct {
	URI      string
	Title    string
	Provider string
	// AIContent is the text intended for model consumption. Empty means the
	// item has nothing usable for a prompt.
	AIContent string
}

// Annotation is a provider result tied to a line range of a file.
type Annotation struct {
	Item
	// Rng locates the annotation within the file. Annotations whose range
	// escapes the parent item's range (by line) are dropped.
	Rng *items.Range
}

// ItemsRequest asks a mention provider for items relevant to the original
// user input plus the mention metadata captured when the item was created.
type ItemsRequest struct {
	Input   string
	Mention *items.Mention
}

// Client is the mention-provider client. A nil client is a legal
// configuration and resolves every provider item to nothing.
type Client interface {
	Items(ctx context.Context, provider string, req ItemsRequest) ([]Item, error)
}

// Annotator supplies annotations over a file's content. getText hands the
// provider the already-resolved content so it never re-reads the file.
type Annotator interface {
	Annotations(ctx context.Context, uri string, getText func() string) ([]Annotation, error)
}
