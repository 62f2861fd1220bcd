package resolve

import (
	"context"
	"os"
	"strings"

	"github.com/bevzzz/cody/internal/items"
	"github.com/bevzzz/cody/internal/logging"
)

// MaxFileBytes is the hard ceiling for a local file candidate. Anything
// larger is dropped before any content I/O happens.
const MaxFileBytes = 1_000_000

// Bytes-per-token divisors for the pre-resolution size estimate. Markdown is
// token-denser than code, so it gets the smaller divisor.
const (
	markdownBytesPerToken = 3.5
	defaultBytesPerToken  = 4.5
)

// StatFunc reports file metadata for a URI.
type StatFunc func(ctx context.Context, uri string) (os.FileInfo, error)

// Filter applies the size/eligibility gate to local file candidates.
type Filter struct {
	stat   StatFunc
	logger *logging.Logger
}

// NewFilter creates a filter using the given stat function.
func NewFilter(stat StatFunc, logger *logging.Logger) *Filter {
	return &Filter{stat: stat, logger: logger.Named("filter")}
}

// Apply stats each local file candidate and drops the ineligible ones:
// failed stats, non-regular files and files over MaxFileBytes. Survivors get
// an estimated token size. Items that are remote, already carry content or
// are not files pass through untouched.
func (f *Filter) Apply(ctx context.Context, candidates []items.ContextItem) []items.ContextItem {
	out := make([]items.ContextItem, 0, len(candidates))
	for _, it := range candidates {
		if !f.needsStat(it) {
			out = append(out, it)
			continue
		}

		info, err := f.stat(ctx, it.URI)
		if err != nil {
			f.logger.Debug("Dropping unstatable candidate", map[string]interface{}{
				"uri":   it.URI,
				"error": err.Error(),
			})
			continue
		}
		if !info.Mode().IsRegular() {
			continue
		}
		if info.Size() > MaxFileBytes {
			f.logger.Debug("Dropping oversized candidate", map[string]interface{}{
				"uri":   it.URI,
				"bytes": info.Size(),
			})
			continue
		}

		size := EstimateTokens(it.URI, info.Size())
		it.Size = &size
		out = append(out, it)
	}
	return out
}

func (f *Filter) needsStat(it items.ContextItem) bool {
	if it.Typ != items.TypeFile {
		return false
	}
	if it.RemoteRepositoryName != "" {
		return false
	}
	return it.Content == nil
}

// EstimateTokens estimates a token count from a byte size without reading
// the file.
func EstimateTokens(uri string, bytes int64) int {
	divisor := defaultBytesPerToken
	lower := strings.ToLower(uri)
	if strings.HasSuffix(lower, ".md") || strings.HasSuffix(lower, ".markdown") {
		divisor = markdownBytesPerToken
	}
	return int(float64(bytes) / divisor)
}
