// Package rank scores candidate files and symbols against a free-text query
// and produces a deterministic, capped ranking. The fuzzy scorer is
// approximate and may return equal scores in arbitrary order; the sort here
// re-establishes a strict total order so repeated calls with the same inputs
// always rank identically.
package rank

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/sahilm/fuzzy"
)

const (
	// scoreFloor is deliberately permissive: it exists to cut pathological
	// non-matches cheaply, not to judge relevance, so legitimate long-path
	// matches with heavy gap penalties survive it.
	scoreFloor = -100000

	// segmentPenalty pushes noisy-path matches far down the ranking without
	// excluding them outright.
	segmentPenalty = 100000
)

// noisySegments are generic directory names that match many queries without
// the user meaning them. The penalty is waived when the query itself
// contains the segment.
var noisySegments = map[string]struct{}{
	"bin":          {},
	"dist":         {},
	"build":        {},
	"out":          {},
	"node_modules": {},
	"vendor":       {},
}

// FileCandidate pairs a file URI with its path relative to the owning
// workspace root. The relative path is the match key; absolute paths would
// let the workspace location dominate the score.
type FileCandidate struct {
	URI string
	Rel string
}

// RankedFile is a candidate with its final (possibly penalized) score.
type RankedFile struct {
	FileCandidate
	Score int
}

// relSource adapts candidates to the scorer without copying paths.
type relSource []FileCandidate

func (s relSource) String(i int) string { return s[i].Rel }
func (s relSource) Len() int            { return len(s) }

// Files ranks candidates against query and returns at most cap results,
// ordered by score descending with a locale-aware numeric path tie-break.
// An empty or whitespace-only query returns nil without error. Truncation
// happens here, before any downstream I/O is spent on candidates that would
// never be returned.
func Files(query string, cap int, candidates []FileCandidate) []RankedFile {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}
	query = normalizeQuerySeparators(query)

	matches := fuzzy.FindFrom(query, relSource(candidates))

	ranked := make([]RankedFile, 0, len(matches))
	for _, m := range matches {
		if m.Score < scoreFloor {
			continue
		}
		score := m.Score
		if penalized(candidates[m.Index].Rel, query) {
			score -= segmentPenalty
		}
		ranked = append(ranked, RankedFile{
			FileCandidate: candidates[m.Index],
			Score:         score,
		})
	}

	coll := newCollator()
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return coll.CompareString(ranked[i].Rel, ranked[j].Rel) < 0
	})

	if cap > 0 && len(ranked) > cap {
		ranked = ranked[:cap]
	}
	return ranked
}

// penalized reports whether rel contains a noisy segment the query does not
// itself ask for.
func penalized(rel, query string) bool {
	lowered := strings.ToLower(query)
	for _, seg := range strings.FieldsFunc(rel, isPathSeparator) {
		if _, noisy := noisySegments[seg]; !noisy {
			continue
		}
		if !strings.Contains(lowered, seg) {
			return true
		}
	}
	return false
}

func isPathSeparator(r rune) bool {
	return r == '/' || r == '\\'
}

// normalizeQuerySeparators maps forward slashes in the query to the
// platform separator so user-typed paths match native candidate paths on
// backslash platforms.
func normalizeQuerySeparators(query string) string {
	if filepath.Separator == '\\' {
		return strings.ReplaceAll(query, "/", "\\")
	}
	return query
}
