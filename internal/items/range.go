package items

import "strings"

// Position is a zero-based line/column location.
type Position struct {
	Line      int `json:"line"`
	Character int `json:"character"`
}

// Range is the canonical half-open [Start, End) span used throughout the
// engine. Editor-native range values are converted into this type at the
// normalization boundary and never travel past it.
type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// NewRange builds a range from raw line/column values.
func NewRange(startLine, startChar, endLine, endChar int) *Range {
	return &Range{
		Start: Position{Line: startLine, Character: startChar},
		End:   Position{Line: endLine, Character: endChar},
	}
}

// ContainsLines reports whether other lies fully within r by line. Column
// positions are deliberately ignored: annotation containment is judged at
// line granularity.
func (r *Range) ContainsLines(other *Range) bool {
	if r == nil || other == nil {
		return false
	}
	return other.Start.Line >= r.Start.Line && other.End.Line <= r.End.Line
}

// LineCount returns the number of lines the range spans.
func (r *Range) LineCount() int {
	if r == nil {
		return 0
	}
	n := r.End.Line - r.Start.Line
	if n < 0 {
		return 0
	}
	return n
}

// SliceLines restricts text to the line span of rng. A nil range returns the
// text unchanged. Out-of-bounds lines clamp instead of failing; a stale
// range still yields the best available text.
func SliceLines(text string, rng *Range) string {
	if rng == nil {
		return text
	}
	lines := strings.Split(text, "\n")
	start := rng.Start.Line
	end := rng.End.Line
	if rng.End.Character > 0 {
		end++
	}
	if start < 0 {
		start = 0
	}
	if end > len(lines) {
		end = len(lines)
	}
	if start >= end {
		return ""
	}
	return strings.Join(lines[start:end], "\n")
}
