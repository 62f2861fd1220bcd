package rank

import (
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// newCollator builds the comparator used for tie-breaking. Numeric collation
// orders "file2" before "file10", and the untagged locale keeps the order
// identical across hosts. Collators are not safe for concurrent use, so one
// is built per ranking pass.
func newCollator() *collate.Collator {
	return collate.New(language.Und, collate.Numeric)
}
