package pipeline

import (
	"strings"

	"github.com/sells-group/leadgen-cli/internal/model"
)

// DedupIndex decides whether a candidate business is already represented in
// the lead book. Matching is deliberately fuzzy in both dimensions:
//
//   - names match on normalized equality or either-direction substring
//     containment, because search results truncate and expand business
//     names inconsistently;
//   - phones match on either-direction substring containment, because the
//     same number shows up with and without a country code.
//
// The policy trades a small false-positive rate for much higher recall of
// true duplicates. Tightening it to exact matching silently re-creates the
// duplicates it exists to prevent.
type DedupIndex struct {
	entries []dedupEntry
}

type dedupEntry struct {
	name   string
	phones []string
}

// NewDedupIndex builds an index over the current lead book.
func NewDedupIndex(leads []model.Lead) *DedupIndex {
	idx := &DedupIndex{entries: make([]dedupEntry, 0, len(leads))}
	for _, l := range leads {
		idx.Add(l.Name, l.Phones)
	}
	return idx
}

// Add registers a lead so later candidates in the same batch dedupe against
// it too.
func (idx *DedupIndex) Add(name string, phones []string) {
	idx.entries = append(idx.entries, dedupEntry{
		name:   NormalizeName(name),
		phones: phones,
	})
}

// IsDuplicate reports whether the candidate matches any indexed lead by
// name or by phone.
func (idx *DedupIndex) IsDuplicate(name string, phones []string) bool {
	candidate := NormalizeName(name)
	for _, e := range idx.entries {
		if namesMatch(candidate, e.name) {
			return true
		}
		for _, p := range phones {
			for _, q := range e.phones {
				if phonesMatch(p, q) {
					return true
				}
			}
		}
	}
	return false
}

func namesMatch(a, b string) bool {
	if a == "" || b == "" {
		return a == b
	}
	return a == b || strings.Contains(a, b) || strings.Contains(b, a)
}

func phonesMatch(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}
