package reaction

import (
	"sort"
	"strings"

	"github.com/turtacn/netmodel/pkg/errors"
)

const tagAlphabet = "abcdefghijklmnopqrstuvwxyz"

// TagChange records an old compartment tag that was given a different code.
type TagChange struct {
	Old string `json:"old"`
	New string `json:"new"`
}

// CompartmentMap is an injective mapping from the compartment tags observed in
// one model to single-character codes. It is built once per conversion run
// and never merged with the map of another model.
type CompartmentMap struct {
	codes map[string]string
	order []string
}

// Lookup returns the code allocated to tag.
func (m *CompartmentMap) Lookup(tag string) (string, bool) {
	if m == nil {
		return "", false
	}
	code, ok := m.codes[tag]
	return code, ok
}

// Len is the number of tags in the map.
func (m *CompartmentMap) Len() int {
	if m == nil {
		return 0
	}
	return len(m.order)
}

// Tags returns the old tags in allocation order (descending frequency, then
// alphabetical).
func (m *CompartmentMap) Tags() []string {
	return append([]string(nil), m.order...)
}

// AsMap returns a copy of the old-tag to code mapping.
func (m *CompartmentMap) AsMap() map[string]string {
	out := make(map[string]string, len(m.codes))
	for k, v := range m.codes {
		out[k] = v
	}
	return out
}

// Changes lists every (old, new) pair in allocation order when at least one
// tag was renamed, and nil when the map is the identity.
func (m *CompartmentMap) Changes() []TagChange {
	changed := false
	for _, old := range m.order {
		if m.codes[old] != old {
			changed = true
			break
		}
	}
	if !changed {
		return nil
	}
	out := make([]TagChange, 0, len(m.order))
	for _, old := range m.order {
		out = append(out, TagChange{Old: old, New: m.codes[old]})
	}
	return out
}

// AllocateCompartments counts every "[tag]" occurrence across the equations of
// one model and allocates codes with AllocateTags.
func AllocateCompartments(equations []string) (*CompartmentMap, error) {
	var tags []string
	for _, eq := range equations {
		tags = append(tags, ScanTags(eq)...)
	}
	return AllocateTags(tags)
}

// ScanTags returns the contents of every non-empty bracket pair in s, in order
// of appearance and with repetitions.
func ScanTags(s string) []string {
	var tags []string
	for {
		open := strings.IndexByte(s, '[')
		if open < 0 {
			return tags
		}
		closing := strings.IndexByte(s[open+1:], ']')
		if closing < 0 {
			return tags
		}
		if tag := s[open+1 : open+1+closing]; tag != "" {
			tags = append(tags, tag)
		}
		s = s[open+1+closing+1:]
	}
}

// AllocateTags assigns a single-character code to each distinct tag in tags.
// Tags are processed by descending occurrence count, ties broken by tag text.
// Each tag takes the first candidate not already assigned, trying its own
// characters left to right and then a-z. Running out of candidates is an
// ErrCodeCompartmentOverflow error.
func AllocateTags(tags []string) (*CompartmentMap, error) {
	counts := make(map[string]int)
	for _, t := range tags {
		counts[t]++
	}
	order := make([]string, 0, len(counts))
	for t := range counts {
		order = append(order, t)
	}
	sort.Slice(order, func(i, j int) bool {
		if counts[order[i]] != counts[order[j]] {
			return counts[order[i]] > counts[order[j]]
		}
		return order[i] < order[j]
	})

	m := &CompartmentMap{codes: make(map[string]string, len(order)), order: order}
	taken := make(map[string]bool, len(order))
	for _, old := range order {
		code, ok := firstFreeCode(old, taken)
		if !ok {
			return nil, errors.Newf(errors.ErrCodeCompartmentOverflow,
				"too many compartments for the alphabet: no code left for %q", old).
				WithDetail(strings.Join(order, ","))
		}
		taken[code] = true
		m.codes[old] = code
	}
	return m, nil
}

func firstFreeCode(old string, taken map[string]bool) (string, bool) {
	for _, r := range old {
		if c := string(r); !taken[c] {
			return c, true
		}
	}
	for _, r := range tagAlphabet {
		if c := string(r); !taken[c] {
			return c, true
		}
	}
	return "", false
}
