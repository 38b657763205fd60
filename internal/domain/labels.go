package domain

import (
	"sort"
	"strings"
)

// Label is a single (key, value) pair attached to a log record.
type Label struct {
	Key   string
	Value string
}

// Labels is an ordered list of label pairs. Input order is insignificant;
// duplicate keys are allowed and survive until the list is resolved into a
// mapping.
type Labels []Label

// Sort orders the list by key, then by value. This is the canonical order
// used for grouping, so two records whose labels differ only in order land
// in the same stream.
func (ls Labels) Sort() {
	sort.SliceStable(ls, func(i, j int) bool {
		if ls[i].Key != ls[j].Key {
			return ls[i].Key < ls[j].Key
		}
		return ls[i].Value < ls[j].Value
	})
}

// CanonicalKey sorts the list in place and builds the grouping key: every
// key and value in canonical order, each escaped and terminated with an
// unescaped comma. A backslash becomes "\\" and a comma "\,", so two
// distinct label sets can never produce the same key no matter what the
// label content is (e.g. {k="v,v"} yields "k,v\,v," not "k,v,v,").
//
// Duplicate keys are kept here: a list with a repeated key contributes both
// occurrences to the grouping key even though only the last value survives
// in the resolved mapping. See Map.
func (ls Labels) CanonicalKey() string {
	ls.Sort()
	var b strings.Builder
	for _, l := range ls {
		appendEscaped(&b, l.Key)
		appendEscaped(&b, l.Value)
	}
	return b.String()
}

// Map resolves the list into the label mapping used on the wire. A repeated
// key keeps the last value seen (last write wins). The result is never nil.
func (ls Labels) Map() map[string]string {
	m := make(map[string]string, len(ls))
	for _, l := range ls {
		m[l.Key] = l.Value
	}
	return m
}

// AllocatedBytes returns the heap-resident size of all label strings.
func (ls Labels) AllocatedBytes() int {
	n := 0
	for _, l := range ls {
		n += len(l.Key) + len(l.Value)
	}
	return n
}

func appendEscaped(b *strings.Builder, s string) {
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '\\':
			b.WriteString(`\\`)
		case ',':
			b.WriteString(`\,`)
		default:
			b.WriteByte(c)
		}
	}
	b.WriteByte(',')
}
