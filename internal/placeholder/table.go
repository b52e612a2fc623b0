package placeholder

import (
	"maps"
	"sort"
	"strings"
)

// Table maps lower-cased placeholder tokens, delimiters included, to their
// replacement text, e.g. "@app.schema@" → "app".
//
// A Table is never mutated by the substitutor; every routine works on its own copy.
type Table map[string]string

// NewTable builds a Table from pairs, lower-casing every key.
// Later pairs win when two keys differ only in case.
func NewTable(pairs ...map[string]string) Table {
	t := make(Table)
	for _, p := range pairs {
		for k, v := range p {
			t[strings.ToLower(k)] = v
		}
	}
	return t
}

// Lookup returns the value of token, matched case-insensitively.
func (t Table) Lookup(token string) (string, bool) {
	v, ok := t[strings.ToLower(token)]
	return v, ok
}

// Clone returns an independent copy of the table.
func (t Table) Clone() Table {
	return maps.Clone(t)
}

// With returns a copy of the table overlaid with other. Entries in other win.
func (t Table) With(other Table) Table {
	out := t.Clone()
	if out == nil {
		out = make(Table, len(other))
	}
	for k, v := range other {
		out[strings.ToLower(k)] = v
	}
	return out
}

// Keys returns the keys of the table in sorted order.
func (t Table) Keys() []string {
	keys := make([]string, 0, len(t))
	for k := range t {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
