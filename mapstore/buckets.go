package mapstore

import (
	"fmt"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// ConflictError reports a second write to a single-value key with a
// different value.  The first value stands; the write that raised the
// conflict is refused.
type ConflictError struct {
	Table    string
	Key      string
	Existing string
	Proposed string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("mapstore: conflicting value for %s[%s]: kept %q, refused %q",
		e.Table, e.Key, e.Existing, e.Proposed)
}

// Buckets holds the in-memory relation tables.  Single-value tables are
// first-write-wins; multi-value tables append in insertion order and ignore
// exact duplicates, so re-running an analysis over the same document leaves
// the tables unchanged.
type Buckets struct {
	single map[string]map[string]string
	multi  map[string]map[string][]string
}

func NewBuckets() *Buckets {
	return &Buckets{
		single: map[string]map[string]string{},
		multi:  map[string]map[string][]string{},
	}
}

// AddSingle records key→value in a single-value table.  Re-adding the same
// value is a no-op; a differing value is refused with a ConflictError.
func (b *Buckets) AddSingle(table string, key string, value string) error {
	entries, ok := b.single[table]
	if !ok {
		entries = map[string]string{}
		b.single[table] = entries
	}

	if existing, ok := entries[key]; ok {
		if existing == value {
			return nil
		}
		return &ConflictError{Table: table, Key: key, Existing: existing, Proposed: value}
	}

	entries[key] = value
	return nil
}

// AppendMulti appends value to the ordered list under key in a multi-value
// table.  A value already present for that key is not appended again.
func (b *Buckets) AppendMulti(table string, key string, value string) {
	entries, ok := b.multi[table]
	if !ok {
		entries = map[string][]string{}
		b.multi[table] = entries
	}

	if slices.Contains(entries[key], value) {
		return
	}
	entries[key] = append(entries[key], value)
}

// SingleValue looks up key in a single-value table.
func (b *Buckets) SingleValue(table string, key string) (string, bool) {
	value, ok := b.single[table][key]
	return value, ok
}

// MultiValues returns the ordered list under key in a multi-value table.
func (b *Buckets) MultiValues(table string, key string) []string {
	return b.multi[table][key]
}

// SingleTable returns the live entry map of a single-value table.  Callers
// must treat it as read-only.
func (b *Buckets) SingleTable(table string) map[string]string {
	return b.single[table]
}

// MultiTable returns the live entry map of a multi-value table.  Callers must
// treat it as read-only.
func (b *Buckets) MultiTable(table string) map[string][]string {
	return b.multi[table]
}

// TableNames returns the names of all non-empty tables, sorted.
func (b *Buckets) TableNames() []string {
	names := maps.Keys(b.single)
	names = append(names, maps.Keys(b.multi)...)
	slices.Sort(names)
	return names
}

// Len reports the number of keys in a table of either multiplicity.
func (b *Buckets) Len(table string) int {
	if entries, ok := b.single[table]; ok {
		return len(entries)
	}
	return len(b.multi[table])
}
