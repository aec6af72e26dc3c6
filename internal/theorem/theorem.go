// Package theorem holds the static table of named savings multipliers.
//
// The names are labels carried over from the business case; none of the
// underlying mathematics is computed. Each entry contributes a constant
// multiplier that the evaluators apply to the monthly cost.
package theorem

import (
	"errors"
	"fmt"
	"sort"
)

// ErrNotFound is returned when no entry carries the requested id.
var ErrNotFound = errors.New("theorem not found")

// Entry is one immutable row of the table.
type Entry struct {
	ID          int     `json:"id" yaml:"id"`
	Name        string  `json:"name" yaml:"name"`
	Multiplier  float64 `json:"multiplier" yaml:"multiplier"`
	Metric      string  `json:"metric" yaml:"metric"`
	Formula     string  `json:"formula" yaml:"formula"`
	Application string  `json:"application" yaml:"application"`
	Description string  `json:"description" yaml:"description"`
}

// Table is a validated, read-only set of entries ordered by id.
type Table struct {
	entries []Entry
	byID    map[int]int
}

// NewTable validates the entries and returns a Table. Ids must be unique and
// positive and every multiplier must be a positive fraction.
func NewTable(entries ...Entry) (*Table, error) {
	if len(entries) == 0 {
		return nil, errors.New("theorem table requires at least one entry")
	}

	sorted := make([]Entry, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	byID := make(map[int]int, len(sorted))
	for i, e := range sorted {
		if e.ID <= 0 {
			return nil, fmt.Errorf("theorem %q: id must be positive, got %d", e.Name, e.ID)
		}
		if _, dup := byID[e.ID]; dup {
			return nil, fmt.Errorf("duplicate theorem id %d", e.ID)
		}
		if !(e.Multiplier > 0 && e.Multiplier <= 1) {
			return nil, fmt.Errorf("theorem %d: multiplier must be in (0, 1], got %v", e.ID, e.Multiplier)
		}
		byID[e.ID] = i
	}

	return &Table{entries: sorted, byID: byID}, nil
}

// DefaultTable returns the standard thirteen entries.
func DefaultTable() *Table {
	t, err := NewTable(standard...)
	if err != nil {
		panic(fmt.Sprintf("standard theorem table: %v", err))
	}
	return t
}

// Lookup returns the entry with the given id.
func (t *Table) Lookup(id int) (Entry, error) {
	idx, ok := t.byID[id]
	if !ok {
		return Entry{}, fmt.Errorf("%w: id %d (valid ids are %d-%d)", ErrNotFound, id, t.entries[0].ID, t.entries[len(t.entries)-1].ID)
	}
	return t.entries[idx], nil
}

// All returns a copy of every entry ordered by ascending id.
func (t *Table) All() []Entry {
	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Len returns the number of entries.
func (t *Table) Len() int {
	return len(t.entries)
}
