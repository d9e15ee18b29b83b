// Package merge folds parsed record sets into a kept set with one record per
// citation key and a duplicates set holding every record whose key collided.
//
// A colliding record is stored as key_n with the smallest n whose name is
// free in both sets. Names already kept count as taken, so folding the keys
// A, A_0, A stores the second A as A_1. A kept key that arrives after a
// duplicate took its name is still kept and the placement is marked as
// shadowing; the two sets then share that name.
package merge

import (
	"strconv"

	"github.com/agentstation/bibmerge/pkg/constants"
	"github.com/agentstation/bibmerge/pkg/records"
)

// Entry is a record together with the name it is stored under.
type Entry struct {
	Name   string         `json:"name" yaml:"name"`
	Record records.Record `json:"record" yaml:"record"`
}

// Placement reports where Add put a record.
type Placement struct {
	Entry

	// Duplicate is true when the record went to the duplicates set.
	Duplicate bool

	// Shadows is true when a kept key equals a name already generated for
	// a duplicate. Both entries are kept; the key sets then overlap.
	Shadows bool
}

// State is the running merge result. The zero value is not usable; call
// NewState. A State is not safe for concurrent use: fold sets into it from a
// single goroutine in the order they should win.
type State struct {
	kept       map[string]records.Record
	keptOrder  []string
	duplicates map[string]records.Record
	dupOrder   []string

	// next holds, per colliding key, a suffix below which every name is taken.
	next map[string]int
}

// NewState returns an empty State.
func NewState() *State {
	return &State{
		kept:       make(map[string]records.Record),
		duplicates: make(map[string]records.Record),
		next:       make(map[string]int),
	}
}

// Fold merges sets into a fresh State in order.
func Fold(sets ...records.Set) *State {
	s := NewState()
	for _, set := range sets {
		s.Merge(set)
	}
	return s
}

// DisambiguatedKey returns the duplicates name for the n-th collision of key.
func DisambiguatedKey(key string, n int) string {
	return key + constants.DisambiguationSeparator + strconv.Itoa(n)
}

// Merge places every record of set, in order, and returns the placements.
// Within a set the first record with a given key wins the kept slot.
func (s *State) Merge(set records.Set) []Placement {
	placements := make([]Placement, 0, set.Len())
	for _, r := range set.Records {
		placements = append(placements, s.Add(r))
	}
	return placements
}

// Add places one record. A key not yet kept is kept. Otherwise the record is
// stored as a duplicate under key_n, n being the smallest non-negative
// integer whose name is free in both sets.
func (s *State) Add(r records.Record) Placement {
	if _, exists := s.kept[r.Key]; !exists {
		s.kept[r.Key] = r
		s.keptOrder = append(s.keptOrder, r.Key)
		_, shadows := s.duplicates[r.Key]
		return Placement{Entry: Entry{Name: r.Key, Record: r}, Shadows: shadows}
	}

	n := s.next[r.Key]
	name := DisambiguatedKey(r.Key, n)
	for s.taken(name) {
		n++
		name = DisambiguatedKey(r.Key, n)
	}
	s.next[r.Key] = n + 1

	s.duplicates[name] = r
	s.dupOrder = append(s.dupOrder, name)
	return Placement{Entry: Entry{Name: name, Record: r}, Duplicate: true}
}

func (s *State) taken(name string) bool {
	if _, ok := s.duplicates[name]; ok {
		return true
	}
	_, ok := s.kept[name]
	return ok
}

// Kept returns the kept records keyed by citation key in first-seen order.
func (s *State) Kept() []Entry {
	return entries(s.keptOrder, s.kept)
}

// Duplicates returns the duplicate records keyed by generated name in
// first-seen order.
func (s *State) Duplicates() []Entry {
	return entries(s.dupOrder, s.duplicates)
}

// KeptRecords returns the kept records in first-seen order.
func (s *State) KeptRecords() []records.Record {
	return values(s.keptOrder, s.kept)
}

// DuplicateRecords returns the duplicate records in first-seen order.
func (s *State) DuplicateRecords() []records.Record {
	return values(s.dupOrder, s.duplicates)
}

// Lookup returns the kept record for key.
func (s *State) Lookup(key string) (records.Record, bool) {
	r, ok := s.kept[key]
	return r, ok
}

// Duplicate returns the duplicate stored under a generated name.
func (s *State) Duplicate(name string) (records.Record, bool) {
	r, ok := s.duplicates[name]
	return r, ok
}

// KeptCount returns the number of kept records.
func (s *State) KeptCount() int {
	return len(s.keptOrder)
}

// DuplicateCount returns the number of duplicate records.
func (s *State) DuplicateCount() int {
	return len(s.dupOrder)
}

// Len returns the number of records merged so far.
func (s *State) Len() int {
	return s.KeptCount() + s.DuplicateCount()
}

func entries(order []string, m map[string]records.Record) []Entry {
	out := make([]Entry, len(order))
	for i, name := range order {
		out[i] = Entry{Name: name, Record: m[name]}
	}
	return out
}

func values(order []string, m map[string]records.Record) []records.Record {
	out := make([]records.Record, len(order))
	for i, name := range order {
		out[i] = m[name]
	}
	return out
}
