package state

import (
	"fmt"
	"iter"
	"maps"
	"slices"
	"strconv"
	"strings"
)

type NodeId string

// None is the next hop of a node's route to itself
const None NodeId = ""

type Entry struct {
	Distance float64
	NextHop  NodeId
}

func (e Entry) HasNextHop() bool {
	return e.NextHop != None
}

func (e Entry) String() string {
	nh := "none"
	if e.HasNextHop() {
		nh = string(e.NextHop)
	}
	return fmt.Sprintf("(distance: %s, nh: %s)", FormatDistance(e.Distance), nh)
}

// FormatDistance prints the shortest decimal form of d, or "inf"
func FormatDistance(d float64) string {
	if d == INF {
		return "inf"
	}
	return strconv.FormatFloat(d, 'f', -1, 64)
}

// Snapshot is a read-only copy of a routing table. It never aliases the table it was taken from.
type Snapshot struct {
	owner   NodeId
	entries map[NodeId]Entry
}

func (s Snapshot) Owner() NodeId {
	return s.owner
}

func (s Snapshot) Get(dst NodeId) (Entry, bool) {
	e, ok := s.entries[dst]
	return e, ok
}

// Distance returns the recorded distance to dst, INF if there is no entry
func (s Snapshot) Distance(dst NodeId) float64 {
	if e, ok := s.entries[dst]; ok {
		return e.Distance
	}
	return INF
}

func (s Snapshot) Len() int {
	return len(s.entries)
}

// Destinations returns every destination in lexical order
func (s Snapshot) Destinations() []NodeId {
	return slices.Sorted(maps.Keys(s.entries))
}

// All iterates entries in lexical destination order
func (s Snapshot) All() iter.Seq2[NodeId, Entry] {
	return func(yield func(NodeId, Entry) bool) {
		for _, dst := range s.Destinations() {
			if !yield(dst, s.entries[dst]) {
				return
			}
		}
	}
}

// Entries returns a copy of the underlying mapping
func (s Snapshot) Entries() map[NodeId]Entry {
	return maps.Clone(s.entries)
}

func (s Snapshot) Equal(o Snapshot) bool {
	return s.owner == o.owner && maps.Equal(s.entries, o.entries)
}

func (s Snapshot) String() string {
	out := make([]string, 0, len(s.entries))
	for dst, e := range s.All() {
		out = append(out, fmt.Sprintf("%s via %s", dst, e))
	}
	return strings.Join(out, "\n")
}

// NewSnapshot builds a snapshot from a copy of entries. Used for advertisements that do not come from a live table.
func NewSnapshot(owner NodeId, entries map[NodeId]Entry) Snapshot {
	return Snapshot{owner: owner, entries: maps.Clone(entries)}
}

// Table is the live routing table owned by a single node.
// The owner's entry is always (0, none) and cannot be replaced.
type Table struct {
	owner   NodeId
	entries map[NodeId]Entry
}

// NewTable seeds a table with the self route and a direct route to every neighbour
func NewTable(owner NodeId, neighbours map[NodeId]float64) *Table {
	t := &Table{
		owner:   owner,
		entries: make(map[NodeId]Entry, len(neighbours)+1),
	}
	t.entries[owner] = Entry{Distance: 0, NextHop: None}
	for neigh, cost := range neighbours {
		if neigh == owner {
			continue
		}
		t.entries[neigh] = Entry{Distance: cost, NextHop: neigh}
	}
	return t
}

func (t *Table) Owner() NodeId {
	return t.owner
}

func (t *Table) Get(dst NodeId) (Entry, bool) {
	e, ok := t.entries[dst]
	return e, ok
}

// Distance returns the recorded distance to dst, INF if there is no entry
func (t *Table) Distance(dst NodeId) float64 {
	if e, ok := t.entries[dst]; ok {
		return e.Distance
	}
	return INF
}

func (t *Table) Len() int {
	return len(t.entries)
}

// Update replaces the entry for dst. It reports false and leaves the table alone when dst is the owner.
func (t *Table) Update(dst NodeId, e Entry) bool {
	if dst == t.owner {
		return false
	}
	t.entries[dst] = e
	return true
}

func (t *Table) Snapshot() Snapshot {
	return Snapshot{owner: t.owner, entries: maps.Clone(t.entries)}
}
