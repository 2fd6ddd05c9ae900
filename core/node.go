package core

import (
	"maps"
	"net/netip"
	"slices"
	"sync"

	"github.com/encodeous/dvsim/perf"
	"github.com/encodeous/dvsim/state"
)

// Node owns a routing table and the fixed costs of its direct links.
// The table is only mutated through Receive.
type Node struct {
	Id         state.NodeId
	neighbours map[state.NodeId]float64
	prefixes   []netip.Prefix

	mu    sync.RWMutex
	table *state.Table
}

func NewNode(id state.NodeId, neighbours map[state.NodeId]float64, prefixes ...netip.Prefix) *Node {
	neighbours = maps.Clone(neighbours)
	if neighbours == nil {
		neighbours = make(map[state.NodeId]float64)
	}
	return &Node{
		Id:         id,
		neighbours: neighbours,
		prefixes:   slices.Clone(prefixes),
		table:      state.NewTable(id, neighbours),
	}
}

// LinkCost returns the cost of the direct link to id, or state.INF if id is not a neighbour
func (n *Node) LinkCost(id state.NodeId) float64 {
	if cost, ok := n.neighbours[id]; ok {
		return cost
	}
	return state.INF
}

func (n *Node) Neighbours() []state.NodeId {
	return slices.Sorted(maps.Keys(n.neighbours))
}

func (n *Node) Prefixes() []netip.Prefix {
	return slices.Clone(n.prefixes)
}

func (n *Node) Snapshot() state.Snapshot {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.table.Snapshot()
}

// Receive merges an advertisement from src into the routing table
func (n *Node) Receive(adv state.Snapshot, src state.NodeId, r Router) int {
	perf.Advertisements.Add(1)
	n.mu.Lock()
	defer n.mu.Unlock()
	return Merge(n.table, adv, src, n.LinkCost(src), r)
}
