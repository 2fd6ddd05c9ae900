package core

import (
	"fmt"
	"net/netip"

	"github.com/encodeous/dvsim/state"
	"github.com/gaissmai/bart"
)

type ForwardEntry struct {
	Dst      state.NodeId
	Nh       state.NodeId
	Distance float64
}

func (e ForwardEntry) String() string {
	return fmt.Sprintf("%s via %s (distance: %s)", e.Dst, e.Nh, state.FormatDistance(e.Distance))
}

// ForwardTable maps addresses to the next hop a node would forward them to
type ForwardTable struct {
	Owner state.NodeId
	table bart.Table[ForwardEntry]
}

// BuildForwardTable compiles self's current routing table against the prefixes of each destination.
// Unreachable destinations are left out.
func BuildForwardTable(net *Network, self state.NodeId) (*ForwardTable, error) {
	node := net.Get(self)
	if node == nil {
		return nil, fmt.Errorf("node %s not found", self)
	}
	ft := &ForwardTable{Owner: self}
	for dst, e := range node.Snapshot().All() {
		if e.Distance == state.INF {
			continue
		}
		target := net.Get(dst)
		if target == nil {
			continue
		}
		nh := e.NextHop
		if !e.HasNextHop() {
			nh = self // local delivery
		}
		for _, prefix := range target.Prefixes() {
			ft.table.Insert(prefix.Masked(), ForwardEntry{
				Dst:      dst,
				Nh:       nh,
				Distance: e.Distance,
			})
		}
	}
	return ft, nil
}

// Lookup returns the longest prefix match for addr
func (f *ForwardTable) Lookup(addr netip.Addr) (ForwardEntry, bool) {
	return f.table.Lookup(addr)
}
