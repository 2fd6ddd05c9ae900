package core

import (
	"github.com/encodeous/dvsim/perf"
	"github.com/encodeous/dvsim/state"
)

type RouterEvent int

// trace events

const (
	RouteImproved RouterEvent = iota
	RouteAdded
	LoopRejected
	RoundDone
)

func (e RouterEvent) String() string {
	switch e {
	case RouteImproved:
		return "RouteImproved"
	case RouteAdded:
		return "RouteAdded"
	case LoopRejected:
		return "LoopRejected"
	case RoundDone:
		return "RoundDone"
	}
	return "Unknown"
}

// Router receives the side effects of the routing algorithm
type Router interface {
	Log(event RouterEvent, desc string, args ...any)
	// RoundComplete is called by the convergence drivers after every round
	RoundComplete(round int, net *Network) error
}

// Merge relaxes t against adv, the table advertised by src, where linkCost is the cost of the direct link to src.
// It returns the number of entries that changed.
func Merge(t *state.Table, adv state.Snapshot, src state.NodeId, linkCost float64, r Router) int {
	self := t.Owner()
	changed := 0

	// We refer to our current node as A, the advertiser as B, and X as the destination.
	for X, route := range adv.All() {
		if X == self {
			continue // we never route to ourselves through someone else
		}
		if route.NextHop == self {
			// B reaches X through A, adopting it would form a loop
			perf.LoopRejections.Add(1)
			r.Log(LoopRejected, "route leads back through self", "dst", X, "via", src)
			continue
		}

		// Cost(A, B) + Cost(B, X)
		candidate := route.Distance + linkCost

		cur, exists := t.Get(X)
		if !exists {
			cur = state.Entry{Distance: state.INF}
		}
		// ties keep the current next hop
		if candidate >= cur.Distance {
			continue
		}

		next := state.Entry{Distance: candidate, NextHop: src}
		t.Update(X, next)
		changed++
		if exists {
			r.Log(RouteImproved, "route improved", "node", self, "dst", X, "old", cur, "new", next)
		} else {
			r.Log(RouteAdded, "route added", "node", self, "dst", X, "new", next)
		}
	}
	return changed
}
