package core

import (
	"fmt"
	"slices"
	"strings"
	"sync"
	"testing"

	"github.com/encodeous/dvsim/state"
	"github.com/google/go-cmp/cmp"
)

type HarnessEvent struct {
	Message string
	Args    []any
}

func MakeEvent(msg string, args ...any) HarnessEvent {
	return HarnessEvent{
		Message: msg,
		Args:    args,
	}
}

// RouterHarness records everything the algorithm tells its router
type RouterHarness struct {
	mu      sync.Mutex
	actions []HarnessEvent
	// OnRound, if set, runs after the round is recorded
	OnRound func(round int, net *Network) error
}

func (h *RouterHarness) Log(event RouterEvent, desc string, args ...any) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.actions = append(h.actions, MakeEvent(event.String(), args...))
}

func (h *RouterHarness) RoundComplete(round int, net *Network) error {
	h.mu.Lock()
	h.actions = append(h.actions, MakeEvent("ROUND", round))
	h.mu.Unlock()
	if h.OnRound != nil {
		return h.OnRound(round, net)
	}
	return nil
}

type HarnessEvents []HarnessEvent

func (h HarnessEvents) String() string {
	out := make([]string, 0)
	for _, action := range h {
		cur := action.Message
		for _, arg := range action.Args {
			cur += " " + fmt.Sprint(arg)
		}
		out = append(out, cur)
	}
	slices.Sort(out)
	return strings.Join(out, "\n")
}

// GetActions drains the recorded events, dropping RoundDone bookkeeping
func (h *RouterHarness) GetActions() HarnessEvents {
	h.mu.Lock()
	defer h.mu.Unlock()
	x := make([]HarnessEvent, 0)
	for _, action := range h.actions {
		if action.Message != RoundDone.String() {
			x = append(x, action)
		}
	}

	h.actions = make([]HarnessEvent, 0)
	return x
}

func (e HarnessEvents) Filter(msg string) HarnessEvents {
	out := make(HarnessEvents, 0)
	for _, event := range e {
		if event.Message == msg {
			out = append(out, event)
		}
	}
	return out
}

func (e HarnessEvents) contains(msg string, args ...any) bool {
	for _, event := range e.Filter(msg) {
		if len(event.Args) >= len(args) {
			match := true
			for i, arg := range args {
				if !cmp.Equal(event.Args[i], arg) {
					match = false
					break
				}
			}
			if match {
				return true
			}
		}
	}
	return false
}

func (e HarnessEvents) AssertContains(t *testing.T, msg string, args ...any) {
	t.Helper()
	if e.contains(msg, args...) {
		return
	}
	t.Fatal("Expected event not found: ", msg, " with args: ", args, " in ", e)
}

func (e HarnessEvents) AssertNotContains(t *testing.T, msg string, args ...any) {
	t.Helper()
	if e.contains(msg, args...) {
		t.Fatal("Unexpected event found: ", msg, " with args: ", args, " in ", e)
	}
}

func MakeSnapshot(owner state.NodeId, entries map[state.NodeId]state.Entry) state.Snapshot {
	return state.NewSnapshot(owner, entries)
}

func Via(distance float64, nh state.NodeId) state.Entry {
	return state.Entry{Distance: distance, NextHop: nh}
}

func MustNetwork(t *testing.T, cfg state.TopologyCfg) *Network {
	t.Helper()
	net, err := NewNetwork(&cfg)
	if err != nil {
		t.Fatal(err)
	}
	return net
}

// ReferenceDistancesTo runs a plain edge-list Bellman-Ford and returns every node's distance to dst,
// where each node pays its own configured cost to reach a neighbour
func ReferenceDistancesTo(cfg state.TopologyCfg, dst state.NodeId) map[state.NodeId]float64 {
	type edge struct {
		from, to state.NodeId
		cost     float64
	}
	edges := make([]edge, 0)
	dist := make(map[state.NodeId]float64)
	for _, node := range cfg.Nodes {
		dist[node.Id] = state.INF
		for neigh, cost := range node.Neighbours {
			edges = append(edges, edge{from: node.Id, to: neigh, cost: cost})
		}
	}
	dist[dst] = 0
	for range len(cfg.Nodes) - 1 {
		for _, e := range edges {
			if dist[e.to] != state.INF && dist[e.to]+e.cost < dist[e.from] {
				dist[e.from] = dist[e.to] + e.cost
			}
		}
	}
	return dist
}

// AssertShortest checks every node's converged distances against ReferenceDistancesTo
func AssertShortest(t *testing.T, cfg state.TopologyCfg, net *Network) {
	t.Helper()
	for _, dst := range cfg.Ids() {
		want := ReferenceDistancesTo(cfg, dst)
		for _, node := range net.Nodes() {
			got := node.Snapshot().Distance(dst)
			if got != want[node.Id] {
				t.Errorf("distance %s -> %s: got %s, want %s", node.Id, dst, state.FormatDistance(got), state.FormatDistance(want[node.Id]))
			}
		}
	}
}
