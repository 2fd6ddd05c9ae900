//go:build integration

package integration

import (
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/encodeous/dvsim/core"
	"github.com/encodeous/dvsim/state"
	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m, goleak.IgnoreAnyFunction("os/signal.loop"))
}

func assertShortest(t *testing.T, cfg *state.TopologyCfg, net *core.Network) {
	t.Helper()
	for _, dst := range cfg.Ids() {
		want := ShortestTo(cfg, dst)
		for _, node := range net.Nodes() {
			assert.Equal(t, want[node.Id], node.Snapshot().Distance(dst), "%s -> %s", node.Id, dst)
		}
	}
}

func TestExampleNetwork(t *testing.T) {
	vh := NewHarness(t)
	vh.Topology = state.ExampleTopology()

	net, res, cfg := vh.Run(t, false)
	assert.Equal(t, 6, res.Rounds)
	assertShortest(t, cfg, net)

	out := vh.Out.String()
	for i := 1; i <= 6; i++ {
		assert.Contains(t, out, fmt.Sprintf("--- Iteration %d ---\n", i))
	}
	// the last report reflects the converged table of A
	last := out[strings.LastIndex(out, "--- Iteration 6 ---"):]
	assert.Contains(t, last, `Routing table for node A:
  Destination: A, Distance: 0, Next Hop: none
  Destination: B, Distance: 1, Next Hop: B
  Destination: C, Distance: 4, Next Hop: B
  Destination: D, Distance: 5, Next Hop: B
  Destination: E, Distance: 4, Next Hop: B
  Destination: F, Distance: 2, Next Hop: B
`)

	logs, err := os.ReadFile(vh.LogPath)
	assert.NoError(t, err)
	assert.Contains(t, string(logs), "LoopRejected")
}

func TestRingUntilStable(t *testing.T) {
	vh := NewHarness(t)
	const n = 12
	for i := range n {
		vh.NewNode(fmt.Sprintf("r%02d", i))
	}
	for i := range n {
		vh.AddLink(fmt.Sprintf("r%02d", i), fmt.Sprintf("r%02d", (i+1)%n), 1)
	}
	vh.Topology.UntilStable = true

	net, res, cfg := vh.Run(t, true)
	assert.True(t, res.Stable)
	assertShortest(t, cfg, net)
	assert.Equal(t, 6.0, net.Get("r00").Snapshot().Distance("r06"))
	assert.True(t, strings.HasPrefix(vh.Out.String(), fmt.Sprintf("--- Iteration %d ---", res.Rounds)))
}

func TestAsymmetricCosts(t *testing.T) {
	vh := NewHarness(t)
	vh.NewNode("a")
	vh.NewNode("b")
	vh.NewNode("c")
	vh.AddDirected("a", "b", 1)
	vh.AddDirected("b", "a", 10)
	vh.AddDirected("b", "c", 1)
	vh.AddDirected("c", "b", 1)
	vh.AddDirected("a", "c", 5)
	vh.AddDirected("c", "a", 1)
	vh.Topology.UntilStable = true

	net, res, cfg := vh.Run(t, true)
	assert.True(t, res.Stable)
	assertShortest(t, cfg, net)

	a := net.Get("a").Snapshot()
	c, _ := a.Get("c")
	assert.Equal(t, state.Entry{Distance: 2, NextHop: "b"}, c)
	b := net.Get("b").Snapshot()
	toA, _ := b.Get("a")
	assert.Equal(t, state.Entry{Distance: 2, NextHop: "c"}, toA)
}

func TestConcurrentGrid(t *testing.T) {
	vh := NewHarness(t)
	const side = 5
	name := func(x, y int) string { return fmt.Sprintf("g%d-%d", x, y) }
	for x := range side {
		for y := range side {
			vh.NewNode(name(x, y), fmt.Sprintf("10.%d.%d.0/24", x, y))
		}
	}
	for x := range side {
		for y := range side {
			if x+1 < side {
				vh.AddLink(name(x, y), name(x+1, y), float64(1+(x+y)%3))
			}
			if y+1 < side {
				vh.AddLink(name(x, y), name(x, y+1), float64(1+(x*y)%4))
			}
		}
	}
	vh.Topology.Concurrent = true
	vh.Topology.UntilStable = true

	net, res, cfg := vh.Run(t, true)
	assert.True(t, res.Stable)
	assertShortest(t, cfg, net)

	ft, err := core.BuildForwardTable(net, state.NodeId(name(0, 0)))
	assert.NoError(t, err)
	e, ok := ft.Lookup(netipAddr(t, "10.4.4.1"))
	assert.True(t, ok)
	assert.Equal(t, state.NodeId(name(4, 4)), e.Dst)
	assert.Equal(t, net.Get(state.NodeId(name(0, 0))).Snapshot().Distance(e.Dst), e.Distance)
}
