//go:build integration

package integration

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/netip"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/encodeous/dvsim/core"
	"github.com/encodeous/dvsim/state"
	"github.com/goccy/go-yaml"
)

// VirtualHarness builds a topology file on disk and runs the whole simulator against it
type VirtualHarness struct {
	Topology state.TopologyCfg
	Dir      string
	Out      bytes.Buffer
	LogPath  string
}

func NewHarness(t *testing.T) *VirtualHarness {
	t.Helper()
	dir := t.TempDir()
	return &VirtualHarness{
		Dir:     dir,
		LogPath: filepath.Join(dir, "dvsim.log"),
	}
}

func (v *VirtualHarness) NewNode(id string, prefixes ...string) {
	node := state.NodeCfg{Id: state.NodeId(id)}
	for _, p := range prefixes {
		node.Prefixes = append(node.Prefixes, netip.MustParsePrefix(p))
	}
	v.Topology.Nodes = append(v.Topology.Nodes, node)
}

// AddLink adds an undirected link
func (v *VirtualHarness) AddLink(a, b string, cost float64) {
	v.Topology.Links = append(v.Topology.Links, fmt.Sprintf("%s, %s : %s", a, b, strconv.FormatFloat(cost, 'f', -1, 64)))
}

// AddDirected sets the cost a pays to reach b, without the reverse direction
func (v *VirtualHarness) AddDirected(a, b string, cost float64) {
	idx := v.Topology.IndexOf(state.NodeId(a))
	node := &v.Topology.Nodes[idx]
	if node.Neighbours == nil {
		node.Neighbours = make(map[state.NodeId]float64)
	}
	node.Neighbours[state.NodeId(b)] = cost
}

func (v *VirtualHarness) WriteTopology(t *testing.T) string {
	t.Helper()
	out, err := yaml.Marshal(&v.Topology)
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(v.Dir, "topology.yaml")
	err = os.WriteFile(path, out, 0600)
	if err != nil {
		t.Fatal(err)
	}
	return path
}

// Run writes the topology, loads it back and runs it through core.Start
func (v *VirtualHarness) Run(t *testing.T, quiet bool) (*core.Network, core.Result, *state.TopologyCfg) {
	t.Helper()
	cfg, err := state.LoadTopology(v.WriteTopology(t))
	if err != nil {
		t.Fatal(err)
	}
	v.Out.Reset()
	net, res, err := core.Start(context.Background(), cfg, core.Options{
		LogLevel: slog.LevelDebug,
		LogPath:  v.LogPath,
		Out:      &v.Out,
		Quiet:    quiet,
	})
	if err != nil {
		t.Fatal(err)
	}
	return net, res, cfg
}

// ShortestTo is an all-nodes Bellman-Ford towards dst over the expanded configuration
func ShortestTo(cfg *state.TopologyCfg, dst state.NodeId) map[state.NodeId]float64 {
	dist := make(map[state.NodeId]float64)
	for _, n := range cfg.Nodes {
		dist[n.Id] = state.INF
	}
	dist[dst] = 0
	for range len(cfg.Nodes) {
		for _, n := range cfg.Nodes {
			for neigh, cost := range n.Neighbours {
				if dist[neigh]+cost < dist[n.Id] {
					dist[n.Id] = dist[neigh] + cost
				}
			}
		}
	}
	return dist
}
