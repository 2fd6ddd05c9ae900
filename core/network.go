package core

import (
	"fmt"
	"slices"

	"github.com/encodeous/dvsim/state"
)

// Network is the fixed set of simulated nodes, kept in configuration order
type Network struct {
	nodes []*Node
	index map[state.NodeId]int
}

// NewNetwork expands and validates cfg in place, then constructs every node
func NewNetwork(cfg *state.TopologyCfg) (*Network, error) {
	err := state.PrepareTopology(cfg)
	if err != nil {
		return nil, err
	}
	net := &Network{
		nodes: make([]*Node, 0, len(cfg.Nodes)),
		index: make(map[state.NodeId]int, len(cfg.Nodes)),
	}
	for _, node := range cfg.Nodes {
		if _, ok := net.index[node.Id]; ok {
			return nil, fmt.Errorf("duplicate node found: %s", node.Id)
		}
		net.index[node.Id] = len(net.nodes)
		net.nodes = append(net.nodes, NewNode(node.Id, node.Neighbours, node.Prefixes...))
	}
	return net, nil
}

func (n *Network) Get(id state.NodeId) *Node {
	idx, ok := n.index[id]
	if !ok {
		return nil
	}
	return n.nodes[idx]
}

func (n *Network) Nodes() []*Node {
	return slices.Clone(n.nodes)
}

func (n *Network) Len() int {
	return len(n.nodes)
}

// Snapshots takes a snapshot of every node
func (n *Network) Snapshots() map[state.NodeId]state.Snapshot {
	out := make(map[state.NodeId]state.Snapshot, len(n.nodes))
	for _, node := range n.nodes {
		out[node.Id] = node.Snapshot()
	}
	return out
}
