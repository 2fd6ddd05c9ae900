package core

import (
	"fmt"
	"io"
	"strings"

	"github.com/encodeous/dvsim/state"
)

func formatTable(sb *strings.Builder, id state.NodeId, snap state.Snapshot) {
	sb.WriteString(fmt.Sprintf("Routing table for node %s:\n", id))
	for dst, e := range snap.All() {
		nh := "none"
		if e.HasNextHop() {
			nh = string(e.NextHop)
		}
		sb.WriteString(fmt.Sprintf("  Destination: %s, Distance: %s, Next Hop: %s\n", dst, state.FormatDistance(e.Distance), nh))
	}
	sb.WriteString("\n")
}

// WriteTable renders a single routing table
func WriteTable(w io.Writer, id state.NodeId, snap state.Snapshot) error {
	sb := strings.Builder{}
	formatTable(&sb, id, snap)
	_, err := io.WriteString(w, sb.String())
	return err
}

// WriteRound renders the tables of every node after the given round
func WriteRound(w io.Writer, round int, net *Network) error {
	sb := strings.Builder{}
	sb.WriteString(fmt.Sprintf("--- Iteration %d ---\n", round))
	for _, node := range net.nodes {
		formatTable(&sb, node.Id, node.Snapshot())
	}
	_, err := io.WriteString(w, sb.String())
	return err
}
