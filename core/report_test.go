package core

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/encodeous/dvsim/state"
	"github.com/stretchr/testify/assert"
)

func TestWriteTable(t *testing.T) {
	buf := &bytes.Buffer{}
	err := WriteTable(buf, "A", MakeSnapshot("A", map[state.NodeId]state.Entry{
		"A": Via(0, state.None),
		"C": Via(2.5, "B"),
		"B": Via(1, "B"),
		"D": Via(state.INF, "B"),
	}))
	assert.NoError(t, err)
	assert.Equal(t, `Routing table for node A:
  Destination: A, Distance: 0, Next Hop: none
  Destination: B, Distance: 1, Next Hop: B
  Destination: C, Distance: 2.5, Next Hop: B
  Destination: D, Distance: inf, Next Hop: B

`, buf.String())
}

func TestSimRouterReportsRounds(t *testing.T) {
	logger, closeLog, err := NewLogger(0, "")
	assert.NoError(t, err)
	defer closeLog()

	buf := &bytes.Buffer{}
	net := MustNetwork(t, state.ExampleTopology())
	_, err = Converge(context.Background(), net, 2, &SimRouter{Logger: logger, Out: buf})
	assert.NoError(t, err)

	out := buf.String()
	assert.Equal(t, 1, strings.Count(out, "--- Iteration 1 ---"))
	assert.Equal(t, 1, strings.Count(out, "--- Iteration 2 ---"))
	assert.Equal(t, 12, strings.Count(out, "Routing table for node"))

	buf.Reset()
	_, err = Converge(context.Background(), net, 1, &SimRouter{Logger: logger, Out: buf, Quiet: true})
	assert.NoError(t, err)
	assert.Empty(t, buf.String())
}
