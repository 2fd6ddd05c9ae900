package state

import "math"

// INF is the distance to a destination that is not reachable
var INF = math.Inf(1)

var (
	// DefaultLinkCost is used for graph links that do not specify a cost
	DefaultLinkCost = 1.0
	// DebugListenAddr is where `run --debug` serves metrics
	DebugListenAddr = "127.0.0.1:6060"

	DefaultTopologyPath = "topology.yaml"
	LogPrefix           = "dvsim"
)
