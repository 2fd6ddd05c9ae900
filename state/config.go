package state

import (
	"fmt"
	"maps"
	"math"
	"net/netip"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"
)

type NodeCfg struct {
	Id         NodeId             `yaml:"id"`
	Neighbours map[NodeId]float64 `yaml:"neighbours,omitempty"`
	Prefixes   []netip.Prefix     `yaml:"prefixes,omitempty"`
}

// TopologyCfg describes the whole simulated network
type TopologyCfg struct {
	Nodes       []NodeCfg `yaml:"nodes"`
	Links       []string  `yaml:"links,omitempty"`        // undirected links, see ParseLinks
	Rounds      int       `yaml:"rounds,omitempty"`       // number of exchange rounds, 0 means one per node
	UntilStable bool      `yaml:"until_stable,omitempty"` // stop at the first round that changes nothing
	Concurrent  bool      `yaml:"concurrent,omitempty"`   // merge into every receiver in parallel
}

type Link struct {
	Ends Pair[NodeId, NodeId]
	Cost float64
}

func (l Link) String() string {
	return fmt.Sprintf("%s <-%s-> %s", l.Ends.V1, FormatDistance(l.Cost), l.Ends.V2)
}

// ExampleTopology is the six node network used throughout the documentation
func ExampleTopology() TopologyCfg {
	return TopologyCfg{
		Nodes: []NodeCfg{
			{Id: "A", Neighbours: map[NodeId]float64{"B": 1, "F": 3}, Prefixes: []netip.Prefix{netip.MustParsePrefix("10.0.0.1/32")}},
			{Id: "B", Neighbours: map[NodeId]float64{"A": 1, "F": 1, "C": 3}, Prefixes: []netip.Prefix{netip.MustParsePrefix("10.0.0.2/32")}},
			{Id: "C", Neighbours: map[NodeId]float64{"B": 3, "D": 2}, Prefixes: []netip.Prefix{netip.MustParsePrefix("10.0.0.3/32")}},
			{Id: "D", Neighbours: map[NodeId]float64{"C": 2, "F": 6, "E": 1}, Prefixes: []netip.Prefix{netip.MustParsePrefix("10.0.0.4/32"), netip.MustParsePrefix("10.4.0.0/16")}},
			{Id: "E", Neighbours: map[NodeId]float64{"B": 5, "D": 1, "F": 2}, Prefixes: []netip.Prefix{netip.MustParsePrefix("10.0.0.5/32")}},
			{Id: "F", Neighbours: map[NodeId]float64{"A": 3, "B": 1, "D": 6, "E": 2}, Prefixes: []netip.Prefix{netip.MustParsePrefix("10.0.0.6/32")}},
		},
	}
}

func LoadTopology(path string) (*TopologyCfg, error) {
	var cfg TopologyCfg
	file, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	err = yaml.Unmarshal(file, &cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return &cfg, nil
}

// PrepareTopology expands the link graph into neighbour costs and validates the result
func PrepareTopology(cfg *TopologyCfg) error {
	err := ExpandTopology(cfg)
	if err != nil {
		return err
	}
	return TopologyValidator(cfg)
}

func (c *TopologyCfg) Ids() []NodeId {
	ids := make([]NodeId, 0, len(c.Nodes))
	for _, n := range c.Nodes {
		ids = append(ids, n.Id)
	}
	return ids
}

func (c *TopologyCfg) IndexOf(id NodeId) int {
	return slices.IndexFunc(c.Nodes, func(cfg NodeCfg) bool {
		return cfg.Id == id
	})
}

func (c *TopologyCfg) TryGetNode(id NodeId) *NodeCfg {
	idx := c.IndexOf(id)
	if idx == -1 {
		return nil
	}
	return &c.Nodes[idx]
}

// ExpandTopology adds symmetric neighbour entries for every link in c.Links
func ExpandTopology(c *TopologyCfg) error {
	if len(c.Links) == 0 {
		return nil
	}
	names := make([]string, 0, len(c.Nodes))
	for _, id := range c.Ids() {
		names = append(names, string(id))
	}
	links, err := ParseLinks(c.Links, names)
	if err != nil {
		return err
	}
	for _, link := range links {
		if err := c.addNeighbour(link.Ends.V1, link.Ends.V2, link.Cost); err != nil {
			return err
		}
		if err := c.addNeighbour(link.Ends.V2, link.Ends.V1, link.Cost); err != nil {
			return err
		}
	}
	return nil
}

func (c *TopologyCfg) addNeighbour(from, to NodeId, cost float64) error {
	node := c.TryGetNode(from)
	if node == nil {
		return fmt.Errorf("node %s not defined", from)
	}
	if node.Neighbours == nil {
		node.Neighbours = make(map[NodeId]float64)
	}
	if old, ok := node.Neighbours[to]; ok && old != cost {
		return fmt.Errorf("link %s -> %s: cost %s conflicts with neighbour cost %s", from, to, FormatDistance(cost), FormatDistance(old))
	}
	node.Neighbours[to] = cost
	return nil
}

func parseSymbolList(s string, validSymbols []string) ([]string, error) {
	spl := strings.Split(strings.TrimSpace(s), ",")
	line := make([]string, 0)
	for _, s := range spl {
		x := strings.TrimSpace(s)
		if x == "" {
			continue
		}
		if !slices.Contains(validSymbols, x) {
			return nil, fmt.Errorf(`%s is not a valid node/group`, x)
		}
		line = append(line, x)
	}
	if len(line) == 0 {
		return nil, fmt.Errorf(`node/group list must not be empty`)
	}
	slices.Sort(line)
	return line, nil
}

// splitCost separates an optional ": cost" suffix from a link line
func splitCost(line string) (string, float64, error) {
	idx := strings.LastIndex(line, ":")
	if idx == -1 {
		return line, DefaultLinkCost, nil
	}
	raw := strings.TrimSpace(line[idx+1:])
	cost, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return "", 0, fmt.Errorf("invalid link cost %q in %s", raw, line)
	}
	if cost <= 0 || math.IsInf(cost, 0) || math.IsNaN(cost) {
		return "", 0, fmt.Errorf("link cost must be positive and finite, got %s in %s", raw, line)
	}
	return line[:idx], cost, nil
}

func setLinkCost[T comparable](links map[Pair[T, T]]float64, pair Pair[T, T], cost float64) error {
	if old, ok := links[pair]; ok && old != cost {
		return fmt.Errorf("conflicting costs for link %v, %v: %s and %s", pair.V1, pair.V2, FormatDistance(old), FormatDistance(cost))
	}
	links[pair] = cost
	return nil
}

/*
ParseLinks Link syntax is something like this:

Group1 = node1, node2, node3

Group2 = node4, node5

Group1, Group2, OtherNode // Group1, Group2, OtherNode will all be interconnected at cost 1, but not within Group1 or Group2

Group1, Group1 : 2 // every node in Group1 is connected to every other node at cost 2

node8, node9 : 0.5 // node8 and node9 will be connected at cost 0.5

nodes represents a set of unique terminal nodes that the graph will evaluate down to
*/
func ParseLinks(graph []string, nodes []string) ([]Link, error) {
	parsedPairings := make(map[Pair[string, string]]float64)

	groups := make(map[string][]string)

	symbols := slices.Clone(nodes)

	// pass 0, collect all symbols

	for _, line := range graph {
		line = strings.TrimSpace(line)
		if strings.Contains(line, "=") {
			// group definition
			spl := strings.Split(line, "=")
			if len(spl) != 2 {
				return nil, fmt.Errorf("invalid graph: %s. group definition must contain one '='", line)
			}
			grp := strings.TrimSpace(spl[0])
			if slices.Contains(nodes, grp) {
				return nil, fmt.Errorf("group name must not be a node name: %s", grp)
			}
			symbols = append(symbols, grp)
		}
	}
	slices.Sort(symbols)
	symbols = slices.Compact(symbols)

	// used for topological sorting
	// map: group -> []<groups that the group depends on>
	topo := make(map[string][]string)
	expansion := make(map[string][]string)

	// pass 1, parse graph
	for _, line := range graph {
		line = strings.TrimSpace(line)
		if strings.Contains(line, "=") {
			spl := strings.Split(line, "=")
			grp := strings.TrimSpace(spl[0])
			if _, ok := groups[grp]; ok {
				return nil, fmt.Errorf("duplicate group name: %s", grp)
			}
			lst, err := parseSymbolList(spl[1], symbols)
			if err != nil {
				return nil, err
			}
			// track dependencies
			deps := make([]string, 0)
			for _, l := range lst {
				if !slices.Contains(nodes, l) {
					// depends on a group
					deps = append(deps, l)
				} else {
					expansion[grp] = append(expansion[grp], l)
				}
			}
			slices.Sort(deps)
			deps = slices.Compact(deps)

			topo[grp] = deps
			groups[grp] = lst
		} else {
			body, cost, err := splitCost(line)
			if err != nil {
				return nil, err
			}
			names, err := parseSymbolList(body, symbols)
			if err != nil {
				return nil, err
			}
			if len(names) < 2 {
				return nil, fmt.Errorf("invalid pairing, %v", names)
			}
			for i := range names {
				for j := i + 1; j < len(names); j++ {
					err = setLinkCost(parsedPairings, MakeSortedPair(names[i], names[j]), cost)
					if err != nil {
						return nil, err
					}
				}
			}
		}
	}

	// pass 2, expand group names
	// just topological sorting
	for len(topo) > 0 {
		// find free group
		group := ""
		for _, k := range slices.Sorted(maps.Keys(topo)) {
			if len(topo[k]) == 0 {
				group = k
				break
			}
		}
		if group == "" {
			cycleNodes := slices.Sorted(maps.Keys(topo))
			return nil, fmt.Errorf("cycle detected in graph: %v", cycleNodes)
		}
		delete(topo, group)

		// remove and expand the group for every dependent
		for k, deps := range topo {
			if slices.Contains(deps, group) {
				expansion[k] = append(expansion[k], expansion[group]...)
				slices.Sort(expansion[k])
				expansion[k] = slices.Compact(expansion[k])

				topo[k] = slices.DeleteFunc(deps, func(dep string) bool {
					return dep == group
				})
			}
		}
	}

	// pass 3, rewrite pairings
	expanded := make(map[Pair[NodeId, NodeId]]float64)
	for _, pair := range slices.SortedFunc(maps.Keys(parsedPairings), comparePairs[string, string]) {
		cost := parsedPairings[pair]
		x := expand(pair.V1, nodes, expansion)
		y := expand(pair.V2, nodes, expansion)
		for _, x1 := range x {
			for _, y1 := range y {
				if x1 != y1 {
					err := setLinkCost(expanded, MakeSortedPair(x1, y1), cost)
					if err != nil {
						return nil, err
					}
				}
			}
		}
	}

	links := make([]Link, 0, len(expanded))
	for _, pair := range slices.SortedFunc(maps.Keys(expanded), comparePairs[NodeId, NodeId]) {
		links = append(links, Link{Ends: pair, Cost: expanded[pair]})
	}
	return links, nil
}

func expand(symbol string, nodes []string, expansion map[string][]string) []NodeId {
	out := make([]NodeId, 0)
	if slices.Contains(nodes, symbol) {
		return append(out, NodeId(symbol))
	}
	for _, exp := range expansion[symbol] {
		out = append(out, NodeId(exp))
	}
	return out
}
