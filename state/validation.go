package state

import (
	"fmt"
	"math"
	"net/netip"
	"os"
	"path"
	"path/filepath"
	"regexp"
)

var namePattern, _ = regexp.Compile("^[0-9A-Za-z._-]+$")

func PathValidator(s string) error {
	_, err := os.Stat(path.Dir(s))
	if err != nil {
		return err
	}
	_, err = filepath.Abs(s)
	return err
}

func NameValidator(s string) error {
	if !namePattern.MatchString(s) {
		return fmt.Errorf("%s is not a valid name, must match pattern %s", s, namePattern.String())
	}
	if len(s) > 100 {
		return fmt.Errorf("len(\"%s\") = %d > 100 is too long", s, len(s))
	}
	return nil
}

func CostValidator(cost float64) error {
	if math.IsNaN(cost) || math.IsInf(cost, 0) {
		return fmt.Errorf("cost %v is not finite", cost)
	}
	if cost <= 0 {
		return fmt.Errorf("cost %v must be positive", cost)
	}
	return nil
}

func NodeConfigValidator(node *NodeCfg, cfg *TopologyCfg) error {
	err := NameValidator(string(node.Id))
	if err != nil {
		return err
	}
	for neigh, cost := range node.Neighbours {
		if neigh == node.Id {
			return fmt.Errorf("node %s lists itself as a neighbour", node.Id)
		}
		if cfg.IndexOf(neigh) == -1 {
			return fmt.Errorf("node %s has neighbour %s which is not defined", node.Id, neigh)
		}
		if err := CostValidator(cost); err != nil {
			return fmt.Errorf("node %s, neighbour %s: %w", node.Id, neigh, err)
		}
	}
	for _, prefix := range node.Prefixes {
		if !prefix.IsValid() {
			return fmt.Errorf("node %s has an invalid prefix", node.Id)
		}
	}
	return nil
}

// TopologyValidator checks every construction-time precondition of the network
func TopologyValidator(cfg *TopologyCfg) error {
	if len(cfg.Nodes) == 0 {
		return fmt.Errorf("topology must contain at least one node")
	}
	if cfg.Rounds < 0 {
		return fmt.Errorf("rounds must not be negative, got %d", cfg.Rounds)
	}
	seen := make(map[NodeId]struct{})
	owners := make(map[netip.Prefix]NodeId)
	for idx := range cfg.Nodes {
		node := &cfg.Nodes[idx]
		if _, ok := seen[node.Id]; ok {
			return fmt.Errorf("duplicate node found: %s", node.Id)
		}
		seen[node.Id] = struct{}{}
		err := NodeConfigValidator(node, cfg)
		if err != nil {
			return err
		}
		for _, prefix := range node.Prefixes {
			masked := prefix.Masked()
			if owner, ok := owners[masked]; ok {
				return fmt.Errorf("prefix %s is advertised by both %s and %s", masked, owner, node.Id)
			}
			owners[masked] = node.Id
		}
	}
	return nil
}
