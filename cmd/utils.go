package cmd

import (
	"fmt"
	"os"

	"github.com/encodeous/dvsim/state"
)

func loadTopology() (*state.TopologyCfg, error) {
	if useExample {
		cfg := state.ExampleTopology()
		return &cfg, nil
	}
	cfg, err := state.LoadTopology(topologyPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s not found, create one with `dvsim init` or pass --example", topologyPath)
		}
		return nil, err
	}
	return cfg, nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
