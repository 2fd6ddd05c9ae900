package cmd

import (
	"fmt"

	"github.com/encodeous/dvsim/state"
	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Validates the topology and prints it with links expanded",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadTopology()
		if err != nil {
			return err
		}
		err = state.PrepareTopology(cfg)
		if err != nil {
			return err
		}
		cfg.Links = nil
		out, err := yaml.Marshal(cfg)
		if err != nil {
			return err
		}
		fmt.Println("Topology is valid")
		fmt.Print(string(out))
		return nil
	},
	GroupID: "cfg",
}

func init() {
	rootCmd.AddCommand(verifyCmd)
}
