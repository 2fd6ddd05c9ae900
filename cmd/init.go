package cmd

import (
	"fmt"
	"os"

	"github.com/encodeous/dvsim/state"
	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Writes the example topology to the topology file",
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")
		if fileExists(topologyPath) && !force {
			return fmt.Errorf("%s already exists, pass --force to overwrite it", topologyPath)
		}
		cfg := state.ExampleTopology()
		out, err := yaml.Marshal(&cfg)
		if err != nil {
			return err
		}
		err = os.WriteFile(topologyPath, out, 0644)
		if err != nil {
			return err
		}
		fmt.Printf("Wrote example topology to %s\n", topologyPath)
		return nil
	},
	GroupID: "cfg",
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().BoolP("force", "f", false, "overwrite an existing topology file")
}
