package cmd

import (
	"os"

	"github.com/encodeous/dvsim/state"
	"github.com/spf13/cobra"
)

var topologyPath = state.DefaultTopologyPath
var useExample = false

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "dvsim",
	Short: "Distance Vector Routing simulator",
	Long: `dvsim simulates distance vector routing over a static topology.
Every node starts knowing only its direct neighbours, and converges on the shortest distance and next hop to every other node by exchanging routing tables in synchronous rounds.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddGroup(&cobra.Group{
		ID:    "cfg",
		Title: "Topology Commands",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "sim",
		Title: "Simulation Commands",
	})
	rootCmd.PersistentFlags().StringVarP(&topologyPath, "topology", "t", topologyPath, "topology file")
	rootCmd.PersistentFlags().BoolVarP(&useExample, "example", "e", false, "use the built-in six node example topology instead of a file")
}
