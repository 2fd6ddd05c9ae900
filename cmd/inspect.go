package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/netip"
	"os"

	"github.com/encodeous/dvsim/core"
	"github.com/encodeous/dvsim/state"
	"github.com/spf13/cobra"
)

var inspectCmd = &cobra.Command{
	Use:     "inspect <node>",
	Aliases: []string{"i"},
	Short:   "Prints the converged routing table of a node",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadTopology()
		if err != nil {
			return err
		}
		applyRunFlags(cmd, cfg)
		id := state.NodeId(args[0])

		net, _, err := core.Start(context.Background(), cfg, core.Options{
			LogLevel: slog.LevelWarn,
		})
		if err != nil {
			return err
		}
		node := net.Get(id)
		if node == nil {
			return fmt.Errorf("node %s not found", id)
		}
		err = core.WriteTable(os.Stdout, id, node.Snapshot())
		if err != nil {
			return err
		}

		addrs, _ := cmd.Flags().GetStringSlice("addr")
		if len(addrs) == 0 {
			return nil
		}
		ft, err := core.BuildForwardTable(net, id)
		if err != nil {
			return err
		}
		for _, raw := range addrs {
			addr, err := netip.ParseAddr(raw)
			if err != nil {
				return err
			}
			if entry, ok := ft.Lookup(addr); ok {
				fmt.Printf("%s -> %s\n", addr, entry)
			} else {
				fmt.Printf("%s -> unreachable\n", addr)
			}
		}
		return nil
	},
	GroupID: "sim",
}

func init() {
	rootCmd.AddCommand(inspectCmd)

	addRunFlags(inspectCmd)
	inspectCmd.Flags().StringSliceP("addr", "a", nil, "resolve addresses through the node's forwarding table")
}
