package cmd

import (
	"context"
	"log/slog"
	"os"

	"github.com/encodeous/dvsim/core"
	"github.com/encodeous/dvsim/state"
	"github.com/spf13/cobra"
)

var logPath string

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the simulation",
	Long:  `Runs every node to convergence and prints each node's routing table after every round.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadTopology()
		if err != nil {
			return err
		}
		applyRunFlags(cmd, cfg)

		level := slog.LevelInfo
		if ok, _ := cmd.Flags().GetBool("verbose"); ok {
			level = slog.LevelDebug
		}
		if logPath != "" {
			if err := state.PathValidator(logPath); err != nil {
				return err
			}
		}
		quiet, _ := cmd.Flags().GetBool("quiet")
		debug, _ := cmd.Flags().GetBool("debug")

		_, _, err = core.Start(context.Background(), cfg, core.Options{
			LogLevel: level,
			LogPath:  logPath,
			Out:      os.Stdout,
			Quiet:    quiet,
			Debug:    debug,
		})
		return err
	},
	GroupID: "sim",
}

// applyRunFlags lets explicitly set flags override the topology file
func applyRunFlags(cmd *cobra.Command, cfg *state.TopologyCfg) {
	if cmd.Flags().Changed("rounds") {
		cfg.Rounds, _ = cmd.Flags().GetInt("rounds")
	}
	if cmd.Flags().Changed("until-stable") {
		cfg.UntilStable, _ = cmd.Flags().GetBool("until-stable")
	}
	if cmd.Flags().Changed("concurrent") {
		cfg.Concurrent, _ = cmd.Flags().GetBool("concurrent")
	}
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().IntP("rounds", "r", 0, "number of rounds, or the round limit with --until-stable (0: automatic)")
	cmd.Flags().BoolP("until-stable", "s", false, "stop at the first round that changes no routing table")
	cmd.Flags().BoolP("concurrent", "c", false, "merge advertisements into all nodes in parallel")
}

func init() {
	rootCmd.AddCommand(runCmd)

	addRunFlags(runCmd)
	runCmd.Flags().BoolP("verbose", "v", false, "Verbose output, logs every route change")
	runCmd.Flags().BoolP("quiet", "q", false, "Only print the final routing tables")
	runCmd.Flags().Bool("debug", false, "Serve metrics on "+state.DebugListenAddr+" after the simulation")
	runCmd.Flags().StringVarP(&logPath, "log", "l", "", "Also write logs to this file")
}
