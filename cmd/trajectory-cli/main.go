package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/XiaoConstantine/trajectory-go/cmd/trajectory-cli/internal/commands"
)

var rootCmd = &cobra.Command{
	Use:   "trajectory-cli",
	Short: "Post-process recorded browser-automation trajectories",
	Long: `A command-line interface for the trajectory post-processing pipeline.

The CLI provides:
- Redundant-step optimization of inefficient trajectories
- Instruction correction for runs with mismatched instructions
- Knowledge ingestion of finished trajectories into a local store
- Parquet dataset export and aggregate run statistics`,
	Version: "0.1.0",
}

func main() {
	rootCmd.AddCommand(
		commands.NewOptimizeCommand(),
		commands.NewAugmentCommand(),
		commands.NewIngestCommand(),
		commands.NewExportCommand(),
		commands.NewStatsCommand(),
	)
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
