package commands

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/XiaoConstantine/trajectory-go/pkg/datasets"
)

func NewStatsCommand() *cobra.Command {
	var configPath string
	var rootDir string

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print aggregate statistics for a results tree",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}

			root := resolveRoot(cfg, rootDir, "")
			stats, err := datasets.CollectStats(root)
			if err != nil {
				return err
			}

			fmt.Printf("Runs:       %d total, %d successful, %d failed, %d incomplete\n",
				stats.TotalRuns, stats.SuccessfulRuns, stats.FailedRuns, stats.IncompleteRuns)
			fmt.Printf("Processing: %d optimized (%d steps removed), %d augmented\n",
				stats.OptimizedRuns, stats.StepsRemoved, stats.AugmentedRuns)
			fmt.Printf("Volume:     %d steps, %d tokens, %.1fs successful runtime\n",
				stats.TotalSteps, stats.TotalTokens, stats.TotalRuntimeSec)

			phases := make([]int, 0, len(stats.PhaseStats))
			for phase := range stats.PhaseStats {
				phases = append(phases, phase)
			}
			sort.Ints(phases)
			for _, phase := range phases {
				p := stats.PhaseStats[phase]
				fmt.Printf("Phase %d:    %d total, %d success, %d failed\n",
					phase, p.Total, p.Success, p.Failed)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to config file")
	cmd.Flags().StringVar(&rootDir, "root", "", "results directory to scan (overrides config)")
	return cmd
}
