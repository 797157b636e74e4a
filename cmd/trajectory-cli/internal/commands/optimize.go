package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/XiaoConstantine/trajectory-go/pkg/optimize"
)

func NewOptimizeCommand() *cobra.Command {
	var configPath string
	var rootDir string
	var limit int

	cmd := &cobra.Command{
		Use:   "optimize",
		Short: "Remove verified-redundant steps from inefficient trajectories",
		Long: `Scan a results tree of runs flagged as inefficient, ask the oracle to
propose redundant steps, verify the proposal against the screenshots, and
rewrite each confirmed trajectory with dense renumbering. The original
trajectory.json is backed up once per run and an optimization report is
written alongside it.`,
		Example: `  # Optimize everything under the configured status_2_inefficient dir
  trajectory-cli optimize --config config.yaml

  # Optimize at most 5 runs from an explicit directory
  trajectory-cli optimize --root data/results/status_2_inefficient --limit 5`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			oracle, err := buildOracle(cfg)
			if err != nil {
				return err
			}

			if limit == 0 {
				limit = cfg.Pipeline.Limit
			}
			optimizer := optimize.NewOptimizerWithParams(oracle, nil,
				optimize.ProposerConfig(cfg.Pipeline.Propose),
				optimize.VerifierConfig(cfg.Pipeline.Verify),
			)
			batch := optimize.NewBatch(optimizer, limit)

			root := resolveRoot(cfg, rootDir, cfg.InefficientDir)
			summary, err := batch.Run(cmd.Context(), root)
			if err != nil {
				return err
			}

			for _, outcome := range summary.Outcomes {
				switch outcome.Status {
				case optimize.StatusOptimized:
					fmt.Printf("  %s: %d -> %d steps (removed %v)\n",
						outcome.Run, outcome.OriginalSteps, outcome.FinalSteps, outcome.RemovedSteps)
				case optimize.StatusSkipped:
					fmt.Printf("  %s: skipped (%s)\n", outcome.Run, outcome.Reason)
				default:
					fmt.Printf("  %s: error: %v\n", outcome.Run, outcome.Err)
				}
			}
			fmt.Printf("\n%d runs: %d optimized, %d skipped, %d errored\n",
				summary.Total, summary.Optimized, summary.Skipped, summary.Errored)
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to config file")
	cmd.Flags().StringVar(&rootDir, "root", "", "results directory to scan (overrides config)")
	cmd.Flags().IntVar(&limit, "limit", 0, "max runs to process (0 = all)")
	return cmd
}
