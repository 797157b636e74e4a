package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/XiaoConstantine/trajectory-go/pkg/augment"
)

func NewAugmentCommand() *cobra.Command {
	var configPath string
	var rootDir string
	var limit int

	cmd := &cobra.Command{
		Use:   "augment",
		Short: "Correct mismatched instructions against what trajectories actually did",
		Long: `Scan a results tree of runs whose output did not match their instructions,
show the oracle the executed steps plus the last and final screenshots, and
rewrite the goal and all three instruction levels to describe the observed
behavior. The original metadata.json is backed up once per run and the
rewrite explanation is saved alongside it.`,
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
			augmenter := augment.NewAugmenterWithParams(oracle, nil,
				augment.RewriterConfig(cfg.Pipeline.Augment))
			batch := augment.NewBatch(augmenter, limit)

			root := resolveRoot(cfg, rootDir, cfg.WrongOutputDir)
			summary, err := batch.Run(cmd.Context(), root)
			if err != nil {
				return err
			}

			for _, outcome := range summary.Outcomes {
				switch outcome.Status {
				case augment.StatusAugmented:
					fmt.Printf("  %s: augmented\n", outcome.Run)
				case augment.StatusSkipped:
					fmt.Printf("  %s: skipped (%s)\n", outcome.Run, outcome.Reason)
				default:
					fmt.Printf("  %s: error: %v\n", outcome.Run, outcome.Err)
				}
			}
			fmt.Printf("\n%d runs: %d augmented, %d skipped, %d errored\n",
				summary.Total, summary.Augmented, summary.Skipped, summary.Errored)
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to config file")
	cmd.Flags().StringVar(&rootDir, "root", "", "results directory to scan (overrides config)")
	cmd.Flags().IntVar(&limit, "limit", 0, "max runs to process (0 = all)")
	return cmd
}
