package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/XiaoConstantine/trajectory-go/pkg/knowledge"
)

func NewIngestCommand() *cobra.Command {
	var configPath string
	var rootDir string
	var limit int

	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Summarize finished trajectories into the local knowledge store",
		Long: `Scan a results tree, have the oracle extract typed entities and relations
from each run, and persist them to the configured SQLite knowledge store
for later retrieval context.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			oracle, err := buildOracle(cfg)
			if err != nil {
				return err
			}

			store, err := knowledge.NewSQLiteStore(cfg.Knowledge.StorePath)
			if err != nil {
				return err
			}
			defer store.Close()

			ingestorCfg := knowledge.DefaultIngestorConfig()
			ingestorCfg.Workers = cfg.Knowledge.Workers
			ingestor := knowledge.NewIngestor(oracle, store, ingestorCfg)

			root := resolveRoot(cfg, rootDir, "")
			summary, err := ingestor.IngestAll(cmd.Context(), root, limit)
			if err != nil {
				return err
			}

			fmt.Printf("%d runs: %d ingested, %d failed\n",
				summary.Total, summary.Ingested, summary.Failed)
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to config file")
	cmd.Flags().StringVar(&rootDir, "root", "", "results directory to scan (overrides config)")
	cmd.Flags().IntVar(&limit, "limit", 0, "max runs to process (0 = all)")
	return cmd
}
