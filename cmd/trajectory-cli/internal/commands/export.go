package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/XiaoConstantine/trajectory-go/pkg/datasets"
	"github.com/XiaoConstantine/trajectory-go/pkg/optimize"
)

func NewExportCommand() *cobra.Command {
	var configPath string
	var rootDir string
	var outPath string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Flatten finished trajectories into a Parquet training dataset",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}

			root := resolveRoot(cfg, rootDir, "")
			runs, err := optimize.ScanRuns(root)
			if err != nil {
				return err
			}

			rows, err := datasets.ExportParquet(cmd.Context(), runs, outPath)
			if err != nil {
				return err
			}
			fmt.Printf("exported %d rows from %d runs to %s\n", rows, len(runs), outPath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to config file")
	cmd.Flags().StringVar(&rootDir, "root", "", "results directory to scan (overrides config)")
	cmd.Flags().StringVarP(&outPath, "out", "o", "trajectories.parquet", "output Parquet file")
	return cmd
}
