package datasets

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/XiaoConstantine/trajectory-go/pkg/errors"
	"github.com/XiaoConstantine/trajectory-go/pkg/trajectory"
)

// PhaseStats counts runs of one generation phase.
type PhaseStats struct {
	Total   int `json:"total"`
	Success int `json:"success"`
	Failed  int `json:"failed"`
}

// Stats aggregates a results tree.
type Stats struct {
	TotalRuns       int                 `json:"total_runs"`
	SuccessfulRuns  int                 `json:"successful_runs"`
	FailedRuns      int                 `json:"failed_runs"`
	IncompleteRuns  int                 `json:"incomplete_runs"`
	OptimizedRuns   int                 `json:"optimized_runs"`
	AugmentedRuns   int                 `json:"augmented_runs"`
	TotalSteps      int                 `json:"total_steps"`
	StepsRemoved    int                 `json:"steps_removed"`
	TotalTokens     int                 `json:"total_tokens"`
	PhaseStats      map[int]*PhaseStats `json:"phase_stats"`
	StepHistogram   map[int]int         `json:"step_histogram"`
	TotalRuntimeSec float64             `json:"total_runtime_sec"`
}

// CollectStats scans a results tree and aggregates per-run metadata, the
// optimization reports, and augmentation artifacts. Runs without
// metadata.json count as incomplete.
func CollectStats(rootDir string) (*Stats, error) {
	entries, err := os.ReadDir(rootDir)
	if err != nil {
		return nil, errors.WithFields(
			errors.Wrap(err, errors.InvalidInput, "failed to read results directory"),
			errors.Fields{"dir": rootDir},
		)
	}

	stats := &Stats{
		PhaseStats:    make(map[int]*PhaseStats),
		StepHistogram: make(map[int]int),
	}
	for _, entry := range entries {
		if !entry.IsDir() || entry.Name()[0] == '.' {
			continue
		}
		run := trajectory.OpenRun(filepath.Join(rootDir, entry.Name()))

		meta, err := run.LoadMetadata()
		if err != nil {
			stats.IncompleteRuns++
			continue
		}
		stats.TotalRuns++

		phase := stats.PhaseStats[meta.Phase]
		if phase == nil {
			phase = &PhaseStats{}
			stats.PhaseStats[meta.Phase] = phase
		}
		phase.Total++
		if meta.Success {
			phase.Success++
			stats.SuccessfulRuns++
			stats.TotalRuntimeSec += meta.RuntimeSec
		} else {
			phase.Failed++
			stats.FailedRuns++
		}

		stats.TotalSteps += meta.TotalSteps
		stats.TotalTokens += meta.TotalTokens
		stats.StepHistogram[meta.TotalSteps]++

		if report, err := readReport(run); err == nil {
			stats.OptimizedRuns++
			stats.StepsRemoved += len(report.FinalRemovedSteps)
		}
		if _, err := os.Stat(run.ExplanationPath()); err == nil {
			stats.AugmentedRuns++
		}
	}
	return stats, nil
}

func readReport(run *trajectory.Run) (*trajectory.OptimizationReport, error) {
	data, err := os.ReadFile(run.ReportPath())
	if err != nil {
		return nil, err
	}
	var report trajectory.OptimizationReport
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, err
	}
	return &report, nil
}
