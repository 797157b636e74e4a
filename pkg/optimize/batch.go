package optimize

import (
	"context"
	"os"
	"path/filepath"
	"sort"

	"github.com/XiaoConstantine/trajectory-go/pkg/errors"
	"github.com/XiaoConstantine/trajectory-go/pkg/logging"
	"github.com/XiaoConstantine/trajectory-go/pkg/trajectory"
)

// Summary aggregates per-run outcomes of a batch pass.
type Summary struct {
	Total     int
	Optimized int
	Skipped   int
	Errored   int
	Outcomes  []Outcome
}

// Batch runs the optimizer over every run directory under a root.
type Batch struct {
	optimizer *Optimizer
	// Limit caps how many run directories are processed; 0 means all.
	Limit int
}

// NewBatch wraps an optimizer for directory-level processing.
func NewBatch(optimizer *Optimizer, limit int) *Batch {
	return &Batch{optimizer: optimizer, Limit: limit}
}

// Run scans rootDir for run directories (sorted by name for stable
// ordering), optimizes up to Limit of them, and returns the aggregate
// summary. One run failing never aborts the batch; its error is recorded
// in the outcome and counted as errored.
func (b *Batch) Run(ctx context.Context, rootDir string) (*Summary, error) {
	logger := logging.GetLogger()

	runs, err := ScanRuns(rootDir)
	if err != nil {
		return nil, err
	}
	if b.Limit > 0 && len(runs) > b.Limit {
		runs = runs[:b.Limit]
	}

	summary := &Summary{Total: len(runs)}
	for _, run := range runs {
		if err := ctx.Err(); err != nil {
			return summary, errors.Wrap(err, errors.Canceled, "batch optimization canceled")
		}

		outcome := b.optimizer.OptimizeRun(ctx, run)
		summary.Outcomes = append(summary.Outcomes, outcome)
		switch outcome.Status {
		case StatusOptimized:
			summary.Optimized++
		case StatusSkipped:
			summary.Skipped++
		default:
			summary.Errored++
			logger.Error(ctx, "run %s failed: %v", outcome.Run, outcome.Err)
		}
	}

	logger.Info(ctx, "batch complete: %d runs, %d optimized, %d skipped, %d errored",
		summary.Total, summary.Optimized, summary.Skipped, summary.Errored)
	return summary, nil
}

// ScanRuns lists the immediate subdirectories of rootDir as run handles,
// sorted by name. Files and hidden directories are ignored.
func ScanRuns(rootDir string) ([]*trajectory.Run, error) {
	entries, err := os.ReadDir(rootDir)
	if err != nil {
		return nil, errors.WithFields(
			errors.Wrap(err, errors.InvalidInput, "failed to read results directory"),
			errors.Fields{"dir": rootDir},
		)
	}

	var runs []*trajectory.Run
	for _, entry := range entries {
		if !entry.IsDir() || entry.Name()[0] == '.' {
			continue
		}
		runs = append(runs, trajectory.OpenRun(filepath.Join(rootDir, entry.Name())))
	}
	sort.Slice(runs, func(i, j int) bool { return runs[i].Dir < runs[j].Dir })
	return runs, nil
}
