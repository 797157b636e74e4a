package augment

import (
	"context"

	"github.com/XiaoConstantine/trajectory-go/pkg/errors"
	"github.com/XiaoConstantine/trajectory-go/pkg/logging"
	"github.com/XiaoConstantine/trajectory-go/pkg/optimize"
)

// Summary aggregates per-run outcomes of a batch augmentation pass.
type Summary struct {
	Total     int
	Augmented int
	Skipped   int
	Errored   int
	Outcomes  []Outcome
}

// Batch runs the augmenter over every run directory under a root.
type Batch struct {
	augmenter *Augmenter
	// Limit caps how many run directories are processed; 0 means all.
	Limit int
}

// NewBatch wraps an augmenter for directory-level processing.
func NewBatch(augmenter *Augmenter, limit int) *Batch {
	return &Batch{augmenter: augmenter, Limit: limit}
}

// Run augments up to Limit run directories under rootDir. One run failing
// never aborts the batch.
func (b *Batch) Run(ctx context.Context, rootDir string) (*Summary, error) {
	logger := logging.GetLogger()

	runs, err := optimize.ScanRuns(rootDir)
	if err != nil {
		return nil, err
	}
	if b.Limit > 0 && len(runs) > b.Limit {
		runs = runs[:b.Limit]
	}

	summary := &Summary{Total: len(runs)}
	for _, run := range runs {
		if err := ctx.Err(); err != nil {
			return summary, errors.Wrap(err, errors.Canceled, "batch augmentation canceled")
		}

		outcome := b.augmenter.AugmentRun(ctx, run)
		summary.Outcomes = append(summary.Outcomes, outcome)
		switch outcome.Status {
		case StatusAugmented:
			summary.Augmented++
		case StatusSkipped:
			summary.Skipped++
		default:
			summary.Errored++
			logger.Error(ctx, "run %s failed: %v", outcome.Run, outcome.Err)
		}
	}

	logger.Info(ctx, "batch complete: %d runs, %d augmented, %d skipped, %d errored",
		summary.Total, summary.Augmented, summary.Skipped, summary.Errored)
	return summary, nil
}
