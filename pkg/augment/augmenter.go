package augment

import (
	"context"
	"encoding/json"
	"os"

	"github.com/XiaoConstantine/trajectory-go/pkg/core"
	"github.com/XiaoConstantine/trajectory-go/pkg/errors"
	"github.com/XiaoConstantine/trajectory-go/pkg/logging"
	"github.com/XiaoConstantine/trajectory-go/pkg/optimize"
	"github.com/XiaoConstantine/trajectory-go/pkg/trajectory"
)

// Status classifies the outcome of augmenting one run.
type Status string

const (
	StatusAugmented Status = "augmented"
	StatusSkipped   Status = "skipped"
	StatusErrored   Status = "errored"
)

// Outcome describes what happened to one run.
type Outcome struct {
	Run     string
	Status  Status
	Reason  string
	Rewrite *InstructionRewrite
	Err     error
}

// Augmenter drives instruction correction for run directories.
type Augmenter struct {
	rewriter *Rewriter
}

// NewAugmenter wires an augmenter around one oracle. A nil loader defaults
// to reading screenshot files from disk.
func NewAugmenter(oracle core.Oracle, loader optimize.ScreenshotLoader) *Augmenter {
	return NewAugmenterWithParams(oracle, loader, DefaultRewriterConfig())
}

// NewAugmenterWithParams wires an augmenter with explicit generation
// parameters.
func NewAugmenterWithParams(oracle core.Oracle, loader optimize.ScreenshotLoader, cfg RewriterConfig) *Augmenter {
	return &Augmenter{rewriter: NewRewriter(oracle, loader, cfg)}
}

// AugmentRun corrects the instructions of a single run directory.
//
// The run needs both the before-last-step screenshot (at the max step
// index) and the final-output screenshot (max+1); runs missing either are
// skipped, not errored, since the recorder drops trailing screenshots on
// interrupted runs. Metadata is snapshotted once before the first change. A
// rewrite response missing required fields is persisted to
// augmentation_error.json and the run counts as errored.
func (a *Augmenter) AugmentRun(ctx context.Context, run *trajectory.Run) Outcome {
	logger := logging.GetLogger()
	ctx = logging.WithRunID(ctx, run.Name())

	if !run.HasRequiredFiles() {
		return Outcome{Run: run.Name(), Status: StatusSkipped, Reason: "missing trajectory.json or metadata.json"}
	}

	traj, err := run.LoadTrajectory()
	if err != nil {
		return Outcome{Run: run.Name(), Status: StatusErrored, Err: err}
	}
	meta, err := run.LoadMetadata()
	if err != nil {
		return Outcome{Run: run.Name(), Status: StatusErrored, Err: err}
	}
	if traj.Len() == 0 {
		return Outcome{Run: run.Name(), Status: StatusSkipped, Reason: "trajectory has no steps"}
	}

	lastStep, err := traj.MaxIndex()
	if err != nil {
		return Outcome{Run: run.Name(), Status: StatusErrored, Err: err}
	}
	lastImage := run.ScreenshotPath(lastStep)
	finalImage := run.ScreenshotPath(lastStep + 1)
	for _, p := range []string{lastImage, finalImage} {
		if _, err := os.Stat(p); err != nil {
			return Outcome{Run: run.Name(), Status: StatusSkipped, Reason: "missing last or final screenshot"}
		}
	}

	steps, err := traj.Steps()
	if err != nil {
		return Outcome{Run: run.Name(), Status: StatusErrored, Err: err}
	}

	rewrite, err := a.rewriter.Rewrite(ctx, steps, lastImage, finalImage, meta.Task.Instruction)
	if err != nil {
		if errors.HasCode(err, errors.OracleMalformedJSON) || errors.HasCode(err, errors.OracleEmptyResponse) {
			a.saveRewriteError(ctx, run, err)
		}
		return Outcome{Run: run.Name(), Status: StatusErrored, Err: err}
	}
	logger.Info(ctx, "instruction rewrite explanation: %s", rewrite.Explanation)

	if err := run.SnapshotMetadataOnce(meta); err != nil {
		return Outcome{Run: run.Name(), Status: StatusErrored, Err: err}
	}

	meta.Goal = rewrite.MidLevel
	meta.Task.Instruction.HighLevel = rewrite.HighLevel
	meta.Task.Instruction.MidLevel = rewrite.MidLevel
	meta.Task.Instruction.LowLevel = rewrite.LowLevel

	// HTML patching is best effort: a broken report never blocks the
	// metadata update.
	if err := a.patchHTML(run, rewrite); err != nil {
		logger.Warn(ctx, "failed to patch trajectory.html: %v", err)
	}

	if err := os.WriteFile(run.ExplanationPath(), []byte(rewrite.Explanation), 0644); err != nil {
		return Outcome{Run: run.Name(), Status: StatusErrored,
			Err: errors.Wrap(err, errors.RewriteIOError, "failed to write explanation file")}
	}
	if err := run.SaveMetadata(meta); err != nil {
		return Outcome{Run: run.Name(), Status: StatusErrored, Err: err}
	}

	logger.Info(ctx, "augmented run: goal is now %q", meta.Goal)
	return Outcome{Run: run.Name(), Status: StatusAugmented, Rewrite: rewrite}
}

// patchHTML rewrites the instruction rows of trajectory.html, snapshotting
// the original document first. A run without an HTML report is not an
// error.
func (a *Augmenter) patchHTML(run *trajectory.Run, rewrite *InstructionRewrite) error {
	data, err := os.ReadFile(run.HTMLPath())
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return errors.Wrap(err, errors.RewriteIOError, "failed to read trajectory.html")
	}

	if _, err := os.Stat(run.HTMLBackupPath()); os.IsNotExist(err) {
		if err := os.WriteFile(run.HTMLBackupPath(), data, 0644); err != nil {
			return errors.Wrap(err, errors.RewriteIOError, "failed to write HTML backup")
		}
	}

	patched := patchInstructionRows(string(data), rewrite)
	if err := os.WriteFile(run.HTMLPath(), []byte(patched), 0644); err != nil {
		return errors.Wrap(err, errors.RewriteIOError, "failed to write patched HTML")
	}
	return nil
}

// saveRewriteError persists an unusable oracle response next to the run so
// it can be inspected later.
func (a *Augmenter) saveRewriteError(ctx context.Context, run *trajectory.Run, rewriteErr error) {
	logger := logging.GetLogger()

	payload := map[string]interface{}{"error": rewriteErr.Error()}
	if tagged, ok := rewriteErr.(*errors.Error); ok {
		if raw, ok := tagged.Fields()["raw_response"]; ok {
			payload["raw_response"] = raw
		}
	}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		logger.Warn(ctx, "failed to marshal augmentation error: %v", err)
		return
	}
	if err := os.WriteFile(run.AugmentErrorPath(), append(data, '\n'), 0644); err != nil {
		logger.Warn(ctx, "failed to write %s: %v", trajectory.AugmentErrorFile, err)
	}
}
