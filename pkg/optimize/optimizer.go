package optimize

import (
	"context"

	"github.com/XiaoConstantine/trajectory-go/pkg/core"
	"github.com/XiaoConstantine/trajectory-go/pkg/logging"
	"github.com/XiaoConstantine/trajectory-go/pkg/trajectory"
)

// Status classifies the outcome of optimizing one run.
type Status string

const (
	// StatusOptimized means steps were removed and files were rewritten.
	StatusOptimized Status = "optimized"
	// StatusSkipped means the run was examined but left untouched.
	StatusSkipped Status = "skipped"
	// StatusErrored means the run could not be processed.
	StatusErrored Status = "errored"
)

// Outcome describes what happened to one run.
type Outcome struct {
	Run           string
	Status        Status
	RemovedSteps  []int
	OriginalSteps int
	FinalSteps    int
	Reason        string
	Err           error
}

// Optimizer drives the full propose-verify-rewrite cycle for run
// directories.
type Optimizer struct {
	proposer *Proposer
	verifier *Verifier
}

// NewOptimizer wires an optimizer around one oracle. A nil loader defaults
// to reading screenshot files from disk.
func NewOptimizer(oracle core.Oracle, loader ScreenshotLoader) *Optimizer {
	return NewOptimizerWithParams(oracle, loader, DefaultProposerConfig(), DefaultVerifierConfig())
}

// NewOptimizerWithParams wires an optimizer with explicit generation
// parameters for both phases.
func NewOptimizerWithParams(oracle core.Oracle, loader ScreenshotLoader, proposerCfg ProposerConfig, verifierCfg VerifierConfig) *Optimizer {
	return &Optimizer{
		proposer: NewProposer(oracle, loader, proposerCfg),
		verifier: NewVerifier(oracle, loader, verifierCfg),
	}
}

// OptimizeRun runs the cycle for a single run directory.
//
// Runs missing trajectory.json or metadata.json and runs with zero steps
// are skipped, not errored; errored is reserved for oracle and IO
// failures.
//
// Ordering is strict: the original trajectory is snapshotted before the
// primary file is overwritten, and the report is written last. Mutation
// only happens after verification confirms a non-empty deletion set; every
// earlier exit leaves the directory byte-for-byte untouched.
func (o *Optimizer) OptimizeRun(ctx context.Context, run *trajectory.Run) Outcome {
	logger := logging.GetLogger()
	ctx = logging.WithRunID(ctx, run.Name())

	if !run.HasRequiredFiles() {
		logger.Warn(ctx, "run is missing trajectory.json or metadata.json, skipping")
		return Outcome{
			Run:    run.Name(),
			Status: StatusSkipped,
			Reason: "missing trajectory.json or metadata.json",
		}
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
		logger.Warn(ctx, "trajectory has no steps, skipping")
		return Outcome{Run: run.Name(), Status: StatusSkipped, Reason: "trajectory has no steps"}
	}

	steps, err := traj.Steps()
	if err != nil {
		return Outcome{Run: run.Name(), Status: StatusErrored, Err: err}
	}
	screenshots, err := run.ScreenshotPaths(traj)
	if err != nil {
		return Outcome{Run: run.Name(), Status: StatusErrored, Err: err}
	}

	instruction := meta.Task.Instruction.LowLevel
	if instruction == "" {
		instruction = meta.Goal
	}

	proposal, err := o.proposer.Propose(ctx, steps, screenshots, instruction)
	if err != nil {
		return Outcome{Run: run.Name(), Status: StatusErrored, Err: err}
	}
	if proposal.IsEmpty() {
		logger.Info(ctx, "no redundant steps proposed, leaving run untouched")
		return Outcome{
			Run:           run.Name(),
			Status:        StatusSkipped,
			OriginalSteps: traj.Len(),
			FinalSteps:    traj.Len(),
			Reason:        "no redundant steps proposed",
		}
	}
	logger.Info(ctx, "proposed removal of steps %v (duplicating %v)",
		proposal.StepsToRemove, proposal.DuplicatesWith)

	verification, err := o.verifier.Verify(ctx, run, steps,
		proposal.StepsToRemove, proposal.DuplicatesWith, instruction)
	if err != nil {
		return Outcome{Run: run.Name(), Status: StatusErrored, Err: err}
	}
	if len(verification.VerifiedStepsToRemove) == 0 {
		logger.Info(ctx, "verification rejected all proposed deletions: %s", verification.Reason)
		return Outcome{
			Run:           run.Name(),
			Status:        StatusSkipped,
			OriginalSteps: traj.Len(),
			FinalSteps:    traj.Len(),
			Reason:        verification.Reason,
		}
	}

	if err := run.SnapshotOnce(traj); err != nil {
		return Outcome{Run: run.Name(), Status: StatusErrored, Err: err}
	}

	rewritten, err := Rewrite(traj, verification.VerifiedStepsToRemove)
	if err != nil {
		return Outcome{Run: run.Name(), Status: StatusErrored, Err: err}
	}
	if err := run.SaveTrajectory(rewritten); err != nil {
		return Outcome{Run: run.Name(), Status: StatusErrored, Err: err}
	}

	report := &trajectory.OptimizationReport{
		OriginalSteps:       traj.Len(),
		OptimizedSteps:      rewritten.Len(),
		Step1Identified:     proposal.StepsToRemove,
		Step1DuplicatesWith: proposal.DuplicatesWith,
		Step2Verification: trajectory.VerificationSummary{
			SafeToDelete:          verification.SafeToDelete,
			Reason:                verification.Reason,
			VerifiedStepsToRemove: verification.VerifiedStepsToRemove,
		},
		FinalRemovedSteps: verification.VerifiedStepsToRemove,
	}
	if err := run.WriteReport(report); err != nil {
		return Outcome{Run: run.Name(), Status: StatusErrored, Err: err}
	}

	logger.Info(ctx, "optimized run: %d -> %d steps (removed %v)",
		traj.Len(), rewritten.Len(), verification.VerifiedStepsToRemove)
	return Outcome{
		Run:           run.Name(),
		Status:        StatusOptimized,
		RemovedSteps:  verification.VerifiedStepsToRemove,
		OriginalSteps: traj.Len(),
		FinalSteps:    rewritten.Len(),
		Reason:        verification.Reason,
	}
}
