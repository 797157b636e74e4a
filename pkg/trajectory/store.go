package trajectory

import (
	"encoding/json"
	"os"

	"github.com/XiaoConstantine/trajectory-go/pkg/errors"
)

// OptimizationReport records what one optimization pass changed and why.
// It is a derived artifact and is overwritten on every successful pass.
type OptimizationReport struct {
	OriginalSteps       int                 `json:"original_steps"`
	OptimizedSteps      int                 `json:"optimized_steps"`
	Step1Identified     []int               `json:"step1_identified"`
	Step1DuplicatesWith []int               `json:"step1_duplicates_with"`
	Step2Verification   VerificationSummary `json:"step2_verification"`
	FinalRemovedSteps   []int               `json:"final_removed_steps"`
}

// VerificationSummary is the verification outcome embedded in a report.
type VerificationSummary struct {
	SafeToDelete          bool   `json:"safe_to_delete"`
	Reason                string `json:"reason"`
	VerifiedStepsToRemove []int  `json:"verified_steps_to_remove"`
}

// writeJSONFile writes a JSON document atomically: marshal, write to a
// sibling tmp file, rename over the target.
func writeJSONFile(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.Wrap(err, errors.Unknown, "failed to marshal JSON document")
	}
	data = append(data, '\n')

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return errors.Wrap(err, errors.RewriteIOError, "failed to write temp file")
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return errors.Wrap(err, errors.RewriteIOError, "failed to replace file")
	}
	return nil
}

// SnapshotOnce persists the pre-rewrite trajectory to
// trajectory.original.json, but only if that file does not already exist.
// Repeated optimization passes must never overwrite the genuine original
// with a partially-optimized intermediate state.
func (r *Run) SnapshotOnce(traj Trajectory) error {
	if _, err := os.Stat(r.BackupPath()); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return errors.Wrap(err, errors.RewriteIOError, "failed to stat backup file")
	}
	return writeJSONFile(r.BackupPath(), traj)
}

// SaveTrajectory overwrites trajectory.json. Callers must snapshot first;
// the write itself is atomic so a crash never leaves a half-written primary.
func (r *Run) SaveTrajectory(traj Trajectory) error {
	return writeJSONFile(r.TrajectoryPath(), traj)
}

// WriteReport overwrites the optimization report. The report is derived,
// not a source of truth.
func (r *Run) WriteReport(report *OptimizationReport) error {
	return writeJSONFile(r.ReportPath(), report)
}

// SnapshotMetadataOnce persists the original metadata to
// metadata.original.json with the same write-once contract as SnapshotOnce.
func (r *Run) SnapshotMetadataOnce(meta *Metadata) error {
	if _, err := os.Stat(r.MetadataBackupPath()); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return errors.Wrap(err, errors.RewriteIOError, "failed to stat metadata backup")
	}
	return writeJSONFile(r.MetadataBackupPath(), meta)
}

// SaveMetadata overwrites metadata.json.
func (r *Run) SaveMetadata(meta *Metadata) error {
	return writeJSONFile(r.MetadataPath(), meta)
}
