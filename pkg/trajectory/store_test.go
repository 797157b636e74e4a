package trajectory

import (
	"encoding/json"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotOnceWritesBackup(t *testing.T) {
	run := writeTestRun(t, 3)
	traj, err := run.LoadTrajectory()
	require.NoError(t, err)

	require.NoError(t, run.SnapshotOnce(traj))

	var backup Trajectory
	data, err := os.ReadFile(run.BackupPath())
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &backup))
	assert.Equal(t, traj, backup)
}

func TestSnapshotOnceNeverOverwrites(t *testing.T) {
	run := writeTestRun(t, 3)
	traj, err := run.LoadTrajectory()
	require.NoError(t, err)

	require.NoError(t, run.SnapshotOnce(traj))
	original, err := os.ReadFile(run.BackupPath())
	require.NoError(t, err)

	// A second snapshot with different content must be a no-op.
	mutated := makeTrajectory(1)
	require.NoError(t, run.SnapshotOnce(mutated))

	after, err := os.ReadFile(run.BackupPath())
	require.NoError(t, err)
	assert.Equal(t, original, after)
}

func TestSaveTrajectoryReplacesPrimary(t *testing.T) {
	run := writeTestRun(t, 5)

	smaller := makeTrajectory(2)
	require.NoError(t, run.SaveTrajectory(smaller))

	reloaded, err := run.LoadTrajectory()
	require.NoError(t, err)
	assert.Equal(t, smaller, reloaded)

	// No temp file left behind.
	_, err = os.Stat(run.TrajectoryPath() + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestWriteReportOverwrites(t *testing.T) {
	run := writeTestRun(t, 5)

	first := &OptimizationReport{
		OriginalSteps:     5,
		OptimizedSteps:    4,
		Step1Identified:   []int{2},
		FinalRemovedSteps: []int{2},
		Step2Verification: VerificationSummary{
			SafeToDelete:          true,
			Reason:                "step 2 duplicates step 4",
			VerifiedStepsToRemove: []int{2},
		},
	}
	require.NoError(t, run.WriteReport(first))

	second := &OptimizationReport{OriginalSteps: 5, OptimizedSteps: 5}
	require.NoError(t, run.WriteReport(second))

	data, err := os.ReadFile(run.ReportPath())
	require.NoError(t, err)

	var got OptimizationReport
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, 5, got.OptimizedSteps)
	assert.Empty(t, got.FinalRemovedSteps)
}

func TestReportJSONFieldNames(t *testing.T) {
	report := &OptimizationReport{
		OriginalSteps:       5,
		OptimizedSteps:      4,
		Step1Identified:     []int{2},
		Step1DuplicatesWith: []int{4},
		Step2Verification: VerificationSummary{
			SafeToDelete:          true,
			Reason:                "safe",
			VerifiedStepsToRemove: []int{2},
		},
		FinalRemovedSteps: []int{2},
	}

	data, err := json.Marshal(report)
	require.NoError(t, err)

	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &raw))
	for _, key := range []string{
		"original_steps", "optimized_steps", "step1_identified",
		"step1_duplicates_with", "step2_verification", "final_removed_steps",
	} {
		assert.Contains(t, raw, key)
	}
}

func TestSnapshotMetadataOnce(t *testing.T) {
	run := writeTestRun(t, 2)
	meta, err := run.LoadMetadata()
	require.NoError(t, err)

	require.NoError(t, run.SnapshotMetadataOnce(meta))
	original, err := os.ReadFile(run.MetadataBackupPath())
	require.NoError(t, err)

	changed := *meta
	changed.Goal = "something else"
	require.NoError(t, run.SnapshotMetadataOnce(&changed))

	after, err := os.ReadFile(run.MetadataBackupPath())
	require.NoError(t, err)
	assert.Equal(t, original, after)
}

func TestSaveMetadata(t *testing.T) {
	run := writeTestRun(t, 2)
	meta, err := run.LoadMetadata()
	require.NoError(t, err)

	meta.Goal = "Corrected goal"
	meta.Task.Instruction.LowLevel = "Corrected low level"
	require.NoError(t, run.SaveMetadata(meta))

	reloaded, err := run.LoadMetadata()
	require.NoError(t, err)
	assert.Equal(t, "Corrected goal", reloaded.Goal)
	assert.Equal(t, "Corrected low level", reloaded.Task.Instruction.LowLevel)
}
