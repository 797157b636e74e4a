package trajectory

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/XiaoConstantine/trajectory-go/pkg/errors"
)

// writeTestRun lays out a run directory with a trajectory, metadata and
// per-step screenshots (plus the trailing final-state screenshot).
func writeTestRun(t *testing.T, steps int) *Run {
	t.Helper()

	dir := t.TempDir()
	run := OpenRun(dir)

	traj := makeTrajectory(steps)
	data, err := json.MarshalIndent(traj, "", "  ")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(run.TrajectoryPath(), data, 0644))

	meta := &Metadata{
		Goal: "Create a calendar event",
		Task: Task{
			Instruction: Instruction{
				HighLevel: "Add my music workshop to my calendar",
				MidLevel:  "Create an event titled 'Music Workshop'",
				LowLevel:  "Click the create button and create an event titled 'Music Workshop'",
			},
		},
	}
	metaData, err := json.MarshalIndent(meta, "", "  ")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(run.MetadataPath(), metaData, 0644))

	require.NoError(t, os.MkdirAll(run.ImagesPath(), 0755))
	for i := 1; i <= steps+1; i++ {
		require.NoError(t, os.WriteFile(run.ScreenshotPath(i), []byte("png"), 0644))
	}

	return run
}

func TestOpenRunPaths(t *testing.T) {
	run := OpenRun("/data/results/status_2_inefficient/traj_001")

	assert.Equal(t, "traj_001", run.Name())
	assert.Equal(t, "/data/results/status_2_inefficient/traj_001/trajectory.json", run.TrajectoryPath())
	assert.Equal(t, "/data/results/status_2_inefficient/traj_001/trajectory.original.json", run.BackupPath())
	assert.Equal(t, "/data/results/status_2_inefficient/traj_001/images/screenshot_007.png", run.ScreenshotPath(7))
	assert.Equal(t, "/data/results/status_2_inefficient/traj_001/images/screenshot_123.png", run.ScreenshotPath(123))
}

func TestHasRequiredFiles(t *testing.T) {
	run := writeTestRun(t, 2)
	assert.True(t, run.HasRequiredFiles())

	require.NoError(t, os.Remove(run.MetadataPath()))
	assert.False(t, run.HasRequiredFiles())
}

func TestLoadTrajectory(t *testing.T) {
	run := writeTestRun(t, 3)

	traj, err := run.LoadTrajectory()
	require.NoError(t, err)
	assert.Equal(t, 3, traj.Len())

	step, ok := traj.StepAt(1)
	require.True(t, ok)
	assert.Contains(t, step.Action.Code, "page.click")
}

func TestLoadTrajectoryMissing(t *testing.T) {
	run := OpenRun(t.TempDir())

	_, err := run.LoadTrajectory()
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.MissingRunFiles))
}

func TestLoadTrajectoryMalformed(t *testing.T) {
	run := OpenRun(t.TempDir())
	require.NoError(t, os.WriteFile(run.TrajectoryPath(), []byte("{not json"), 0644))

	_, err := run.LoadTrajectory()
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ValidationFailed))
}

func TestLoadMetadata(t *testing.T) {
	run := writeTestRun(t, 2)

	meta, err := run.LoadMetadata()
	require.NoError(t, err)
	assert.Equal(t, "Create a calendar event", meta.Goal)
	assert.Contains(t, meta.Task.Instruction.LowLevel, "create an event")
}

func TestLoadMetadataMissing(t *testing.T) {
	run := OpenRun(t.TempDir())

	_, err := run.LoadMetadata()
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.MissingRunFiles))
}

func TestScreenshotPaths(t *testing.T) {
	run := writeTestRun(t, 3)
	traj, err := run.LoadTrajectory()
	require.NoError(t, err)

	paths, err := run.ScreenshotPaths(traj)
	require.NoError(t, err)
	// One per step plus the trailing final-state screenshot at max+1.
	require.Len(t, paths, 4)
	assert.Equal(t, run.ScreenshotPath(1), paths[0])
	assert.Equal(t, run.ScreenshotPath(4), paths[3])
}

func TestScreenshotPathsEmptyTrajectory(t *testing.T) {
	run := OpenRun(t.TempDir())
	paths, err := run.ScreenshotPaths(Trajectory{})
	require.NoError(t, err)
	assert.Empty(t, paths)
}

func TestStepNumberFromScreenshot(t *testing.T) {
	tests := []struct {
		path     string
		expected int
		wantErr  bool
	}{
		{path: "images/screenshot_001.png", expected: 1},
		{path: "/abs/run/images/screenshot_042.png", expected: 42},
		{path: "screenshot_123.png", expected: 123},
		{path: "images/final.png", wantErr: true},
		{path: "screenshot_abc.png", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(filepath.Base(tt.path), func(t *testing.T) {
			n, err := StepNumberFromScreenshot(tt.path)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, n)
		})
	}
}
