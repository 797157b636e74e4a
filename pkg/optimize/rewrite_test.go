package optimize

import (
	"fmt"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/XiaoConstantine/trajectory-go/pkg/trajectory"
)

func makeTrajectory(n int) trajectory.Trajectory {
	traj := make(trajectory.Trajectory, n)
	for i := 1; i <= n; i++ {
		traj[strconv.Itoa(i)] = trajectory.Step{
			Screenshot: fmt.Sprintf("screenshot_%03d.png", i),
			Axtree:     fmt.Sprintf("axtree_%03d.txt", i),
			Action: trajectory.Action{
				Code:        fmt.Sprintf("page.click('#btn-%d')", i),
				Description: fmt.Sprintf("click button %d", i),
			},
		}
	}
	return traj
}

func TestRewriteEmptySetIsNoOp(t *testing.T) {
	traj := makeTrajectory(3)

	out, err := Rewrite(traj, nil)
	require.NoError(t, err)
	assert.Equal(t, traj, out)

	out, err = Rewrite(traj, []int{})
	require.NoError(t, err)
	assert.Equal(t, traj, out)
}

func TestRewriteRenumbersDensely(t *testing.T) {
	traj := makeTrajectory(5)

	out, err := Rewrite(traj, []int{1, 2})
	require.NoError(t, err)
	require.Equal(t, 3, out.Len())
	require.NoError(t, out.ValidateDense())

	// Survivors keep their relative order: old 3,4,5 become new 1,2,3.
	for newIdx, oldIdx := range map[int]int{1: 3, 2: 4, 3: 5} {
		step, ok := out.StepAt(newIdx)
		require.True(t, ok)
		assert.Equal(t, traj[strconv.Itoa(oldIdx)], step)
	}
}

func TestRewritePreservesArtifactReferences(t *testing.T) {
	traj := makeTrajectory(4)

	out, err := Rewrite(traj, []int{2})
	require.NoError(t, err)

	// The step now numbered 2 was originally step 3; its payload still
	// points at the files created under the original index.
	step, ok := out.StepAt(2)
	require.True(t, ok)
	assert.Equal(t, "screenshot_003.png", step.Screenshot)
	assert.Equal(t, "axtree_003.txt", step.Axtree)
}

func TestRewriteRemoveFromMiddle(t *testing.T) {
	traj := makeTrajectory(5)

	out, err := Rewrite(traj, []int{3})
	require.NoError(t, err)
	require.Equal(t, 4, out.Len())
	require.NoError(t, out.ValidateDense())

	step, _ := out.StepAt(3)
	assert.Equal(t, "page.click('#btn-4')", step.Action.Code)
	step, _ = out.StepAt(4)
	assert.Equal(t, "page.click('#btn-5')", step.Action.Code)
}

func TestRewriteIgnoresUnknownAndDuplicateIndices(t *testing.T) {
	traj := makeTrajectory(3)

	out, err := Rewrite(traj, []int{2, 2, 99, -1})
	require.NoError(t, err)
	require.Equal(t, 2, out.Len())
	require.NoError(t, out.ValidateDense())
}

func TestRewriteDoesNotMutateInput(t *testing.T) {
	traj := makeTrajectory(3)

	_, err := Rewrite(traj, []int{1})
	require.NoError(t, err)

	assert.Equal(t, 3, traj.Len())
	step, ok := traj.StepAt(1)
	require.True(t, ok)
	assert.Equal(t, "screenshot_001.png", step.Screenshot)
}

func TestRewriteRemoveAll(t *testing.T) {
	traj := makeTrajectory(2)

	out, err := Rewrite(traj, []int{1, 2})
	require.NoError(t, err)
	assert.Equal(t, 0, out.Len())
}
