package trajectory

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/XiaoConstantine/trajectory-go/pkg/errors"
)

func makeStep(code string) Step {
	return Step{
		Screenshot: "screenshot_001.png",
		Action:     Action{Code: code},
	}
}

func makeTrajectory(n int) Trajectory {
	traj := make(Trajectory, n)
	for i := 1; i <= n; i++ {
		traj[strconv.Itoa(i)] = Step{
			Screenshot: "screenshot_" + strconv.Itoa(i) + ".png",
			Action:     Action{Code: "page.click(\"#btn-" + strconv.Itoa(i) + "\")"},
		}
	}
	return traj
}

func TestIndicesNumericSort(t *testing.T) {
	traj := Trajectory{
		"10": makeStep("a"),
		"2":  makeStep("b"),
		"1":  makeStep("c"),
		"9":  makeStep("d"),
	}

	indices, err := traj.Indices()
	require.NoError(t, err)
	// Numeric order, not lexicographic: 10 sorts after 9.
	assert.Equal(t, []int{1, 2, 9, 10}, indices)
}

func TestIndicesRejectsNonNumericKeys(t *testing.T) {
	traj := Trajectory{"1": makeStep("a"), "final": makeStep("b")}

	_, err := traj.Indices()
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ValidationFailed))
}

func TestStepsOrder(t *testing.T) {
	traj := Trajectory{
		"3": makeStep("third"),
		"1": makeStep("first"),
		"2": makeStep("second"),
	}

	steps, err := traj.Steps()
	require.NoError(t, err)
	require.Len(t, steps, 3)
	assert.Equal(t, "first", steps[0].Action.Code)
	assert.Equal(t, "second", steps[1].Action.Code)
	assert.Equal(t, "third", steps[2].Action.Code)
}

func TestStepAt(t *testing.T) {
	traj := makeTrajectory(3)

	step, ok := traj.StepAt(2)
	require.True(t, ok)
	assert.Contains(t, step.Action.Code, "#btn-2")

	_, ok = traj.StepAt(7)
	assert.False(t, ok)
}

func TestMaxIndex(t *testing.T) {
	traj := makeTrajectory(5)
	max, err := traj.MaxIndex()
	require.NoError(t, err)
	assert.Equal(t, 5, max)

	empty := Trajectory{}
	max, err = empty.MaxIndex()
	require.NoError(t, err)
	assert.Equal(t, 0, max)
}

func TestValidateDense(t *testing.T) {
	assert.NoError(t, makeTrajectory(4).ValidateDense())
	assert.NoError(t, Trajectory{}.ValidateDense())

	gapped := Trajectory{"1": makeStep("a"), "3": makeStep("b")}
	err := gapped.ValidateDense()
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ValidationFailed))

	zeroBased := Trajectory{"0": makeStep("a"), "1": makeStep("b")}
	assert.Error(t, zeroBased.ValidateDense())
}
