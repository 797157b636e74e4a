package optimize

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/XiaoConstantine/trajectory-go/internal/testutil"
	"github.com/XiaoConstantine/trajectory-go/pkg/core"
	"github.com/XiaoConstantine/trajectory-go/pkg/errors"
	"github.com/XiaoConstantine/trajectory-go/pkg/trajectory"
)

func testSteps(n int) []trajectory.Step {
	steps := make([]trajectory.Step, 0, n)
	for i := 1; i <= n; i++ {
		steps = append(steps, trajectory.Step{
			Action: trajectory.Action{Code: fmt.Sprintf("page.click('#btn-%d')", i)},
		})
	}
	return steps
}

func writeScreenshots(t *testing.T, nums ...int) []string {
	t.Helper()
	dir := t.TempDir()
	paths := make([]string, 0, len(nums))
	for _, n := range nums {
		p := filepath.Join(dir, fmt.Sprintf("screenshot_%03d.png", n))
		require.NoError(t, os.WriteFile(p, []byte("fake-png"), 0644))
		paths = append(paths, p)
	}
	return paths
}

func TestProposeParsesValidResponse(t *testing.T) {
	oracle := new(testutil.MockOracle)
	oracle.On("GenerateWithContent", mock.Anything, mock.Anything, mock.Anything).
		Return(testutil.TextResponse(`{"steps_to_remove": [1, 2], "duplicates_with": [3, 4]}`), nil)

	p := NewProposer(oracle, nil, DefaultProposerConfig())
	proposal, err := p.Propose(context.Background(), testSteps(5), nil, "buy a ticket")
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, proposal.StepsToRemove)
	assert.Equal(t, []int{3, 4}, proposal.DuplicatesWith)
	oracle.AssertExpectations(t)
}

func TestProposeEmptyResponseDegradesToEmptyProposal(t *testing.T) {
	oracle := new(testutil.MockOracle)
	oracle.On("GenerateWithContent", mock.Anything, mock.Anything, mock.Anything).
		Return(testutil.TextResponse(""), nil)

	p := NewProposer(oracle, nil, DefaultProposerConfig())
	proposal, err := p.Propose(context.Background(), testSteps(3), nil, "goal")
	require.NoError(t, err)
	assert.True(t, proposal.IsEmpty())
}

func TestProposeMalformedJSONDegradesToEmptyProposal(t *testing.T) {
	oracle := new(testutil.MockOracle)
	oracle.On("GenerateWithContent", mock.Anything, mock.Anything, mock.Anything).
		Return(testutil.TextResponse("I think steps 1 and 2 look redundant."), nil)

	p := NewProposer(oracle, nil, DefaultProposerConfig())
	proposal, err := p.Propose(context.Background(), testSteps(3), nil, "goal")
	require.NoError(t, err)
	assert.True(t, proposal.IsEmpty())
}

func TestProposeMissingKeyDegradesToEmptyProposal(t *testing.T) {
	oracle := new(testutil.MockOracle)
	oracle.On("GenerateWithContent", mock.Anything, mock.Anything, mock.Anything).
		Return(testutil.TextResponse(`{"redundant": [1]}`), nil)

	p := NewProposer(oracle, nil, DefaultProposerConfig())
	proposal, err := p.Propose(context.Background(), testSteps(3), nil, "goal")
	require.NoError(t, err)
	assert.True(t, proposal.IsEmpty())
}

func TestProposeNonIntegerArrayIsError(t *testing.T) {
	oracle := new(testutil.MockOracle)
	oracle.On("GenerateWithContent", mock.Anything, mock.Anything, mock.Anything).
		Return(testutil.TextResponse(`{"steps_to_remove": ["one", "two"]}`), nil)

	p := NewProposer(oracle, nil, DefaultProposerConfig())
	_, err := p.Propose(context.Background(), testSteps(3), nil, "goal")
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.OracleMalformedJSON))
}

func TestProposeOracleFailureIsTagged(t *testing.T) {
	oracle := new(testutil.MockOracle)
	oracle.On("GenerateWithContent", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("connection refused"))

	p := NewProposer(oracle, nil, DefaultProposerConfig())
	_, err := p.Propose(context.Background(), testSteps(3), nil, "goal")
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.OracleCallFailed))
}

func TestProposeLabelsScreenshotsByFilenameNumber(t *testing.T) {
	// The trajectory has a gap after a prior rewrite attempt: screenshots
	// 1 and 3 exist, 2 does not. Labels must come from the filenames.
	paths := writeScreenshots(t, 1, 3)
	missing := filepath.Join(filepath.Dir(paths[0]), "screenshot_002.png")
	all := []string{paths[0], missing, paths[1]}

	var sent []core.ContentBlock
	oracle := new(testutil.MockOracle)
	oracle.On("GenerateWithContent", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			sent = args.Get(1).([]core.ContentBlock)
		}).
		Return(testutil.TextResponse(`{"steps_to_remove": []}`), nil)

	p := NewProposer(oracle, nil, DefaultProposerConfig())
	_, err := p.Propose(context.Background(), testSteps(3), all, "goal")
	require.NoError(t, err)

	// Prompt text plus two label/image pairs; the missing file is skipped.
	require.Len(t, sent, 5)
	assert.Equal(t, "Screenshot for Step 1:", sent[1].Text)
	assert.Equal(t, core.BlockTypeImage, sent[2].Type)
	assert.Equal(t, "Screenshot for Step 3:", sent[3].Text)
	assert.Equal(t, core.BlockTypeImage, sent[4].Type)
}

func TestRenderStepsTextUsesPositionalNumbering(t *testing.T) {
	text := renderStepsText(testSteps(2))
	assert.Equal(t, "Step 1: page.click('#btn-1')\nStep 2: page.click('#btn-2')", text)
}
