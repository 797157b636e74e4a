package optimize

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/XiaoConstantine/trajectory-go/pkg/core"
	"github.com/XiaoConstantine/trajectory-go/pkg/errors"
	"github.com/XiaoConstantine/trajectory-go/pkg/logging"
	"github.com/XiaoConstantine/trajectory-go/pkg/trajectory"
	"github.com/XiaoConstantine/trajectory-go/pkg/utils"
)

// ProposerConfig holds generation parameters for the proposal call.
type ProposerConfig struct {
	Temperature float64
	MaxTokens   int
}

// DefaultProposerConfig mirrors the parameters the pipeline has always used
// for redundancy detection.
func DefaultProposerConfig() ProposerConfig {
	return ProposerConfig{Temperature: 0.3, MaxTokens: 200}
}

// Proposer asks the oracle which steps of a trajectory are redundant.
// It never mutates the trajectory; its output is purely advisory.
type Proposer struct {
	oracle core.Oracle
	loader ScreenshotLoader
	cfg    ProposerConfig
}

// NewProposer creates a Proposer. A nil loader defaults to reading files
// from disk.
func NewProposer(oracle core.Oracle, loader ScreenshotLoader, cfg ProposerConfig) *Proposer {
	if loader == nil {
		loader = FileLoader{}
	}
	return &Proposer{oracle: oracle, loader: loader, cfg: cfg}
}

// Propose renders the step sequence and available screenshots into an
// oracle request and returns the proposed deletion set.
//
// Screenshot labels use the step number embedded in each filename, not the
// position in the input slice: that filename-derived numbering is what
// downstream correlates against steps_to_remove. Missing screenshot files
// are skipped, not errors. An empty or unparseable oracle response
// degrades to an empty proposal; any other failure is returned as a tagged
// error carrying the raw oracle output.
func (p *Proposer) Propose(ctx context.Context, steps []trajectory.Step, screenshots []string, instruction string) (DeletionProposal, error) {
	logger := logging.GetLogger()

	content := []core.ContentBlock{
		core.NewTextBlock(fmt.Sprintf(
			"Task instruction: %s\n\nExecuted steps:\n%s\n\nIdentify the redundant step numbers that should be removed:",
			instruction, renderStepsText(steps),
		)),
	}
	content = append(content, p.screenshotBlocks(ctx, screenshots)...)

	resp, err := p.oracle.GenerateWithContent(ctx, content,
		core.WithSystemPrompt(proposeSystemPrompt),
		core.WithTemperature(p.cfg.Temperature),
		core.WithMaxTokens(p.cfg.MaxTokens),
	)
	if err != nil {
		return DeletionProposal{}, errors.Wrap(err, errors.OracleCallFailed, "redundancy proposal call failed")
	}

	parsed, err := utils.ExtractJSONObject(resp.Content)
	if err != nil {
		// Blank or malformed output is treated as "nothing to remove".
		logger.Warn(ctx, "proposal response unusable, returning empty proposal: %v", err)
		return DeletionProposal{}, nil
	}

	rawRemove, ok := parsed["steps_to_remove"]
	if !ok {
		logger.Warn(ctx, "proposal response missing steps_to_remove, returning empty proposal")
		return DeletionProposal{}, nil
	}

	stepsToRemove, ok := utils.IntSlice(rawRemove)
	if !ok {
		return DeletionProposal{}, errors.WithFields(
			errors.New(errors.OracleMalformedJSON, "steps_to_remove is not an integer array"),
			errors.Fields{"raw_response": resp.Content},
		)
	}

	duplicatesWith := []int{}
	if rawDup, ok := parsed["duplicates_with"]; ok {
		duplicatesWith, ok = utils.IntSlice(rawDup)
		if !ok {
			return DeletionProposal{}, errors.WithFields(
				errors.New(errors.OracleMalformedJSON, "duplicates_with is not an integer array"),
				errors.Fields{"raw_response": resp.Content},
			)
		}
	}

	return DeletionProposal{StepsToRemove: stepsToRemove, DuplicatesWith: duplicatesWith}, nil
}

// screenshotBlocks builds labeled image blocks for every screenshot that
// exists on disk. Labels carry the original step number extracted from the
// filename.
func (p *Proposer) screenshotBlocks(ctx context.Context, screenshots []string) []core.ContentBlock {
	logger := logging.GetLogger()

	var blocks []core.ContentBlock
	for _, path := range screenshots {
		data, mimeType, err := p.loader.Load(path)
		if err != nil {
			if !os.IsNotExist(err) {
				logger.Warn(ctx, "skipping unreadable screenshot %s: %v", path, err)
			}
			continue
		}

		stepNum, err := trajectory.StepNumberFromScreenshot(path)
		if err != nil {
			logger.Warn(ctx, "skipping screenshot with unparseable name %s: %v", path, err)
			continue
		}

		blocks = append(blocks,
			core.NewTextBlock(fmt.Sprintf("Screenshot for Step %d:", stepNum)),
			core.NewImageBlock(data, mimeType),
		)
	}
	return blocks
}

// renderStepsText renders each step's code labeled by 1-based position.
func renderStepsText(steps []trajectory.Step) string {
	lines := make([]string, 0, len(steps))
	for i, step := range steps {
		lines = append(lines, fmt.Sprintf("Step %d: %s", i+1, step.Action.Code))
	}
	return strings.Join(lines, "\n")
}
