package augment

import (
	"context"
	"fmt"
	"strings"

	"github.com/XiaoConstantine/trajectory-go/pkg/core"
	"github.com/XiaoConstantine/trajectory-go/pkg/errors"
	"github.com/XiaoConstantine/trajectory-go/pkg/optimize"
	"github.com/XiaoConstantine/trajectory-go/pkg/trajectory"
	"github.com/XiaoConstantine/trajectory-go/pkg/utils"
)

// InstructionRewrite is the oracle's corrected instruction set for a run.
type InstructionRewrite struct {
	HighLevel   string
	MidLevel    string
	LowLevel    string
	Explanation string
}

// RewriterConfig holds generation parameters for the instruction rewrite
// call.
type RewriterConfig struct {
	Temperature float64
	MaxTokens   int
}

// DefaultRewriterConfig returns the parameters used for instruction
// rewriting. Higher temperature than optimization: instruction text is
// prose, not a yes/no gate.
func DefaultRewriterConfig() RewriterConfig {
	return RewriterConfig{Temperature: 0.7, MaxTokens: 1000}
}

// Rewriter asks the oracle to correct a run's instructions against the
// actions and screenshots actually recorded.
type Rewriter struct {
	oracle core.Oracle
	loader optimize.ScreenshotLoader
	cfg    RewriterConfig
}

// NewRewriter creates a Rewriter. A nil loader defaults to reading files
// from disk.
func NewRewriter(oracle core.Oracle, loader optimize.ScreenshotLoader, cfg RewriterConfig) *Rewriter {
	if loader == nil {
		loader = optimize.FileLoader{}
	}
	return &Rewriter{oracle: oracle, loader: loader, cfg: cfg}
}

// Rewrite sends the step sequence, the before-last-step screenshot, and the
// final-output screenshot to the oracle and returns the corrected
// instructions. A response missing any of the three instruction fields is a
// tagged error carrying the raw output so callers can persist it for
// inspection.
func (r *Rewriter) Rewrite(ctx context.Context, steps []trajectory.Step, lastImage, finalImage string, instr trajectory.Instruction) (*InstructionRewrite, error) {
	lastData, lastMime, err := r.loader.Load(lastImage)
	if err != nil {
		return nil, errors.WithFields(
			errors.Wrap(err, errors.MissingRunFiles, "failed to load last-step screenshot"),
			errors.Fields{"path": lastImage},
		)
	}
	finalData, finalMime, err := r.loader.Load(finalImage)
	if err != nil {
		return nil, errors.WithFields(
			errors.Wrap(err, errors.MissingRunFiles, "failed to load final-output screenshot"),
			errors.Fields{"path": finalImage},
		)
	}

	content := []core.ContentBlock{
		core.NewTextBlock(fmt.Sprintf(
			"Original high_level: %s\nOriginal mid_level: %s\nOriginal low_level: %s\n\nExecuted steps:\n%s\n\nPlease rewrite the goal and all instruction levels to match what was actually done.",
			instr.HighLevel, instr.MidLevel, instr.LowLevel, renderStepsText(steps),
		)),
		core.NewImageBlock(lastData, lastMime),
		core.NewImageBlock(finalData, finalMime),
	}

	resp, err := r.oracle.GenerateWithContent(ctx, content,
		core.WithSystemPrompt(rewriteSystemPrompt),
		core.WithTemperature(r.cfg.Temperature),
		core.WithMaxTokens(r.cfg.MaxTokens),
	)
	if err != nil {
		return nil, errors.Wrap(err, errors.OracleCallFailed, "instruction rewrite call failed")
	}

	parsed, err := utils.ExtractJSONObject(resp.Content)
	if err != nil {
		return nil, err
	}

	result := &InstructionRewrite{}
	fields := map[string]*string{
		"high_level": &result.HighLevel,
		"mid_level":  &result.MidLevel,
		"low_level":  &result.LowLevel,
	}
	for key, dst := range fields {
		val, ok := parsed[key].(string)
		if !ok || val == "" {
			return nil, errors.WithFields(
				errors.New(errors.OracleMalformedJSON, "rewrite response missing instruction field"),
				errors.Fields{"field": key, "raw_response": resp.Content},
			)
		}
		*dst = val
	}
	if explanation, ok := parsed["explanation"].(string); ok {
		result.Explanation = explanation
	}
	return result, nil
}

func renderStepsText(steps []trajectory.Step) string {
	lines := make([]string, 0, len(steps))
	for i, step := range steps {
		lines = append(lines, fmt.Sprintf("Step %d: %s", i+1, step.Action.Code))
	}
	return strings.Join(lines, "\n")
}
