package optimize

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/XiaoConstantine/trajectory-go/pkg/core"
	"github.com/XiaoConstantine/trajectory-go/pkg/errors"
	"github.com/XiaoConstantine/trajectory-go/pkg/logging"
	"github.com/XiaoConstantine/trajectory-go/pkg/trajectory"
	"github.com/XiaoConstantine/trajectory-go/pkg/utils"
)

// VerifierConfig holds generation parameters for the verification call.
type VerifierConfig struct {
	Temperature float64
	MaxTokens   int
}

// DefaultVerifierConfig returns the parameters used for deletion
// verification. Lower temperature than proposal: this is the gate before a
// destructive rewrite.
func DefaultVerifierConfig() VerifierConfig {
	return VerifierConfig{Temperature: 0.1, MaxTokens: 300}
}

// Verifier re-examines a proposed deletion set and asks the oracle to
// confirm or narrow it. It performs no mutation.
type Verifier struct {
	oracle core.Oracle
	loader ScreenshotLoader
	cfg    VerifierConfig
}

// NewVerifier creates a Verifier. A nil loader defaults to reading files
// from disk.
func NewVerifier(oracle core.Oracle, loader ScreenshotLoader, cfg VerifierConfig) *Verifier {
	if loader == nil {
		loader = FileLoader{}
	}
	return &Verifier{oracle: oracle, loader: loader, cfg: cfg}
}

// Verify gathers the union of flagged steps and their duplicate targets,
// shows the oracle each one's screenshot with a role label, and returns the
// confirmed (possibly narrowed) deletion set.
//
// The pairwise narrative is included only when stepsToRemove and
// duplicatesWith have equal length; on mismatch the narrative is omitted
// but verification still proceeds with the flat index lists. Unlike the
// proposer, an empty or unparseable oracle response here is an explicit
// error so callers can distinguish "nothing is safe to delete" from "the
// verification call failed".
func (v *Verifier) Verify(ctx context.Context, run *trajectory.Run, steps []trajectory.Step, stepsToRemove, duplicatesWith []int, instruction string) (*VerificationResult, error) {
	text := fmt.Sprintf(
		"Task instruction: %s\n\nFull trajectory steps:\n%s\n\nSteps proposed for deletion: %v\n%s\n\nPlease verify if these steps are safe to delete:",
		instruction,
		renderStepsText(steps),
		stepsToRemove,
		duplicationNarrative(stepsToRemove, duplicatesWith),
	)

	content := []core.ContentBlock{core.NewTextBlock(text)}
	content = append(content, v.screenshotBlocks(ctx, run, stepsToRemove, duplicatesWith)...)

	resp, err := v.oracle.GenerateWithContent(ctx, content,
		core.WithSystemPrompt(verifySystemPrompt),
		core.WithTemperature(v.cfg.Temperature),
		core.WithMaxTokens(v.cfg.MaxTokens),
	)
	if err != nil {
		return nil, errors.Wrap(err, errors.OracleCallFailed, "deletion verification call failed")
	}

	parsed, err := utils.ExtractJSONObject(resp.Content)
	if err != nil {
		// Surfaced, not swallowed: a failed verification must not read as
		// "oracle rejected every deletion".
		return nil, err
	}

	rawVerified, ok := parsed["verified_steps_to_remove"]
	if !ok {
		return nil, errors.WithFields(
			errors.New(errors.OracleMalformedJSON, "verification response missing verified_steps_to_remove"),
			errors.Fields{"raw_response": resp.Content},
		)
	}
	verified, ok := utils.IntSlice(rawVerified)
	if !ok {
		return nil, errors.WithFields(
			errors.New(errors.OracleMalformedJSON, "verified_steps_to_remove is not an integer array"),
			errors.Fields{"raw_response": resp.Content},
		)
	}

	result := &VerificationResult{VerifiedStepsToRemove: verified}
	if safe, ok := parsed["safe_to_delete"].(bool); ok {
		result.SafeToDelete = safe
	}
	if reason, ok := parsed["reason"].(string); ok {
		result.Reason = reason
	}
	return result, nil
}

// screenshotBlocks loads the screenshot for every step in the union of the
// two index lists, sorted ascending, labeling each by its role.
func (v *Verifier) screenshotBlocks(ctx context.Context, run *trajectory.Run, stepsToRemove, duplicatesWith []int) []core.ContentBlock {
	logger := logging.GetLogger()

	removeSet := make(map[int]bool, len(stepsToRemove))
	for _, n := range stepsToRemove {
		removeSet[n] = true
	}

	union := make(map[int]bool, len(stepsToRemove)+len(duplicatesWith))
	for _, n := range stepsToRemove {
		union[n] = true
	}
	for _, n := range duplicatesWith {
		union[n] = true
	}

	ordered := make([]int, 0, len(union))
	for n := range union {
		ordered = append(ordered, n)
	}
	sort.Ints(ordered)

	var blocks []core.ContentBlock
	for _, stepNum := range ordered {
		path := run.ScreenshotPath(stepNum)
		data, mimeType, err := v.loader.Load(path)
		if err != nil {
			if !os.IsNotExist(err) {
				logger.Warn(ctx, "skipping unreadable screenshot %s: %v", path, err)
			}
			continue
		}

		label := fmt.Sprintf("Screenshot for Step %d (DUPLICATE TARGET):", stepNum)
		if removeSet[stepNum] {
			label = fmt.Sprintf("Screenshot for Step %d (PROPOSED FOR DELETION):", stepNum)
		}

		blocks = append(blocks,
			core.NewTextBlock(label),
			core.NewImageBlock(data, mimeType),
		)
	}
	return blocks
}

// duplicationNarrative renders the pairwise duplication claims, or nothing
// when the parallel-array contract is broken.
func duplicationNarrative(stepsToRemove, duplicatesWith []int) string {
	if len(stepsToRemove) != len(duplicatesWith) || len(stepsToRemove) == 0 {
		return ""
	}
	pairs := make([]string, 0, len(stepsToRemove))
	for i, removeStep := range stepsToRemove {
		pairs = append(pairs, fmt.Sprintf("Step %d duplicates Step %d", removeStep, duplicatesWith[i]))
	}
	return "Identified duplications:\n" + strings.Join(pairs, "\n")
}
