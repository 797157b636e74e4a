package knowledge

import (
	"fmt"
	"strings"

	"github.com/XiaoConstantine/trajectory-go/pkg/trajectory"
)

// buildEpisodeText flattens one run into the structured text document the
// oracle extracts entities from.
func buildEpisodeText(run *trajectory.Run, traj trajectory.Trajectory, meta *trajectory.Metadata) (string, error) {
	indices, err := traj.Indices()
	if err != nil {
		return "", err
	}

	var steps []string
	var code []string
	platformURL := ""
	for _, n := range indices {
		step, _ := traj.StepAt(n)
		if step.Action.Description != "" {
			steps = append(steps, fmt.Sprintf("Step %d: %s", n, step.Action.Description))
		}
		if step.Action.Code != "" {
			code = append(code, "- "+step.Action.Code)
		}
		if platformURL == "" && step.OtherObs != nil && step.OtherObs.URL != "" {
			platformURL = step.OtherObs.URL
		}
	}

	startURL := meta.StartURL
	if startURL == "" {
		startURL = platformURL
	}

	stepsText := "No detailed steps available"
	if len(steps) > 0 {
		stepsText = strings.Join(steps, "\n")
	}
	codeText := "No code executed"
	if len(code) > 0 {
		codeText = strings.Join(code, "\n")
	}
	successText := "Failed or incomplete"
	if meta.Success {
		successText = "Completed successfully"
	}
	totalSteps := meta.TotalSteps
	if totalSteps == 0 {
		totalSteps = traj.Len()
	}

	return fmt.Sprintf(`Web Trajectory Analysis Data:

GOAL: %s in %s

PLATFORM_URL: %s

DETAILED_STEPS:
%s

CODE_EXECUTED:
%s

EXECUTION_RESULTS:
- Success Status: %s
- Total Steps: %d
- Runtime: %.1f seconds

TRAJECTORY_ID: %s`,
		meta.Goal, platformName(startURL), startURL, stepsText, codeText,
		successText, totalSteps, meta.RuntimeSec, run.Name()), nil
}

// platformName derives a readable platform label from a URL. Google
// services hosted under paths of google.com get their service subdomain
// spelled out.
func platformName(url string) string {
	if url == "" {
		return "Unknown Platform"
	}

	clean := strings.NewReplacer("https://", "", "http://", "", "www.", "").Replace(url)
	parts := strings.Split(clean, "/")
	domain := strings.ToLower(parts[0])

	if domain == "google.com" && len(parts) > 1 && parts[1] != "" {
		return strings.ToLower(parts[1]) + ".google.com"
	}
	return domain
}
