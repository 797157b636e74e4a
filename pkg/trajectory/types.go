package trajectory

import (
	"sort"
	"strconv"

	"github.com/XiaoConstantine/trajectory-go/pkg/errors"
)

// Action holds the executable instruction recorded for one step. Code is
// opaque to this subsystem; it is rendered into oracle prompts verbatim.
type Action struct {
	ActionStr   string `json:"action_str,omitempty"`
	Code        string `json:"playwright_code"`
	Description string `json:"action_description,omitempty"`
	Output      string `json:"action_output,omitempty"`
}

// Observation captures the page state the recorder attached to a step.
type Observation struct {
	PageIndex       int      `json:"page_index"`
	URL             string   `json:"url,omitempty"`
	OpenPagesTitles []string `json:"open_pages_titles,omitempty"`
	OpenPagesURLs   []string `json:"open_pages_urls,omitempty"`
}

// Step is one recorded action in a trajectory. Artifact references
// (Screenshot, Axtree) are keyed by the index assigned at creation time and
// are never rewritten, even after the logical sequence is renumbered.
type Step struct {
	Screenshot      string       `json:"screenshot"`
	Axtree          string       `json:"axtree,omitempty"`
	TargetingData   *string      `json:"targeting_data,omitempty"`
	UserMessage     *string      `json:"user_message,omitempty"`
	OtherObs        *Observation `json:"other_obs,omitempty"`
	Action          Action       `json:"action"`
	Error           *string      `json:"error"`
	ActionTimestamp float64      `json:"action_timestamp,omitempty"`
}

// Trajectory is the full ordered sequence of steps for one task run, stored
// as a mapping from string-encoded step index to step payload. Ordering is
// recovered by numeric sort of the keys, never by container order.
type Trajectory map[string]Step

// Indices returns the step indices in ascending numeric order. Non-numeric
// keys are rejected.
func (t Trajectory) Indices() ([]int, error) {
	indices := make([]int, 0, len(t))
	for k := range t {
		n, err := strconv.Atoi(k)
		if err != nil {
			return nil, errors.WithFields(
				errors.New(errors.ValidationFailed, "non-numeric step index in trajectory"),
				errors.Fields{"key": k},
			)
		}
		indices = append(indices, n)
	}
	sort.Ints(indices)
	return indices, nil
}

// Steps returns the step payloads in ascending index order.
func (t Trajectory) Steps() ([]Step, error) {
	indices, err := t.Indices()
	if err != nil {
		return nil, err
	}
	steps := make([]Step, 0, len(indices))
	for _, n := range indices {
		steps = append(steps, t[strconv.Itoa(n)])
	}
	return steps, nil
}

// StepAt returns the step stored under the given index.
func (t Trajectory) StepAt(n int) (Step, bool) {
	step, ok := t[strconv.Itoa(n)]
	return step, ok
}

// Len returns the number of steps.
func (t Trajectory) Len() int {
	return len(t)
}

// MaxIndex returns the largest step index, or 0 for an empty trajectory.
func (t Trajectory) MaxIndex() (int, error) {
	indices, err := t.Indices()
	if err != nil {
		return 0, err
	}
	if len(indices) == 0 {
		return 0, nil
	}
	return indices[len(indices)-1], nil
}

// ValidateDense verifies the index set is exactly {1..N} with no gaps, the
// at-rest invariant for a trajectory that has not been partially edited.
func (t Trajectory) ValidateDense() error {
	indices, err := t.Indices()
	if err != nil {
		return err
	}
	for i, n := range indices {
		if n != i+1 {
			return errors.WithFields(
				errors.New(errors.ValidationFailed, "trajectory index set is not dense"),
				errors.Fields{"expected": i + 1, "found": n},
			)
		}
	}
	return nil
}
