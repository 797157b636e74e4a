package optimize

import (
	"sort"
	"strconv"

	"github.com/XiaoConstantine/trajectory-go/pkg/errors"
	"github.com/XiaoConstantine/trajectory-go/pkg/trajectory"
)

// Rewrite builds a new trajectory with the confirmed steps removed and the
// survivors renumbered densely 1..M in their original relative order. It is
// a pure function: the input map is never mutated and step payloads are
// carried over untouched, so artifact references keep pointing at the files
// named by the original indices.
//
// An empty confirmed set returns the input unchanged. Indices outside the
// trajectory are ignored; duplicates in the confirmed set are harmless.
func Rewrite(traj trajectory.Trajectory, confirmed []int) (trajectory.Trajectory, error) {
	if len(confirmed) == 0 {
		return traj, nil
	}

	indices, err := traj.Indices()
	if err != nil {
		return nil, err
	}

	remove := make(map[int]bool, len(confirmed))
	for _, n := range confirmed {
		remove[n] = true
	}

	surviving := make([]int, 0, len(indices))
	for _, n := range indices {
		if !remove[n] {
			surviving = append(surviving, n)
		}
	}
	sort.Ints(surviving)

	rewritten := make(trajectory.Trajectory, len(surviving))
	for newIdx, oldIdx := range surviving {
		step, _ := traj.StepAt(oldIdx)
		rewritten[strconv.Itoa(newIdx+1)] = step
	}

	if err := rewritten.ValidateDense(); err != nil {
		return nil, errors.Wrap(err, errors.Unknown, "renumbered trajectory failed density check")
	}
	return rewritten, nil
}
