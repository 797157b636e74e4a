package optimize

// DeletionProposal is the advisory output of the redundancy proposer.
// StepsToRemove and DuplicatesWith are parallel arrays: StepsToRemove[i] is
// believed to duplicate DuplicatesWith[i]. Values are 1-based original step
// indices from the pre-rewrite trajectory.
type DeletionProposal struct {
	StepsToRemove  []int `json:"steps_to_remove"`
	DuplicatesWith []int `json:"duplicates_with"`
}

// IsEmpty reports whether the proposal flags no steps.
func (p DeletionProposal) IsEmpty() bool {
	return len(p.StepsToRemove) == 0
}

// VerificationResult is the authoritative outcome of the deletion gate.
// VerifiedStepsToRemove is a subset (possibly equal, possibly empty) of the
// proposal's StepsToRemove.
type VerificationResult struct {
	SafeToDelete          bool   `json:"safe_to_delete"`
	VerifiedStepsToRemove []int  `json:"verified_steps_to_remove"`
	Reason                string `json:"reason"`
}
