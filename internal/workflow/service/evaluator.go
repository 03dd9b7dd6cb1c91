package service

import (
	"github.com/wewinbid/approval-engine/internal/workflow/model"
)

// Verdict is the outcome of evaluating a step against its recorded decisions.
type Verdict string

const (
	VerdictPending   Verdict = "PENDING"   // The step can still go either way
	VerdictSatisfied Verdict = "SATISFIED" // The policy is met, the request moves forward
	VerdictBlocked   Verdict = "BLOCKED"   // The policy can no longer be met
)

// Tally counts the decisions that count towards a step. Only decisions from
// currently eligible approvers are considered; each approver counts once.
type Tally struct {
	Eligible     int
	Approvals    int
	NonApprovals int
}

// Undecided returns the number of eligible approvers who have not decided yet.
func (t Tally) Undecided() int {
	return t.Eligible - t.Approvals - t.NonApprovals
}

// CountDecisions builds the Tally for the given decisions and eligible set.
func CountDecisions(decisions []model.Decision, eligible []string) Tally {
	eligibleSet := make(map[string]struct{}, len(eligible))
	for _, approverID := range eligible {
		eligibleSet[approverID] = struct{}{}
	}

	tally := Tally{Eligible: len(eligibleSet)}
	counted := make(map[string]struct{}, len(decisions))
	for _, d := range decisions {
		if _, ok := eligibleSet[d.ApproverID]; !ok {
			continue
		}
		if _, seen := counted[d.ApproverID]; seen {
			continue
		}
		counted[d.ApproverID] = struct{}{}
		if d.Outcome == model.DecisionApproved {
			tally.Approvals++
		} else {
			tally.NonApprovals++
		}
	}
	return tally
}

// Evaluate applies the step's policy to the decisions recorded for it.
// It is a pure function of its inputs.
func Evaluate(step model.StepDefinition, decisions []model.Decision, eligible []string) Verdict {
	tally := CountDecisions(decisions, eligible)

	// Nobody can decide on the step right now; wait until the role directory changes.
	if tally.Eligible == 0 {
		return VerdictPending
	}

	switch step.Policy.Kind {
	case model.PolicyAll:
		if tally.NonApprovals > 0 {
			return VerdictBlocked
		}
		if tally.Approvals == tally.Eligible {
			return VerdictSatisfied
		}
		return VerdictPending
	case model.PolicyAny:
		if tally.Approvals >= 1 {
			return VerdictSatisfied
		}
		if tally.NonApprovals == tally.Eligible {
			return VerdictBlocked
		}
		return VerdictPending
	case model.PolicyThreshold:
		n := step.Policy.Threshold
		if tally.Approvals >= n {
			return VerdictSatisfied
		}
		if tally.Eligible-tally.NonApprovals < n {
			return VerdictBlocked
		}
		return VerdictPending
	default:
		return VerdictPending
	}
}
