package lifecycle

import (
	"fmt"

	"github.com/bluecarbon/mrv-dashboard/interfaces"
)

type edge struct {
	from   interfaces.Status
	action interfaces.Action
}

// transitions is the registry's state machine. Tokenized and Rejected have no
// outgoing edges.
var transitions = map[edge]interfaces.Status{
	{interfaces.StatusSubmitted, interfaces.ActionUnderReview}: interfaces.StatusUnderReview,
	{interfaces.StatusUnderReview, interfaces.ActionApprove}:   interfaces.StatusApproved,
	{interfaces.StatusUnderReview, interfaces.ActionReject}:    interfaces.StatusRejected,
	{interfaces.StatusApproved, interfaces.ActionIssueCredits}: interfaces.StatusTokenized,
}

// Next returns the status a project reaches when action succeeds from status.
func Next(status interfaces.Status, action interfaces.Action) (interfaces.Status, error) {
	next, ok := transitions[edge{status, action}]
	if !ok {
		return status, fmt.Errorf("%w: %s from %s", interfaces.ErrTransitionNotPermitted, action, status)
	}
	return next, nil
}

// CanTransition reports whether action is permitted from status.
func CanTransition(status interfaces.Status, action interfaces.Action) bool {
	_, err := Next(status, action)
	return err == nil
}
