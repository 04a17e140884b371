package interfaces

import "fmt"

// Status is the lifecycle state of a project. The six registry states are
// the only valid variants; anything else the backend reports is StatusUnknown.
type Status int8

const (
	StatusUnknown     Status = -1
	StatusNone        Status = 0
	StatusSubmitted   Status = 1
	StatusUnderReview Status = 2
	StatusApproved    Status = 3
	StatusTokenized   Status = 4
	StatusRejected    Status = 5
)

// AllStatuses lists the known variants in code order.
var AllStatuses = []Status{
	StatusNone,
	StatusSubmitted,
	StatusUnderReview,
	StatusApproved,
	StatusTokenized,
	StatusRejected,
}

// StatusFromCode maps an on-chain status code to its variant.
func StatusFromCode(code int64) Status {
	switch code {
	case 0:
		return StatusNone
	case 1:
		return StatusSubmitted
	case 2:
		return StatusUnderReview
	case 3:
		return StatusApproved
	case 4:
		return StatusTokenized
	case 5:
		return StatusRejected
	default:
		return StatusUnknown
	}
}

// ParseStatusName maps the registry's status names (as used by the explorer
// records endpoint) to variants.
func ParseStatusName(name string) Status {
	switch name {
	case "None":
		return StatusNone
	case "Submitted":
		return StatusSubmitted
	case "UnderReview":
		return StatusUnderReview
	case "Approved":
		return StatusApproved
	case "Tokenized":
		return StatusTokenized
	case "Rejected":
		return StatusRejected
	default:
		return StatusUnknown
	}
}

// Known reports whether s is one of the six registry states.
func (s Status) Known() bool {
	return s >= StatusNone && s <= StatusRejected
}

// Terminal reports whether no further transition is permitted from s.
func (s Status) Terminal() bool {
	return s == StatusTokenized || s == StatusRejected
}

// Name returns the registry name of the status.
func (s Status) Name() string {
	switch s {
	case StatusNone:
		return "None"
	case StatusSubmitted:
		return "Submitted"
	case StatusUnderReview:
		return "UnderReview"
	case StatusApproved:
		return "Approved"
	case StatusTokenized:
		return "Tokenized"
	case StatusRejected:
		return "Rejected"
	default:
		return "Unknown"
	}
}

func (s Status) String() string {
	return s.Name()
}

// Action is a user-initiated request that changes registry state.
type Action string

const (
	ActionUnderReview    Action = "under-review"
	ActionApprove        Action = "approve"
	ActionReject         Action = "reject"
	ActionIssueCredits   Action = "issue-credits"
	ActionAddVerifier    Action = "add-verifier"
	ActionRemoveVerifier Action = "remove-verifier"
)

// ParseAction validates an action name.
func ParseAction(name string) (Action, error) {
	switch a := Action(name); a {
	case ActionUnderReview, ActionApprove, ActionReject, ActionIssueCredits, ActionAddVerifier, ActionRemoveVerifier:
		return a, nil
	default:
		return "", fmt.Errorf("%w: unknown action %q", ErrValidation, name)
	}
}

// IsTransition reports whether the action moves a project between statuses.
// Verifier management actions do not target a project.
func (a Action) IsTransition() bool {
	switch a {
	case ActionUnderReview, ActionApprove, ActionReject, ActionIssueCredits:
		return true
	default:
		return false
	}
}
