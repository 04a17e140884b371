// Package lifecycle mirrors the registry's project state machine on the
// client: it turns a status into the view state the dashboard renders and
// tells which actions the registry would accept next.
//
// Everything here is pure. Enforcement stays with the registry contract; the
// projection only decides which affordances to offer.
package lifecycle

import (
	"slices"

	"github.com/bluecarbon/mrv-dashboard/interfaces"
)

// Color classes follow the dashboard's badge palette.
const (
	ColorSecondary = "secondary"
	ColorWarning   = "warning"
	ColorSuccess   = "success"
	ColorInfo      = "info"
	ColorDanger    = "danger"
)

// ActionGroup names the mutually exclusive sets of affordances.
type ActionGroup string

const (
	GroupNone         ActionGroup = "none"
	GroupMoveToReview ActionGroup = "move-to-review"
	GroupDecide       ActionGroup = "approve-reject"
	GroupIssueCredits ActionGroup = "issue-credits"
)

// ViewState is the client-visible projection of a status.
type ViewState struct {
	Status         interfaces.Status   `json:"-"`
	Label          string              `json:"label"`
	ColorClass     string              `json:"color_class"`
	Badge          string              `json:"badge"`
	Group          ActionGroup         `json:"action_group"`
	EnabledActions []interfaces.Action `json:"enabled_actions"`
	Terminal       bool                `json:"terminal"`
}

// Allows reports whether the action is offered in this state.
func (v ViewState) Allows(action interfaces.Action) bool {
	return slices.Contains(v.EnabledActions, action)
}

type projection struct {
	label string
	color string
	badge string
	group ActionGroup
}

var projections = map[interfaces.Status]projection{
	interfaces.StatusNone:        {"None", ColorSecondary, "⚪ None", GroupNone},
	interfaces.StatusSubmitted:   {"Submitted", ColorSecondary, "📝 Submitted", GroupMoveToReview},
	interfaces.StatusUnderReview: {"Under Review", ColorWarning, "👀 Review", GroupDecide},
	interfaces.StatusApproved:    {"Approved", ColorSuccess, "✓ Approved", GroupIssueCredits},
	interfaces.StatusTokenized:   {"Tokenized", ColorInfo, "💫 Tokenized", GroupNone},
	interfaces.StatusRejected:    {"Rejected", ColorDanger, "✗ Rejected", GroupNone},
}

var unknownProjection = projection{"Unknown", ColorSecondary, "Unknown", GroupNone}

// Project computes the view state for a status. Unknown statuses render as
// "Unknown" with nothing enabled.
func Project(status interfaces.Status) ViewState {
	p, ok := projections[status]
	if !ok {
		p = unknownProjection
		status = interfaces.StatusUnknown
	}

	return ViewState{
		Status:         status,
		Label:          p.label,
		ColorClass:     p.color,
		Badge:          p.badge,
		Group:          p.group,
		EnabledActions: actionsFor(p.group),
		Terminal:       status.Terminal(),
	}
}

// ProjectCode is Project for a raw on-chain status code.
func ProjectCode(code int64) ViewState {
	return Project(interfaces.StatusFromCode(code))
}

func actionsFor(group ActionGroup) []interfaces.Action {
	switch group {
	case GroupMoveToReview:
		return []interfaces.Action{interfaces.ActionUnderReview}
	case GroupDecide:
		return []interfaces.Action{interfaces.ActionApprove, interfaces.ActionReject}
	case GroupIssueCredits:
		return []interfaces.Action{interfaces.ActionIssueCredits}
	default:
		return []interfaces.Action{}
	}
}
