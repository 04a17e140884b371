package lifecycle

import (
	"testing"

	"github.com/bluecarbon/mrv-dashboard/interfaces"
	"github.com/stretchr/testify/assert"
)

func TestProject_KnownStatuses(t *testing.T) {
	tests := []struct {
		code    int64
		label   string
		color   string
		actions []interfaces.Action
	}{
		{0, "None", ColorSecondary, []interfaces.Action{}},
		{1, "Submitted", ColorSecondary, []interfaces.Action{interfaces.ActionUnderReview}},
		{2, "Under Review", ColorWarning, []interfaces.Action{interfaces.ActionApprove, interfaces.ActionReject}},
		{3, "Approved", ColorSuccess, []interfaces.Action{interfaces.ActionIssueCredits}},
		{4, "Tokenized", ColorInfo, []interfaces.Action{}},
		{5, "Rejected", ColorDanger, []interfaces.Action{}},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			view := ProjectCode(tt.code)
			assert.Equal(t, tt.label, view.Label)
			assert.Equal(t, tt.color, view.ColorClass)
			assert.Equal(t, tt.actions, view.EnabledActions)
			assert.Equal(t, tt.code == 4 || tt.code == 5, view.Terminal)
		})
	}
}

func TestProject_UnknownCodes(t *testing.T) {
	for _, code := range []int64{-7, -1, 6, 42, 1 << 33} {
		view := ProjectCode(code)
		assert.Equal(t, "Unknown", view.Label, "code %d", code)
		assert.Equal(t, interfaces.StatusUnknown, view.Status)
		assert.Empty(t, view.EnabledActions)
		assert.Equal(t, GroupNone, view.Group)
		assert.False(t, view.Terminal)
	}

	// A Status value outside the declared variants is treated the same way.
	view := Project(interfaces.Status(99))
	assert.Equal(t, "Unknown", view.Label)
	assert.Empty(t, view.EnabledActions)
}

func TestProject_ActionGroupsMutuallyExclusive(t *testing.T) {
	groupActions := map[ActionGroup][]interfaces.Action{
		GroupNone:         {},
		GroupMoveToReview: {interfaces.ActionUnderReview},
		GroupDecide:       {interfaces.ActionApprove, interfaces.ActionReject},
		GroupIssueCredits: {interfaces.ActionIssueCredits},
	}

	for _, s := range append(interfaces.AllStatuses, interfaces.StatusUnknown) {
		view := Project(s)
		expected, ok := groupActions[view.Group]
		assert.True(t, ok, s.Name())
		assert.ElementsMatch(t, expected, view.EnabledActions, s.Name())

		// No action of another group leaks into this state.
		for group, actions := range groupActions {
			if group == view.Group {
				continue
			}
			for _, a := range actions {
				assert.False(t, view.Allows(a), "%s allows %s", s.Name(), a)
			}
		}
	}
}

func TestProject_EnabledActionsMatchTransitions(t *testing.T) {
	all := []interfaces.Action{
		interfaces.ActionUnderReview,
		interfaces.ActionApprove,
		interfaces.ActionReject,
		interfaces.ActionIssueCredits,
	}
	for _, s := range append(interfaces.AllStatuses, interfaces.StatusUnknown) {
		view := Project(s)
		for _, a := range all {
			assert.Equal(t, CanTransition(s, a), view.Allows(a), "%s/%s", s.Name(), a)
		}
	}
}

func TestProject_DoesNotShareActionSlices(t *testing.T) {
	first := Project(interfaces.StatusUnderReview)
	first.EnabledActions[0] = interfaces.ActionIssueCredits

	second := Project(interfaces.StatusUnderReview)
	assert.Equal(t, interfaces.ActionApprove, second.EnabledActions[0])
}
