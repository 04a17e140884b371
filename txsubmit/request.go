// Package txsubmit turns a user action into exactly one registry request.
//
// A request is validated locally first; an invalid request raises a warning
// and never reaches the network. A valid one is sent once, without retry.
// Its outcome is reported as a notification and, on success only, a refresh
// of the affected views is scheduled after a configurable delay that covers
// the gap between a confirmed transaction and the registry's read side.
package txsubmit

import (
	"errors"
	"fmt"

	"github.com/bluecarbon/mrv-dashboard/interfaces"
)

// Request is a user action with the inputs the dashboard collected for it.
// Zero values mean the input was left empty.
type Request struct {
	Action    interfaces.Action    `json:"action"`
	ProjectID interfaces.ProjectID `json:"project_id"`
	Tons      uint64               `json:"tons"`
	Recipient string               `json:"recipient"`
	Address   string               `json:"address"`
}

// ValidationError is a client-side rejection of a request.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return interfaces.ErrValidation
}

// IsValidation reports whether err is a client-side validation failure.
func IsValidation(err error) bool {
	return errors.Is(err, interfaces.ErrValidation)
}

func invalid(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// Validate checks a request before anything is sent.
func Validate(req Request) error {
	if _, err := interfaces.ParseAction(string(req.Action)); err != nil {
		return invalid("Unknown action")
	}

	if req.Action.IsTransition() && req.ProjectID == 0 {
		return invalid("Please select a project ID first")
	}

	switch req.Action {
	case interfaces.ActionApprove:
		if req.Tons == 0 {
			return invalid("Please enter tons to approve")
		}
	case interfaces.ActionIssueCredits:
		if req.Recipient == "" {
			return invalid("Please enter recipient address")
		}
		if _, err := interfaces.NewAddressFromHex(req.Recipient); err != nil {
			return invalid("Invalid recipient address")
		}
	case interfaces.ActionAddVerifier, interfaces.ActionRemoveVerifier:
		if req.Address == "" {
			return invalid("Please enter an address")
		}
		if _, err := interfaces.NewAddressFromHex(req.Address); err != nil {
			return invalid("Invalid address")
		}
	}

	return nil
}

type messages struct {
	loading string
	success string
}

var actionMessages = map[interfaces.Action]messages{
	interfaces.ActionUnderReview:    {"Moving project to under review...", "Project moved to under review"},
	interfaces.ActionApprove:        {"Approving project...", "Project approved successfully"},
	interfaces.ActionReject:         {"Rejecting project...", "Project rejected"},
	interfaces.ActionIssueCredits:   {"Issuing credits and tokenizing...", "Credits issued and project tokenized"},
	interfaces.ActionAddVerifier:    {"Adding verifier...", "Verifier added successfully"},
	interfaces.ActionRemoveVerifier: {"Removing verifier...", "Verifier removed successfully"},
}
