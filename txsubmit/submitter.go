package txsubmit

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/bluecarbon/mrv-dashboard/biomass"
	"github.com/bluecarbon/mrv-dashboard/interfaces"
	"github.com/bluecarbon/mrv-dashboard/notify"
)

// Config configures a Submitter.
type Config struct {
	Registry interfaces.RegistryAPI
	Notifier notify.Notifier
	Log      *slog.Logger

	// RefreshDelay is the wait before Refresh runs after a success.
	RefreshDelay time.Duration

	// Refresh reloads views after a successful transaction. Nil disables refreshing.
	Refresh RefreshFunc

	// RefreshContext bounds every scheduled refresh; cancelling it stops
	// pending refreshes. Defaults to context.Background().
	RefreshContext context.Context
}

// Outcome is the result of a submitted request.
type Outcome struct {
	Action     interfaces.Action      `json:"action"`
	Tx         interfaces.TxRef       `json:"tx,omitempty"`
	Submission *interfaces.Submission `json:"submission,omitempty"`
	Refresh    *Refresh               `json:"-"`
}

// Submitter sends validated requests to the registry.
type Submitter struct {
	registry interfaces.RegistryAPI
	notifier notify.Notifier
	log      *slog.Logger

	delay      time.Duration
	refresh    RefreshFunc
	refreshCtx context.Context
}

func NewSubmitter(cfg Config) *Submitter {
	log := cfg.Log
	if log == nil {
		log = slog.Default()
	}
	refreshCtx := cfg.RefreshContext
	if refreshCtx == nil {
		refreshCtx = context.Background()
	}

	return &Submitter{
		registry:   cfg.Registry,
		notifier:   cfg.Notifier,
		log:        log,
		delay:      cfg.RefreshDelay,
		refresh:    cfg.Refresh,
		refreshCtx: refreshCtx,
	}
}

// Submit validates the request, sends it once and reports the outcome.
// Validation failures return a *ValidationError and send nothing. Registry
// and transport failures are returned unchanged after being notified.
func (s *Submitter) Submit(ctx context.Context, req Request) (*Outcome, error) {
	if err := Validate(req); err != nil {
		s.notifier.Notify(notify.LevelWarning, err.Error())
		return nil, err
	}

	msgs := actionMessages[req.Action]
	s.notifier.Notify(notify.LevelInfo, msgs.loading)

	tx, err := s.send(ctx, req)
	if err != nil {
		s.log.Error("transaction failed", "action", req.Action, "project", uint64(req.ProjectID), "err", err)
		s.notifier.Notify(notify.LevelError, err.Error())
		return nil, err
	}

	s.log.Info("transaction confirmed", "action", req.Action, "project", uint64(req.ProjectID), "tx", tx)
	s.notifier.Notify(notify.LevelSuccess, fmt.Sprintf("%s\nTx: %s", msgs.success, tx.Short()))

	outcome := &Outcome{Action: req.Action, Tx: tx}
	if req.Action.IsTransition() {
		outcome.Refresh = s.scheduleRefresh(req.ProjectID)
	}
	return outcome, nil
}

// SubmitSurvey submits a drone survey as a new project.
func (s *Submitter) SubmitSurvey(ctx context.Context, survey interfaces.Survey) (*Outcome, error) {
	if err := biomass.Validate(survey.AvgNDVI, survey.AreaHa); err != nil {
		verr := &ValidationError{Message: surveyMessage(survey)}
		s.notifier.Notify(notify.LevelWarning, verr.Message)
		return nil, verr
	}

	s.notifier.Notify(notify.LevelInfo, "Submitting drone project...")

	sub, err := s.registry.SubmitProject(ctx, survey)
	if err != nil {
		s.log.Error("project submission failed", "err", err)
		s.notifier.Notify(notify.LevelError, err.Error())
		return nil, err
	}

	s.log.Info("project submitted", "tx", sub.Tx, "biomass", sub.Biomass, "metadataUri", sub.MetadataURI)
	s.notifier.Notify(notify.LevelSuccess, fmt.Sprintf("Project submitted! Biomass: %d tons\nTx: %s", sub.Biomass, sub.Tx.Short()))

	return &Outcome{
		Action:     ActionSubmitProject,
		Tx:         sub.Tx,
		Submission: sub,
		Refresh:    s.scheduleRefresh(0),
	}, nil
}

// ActionSubmitProject labels outcomes of survey submissions.
const ActionSubmitProject interfaces.Action = "submit-project"

func (s *Submitter) send(ctx context.Context, req Request) (interfaces.TxRef, error) {
	switch req.Action {
	case interfaces.ActionUnderReview:
		return s.registry.SetUnderReview(ctx, req.ProjectID)
	case interfaces.ActionApprove:
		return s.registry.Approve(ctx, req.ProjectID, req.Tons)
	case interfaces.ActionReject:
		return s.registry.Reject(ctx, req.ProjectID)
	case interfaces.ActionIssueCredits:
		recipient, err := interfaces.NewAddressFromHex(req.Recipient)
		if err != nil {
			return "", err
		}
		return s.registry.IssueCredits(ctx, req.ProjectID, recipient)
	case interfaces.ActionAddVerifier, interfaces.ActionRemoveVerifier:
		addr, err := interfaces.NewAddressFromHex(req.Address)
		if err != nil {
			return "", err
		}
		if req.Action == interfaces.ActionAddVerifier {
			return s.registry.AddVerifier(ctx, addr)
		}
		return s.registry.RemoveVerifier(ctx, addr)
	default:
		return "", fmt.Errorf("%w: %s", interfaces.ErrValidation, req.Action)
	}
}

func (s *Submitter) scheduleRefresh(project interfaces.ProjectID) *Refresh {
	if s.refresh == nil {
		return nil
	}
	return schedule(s.refreshCtx, s.delay, project, s.refresh)
}

func surveyMessage(survey interfaces.Survey) string {
	if err := biomass.Validate(survey.AvgNDVI, 1); err != nil {
		return "NDVI must be between 0 and 1"
	}
	return "Area must be greater than 0"
}
