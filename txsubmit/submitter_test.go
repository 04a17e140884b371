package txsubmit

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/bluecarbon/mrv-dashboard/api"
	"github.com/bluecarbon/mrv-dashboard/api/clients"
	"github.com/bluecarbon/mrv-dashboard/interfaces"
	"github.com/bluecarbon/mrv-dashboard/notify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const recipientHex = "0x70997970C51812dc3A010C7d01b50e0d17dc79C8"

type refreshLog struct {
	mu    sync.Mutex
	calls []interfaces.ProjectID
}

func (l *refreshLog) refresh(ctx context.Context, project interfaces.ProjectID) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = append(l.calls, project)
}

func (l *refreshLog) count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.calls)
}

func setupSubmitter(delay time.Duration) (*Submitter, *clients.MockRegistry, *notify.Recorder, *refreshLog) {
	registry := new(clients.MockRegistry)
	recorder := notify.NewRecorder()
	refreshes := &refreshLog{}

	s := NewSubmitter(Config{
		Registry:     registry,
		Notifier:     recorder,
		Log:          slog.New(slog.NewTextHandler(io.Discard, nil)),
		RefreshDelay: delay,
		Refresh:      refreshes.refresh,
	})
	return s, registry, recorder, refreshes
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		req     Request
		wantErr string
	}{
		{"transition without project", Request{Action: interfaces.ActionUnderReview}, "Please select a project ID first"},
		{"approve without tons", Request{Action: interfaces.ActionApprove, ProjectID: 3}, "Please enter tons to approve"},
		{"issue without recipient", Request{Action: interfaces.ActionIssueCredits, ProjectID: 3}, "Please enter recipient address"},
		{"issue with malformed recipient", Request{Action: interfaces.ActionIssueCredits, ProjectID: 3, Recipient: "0x1234"}, "Invalid recipient address"},
		{"verifier without address", Request{Action: interfaces.ActionAddVerifier}, "Please enter an address"},
		{"verifier with malformed address", Request{Action: interfaces.ActionRemoveVerifier, Address: "nope"}, "Invalid address"},
		{"unknown action", Request{Action: "mint", ProjectID: 1}, "Unknown action"},
		{"valid approve", Request{Action: interfaces.ActionApprove, ProjectID: 3, Tons: 10}, ""},
		{"valid issue", Request{Action: interfaces.ActionIssueCredits, ProjectID: 3, Recipient: recipientHex}, ""},
		{"valid verifier", Request{Action: interfaces.ActionAddVerifier, Address: recipientHex}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.req)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.EqualError(t, err, tt.wantErr)
			assert.True(t, IsValidation(err))

			var verr *ValidationError
			assert.True(t, errors.As(err, &verr))
		})
	}
}

func TestSubmit_ValidationSendsNothing(t *testing.T) {
	s, registry, recorder, refreshes := setupSubmitter(0)

	_, err := s.Submit(context.Background(), Request{Action: interfaces.ActionApprove, ProjectID: 3})
	require.Error(t, err)
	assert.True(t, IsValidation(err))

	_, err = s.Submit(context.Background(), Request{Action: interfaces.ActionIssueCredits, ProjectID: 3})
	require.Error(t, err)

	registry.AssertNotCalled(t, "Approve", mock.Anything, mock.Anything, mock.Anything)
	registry.AssertNotCalled(t, "IssueCredits", mock.Anything, mock.Anything, mock.Anything)
	assert.Equal(t, 0, refreshes.count())

	all := recorder.All()
	require.Len(t, all, 2)
	assert.Equal(t, notify.LevelWarning, all[0].Level)
	assert.Equal(t, notify.LevelWarning, all[1].Level)
}

func TestSubmit_SuccessSchedulesRefresh(t *testing.T) {
	s, registry, recorder, refreshes := setupSubmitter(10 * time.Millisecond)
	registry.On("Approve", mock.Anything, interfaces.ProjectID(7), uint64(50)).
		Return(interfaces.TxRef("0xabcdef0123456789"), nil).Once()

	outcome, err := s.Submit(context.Background(), Request{Action: interfaces.ActionApprove, ProjectID: 7, Tons: 50})
	require.NoError(t, err)
	assert.Equal(t, interfaces.TxRef("0xabcdef0123456789"), outcome.Tx)
	require.NotNil(t, outcome.Refresh)

	assert.True(t, outcome.Refresh.Wait())
	assert.Equal(t, []interfaces.ProjectID{7}, refreshes.calls)

	registry.AssertNumberOfCalls(t, "Approve", 1)

	last, ok := recorder.Last()
	require.True(t, ok)
	assert.Equal(t, notify.LevelSuccess, last.Level)
	assert.Equal(t, "Project approved successfully\nTx: 0xabcdef01...", last.Message)
}

func TestSubmit_FailureNoRefresh(t *testing.T) {
	s, registry, recorder, refreshes := setupSubmitter(0)
	registry.On("SetUnderReview", mock.Anything, interfaces.ProjectID(2)).
		Return(interfaces.TxRef(""), &api.APIError{Message: "execution reverted: not submitted"}).Once()

	outcome, err := s.Submit(context.Background(), Request{Action: interfaces.ActionUnderReview, ProjectID: 2})
	require.Error(t, err)
	assert.Nil(t, outcome)
	assert.False(t, IsValidation(err))

	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 0, refreshes.count())
	registry.AssertNumberOfCalls(t, "SetUnderReview", 1)

	last, ok := recorder.Last()
	require.True(t, ok)
	assert.Equal(t, notify.LevelError, last.Level)
	assert.Equal(t, "execution reverted: not submitted", last.Message)
}

func TestSubmit_RefreshCanBeStopped(t *testing.T) {
	s, registry, _, refreshes := setupSubmitter(time.Hour)
	registry.On("Reject", mock.Anything, interfaces.ProjectID(4)).Return(interfaces.TxRef("0x01"), nil).Once()

	outcome, err := s.Submit(context.Background(), Request{Action: interfaces.ActionReject, ProjectID: 4})
	require.NoError(t, err)

	outcome.Refresh.Stop()
	assert.False(t, outcome.Refresh.Wait())
	assert.Equal(t, 0, refreshes.count())
}

func TestSubmit_RefreshContextCancels(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	registry := new(clients.MockRegistry)
	refreshes := &refreshLog{}
	s := NewSubmitter(Config{
		Registry:       registry,
		Notifier:       notify.NewRecorder(),
		RefreshDelay:   time.Hour,
		Refresh:        refreshes.refresh,
		RefreshContext: ctx,
	})
	registry.On("Reject", mock.Anything, interfaces.ProjectID(4)).Return(interfaces.TxRef("0x01"), nil).Once()

	outcome, err := s.Submit(context.Background(), Request{Action: interfaces.ActionReject, ProjectID: 4})
	require.NoError(t, err)

	cancel()
	assert.False(t, outcome.Refresh.Wait())
	assert.Equal(t, 0, refreshes.count())
}

func TestRefresh_StopCancelsRunningRefresh(t *testing.T) {
	started := make(chan struct{})
	r := schedule(context.Background(), time.Millisecond, 7, func(ctx context.Context, project interfaces.ProjectID) {
		close(started)
		<-ctx.Done()
	})

	<-started
	r.Stop()
	assert.True(t, r.Wait())
}

func TestSubmit_VerifierDoesNotRefresh(t *testing.T) {
	s, registry, _, _ := setupSubmitter(0)
	addr, err := interfaces.NewAddressFromHex(recipientHex)
	require.NoError(t, err)
	registry.On("AddVerifier", mock.Anything, addr).Return(interfaces.TxRef("0x02"), nil).Once()

	outcome, err := s.Submit(context.Background(), Request{Action: interfaces.ActionAddVerifier, Address: recipientHex})
	require.NoError(t, err)
	assert.Nil(t, outcome.Refresh)
	registry.AssertExpectations(t)
}

func TestSubmitSurvey(t *testing.T) {
	s, registry, recorder, refreshes := setupSubmitter(0)
	survey := interfaces.Survey{AvgNDVI: 0.5, AreaHa: 2, Images: []string{}}
	registry.On("SubmitProject", mock.Anything, survey).Return(&interfaces.Submission{
		Tx:          "0x9999999999999999",
		MetadataURI: "sha256:aa",
		Biomass:     10,
	}, nil).Once()

	outcome, err := s.SubmitSurvey(context.Background(), survey)
	require.NoError(t, err)
	assert.Equal(t, uint64(10), outcome.Submission.Biomass)
	require.NotNil(t, outcome.Refresh)
	assert.True(t, outcome.Refresh.Wait())
	assert.Equal(t, []interfaces.ProjectID{0}, refreshes.calls)

	last, _ := recorder.Last()
	assert.Equal(t, "Project submitted! Biomass: 10 tons\nTx: 0x99999999...", last.Message)
}

func TestSubmitSurvey_Invalid(t *testing.T) {
	s, registry, recorder, _ := setupSubmitter(0)

	_, err := s.SubmitSurvey(context.Background(), interfaces.Survey{AvgNDVI: 1.5, AreaHa: 2})
	assert.EqualError(t, err, "NDVI must be between 0 and 1")

	_, err = s.SubmitSurvey(context.Background(), interfaces.Survey{AvgNDVI: 0.5, AreaHa: 0})
	assert.EqualError(t, err, "Area must be greater than 0")

	registry.AssertNotCalled(t, "SubmitProject", mock.Anything, mock.Anything)
	assert.Len(t, recorder.All(), 2)
}
