package clients

import (
	"context"

	"github.com/bluecarbon/mrv-dashboard/interfaces"
	"github.com/stretchr/testify/mock"
)

// MockRegistry implements a mock interfaces.RegistryAPI for testing.
// The behavior is determined by how the mock is configured in tests.
type MockRegistry struct {
	mock.Mock
}

var _ interfaces.RegistryAPI = (*MockRegistry)(nil)

func (m *MockRegistry) Owner(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *MockRegistry) NetworkInfo(ctx context.Context) (*interfaces.NetworkInfo, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*interfaces.NetworkInfo), args.Error(1)
}

func (m *MockRegistry) Projects(ctx context.Context) ([]interfaces.Project, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]interfaces.Project), args.Error(1)
}

func (m *MockRegistry) Project(ctx context.Context, id interfaces.ProjectID) (*interfaces.Project, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*interfaces.Project), args.Error(1)
}

func (m *MockRegistry) SubmitProject(ctx context.Context, survey interfaces.Survey) (*interfaces.Submission, error) {
	args := m.Called(ctx, survey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*interfaces.Submission), args.Error(1)
}

func (m *MockRegistry) SetUnderReview(ctx context.Context, id interfaces.ProjectID) (interfaces.TxRef, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(interfaces.TxRef), args.Error(1)
}

func (m *MockRegistry) Approve(ctx context.Context, id interfaces.ProjectID, tons uint64) (interfaces.TxRef, error) {
	args := m.Called(ctx, id, tons)
	return args.Get(0).(interfaces.TxRef), args.Error(1)
}

func (m *MockRegistry) Reject(ctx context.Context, id interfaces.ProjectID) (interfaces.TxRef, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(interfaces.TxRef), args.Error(1)
}

func (m *MockRegistry) IssueCredits(ctx context.Context, id interfaces.ProjectID, recipient interfaces.Address) (interfaces.TxRef, error) {
	args := m.Called(ctx, id, recipient)
	return args.Get(0).(interfaces.TxRef), args.Error(1)
}

func (m *MockRegistry) AddVerifier(ctx context.Context, verifier interfaces.Address) (interfaces.TxRef, error) {
	args := m.Called(ctx, verifier)
	return args.Get(0).(interfaces.TxRef), args.Error(1)
}

func (m *MockRegistry) RemoveVerifier(ctx context.Context, verifier interfaces.Address) (interfaces.TxRef, error) {
	args := m.Called(ctx, verifier)
	return args.Get(0).(interfaces.TxRef), args.Error(1)
}

func (m *MockRegistry) ExplorerContracts(ctx context.Context) (*interfaces.RegistryContracts, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*interfaces.RegistryContracts), args.Error(1)
}

func (m *MockRegistry) ExplorerStats(ctx context.Context) (*interfaces.RegistryStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*interfaces.RegistryStats), args.Error(1)
}

func (m *MockRegistry) ExplorerRecords(ctx context.Context) ([]interfaces.Record, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]interfaces.Record), args.Error(1)
}
