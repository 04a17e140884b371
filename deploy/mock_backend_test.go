package deploy

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/bluecarbon/mrv-dashboard/interfaces"
)

// MockContractBackend implements interfaces.ContractBackend for testing
type MockContractBackend struct {
	mock.Mock
	from interfaces.Address
}

func (m *MockContractBackend) From() interfaces.Address {
	return m.from
}

func (m *MockContractBackend) Deploy(ctx context.Context, artifact *interfaces.Artifact, args ...any) (interfaces.Address, interfaces.TxRef, error) {
	called := m.Called(ctx, artifact.ContractName, args)
	return called.Get(0).(interfaces.Address), called.Get(1).(interfaces.TxRef), called.Error(2)
}

func (m *MockContractBackend) Call(ctx context.Context, artifact *interfaces.Artifact, at interfaces.Address, method string, args ...any) ([]any, error) {
	called := m.Called(ctx, artifact.ContractName, at, method)
	if called.Get(0) == nil {
		return nil, called.Error(1)
	}
	return called.Get(0).([]any), called.Error(1)
}

func (m *MockContractBackend) Transact(ctx context.Context, artifact *interfaces.Artifact, at interfaces.Address, method string, args ...any) (interfaces.TxRef, error) {
	called := m.Called(ctx, artifact.ContractName, at, method, args)
	return called.Get(0).(interfaces.TxRef), called.Error(1)
}
