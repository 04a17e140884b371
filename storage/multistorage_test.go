package storage

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/bluecarbon/mrv-dashboard/interfaces"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockOutputBackend implements interfaces.OutputBackend for testing
type MockOutputBackend struct {
	mock.Mock
	name string
}

func (m *MockOutputBackend) Write(ctx context.Context, name string, data []byte) error {
	args := m.Called(ctx, name, data)
	return args.Error(0)
}

func (m *MockOutputBackend) Read(ctx context.Context, name string) ([]byte, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockOutputBackend) Available(ctx context.Context) bool {
	args := m.Called(ctx)
	return args.Bool(0)
}

func (m *MockOutputBackend) Name() string {
	return m.name
}

func (m *MockOutputBackend) LocationURI() string {
	return "mock:" + m.name
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestMultiOutputBackend_Available(t *testing.T) {
	tests := []struct {
		name     string
		backends []bool
		expected bool
	}{
		{
			name:     "all backends available",
			backends: []bool{true, true, true},
			expected: true,
		},
		{
			name:     "one backend unavailable",
			backends: []bool{true, false, true},
			expected: false,
		},
		{
			name:     "no backends",
			backends: []bool{},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var backends []interfaces.OutputBackend
			for i, available := range tt.backends {
				b := &MockOutputBackend{name: string(rune('a' + i))}
				b.On("Available", mock.Anything).Return(available).Maybe()
				backends = append(backends, b)
			}

			multi := NewMultiOutputBackend(backends, discardLogger())
			assert.Equal(t, tt.expected, multi.Available(context.Background()))
		})
	}
}

func TestMultiOutputBackend_WriteAll(t *testing.T) {
	data := []byte(`{"token":"0x1"}`)
	a := &MockOutputBackend{name: "a"}
	b := &MockOutputBackend{name: "b"}
	a.On("Write", mock.Anything, "addresses.json", data).Return(nil).Once()
	b.On("Write", mock.Anything, "addresses.json", data).Return(nil).Once()

	multi := NewMultiOutputBackend([]interfaces.OutputBackend{a, b}, discardLogger())
	require.NoError(t, multi.Write(context.Background(), "addresses.json", data))

	a.AssertExpectations(t)
	b.AssertExpectations(t)
}

func TestMultiOutputBackend_WriteStopsAtFirstFailure(t *testing.T) {
	data := []byte("{}")
	a := &MockOutputBackend{name: "a"}
	b := &MockOutputBackend{name: "b"}
	a.On("Write", mock.Anything, "MRVRegistry.json", data).Return(errors.New("disk full")).Once()

	multi := NewMultiOutputBackend([]interfaces.OutputBackend{a, b}, discardLogger())
	err := multi.Write(context.Background(), "MRVRegistry.json", data)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "a: disk full")

	b.AssertNotCalled(t, "Write", mock.Anything, mock.Anything, mock.Anything)
}

func TestMultiOutputBackend_WriteFailsOnLaterBackend(t *testing.T) {
	data := []byte(`{"token":"0x1"}`)
	a := &MockOutputBackend{name: "a"}
	b := &MockOutputBackend{name: "b"}
	a.On("Write", mock.Anything, "addresses.json", data).Return(nil).Once()
	b.On("Write", mock.Anything, "addresses.json", data).Return(errors.New("access denied")).Once()

	multi := NewMultiOutputBackend([]interfaces.OutputBackend{a, b}, discardLogger())
	err := multi.Write(context.Background(), "addresses.json", data)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "b: access denied")

	// Writes already made to earlier backends are not rolled back.
	a.AssertExpectations(t)
	b.AssertExpectations(t)
}

func TestMultiOutputBackend_ReadFallback(t *testing.T) {
	a := &MockOutputBackend{name: "a"}
	b := &MockOutputBackend{name: "b"}
	a.On("Read", mock.Anything, "addresses.json").Return(nil, interfaces.ErrObjectNotFound).Once()
	b.On("Read", mock.Anything, "addresses.json").Return([]byte("ok"), nil).Once()

	multi := NewMultiOutputBackend([]interfaces.OutputBackend{a, b}, discardLogger())
	data, err := multi.Read(context.Background(), "addresses.json")
	require.NoError(t, err)
	assert.Equal(t, []byte("ok"), data)
}

func TestMultiOutputBackend_ReadNotFoundEverywhere(t *testing.T) {
	a := &MockOutputBackend{name: "a"}
	b := &MockOutputBackend{name: "b"}
	a.On("Read", mock.Anything, "x.json").Return(nil, interfaces.ErrObjectNotFound)
	b.On("Read", mock.Anything, "x.json").Return(nil, interfaces.ErrObjectNotFound)

	multi := NewMultiOutputBackend([]interfaces.OutputBackend{a, b}, discardLogger())
	_, err := multi.Read(context.Background(), "x.json")
	assert.ErrorIs(t, err, interfaces.ErrObjectNotFound)

	b.On("Read", mock.Anything, "y.json").Return(nil, errors.New("timeout"))
	a.On("Read", mock.Anything, "y.json").Return(nil, interfaces.ErrObjectNotFound)
	_, err = multi.Read(context.Background(), "y.json")
	require.Error(t, err)
	assert.NotErrorIs(t, err, interfaces.ErrObjectNotFound)
}

func TestMultiOutputBackend_LocationURI(t *testing.T) {
	multi := NewMultiOutputBackend([]interfaces.OutputBackend{
		&MockOutputBackend{name: "a"},
		&MockOutputBackend{name: "b"},
	}, discardLogger())
	assert.Equal(t, "multi:[mock:a,mock:b]", multi.LocationURI())
}
