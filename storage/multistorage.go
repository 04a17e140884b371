package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/bluecarbon/mrv-dashboard/interfaces"
)

// MultiOutputBackend writes every output to all of its backends.
type MultiOutputBackend struct {
	backends []interfaces.OutputBackend
	log      *slog.Logger
}

// NewMultiOutputBackend creates a backend fanning writes out to backends.
func NewMultiOutputBackend(backends []interfaces.OutputBackend, logger *slog.Logger) *MultiOutputBackend {
	if logger == nil {
		logger = slog.Default()
	}

	return &MultiOutputBackend{
		backends: backends,
		log:      logger,
	}
}

// Write stores data in every backend, in order, and stops at the first
// failure. Backends written before the failure keep the new object.
func (m *MultiOutputBackend) Write(ctx context.Context, name string, data []byte) error {
	if len(m.backends) == 0 {
		return fmt.Errorf("no output backends configured")
	}

	start := time.Now()
	for _, backend := range m.backends {
		if err := backend.Write(ctx, name, data); err != nil {
			m.log.Error("Failed to write output",
				slog.String("backend_name", backend.Name()),
				slog.String("name", name),
				"err", err)
			return fmt.Errorf("%s: %w", backend.Name(), err)
		}
	}

	m.log.Info("Stored output",
		slog.String("name", name),
		slog.Int("backends", len(m.backends)),
		slog.Duration("duration", time.Since(start)))

	return nil
}

// Read returns the object from the first backend that has it.
func (m *MultiOutputBackend) Read(ctx context.Context, name string) ([]byte, error) {
	var errs []error
	notFound := true

	for _, backend := range m.backends {
		data, err := backend.Read(ctx, name)
		if err == nil {
			return data, nil
		}

		if !errors.Is(err, interfaces.ErrObjectNotFound) {
			notFound = false
		}
		errs = append(errs, fmt.Errorf("%s: %w", backend.Name(), err))
		m.log.Debug("Failed to read from backend",
			slog.String("backend_name", backend.Name()),
			slog.String("name", name),
			"err", err)
	}

	if notFound {
		return nil, fmt.Errorf("%w: %s", interfaces.ErrObjectNotFound, name)
	}
	return nil, fmt.Errorf("all backends failed to read %s: %v", name, errors.Join(errs...))
}

// Available reports whether every backend is available, since writes need all of them.
func (m *MultiOutputBackend) Available(ctx context.Context) bool {
	if len(m.backends) == 0 {
		return false
	}
	for _, backend := range m.backends {
		if !backend.Available(ctx) {
			m.log.Debug("Backend unavailable", slog.String("backend_name", backend.Name()))
			return false
		}
	}
	return true
}

// Name returns the name of this backend.
func (m *MultiOutputBackend) Name() string {
	return "multi-output"
}

// LocationURI returns the combined URI of all backends.
func (m *MultiOutputBackend) LocationURI() string {
	locations := make([]string, 0, len(m.backends))
	for _, backend := range m.backends {
		locations = append(locations, backend.LocationURI())
	}
	return "multi:[" + strings.Join(locations, ",") + "]"
}
