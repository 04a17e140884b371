package storage

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/bluecarbon/mrv-dashboard/interfaces"
)

// OutputBackendFactory creates output backends from locations.
type OutputBackendFactory struct {
	log *slog.Logger
}

var _ interfaces.OutputBackendFactory = (*OutputBackendFactory)(nil)

// NewOutputBackendFactory creates a new factory instance.
func NewOutputBackendFactory(logger *slog.Logger) *OutputBackendFactory {
	if logger == nil {
		logger = slog.Default()
	}
	return &OutputBackendFactory{log: logger}
}

// BackendFor creates an output backend for a location.
//
// Supported schemes:
//   - file:// - Local directory
//   - s3:// - Amazon S3 or compatible object storage
//   - ipfs:// - Directory in an IPFS node's MFS
func (f *OutputBackendFactory) BackendFor(loc interfaces.OutputLocation) (interfaces.OutputBackend, error) {
	switch strings.ToLower(loc.Scheme) {
	case "file":
		return f.createFileBackend(loc)
	case "s3":
		return f.createS3Backend(loc)
	case "ipfs":
		return f.createIPFSBackend(loc)
	default:
		return nil, fmt.Errorf("%w: unsupported backend scheme %s", interfaces.ErrInvalidLocationURI, loc.Scheme)
	}
}

// CreateMultiBackend creates a backend writing to every location. Any
// location that cannot be turned into a backend is an error.
func (f *OutputBackendFactory) CreateMultiBackend(locations []interfaces.OutputLocation) (interfaces.OutputBackend, error) {
	if len(locations) == 0 {
		return nil, fmt.Errorf("no output locations given")
	}

	backends := make([]interfaces.OutputBackend, 0, len(locations))
	for _, loc := range locations {
		backend, err := f.BackendFor(loc)
		if err != nil {
			return nil, fmt.Errorf("output location %s: %w", loc, err)
		}
		backends = append(backends, backend)
	}

	if len(backends) == 1 {
		return backends[0], nil
	}
	return NewMultiOutputBackend(backends, f.log), nil
}

// createFileBackend handles file:///absolute/path, file://./relative/path
// and bare paths.
func (f *OutputBackendFactory) createFileBackend(loc interfaces.OutputLocation) (interfaces.OutputBackend, error) {
	f.log.Debug("Creating file backend", slog.String("uri", loc.String()))

	path := loc.Path
	if loc.Host != "" {
		path = loc.Host + "/" + strings.TrimPrefix(path, "/")
	}
	if path == "" {
		return nil, fmt.Errorf("%w: empty path in file URI %s", interfaces.ErrInvalidLocationURI, loc)
	}

	return NewFileBackend(path, f.log)
}

// createS3Backend handles s3://[ACCESS_KEY:SECRET_KEY@]bucket/prefix?region=..&endpoint=..
func (f *OutputBackendFactory) createS3Backend(loc interfaces.OutputLocation) (interfaces.OutputBackend, error) {
	f.log.Debug("Creating S3 backend", slog.String("uri", loc.String()))

	region := loc.GetParam("region")
	if region == "" {
		region = "us-east-1"
	}

	var accessKey, secretKey string
	if loc.Auth != "" {
		accessKey, secretKey, _ = strings.Cut(loc.Auth, ":")
	}

	return NewS3Backend(loc.Host, loc.Path, region, loc.GetParam("endpoint"), accessKey, secretKey, f.log)
}

// createIPFSBackend handles ipfs://host:port/mfs/dir
func (f *OutputBackendFactory) createIPFSBackend(loc interfaces.OutputLocation) (interfaces.OutputBackend, error) {
	f.log.Debug("Creating IPFS backend", slog.String("uri", loc.String()))

	host, port, found := strings.Cut(loc.Host, ":")
	if !found || port == "" {
		port = "5001"
	}

	return NewIPFSBackend(host, port, loc.Path, f.log)
}
