package interfaces

import (
	"context"
	"fmt"
	"net/url"
)

// OutputLocation represents the URI of an output backend.
type OutputLocation struct {
	Raw    string     // Original URI
	Scheme string     // Protocol
	Host   string     // Hostname
	Path   string     // Resource path
	Query  url.Values // Query parameters
	Auth   string     // Authentication info
}

// NewOutputLocation creates a new output location from a URI string with validation.
// A bare path is treated as a file:// location.
func NewOutputLocation(uri string) (OutputLocation, error) {
	parsed, err := url.Parse(uri)
	if err != nil {
		return OutputLocation{}, fmt.Errorf("%w: %v", ErrInvalidLocationURI, err)
	}

	if parsed.Scheme == "" {
		return OutputLocation{
			Raw:    "file://" + uri,
			Scheme: "file",
			Path:   uri,
			Query:  url.Values{},
		}, nil
	}

	switch parsed.Scheme {
	case "file", "s3", "ipfs":
	default:
		return OutputLocation{}, fmt.Errorf("%w: unsupported scheme %s", ErrInvalidLocationURI, parsed.Scheme)
	}

	var auth string
	if parsed.User != nil {
		auth = parsed.User.String()
	}

	return OutputLocation{
		Raw:    uri,
		Scheme: parsed.Scheme,
		Host:   parsed.Host,
		Path:   parsed.Path,
		Query:  parsed.Query(),
		Auth:   auth,
	}, nil
}

// String returns the original URI string.
func (loc OutputLocation) String() string {
	return loc.Raw
}

// GetParam returns a query parameter value.
func (loc OutputLocation) GetParam(name string) string {
	return loc.Query.Get(name)
}

// OutputBackend stores named deployment outputs (address map, ABIs).
type OutputBackend interface {
	// Write stores data under name, replacing any previous object. A reader
	// never observes a partially written object.
	Write(ctx context.Context, name string, data []byte) error

	// Read returns the object stored under name or ErrObjectNotFound.
	Read(ctx context.Context, name string) ([]byte, error)

	// Available checks if backend is accessible.
	Available(ctx context.Context) bool

	// Name returns identifier for logging.
	Name() string

	// LocationURI returns URI identifying this backend.
	LocationURI() string
}

// OutputBackendFactory creates output backends.
type OutputBackendFactory interface {
	// BackendFor creates a backend from a location.
	// Supports file://, s3://, ipfs://
	BackendFor(location OutputLocation) (OutputBackend, error)

	// CreateMultiBackend creates a backend writing to every location.
	CreateMultiBackend(locations []OutputLocation) (OutputBackend, error)
}
