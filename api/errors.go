package api

import "fmt"

// APIError is an application-level failure reported by the Registry Service
// through a {success:false} envelope. Message is the server's text verbatim.
type APIError struct {
	Endpoint   string
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s failed with status %d", e.Endpoint, e.StatusCode)
	}
	return e.Message
}
