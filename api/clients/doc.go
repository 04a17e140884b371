/*
Package clients provides the HTTP client of the Registry Service.

RegistryClient implements interfaces.RegistryAPI: every method issues exactly
one request, decodes the {success, ...} envelope and converts the payload into
domain types. Failures come back in two shapes:

  - transport errors (connection refused, timeouts, non-JSON bodies), wrapped
    with the endpoint that failed;
  - *api.APIError, carrying the server's message verbatim when the envelope
    says success:false.

# Example Usage

	client := clients.NewRegistryClient("http://127.0.0.1:5000", 30*time.Second)

	project, err := client.Project(ctx, 1)
	if err != nil {
	    var apiErr *api.APIError
	    if errors.As(err, &apiErr) {
	        // the registry rejected the request
	    }
	}

MockRegistry is a testify mock of the same interface for tests of code built
on top of the client.
*/
package clients
