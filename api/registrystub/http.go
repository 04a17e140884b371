package registrystub

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/bluecarbon/mrv-dashboard/api"
)

type bodyKey struct{}

func withBody(ctx context.Context, body []byte) context.Context {
	return context.WithValue(ctx, bodyKey{}, body)
}

func bodyFrom(ctx context.Context) []byte {
	body, _ := ctx.Value(bodyKey{}).([]byte)
	if len(body) == 0 {
		return []byte("{}")
	}
	return body
}

func ok() api.Envelope {
	return api.Envelope{Success: true}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError answers like the registry does: HTTP 400 with a failure envelope.
func writeError(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	_ = json.NewEncoder(w).Encode(api.Envelope{Success: false, Error: message})
}
