package observability

import (
	"context"
	"encoding/json"
	"net/http"
)

const (
	healthOK          = "ok"
	healthUnavailable = "unavailable"
)

// ReadyCheck reports whether a dependency is ready to serve.
type ReadyCheck func(ctx context.Context) error

// HealthHandler serves /healthz. It always answers 200 {"status":"ok"}.
func HealthHandler() http.Handler {
	return http.HandlerFunc(func(rw http.ResponseWriter, _ *http.Request) {
		writeHealth(rw, http.StatusOK, healthOK, "")
	})
}

// ReadyHandler serves /readyz. It answers 503 with the first failing check's
// error, or 200 when every check passes.
func ReadyHandler(checks ...ReadyCheck) http.Handler {
	return http.HandlerFunc(func(rw http.ResponseWriter, hr *http.Request) {
		for _, check := range checks {
			err := check(hr.Context())
			if err != nil {
				writeHealth(rw, http.StatusServiceUnavailable, healthUnavailable, err.Error())

				return
			}
		}

		writeHealth(rw, http.StatusOK, healthOK, "")
	})
}

type healthBody struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

func writeHealth(rw http.ResponseWriter, code int, status, reason string) {
	rw.Header().Set("Content-Type", "application/json")
	rw.WriteHeader(code)

	//nolint:errcheck // the client may already be gone.
	json.NewEncoder(rw).Encode(healthBody{Status: status, Error: reason})
}
