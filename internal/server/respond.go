package server

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/pitchforge/pitchforge/pkg/llm"
)

// envelope is the uniform response body for all JSON endpoints.
type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

func respond(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, envelope{Success: true, Data: data})
}

func respondError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, envelope{Success: false, Error: message})
}

func writeJSON(w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		zap.L().Error("write response failed", zap.Error(err))
	}
}

// respondUpstream maps a generation failure to an HTTP status and the
// user-facing message. Rate-limit errors keep their 429 so clients can
// back off; everything else is a 500.
func respondUpstream(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	if llm.IsRateLimited(err) {
		status = http.StatusTooManyRequests
	}
	respondError(w, status, llm.UserMessage(err))
}

func decodeJSON(r *http.Request, dst any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(dst)
}
