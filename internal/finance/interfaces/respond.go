package interfaces

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"
)

// errorEnvelope is the body of every failed request. client.Client decodes the same fields.
type errorEnvelope struct {
	Status  string   `json:"status"`
	Message string   `json:"message"`
	Code    int      `json:"code"`
	Errors  []string `json:"errors,omitempty"`
}

// RespondJSON encodes payload before touching the response, so an unencodable
// payload becomes a 500 instead of a truncated body under the intended status.
func RespondJSON(w http.ResponseWriter, status int, payload interface{}) {
	var body bytes.Buffer
	if err := json.NewEncoder(&body).Encode(payload); err != nil {
		log.Error().Err(err).Int("status", status).Msg("Failed to encode response")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"status":"error","message":"Internal server error","code":500}` + "\n"))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(body.Bytes())
}

// RespondError writes the error envelope. The optional list carries per-row validation messages.
func RespondError(w http.ResponseWriter, status int, message string, errors ...[]string) {
	envelope := errorEnvelope{Status: "error", Message: message, Code: status}
	if len(errors) > 0 && len(errors[0]) > 0 {
		envelope.Errors = errors[0]
	}
	RespondJSON(w, status, envelope)
}
