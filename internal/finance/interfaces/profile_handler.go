package interfaces

import (
	"net/http"

	"github.com/sebuszqo/FinanceDashboard/internal/identity"
)

type ProfileHandler struct {
	respondJSON  func(w http.ResponseWriter, status int, payload interface{})
	respondError func(w http.ResponseWriter, status int, message string, errors ...[]string)
}

func NewProfileHandler(
	respondJSON func(w http.ResponseWriter, status int, payload interface{}),
	respondError func(w http.ResponseWriter, status int, message string, errors ...[]string),
) *ProfileHandler {
	return &ProfileHandler{respondJSON: respondJSON, respondError: respondError}
}

// GetProfile returns the identity the provider vouched for. Profiles are not stored.
func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	caller, ok := identity.FromContext(r.Context())
	if !ok || caller.OwnerID == "" {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "Profile successfully retrieved.",
		"data":    caller,
	})
}
