package identity

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/sebuszqo/FinanceDashboard/internal/logger"
)

// unauthorizedResponse mirrors the API error envelope so clients parse one shape.
type unauthorizedResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// Middleware authenticates the bearer token and stores the identity in the request context.
func Middleware(provider Provider) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			scheme, token, found := strings.Cut(r.Header.Get("Authorization"), " ")
			switch {
			case scheme == "":
				rejectRequest(w, r, "Authorization header is required", nil)
				return
			case !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "":
				rejectRequest(w, r, "Invalid token format", nil)
				return
			}

			caller, err := provider.Authenticate(strings.TrimSpace(token))
			if err != nil {
				message := "Invalid or expired token"
				if errors.Is(err, ErrExpiredJWTToken) {
					message = ErrExpiredJWTToken.Error()
				}
				rejectRequest(w, r, message, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), caller)))
		})
	}
}

func rejectRequest(w http.ResponseWriter, r *http.Request, message string, cause error) {
	log := logger.FromContext(r.Context())
	log.Debug().Err(cause).Str("reason", message).Msg("Rejected unauthenticated request")

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(unauthorizedResponse{
		Status:  "error",
		Message: message,
		Code:    http.StatusUnauthorized,
	})
}
