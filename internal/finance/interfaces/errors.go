package interfaces

import (
	"errors"
	"net/http"
	"strings"

	financeErrors "github.com/sebuszqo/FinanceDashboard/internal/finance/errors"
	"github.com/sebuszqo/FinanceDashboard/internal/logger"
)

type errorResponder func(w http.ResponseWriter, status int, message string, errors ...[]string)

// respondServiceError maps a service failure onto the error envelope. Unknown errors
// are logged and answered with fallback.
func respondServiceError(w http.ResponseWriter, r *http.Request, respondError errorResponder, err error, fallback string) {
	var validationErrors *financeErrors.ValidationErrors
	switch {
	case errors.As(err, &validationErrors):
		respondError(w, http.StatusBadRequest, "Validation errors occurred", validationErrors.Messages())
	case financeErrors.IsValidationError(err):
		respondError(w, http.StatusBadRequest, err.Error())
	case financeErrors.IsPermissionError(err):
		respondError(w, http.StatusForbidden, capitalizeFirstLetter(err.Error()))
	case financeErrors.IsNotFoundError(err):
		respondError(w, http.StatusNotFound, capitalizeFirstLetter(err.Error()))
	case financeErrors.IsTransientError(err):
		log := logger.FromContext(r.Context())
		log.Warn().Err(err).Str("path", r.URL.Path).Msg("Store unavailable")
		respondError(w, http.StatusServiceUnavailable, "Service temporarily unavailable, please try again")
	default:
		log := logger.FromContext(r.Context())
		log.Error().Err(err).Str("method", r.Method).Str("path", r.URL.Path).Msg(fallback)
		respondError(w, http.StatusInternalServerError, fallback)
	}
}

func capitalizeFirstLetter(s string) string {
	if len(s) == 0 {
		return s
	}
	return strings.ToUpper(string(s[0])) + s[1:]
}
