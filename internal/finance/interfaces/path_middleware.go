package interfaces

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/sebuszqo/FinanceDashboard/internal/logger"
)

var pathParamResources = map[string]string{
	"accountID":     "Account",
	"transactionID": "Transaction",
	"goalID":        "Goal",
}

// ValidatePathParamsMiddleware answers 404 for record ids that cannot exist because
// they are not UUIDs, before any store call is made.
func ValidatePathParamsMiddleware(respondError func(w http.ResponseWriter, status int, message string, errors ...[]string), params ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, param := range params {
				paramValue := r.PathValue(param)
				if paramValue == "" {
					respondError(w, http.StatusBadRequest, capitalizeFirstLetter(fmt.Sprintf("%s is required", param)))
					return
				}

				if _, err := uuid.Parse(paramValue); err != nil {
					log := logger.FromContext(r.Context())
					log.Debug().Str("param", param).Str("value", paramValue).Msg("Rejecting malformed path parameter")
					if resource, ok := pathParamResources[param]; ok {
						respondError(w, http.StatusNotFound, resource+" not found")
						return
					}
					respondError(w, http.StatusBadRequest, fmt.Sprintf("Invalid %s format", param))
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}
