package interfaces

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/rs/zerolog/log"
	"github.com/sebuszqo/FinanceDashboard/internal/identity"
	"github.com/sebuszqo/FinanceDashboard/internal/ofximport"
)

const maxStatementSize = 5 << 20

type StatementImporter interface {
	Import(ctx context.Context, accountID, ownerID string, reader io.Reader) (*ofximport.Result, error)
}

type ImportHandler struct {
	importer     StatementImporter
	respondJSON  func(w http.ResponseWriter, status int, payload interface{})
	respondError func(w http.ResponseWriter, status int, message string, errors ...[]string)
}

func NewImportHandler(
	importer StatementImporter,
	respondJSON func(w http.ResponseWriter, status int, payload interface{}),
	respondError func(w http.ResponseWriter, status int, message string, errors ...[]string),
) *ImportHandler {
	if importer == nil {
		log.Fatal().Msg("Importer must not be nil")
		return nil
	}
	if respondJSON == nil || respondError == nil {
		log.Fatal().Msg("Respond functions must not be nil")
		return nil
	}
	return &ImportHandler{
		importer:     importer,
		respondJSON:  respondJSON,
		respondError: respondError,
	}
}

// ImportOFX reads a raw OFX/QFX statement from the request body into the account.
func (h *ImportHandler) ImportOFX(w http.ResponseWriter, r *http.Request) {
	ownerID := identity.OwnerID(r.Context())
	if ownerID == "" {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	body := http.MaxBytesReader(w, r.Body, maxStatementSize)
	result, err := h.importer.Import(r.Context(), r.PathValue("accountID"), ownerID, body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			h.respondError(w, http.StatusRequestEntityTooLarge, "Statement file is too large")
		case errors.Is(err, ofximport.ErrInvalidStatement):
			h.respondError(w, http.StatusBadRequest, "Invalid OFX statement")
		default:
			respondServiceError(w, r, h.respondError, err, "Failed to import statement")
		}
		return
	}

	h.respondJSON(w, http.StatusCreated, map[string]interface{}{
		"status":  "success",
		"message": "Statement successfully imported.",
		"data":    result,
	})
}
