package domain

import (
	"encoding/base64"
	"encoding/json"

	"github.com/sebuszqo/FinanceDashboard/internal/finance/errors"
)

// CursorPosition is the (date, id) of the last row returned by a descending scan.
type CursorPosition struct {
	Date string
	ID   string
}

type cursorPayload struct {
	OwnerID   string `json:"o"`
	AccountID string `json:"a"`
	Date      string `json:"d"`
	ID        string `json:"i"`
}

// EncodeCursor builds the opaque cursor pointing after last.
func EncodeCursor(ownerID, accountID string, last Transaction) string {
	raw, _ := json.Marshal(cursorPayload{
		OwnerID:   ownerID,
		AccountID: accountID,
		Date:      last.Date,
		ID:        last.ID,
	})
	return base64.RawURLEncoding.EncodeToString(raw)
}

// DecodeCursor parses cursor and checks it was issued for the same owner and account.
// An empty cursor means the first page and yields a nil position.
func DecodeCursor(cursor, ownerID, accountID string) (*CursorPosition, error) {
	if cursor == "" {
		return nil, nil
	}
	raw, err := base64.RawURLEncoding.DecodeString(cursor)
	if err != nil {
		return nil, errors.ErrInvalidCursor
	}
	var payload cursorPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, errors.ErrInvalidCursor
	}
	if payload.ID == "" || !IsValidDate(payload.Date) {
		return nil, errors.ErrInvalidCursor
	}
	if payload.OwnerID != ownerID || payload.AccountID != accountID {
		return nil, errors.NewValidationError("Pagination cursor was issued for a different account")
	}
	return &CursorPosition{Date: payload.Date, ID: payload.ID}, nil
}
