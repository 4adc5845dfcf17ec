package interfaces

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/sebuszqo/FinanceDashboard/internal/identity"
	"github.com/stretchr/testify/require"
)

func asOwner(req *http.Request, ownerID string) *http.Request {
	return req.WithContext(identity.WithIdentity(req.Context(), &identity.Identity{OwnerID: ownerID, Email: ownerID + "@example.com"}))
}

func decodeResponse(t *testing.T, res *http.Response) map[string]interface{} {
	t.Helper()
	var response map[string]interface{}
	require.NoError(t, json.NewDecoder(res.Body).Decode(&response))
	return response
}
