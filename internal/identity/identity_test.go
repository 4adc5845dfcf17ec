package identity

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newManager(t *testing.T) *TokenManager {
	t.Helper()
	manager, err := NewTokenManager("test-secret")
	require.NoError(t, err)
	return manager
}

func TestNewTokenManagerRequiresSecret(t *testing.T) {
	_, err := NewTokenManager("")
	assert.ErrorIs(t, err, ErrMissingSecret)
}

func TestAuthenticateRoundTrip(t *testing.T) {
	manager := newManager(t)
	token, err := manager.GenerateAccessJWT(Identity{OwnerID: "user-1", Email: "jane@example.com", Name: "Jane"}, time.Minute)
	require.NoError(t, err)

	identity, err := manager.Authenticate(token)
	require.NoError(t, err)
	assert.Equal(t, &Identity{OwnerID: "user-1", Email: "jane@example.com", Name: "Jane"}, identity)
}

func TestAuthenticateDropsMalformedEmail(t *testing.T) {
	manager := newManager(t)
	token, err := manager.GenerateAccessJWT(Identity{OwnerID: "user-1", Email: "not-an-email"}, time.Minute)
	require.NoError(t, err)

	identity, err := manager.Authenticate(token)
	require.NoError(t, err)
	assert.Empty(t, identity.Email)
}

func TestAuthenticateFallsBackToSubject(t *testing.T) {
	claims := jwt.StandardClaims{Subject: "provider-user", ExpiresAt: time.Now().Add(time.Minute).Unix()}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	identity, err := newManager(t).Authenticate(token)
	require.NoError(t, err)
	assert.Equal(t, "provider-user", identity.OwnerID)
}

func TestAuthenticateRejectsBadTokens(t *testing.T) {
	manager := newManager(t)

	expired, err := manager.GenerateAccessJWT(Identity{OwnerID: "user-1"}, -time.Minute)
	require.NoError(t, err)
	_, err = manager.Authenticate(expired)
	assert.ErrorIs(t, err, ErrExpiredJWTToken)

	other, err := NewTokenManager("other-secret")
	require.NoError(t, err)
	foreign, err := other.GenerateAccessJWT(Identity{OwnerID: "user-1"}, time.Minute)
	require.NoError(t, err)
	_, err = manager.Authenticate(foreign)
	assert.ErrorIs(t, err, ErrInvalidJWTToken)

	noOwner, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.StandardClaims{ExpiresAt: time.Now().Add(time.Minute).Unix()}).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	_, err = manager.Authenticate(noOwner)
	assert.ErrorIs(t, err, ErrInvalidJWTToken)

	_, err = manager.Authenticate("garbage")
	assert.ErrorIs(t, err, ErrInvalidJWTToken)
}

func TestMiddleware(t *testing.T) {
	manager := newManager(t)
	var seenOwner string
	handler := Middleware(manager)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenOwner = OwnerID(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	token, err := manager.GenerateAccessJWT(Identity{OwnerID: "user-7"}, time.Minute)
	require.NoError(t, err)

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantOwner  string
	}{
		{name: "missing header", wantStatus: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic abc", wantStatus: http.StatusUnauthorized},
		{name: "invalid token", header: "Bearer abc", wantStatus: http.StatusUnauthorized},
		{name: "empty token", header: "Bearer ", wantStatus: http.StatusUnauthorized},
		{name: "lower case scheme", header: "bearer " + token, wantStatus: http.StatusNoContent, wantOwner: "user-7"},
		{name: "valid token", header: "Bearer " + token, wantStatus: http.StatusNoContent, wantOwner: "user-7"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seenOwner = ""
			req := httptest.NewRequest(http.MethodGet, "/api/protected/accounts", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			assert.Equal(t, tt.wantStatus, rr.Code)
			assert.Equal(t, tt.wantOwner, seenOwner)
			if tt.wantStatus == http.StatusUnauthorized {
				var body unauthorizedResponse
				require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
				assert.Equal(t, "error", body.Status)
				assert.Equal(t, http.StatusUnauthorized, body.Code)
			}
		})
	}
}

func TestOwnerIDWithoutIdentity(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Equal(t, "", OwnerID(req.Context()))
}
