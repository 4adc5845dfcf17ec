package identity

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/badoux/checkmail"
	"github.com/golang-jwt/jwt"
)

var (
	ErrInvalidJWTToken = errors.New("JWT token is invalid")
	ErrExpiredJWTToken = errors.New("JWT token is expired")
	ErrMissingSecret   = errors.New("JWT_SECRET is not set")
)

const DefaultTokenDuration = 10 * time.Minute

// Provider turns a bearer token into the authenticated identity.
type Provider interface {
	Authenticate(tokenString string) (*Identity, error)
}

type AccessTokenCustomClaims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email,omitempty"`
	Name   string `json:"name,omitempty"`
	jwt.StandardClaims
}

// TokenManager validates HS256 access tokens issued by the identity provider.
// It can also mint tokens for local development.
type TokenManager struct {
	secret []byte
	now    func() time.Time
}

func NewTokenManager(secret string) (*TokenManager, error) {
	if secret == "" {
		return nil, ErrMissingSecret
	}
	return &TokenManager{secret: []byte(secret), now: time.Now}, nil
}

func (j *TokenManager) GenerateAccessJWT(identity Identity, duration time.Duration) (string, error) {
	if identity.OwnerID == "" {
		return "", fmt.Errorf("owner id is required to mint a token")
	}
	now := j.now()
	claims := &AccessTokenCustomClaims{
		UserID: identity.OwnerID,
		Email:  identity.Email,
		Name:   identity.Name,
		StandardClaims: jwt.StandardClaims{
			Subject:   identity.OwnerID,
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(duration).Unix(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(j.secret)
}

// Authenticate validates the token and returns the identity it carries. The owner id
// comes from the user_id claim, falling back to sub. A malformed email claim is dropped.
func (j *TokenManager) Authenticate(tokenString string) (*Identity, error) {
	token, err := jwt.ParseWithClaims(tokenString, &AccessTokenCustomClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return j.secret, nil
	})

	if err != nil {
		var validationErr *jwt.ValidationError
		if errors.As(err, &validationErr) {
			if validationErr.Errors&(jwt.ValidationErrorExpired) != 0 {
				return nil, ErrExpiredJWTToken
			}
		}
		return nil, ErrInvalidJWTToken
	}

	claims, ok := token.Claims.(*AccessTokenCustomClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidJWTToken
	}

	ownerID := strings.TrimSpace(claims.UserID)
	if ownerID == "" {
		ownerID = strings.TrimSpace(claims.Subject)
	}
	if ownerID == "" {
		return nil, ErrInvalidJWTToken
	}

	identity := &Identity{OwnerID: ownerID, Name: claims.Name}
	if claims.Email != "" && checkmail.ValidateFormat(claims.Email) == nil {
		identity.Email = claims.Email
	}
	return identity, nil
}
