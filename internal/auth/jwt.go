package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims defines the JWT claims structure.
type Claims struct {
	UserID int64 `json:"id"`
	jwt.RegisteredClaims
}

// userIDKey is the context key for the authenticated user's identifier.
type contextKey string

const userIDKey = contextKey("userID")

// UserIDFromContext returns the identifier attached by the middleware.
func UserIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(userIDKey).(int64)
	return id, ok
}

// TokenManager signs and verifies session tokens with an injected secret.
type TokenManager struct {
	key      []byte
	validity time.Duration
}

// NewTokenManager creates a TokenManager. The secret is mandatory configuration
// and is never defaulted here.
func NewTokenManager(secret string, validity time.Duration) *TokenManager {
	return &TokenManager{key: []byte(secret), validity: validity}
}

// Issue creates a new signed token for a given user.
func (m *TokenManager) Issue(userID int64) (string, error) {
	expirationTime := time.Now().Add(m.validity)
	claims := &Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expirationTime),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.key)
}

// Verify parses and validates a token string, returning the user identifier.
func (m *TokenManager) Verify(tokenStr string) (int64, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		return m.key, nil
	})
	if err != nil {
		return 0, err
	}
	if !token.Valid {
		return 0, fmt.Errorf("invalid token")
	}
	return claims.UserID, nil
}

// Middleware protects routes with a bearer-token check. On success the
// verified user identifier is attached to the request context.
func (m *TokenManager) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				unauthorized(w, "No Authorization header present.")
				return
			}

			tokenStr := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer"))
			if !strings.HasPrefix(authHeader, "Bearer") || tokenStr == "" {
				unauthorized(w, "Bearer token is not present in Authorization header.")
				return
			}

			userID, err := m.Verify(tokenStr)
			if err != nil {
				unauthorized(w, "Authentication failed!")
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"message": message})
}
