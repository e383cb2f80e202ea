package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndVerify(t *testing.T) {
	m := NewTokenManager("test-secret", time.Hour)

	token, err := m.Issue(42)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, err := m.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), userID)
}

func TestVerifyExpiredToken(t *testing.T) {
	m := NewTokenManager("test-secret", -time.Minute)

	token, err := m.Issue(42)
	require.NoError(t, err)

	_, err = m.Verify(token)
	assert.Error(t, err)
}

func TestVerifyWrongKey(t *testing.T) {
	issuer := NewTokenManager("test-secret", time.Hour)
	verifier := NewTokenManager("other-secret", time.Hour)

	token, err := issuer.Issue(42)
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	assert.Error(t, err)
}

func TestVerifyMalformedToken(t *testing.T) {
	m := NewTokenManager("test-secret", time.Hour)
	_, err := m.Verify("not-a-token")
	assert.Error(t, err)
}

func middlewareRequest(t *testing.T, m *TokenManager, authHeader string) (*httptest.ResponseRecorder, *int64) {
	t.Helper()

	var seen *int64
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id, ok := UserIDFromContext(r.Context()); ok {
			seen = &id
		}
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	m.Middleware()(next).ServeHTTP(rec, req)
	return rec, seen
}

func TestMiddlewareMissingHeader(t *testing.T) {
	m := NewTokenManager("test-secret", time.Hour)
	rec, seen := middlewareRequest(t, m, "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Nil(t, seen)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "No Authorization header present.", body["message"])
}

func TestMiddlewareMissingBearerToken(t *testing.T) {
	m := NewTokenManager("test-secret", time.Hour)

	for _, header := range []string{"Bearer", "Bearer ", "Basic abc"} {
		rec, seen := middlewareRequest(t, m, header)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "header %q", header)
		assert.Nil(t, seen)

		var body map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "Bearer token is not present in Authorization header.", body["message"], "header %q", header)
	}
}

func TestMiddlewareInvalidToken(t *testing.T) {
	m := NewTokenManager("test-secret", time.Hour)
	rec, seen := middlewareRequest(t, m, "Bearer garbage")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Nil(t, seen)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Authentication failed!", body["message"])
}

func TestMiddlewareValidToken(t *testing.T) {
	m := NewTokenManager("test-secret", time.Hour)
	token, err := m.Issue(7)
	require.NoError(t, err)

	rec, seen := middlewareRequest(t, m, "Bearer "+token)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, seen)
	assert.Equal(t, int64(7), *seen)
}
