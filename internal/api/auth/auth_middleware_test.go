package auth

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/trip-planner-aggregator/config"
)

const testSecret = "super-secret-jwt-token-with-at-least-32-characters"

var testCfg = config.JWTConfig{
	Enabled:   true,
	SecretKey: testSecret,
	Issuer:    "https://project.supabase.co/auth/v1",
	Audience:  "authenticated",
}

func signToken(t *testing.T, method jwt.SigningMethod, key any, claims Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

func validClaims(sub string) Claims {
	return Claims{
		Email: "traveller@example.com",
		Role:  "authenticated",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sub,
			Issuer:    testCfg.Issuer,
			Audience:  jwt.ClaimStrings{"authenticated"},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
}

func serve(t *testing.T, cfg config.JWTConfig, authHeader string) (*httptest.ResponseRecorder, *http.Request) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	var seen *http.Request
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = r
		w.WriteHeader(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/trip/plan", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rr := httptest.NewRecorder()
	Authenticate(logger, cfg)(next).ServeHTTP(rr, req)
	return rr, seen
}

func TestAuthenticate_ValidToken(t *testing.T) {
	userID := uuid.New()
	token := signToken(t, jwt.SigningMethodHS256, []byte(testSecret), validClaims(userID.String()))

	rr, seen := serve(t, testCfg, "Bearer "+token)
	require.Equal(t, http.StatusNoContent, rr.Code)
	require.NotNil(t, seen)

	got, ok := GetUserIDFromContext(seen.Context())
	require.True(t, ok)
	assert.Equal(t, userID, got)

	email, ok := GetUserEmailFromContext(seen.Context())
	assert.True(t, ok)
	assert.Equal(t, "traveller@example.com", email)

	role, _ := GetUserRoleFromContext(seen.Context())
	assert.Equal(t, "authenticated", role)
}

func TestAuthenticate_Rejects(t *testing.T) {
	userID := uuid.NewString()

	expired := validClaims(userID)
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))

	wrongIssuer := validClaims(userID)
	wrongIssuer.Issuer = "https://evil.example.com"

	wrongAudience := validClaims(userID)
	wrongAudience.Audience = jwt.ClaimStrings{"anon"}

	noExpiry := validClaims(userID)
	noExpiry.ExpiresAt = nil

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"wrong scheme", "Basic abc"},
		{"empty token", "Bearer "},
		{"malformed", "Bearer not.a.jwt"},
		{"wrong secret", "Bearer " + signToken(t, jwt.SigningMethodHS256, []byte("another-secret"), validClaims(userID))},
		{"wrong algorithm", "Bearer " + signToken(t, jwt.SigningMethodHS512, []byte(testSecret), validClaims(userID))},
		{"expired", "Bearer " + signToken(t, jwt.SigningMethodHS256, []byte(testSecret), expired)},
		{"no expiry", "Bearer " + signToken(t, jwt.SigningMethodHS256, []byte(testSecret), noExpiry)},
		{"wrong issuer", "Bearer " + signToken(t, jwt.SigningMethodHS256, []byte(testSecret), wrongIssuer)},
		{"wrong audience", "Bearer " + signToken(t, jwt.SigningMethodHS256, []byte(testSecret), wrongAudience)},
		{"subject not a uuid", "Bearer " + signToken(t, jwt.SigningMethodHS256, []byte(testSecret), validClaims("service-role"))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr, seen := serve(t, testCfg, tt.header)
			assert.Equal(t, http.StatusUnauthorized, rr.Code)
			assert.Nil(t, seen)
			assert.Contains(t, rr.Body.String(), `"success":false`)
		})
	}
}

func TestAuthenticate_Disabled(t *testing.T) {
	rr, seen := serve(t, config.JWTConfig{Enabled: false}, "")
	assert.Equal(t, http.StatusNoContent, rr.Code)
	require.NotNil(t, seen)

	_, ok := GetUserIDFromContext(seen.Context())
	assert.False(t, ok)
}

func TestAuthenticate_PanicsWithoutSecret(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	assert.Panics(t, func() {
		Authenticate(logger, config.JWTConfig{Enabled: true})
	})
}
