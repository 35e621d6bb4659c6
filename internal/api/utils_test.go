package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type shareBody struct {
	Trip *struct {
		Destination string `json:"destination"`
	} `json:"trip"`
}

func TestDecodeJSONBody(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{"valid", `{"trip":{"destination":"Goa"}}`, ""},
		{"empty", ``, "body must not be empty"},
		{"syntax", `{"trip":}`, "badly-formed JSON"},
		{"truncated", `{"trip":{"destination":"Goa"`, "badly-formed JSON"},
		{"wrong type", `{"trip":{"destination":3}}`, `incorrect JSON type for field "trip.destination"`},
		{"unknown key", `{"trip":null,"extra":1}`, `unknown key "extra"`},
		{"trailing value", `{"trip":null}{}`, "single JSON value"},
		{"too large", `{"trip":{"destination":"` + strings.Repeat("a", maxBodyBytes) + `"}}`, "must not be larger than"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			var dst shareBody
			err := DecodeJSONBody(httptest.NewRecorder(), req, &dst)
			if tt.wantErr == "" {
				require.NoError(t, err)
				require.NotNil(t, dst.Trip)
				assert.Equal(t, "Goa", dst.Trip.Destination)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestErrorResponse(t *testing.T) {
	rr := httptest.NewRecorder()
	ErrorResponse(rr, httptest.NewRequest(http.MethodGet, "/", nil), http.StatusBadRequest, "days must be an integer between 1 and 30")

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"success":false,"error":"days must be an integer between 1 and 30","request_id":""}`, rr.Body.String())
}

func TestWriteJSONResponse_NoContent(t *testing.T) {
	rr := httptest.NewRecorder()
	WriteJSONResponse(rr, httptest.NewRequest(http.MethodGet, "/", nil), http.StatusNoContent, map[string]string{"ignored": "yes"})
	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Empty(t, rr.Body.String())
}

func TestVerifyAudience(t *testing.T) {
	assert.True(t, VerifyAudience(nil, ""))
	assert.True(t, VerifyAudience(jwt.ClaimStrings{"anon", "authenticated"}, "authenticated"))
	assert.False(t, VerifyAudience(jwt.ClaimStrings{"anon"}, "authenticated"))
	assert.False(t, VerifyAudience(nil, "authenticated"))
}
