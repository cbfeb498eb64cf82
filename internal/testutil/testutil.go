// Package testutil holds helpers shared by package tests.
package testutil

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/goccy/go-json"

	"bookrec/internal/auth"
)

// TestSecret signs tokens for servers running in hmac mode.
const TestSecret = "test-secret-key"

// GenerateTestToken returns an HS256 token for sub valid for an hour.
func GenerateTestToken(secret, sub string, groups ...string) string {
	token, _ := auth.GenerateToken(secret, auth.Claims{Subject: sub, Username: sub, Groups: groups}, time.Hour)
	return token
}

// GenerateExpiredToken returns an HS256 token for sub that expired an hour ago.
func GenerateExpiredToken(secret, sub string) string {
	token, _ := auth.GenerateToken(secret, auth.Claims{Subject: sub}, -time.Hour)
	return token
}

// NewRequest creates a request with body encoded as JSON.
func NewRequest(method, path string, body any) *http.Request {
	if body == nil {
		return httptest.NewRequest(method, path, nil)
	}
	var raw []byte
	switch b := body.(type) {
	case string:
		raw = []byte(b)
	case []byte:
		raw = b
	default:
		raw, _ = json.Marshal(body)
	}
	r := httptest.NewRequest(method, path, bytes.NewReader(raw))
	r.Header.Set("Content-Type", "application/json")
	return r
}

// NewRequestWithAuth is NewRequest plus a bearer token.
func NewRequestWithAuth(method, path string, body any, token string) *http.Request {
	r := NewRequest(method, path, body)
	if token != "" {
		r.Header.Set("Authorization", "Bearer "+token)
	}
	return r
}

// DecodeBody decodes a recorded JSON response into v.
func DecodeBody(w *httptest.ResponseRecorder, v any) error {
	return json.Unmarshal(w.Body.Bytes(), v)
}
