//
// Tencent is pleased to support the open source community by making trpc-eval-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-eval-go is licensed under the Apache License Version 2.0.
//
//

package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func authedGet(t *testing.T, srv *Server, path string, header, value string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if header != "" {
		req.Header.Set(header, value)
	}
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func TestAuthDisabledByDefault(t *testing.T) {
	srv := newTestServer(t, nil)
	rec := authedGet(t, srv, "/api/v1/metrics", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthAPIKey(t *testing.T) {
	srv := newTestServer(t, nil, WithAPIKeys([]string{"secret-key", "other-key"}))

	rec := authedGet(t, srv, "/api/v1/metrics", "", "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"))

	rec = authedGet(t, srv, "/api/v1/metrics", apiKeyHeader, "wrong-key")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = authedGet(t, srv, "/api/v1/metrics", apiKeyHeader, "other-key")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthHealthAlwaysOpen(t *testing.T) {
	srv := newTestServer(t, nil, WithAPIKeys([]string{"secret-key"}))
	rec := authedGet(t, srv, "/health", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func signToken(t *testing.T, secret string, expiry time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "tester",
		"exp": expiry.Unix(),
	})
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestAuthBearerToken(t *testing.T) {
	srv := newTestServer(t, nil, WithJWTSecret("jwt-secret"))

	valid := signToken(t, "jwt-secret", time.Now().Add(time.Hour))
	rec := authedGet(t, srv, "/api/v1/metrics", "Authorization", "Bearer "+valid)
	assert.Equal(t, http.StatusOK, rec.Code)

	expired := signToken(t, "jwt-secret", time.Now().Add(-time.Hour))
	rec = authedGet(t, srv, "/api/v1/metrics", "Authorization", "Bearer "+expired)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	wrongKey := signToken(t, "not-the-secret", time.Now().Add(time.Hour))
	rec = authedGet(t, srv, "/api/v1/metrics", "Authorization", "Bearer "+wrongKey)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = authedGet(t, srv, "/api/v1/metrics", "Authorization", "Bearer")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthEitherCredentialAccepted(t *testing.T) {
	srv := newTestServer(t, nil,
		WithAPIKeys([]string{"secret-key"}),
		WithJWTSecret("jwt-secret"))

	rec := authedGet(t, srv, "/api/v1/metrics", apiKeyHeader, "secret-key")
	assert.Equal(t, http.StatusOK, rec.Code)

	valid := signToken(t, "jwt-secret", time.Now().Add(time.Hour))
	rec = authedGet(t, srv, "/api/v1/metrics", "Authorization", "Bearer "+valid)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = authedGet(t, srv, "/api/v1/metrics", apiKeyHeader, "wrong")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
