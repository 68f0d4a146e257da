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
	"crypto/subtle"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// apiKeyHeader carries static API key credentials.
const apiKeyHeader = "X-API-Key"

// authEnabled reports whether any credential check is configured. With
// neither API keys nor a JWT secret the server runs open, which is meant
// for development only.
func (s *Server) authEnabled() bool {
	return len(s.apiKeys) > 0 || len(s.jwtSecret) > 0
}

// authMiddleware rejects unauthenticated requests before they reach the
// orchestrator. Either a valid API key or a valid bearer token passes.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.authEnabled() {
			next.ServeHTTP(w, r)
			return
		}
		if key := r.Header.Get(apiKeyHeader); key != "" && s.validAPIKey(key) {
			next.ServeHTTP(w, r)
			return
		}
		if token, ok := bearerToken(r); ok && s.validBearerToken(token) {
			next.ServeHTTP(w, r)
			return
		}
		w.Header().Set("WWW-Authenticate", "Bearer")
		http.Error(w, "authentication required: provide a bearer token or X-API-Key header",
			http.StatusUnauthorized)
	})
}

// validAPIKey compares the supplied key against every configured key in
// constant time.
func (s *Server) validAPIKey(key string) bool {
	supplied := []byte(key)
	valid := false
	for _, configured := range s.apiKeys {
		if subtle.ConstantTimeCompare(configured, supplied) == 1 {
			valid = true
		}
	}
	return valid
}

// validBearerToken verifies an HMAC-signed JWT, including its expiry.
func (s *Server) validBearerToken(token string) bool {
	if len(s.jwtSecret) == 0 {
		return false
	}
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	return err == nil && parsed.Valid
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, prefix))
	return token, token != ""
}
