package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/texforge/resumed/internal/infrastructure/config"
)

// ErrMissingSecret is returned when a token is requested without a JWT secret.
var ErrMissingSecret = errors.New("jwt secret is not configured")

// IssueToken mints an HS256 bearer token accepted by authMiddleware.
//
// Parameters:
//   - cfg: JWT secret and optional issuer
//   - subject: Token subject (the caller's name)
//   - ttl: Lifetime; zero issues a token without expiry
//
// Returns:
//   - string: Signed token
//   - error: ErrMissingSecret, or a signing error
func IssueToken(cfg config.JWTConfig, subject string, ttl time.Duration) (string, error) {
	if cfg.Secret == "" {
		return "", ErrMissingSecret
	}
	if subject == "" {
		return "", fmt.Errorf("subject is required")
	}

	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:  subject,
		Issuer:   cfg.Issuer,
		IssuedAt: jwt.NewNumericDate(now),
	}
	if ttl != 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(cfg.Secret))
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

// authMiddleware validates bearer tokens when security.auth.enabled is set.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.secCfg.Auth.Enabled {
			next.ServeHTTP(w, r)
			return
		}

		raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || raw == "" {
			writeUnauthorized(w, "missing bearer token")
			return
		}

		subject, err := s.verifyToken(raw)
		if err != nil {
			s.logger.Debug("rejected bearer token", "error", err, "request_id", requestIDFrom(r.Context()))
			writeUnauthorized(w, "invalid token")
			return
		}

		ctx := context.WithValue(r.Context(), ctxKeySubject, subject)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// verifyToken checks signature, expiry and issuer and returns the subject.
func (s *Server) verifyToken(raw string) (string, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if s.secCfg.JWT.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.secCfg.JWT.Issuer))
	}

	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) {
		return []byte(s.secCfg.JWT.Secret), nil
	}, opts...)
	if err != nil {
		return "", err
	}
	if claims.Subject == "" {
		return "", fmt.Errorf("token has no subject")
	}
	return claims.Subject, nil
}
