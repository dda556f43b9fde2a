package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"clinic-reviews/internal/handler/http/respond"

	"github.com/golang-jwt/jwt/v5"
)

type ctxKey string

const ctxUser ctxKey = "user"

// RoleAdmin is the only role this service issues. The moderation surface
// has no finer-grained permissions.
const RoleAdmin = "admin"

// Authz requires a valid admin JWT for every method on protected endpoints.
// Public endpoints pass through untouched.
//
// Tokens carry a version claim checked against ADMIN_TOKEN_VERSION, so
// bumping that variable revokes all outstanding tokens without rotating
// the signing secret.
func Authz(next http.Handler) http.Handler {
	secret := []byte(os.Getenv("JWT_SECRET"))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if IsPublicEndpoint(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		user, role, err := validateJWT(r.Header.Get("Authorization"), secret)
		if err != nil {
			respond.SafeError(w, http.StatusUnauthorized, fmt.Errorf("unauthorized: %w", err))
			return
		}
		if role != RoleAdmin {
			RecordForbiddenAttempt(role, r.Method)
			respond.SafeError(w, http.StatusForbidden, errors.New("forbidden"))
			return
		}
		ctx := context.WithValue(r.Context(), ctxUser, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// UserFromContext returns the authenticated user set by Authz, if any.
func UserFromContext(ctx context.Context) string {
	user, _ := ctx.Value(ctxUser).(string)
	return user
}

func validateJWT(authz string, secret []byte) (string, string, error) {
	const prefix = "Bearer "
	if !strings.HasPrefix(authz, prefix) {
		return "", "", errors.New("missing bearer token")
	}

	tok, err := jwt.Parse(strings.TrimPrefix(authz, prefix), func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	})
	if err != nil || !tok.Valid {
		return "", "", errors.New("invalid token")
	}

	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return "", "", errors.New("invalid claims")
	}

	switch {
	case claimInt64(claims, "exp") < time.Now().Unix():
		return "", "", errors.New("token expired")
	case claimInt64(claims, "ver") != TokenVersion():
		return "", "", errors.New("stale token version")
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return "", "", errors.New("invalid sub claim")
	}
	role, ok := claims["role"].(string)
	if !ok {
		return "", "", errors.New("invalid role claim")
	}
	return sub, role, nil
}

// claimInt64 reads a numeric claim. JSON numbers decode as float64;
// anything else, including a missing claim, comes back as zero and
// fails the caller's comparison.
func claimInt64(claims jwt.MapClaims, key string) int64 {
	f, _ := claims[key].(float64)
	return int64(f)
}

// TokenVersion returns the current token version from ADMIN_TOKEN_VERSION.
// Unset or unparsable values default to 1.
func TokenVersion() int64 {
	raw := os.Getenv("ADMIN_TOKEN_VERSION")
	if raw == "" {
		return 1
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 1
	}
	return n
}
