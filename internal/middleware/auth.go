package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"

	"github.com/xaslilac/bombas/internal/token"
)

type contextKey int

const claimsKey contextKey = iota

// Auth parses an optional Bearer token and attaches its claims to the
// request context. Handlers that require ownership of a session check the
// claims themselves; requests without a valid token pass through
// unauthenticated.
func Auth(log *logrus.Logger, issuer *token.Issuer) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if raw, ok := strings.CutPrefix(header, "Bearer "); ok {
				claims, err := issuer.Parse(raw)
				if err != nil {
					log.Debug("rejected bearer token: ", err)
				} else {
					ctx := context.WithValue(r.Context(), claimsKey, claims)
					r = r.WithContext(ctx)
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Claims returns the session claims attached by [Auth], if any.
func Claims(ctx context.Context) (*jwt.RegisteredClaims, bool) {
	claims, ok := ctx.Value(claimsKey).(*jwt.RegisteredClaims)
	return claims, ok
}
