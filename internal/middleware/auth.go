package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type contextKey string

const (
	ctxTokenKey contextKey = "token"
	ctxOrgKey   contextKey = "org"
)

// RequireAuth rejects requests without a bearer credential. Validation of the
// credential itself is the backend's job; the dashboard only requires that one
// is present and forwards it. When the token is a JWT, its claims are read
// without signature verification to fail expired tokens fast and to pick up
// the org_id claim as the default org scope for downstream handlers.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := extractBearer(r)
		if raw == "" {
			http.Error(w, `{"error":"missing or malformed Authorization header"}`, http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), ctxTokenKey, raw)

		parser := jwt.NewParser(jwt.WithoutClaimsValidation())
		claims := jwt.MapClaims{}
		if _, _, err := parser.ParseUnverified(raw, claims); err == nil {
			if exp, err := claims.GetExpirationTime(); err == nil && exp != nil && exp.Before(time.Now()) {
				http.Error(w, `{"error":"token expired"}`, http.StatusUnauthorized)
				return
			}
			if org, ok := claims["org_id"].(string); ok && org != "" {
				ctx = context.WithValue(ctx, ctxOrgKey, org)
			}
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// TokenFromCtx returns the raw bearer credential, or "".
func TokenFromCtx(ctx context.Context) string {
	tok, _ := ctx.Value(ctxTokenKey).(string)
	return tok
}

// OrgFromCtx returns the org scope taken from the token's org_id claim, or "".
func OrgFromCtx(ctx context.Context) string {
	org, _ := ctx.Value(ctxOrgKey).(string)
	return org
}

func extractBearer(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}
