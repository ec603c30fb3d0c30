package httpx

import (
	"context"
	"net/http"
	"strings"

	"github.com/aussiebroadwan/nursery/pkg/jwtx"
	"github.com/aussiebroadwan/nursery/pkg/slogx"
)

// ClientToken reads the client token from the named cookie or from an
// "Authorization: Bearer" header, verifies it and stores the client id and
// claims in the request context. Requests without a valid token pass through
// untouched so a later handler can mint a new client.
func ClientToken(v jwtx.Verifier, cookieName string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := TokenFromRequest(r, cookieName)
			if raw == "" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := v.Verify(raw)
			if err != nil {
				slogx.FromContext(r.Context()).Debug("client token rejected", "err", err)
				next.ServeHTTP(w, r)
				return
			}

			ctx := WithClientID(r.Context(), claims.SID)
			ctx = context.WithValue(ctx, CtxKeyClaims, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// TokenFromRequest prefers the bearer header over the cookie.
func TokenFromRequest(r *http.Request, cookieName string) string {
	if authz := r.Header.Get("Authorization"); strings.HasPrefix(authz, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(authz, "Bearer "))
	}
	if c, err := r.Cookie(cookieName); err == nil {
		return c.Value
	}
	return ""
}
