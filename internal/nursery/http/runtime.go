package http

import (
	"context"
	"net/http"
	"time"

	"github.com/aussiebroadwan/nursery/internal/nursery/clients"
	"github.com/aussiebroadwan/nursery/internal/nursery/domain"
	"github.com/aussiebroadwan/nursery/pkg/httpx"
	"github.com/aussiebroadwan/nursery/pkg/idx"
	"github.com/aussiebroadwan/nursery/pkg/jwtx"
	"github.com/aussiebroadwan/nursery/pkg/nurserysdk"
	"github.com/aussiebroadwan/nursery/pkg/slogx"
)

type ctxKey int

const (
	ctxKeyRuntime ctxKey = iota
	ctxKeySession
)

// RuntimeFromContext returns the client runtime attached by the runtime
// middleware.
func RuntimeFromContext(ctx context.Context) (*clients.Runtime, bool) {
	rt, ok := ctx.Value(ctxKeyRuntime).(*clients.Runtime)
	return rt, ok && rt != nil
}

// SessionFromContext returns the snapshot the guard admitted the request
// with.
func SessionFromContext(ctx context.Context) (domain.Session, bool) {
	sess, ok := ctx.Value(ctxKeySession).(domain.Session)
	return sess, ok
}

// clientRuntime attaches the runtime of the calling client. Clients without a
// valid token get a fresh runtime id and a signed cookie for it.
func (r *Router) clientRuntime(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		ctx := req.Context()

		id, ok := httpx.ClientIDFromContext(ctx)
		if !ok {
			id = idx.New().String()
			if err := r.issueClientCookie(w, id); err != nil {
				slogx.FromContext(ctx).Error("failed to issue client token", "err", err)
				nurserysdk.ErrServerError.WriteError(w)
				return
			}
			ctx = httpx.WithClientID(ctx, id)
		}
		ctx = slogx.WithClientID(ctx, id)

		rt, err := r.Clients.Open(ctx, id)
		if err != nil {
			slogx.FromContext(ctx).Error("failed to open client runtime", "err", err)
			nurserysdk.ErrServerError.WriteError(w)
			return
		}

		ctx = context.WithValue(ctx, ctxKeyRuntime, rt)
		next.ServeHTTP(w, req.WithContext(ctx))
	})
}

func (r *Router) issueClientCookie(w http.ResponseWriter, id string) error {
	now := time.Now()
	token, err := r.signer.Sign(jwtx.NewClientClaims(id, r.issuer, r.ClientTokenTTL, now))
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     nurserysdk.ClientCookieName,
		Value:    token,
		Path:     "/",
		Expires:  now.Add(r.ClientTokenTTL),
		MaxAge:   int(r.ClientTokenTTL / time.Second),
		HttpOnly: true,
		Secure:   r.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}
