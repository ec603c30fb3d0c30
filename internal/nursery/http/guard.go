package http

import (
	"context"
	"net/http"
	"time"

	"github.com/aussiebroadwan/nursery/internal/nursery/guard"
	"github.com/aussiebroadwan/nursery/internal/nursery/telemetry"
	"github.com/aussiebroadwan/nursery/pkg/httpx"
	"github.com/aussiebroadwan/nursery/pkg/nurserysdk"
	"github.com/aussiebroadwan/nursery/pkg/slogx"
)

// loadingRetry is the Retry-After sent with the loading placeholder.
const loadingRetry = time.Second

// RequireRoles runs the route guard for the client runtime in the request
// context. Redirects are answered with 303 and a loading session with the
// 202 placeholder. It must run after the runtime middleware.
func RequireRoles(roles guard.Roles) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rt, ok := RuntimeFromContext(r.Context())
			if !ok {
				nurserysdk.ErrServerError.WriteError(w)
				return
			}

			sess := rt.Session.Current()
			d := guard.Decide(sess, roles, r.URL.RequestURI())
			telemetry.RecordGuardDecision(d.Label())

			switch {
			case d.Kind == guard.Redirect:
				slogx.FromContext(r.Context()).Debug("guard redirect",
					"to", d.To, "role", sess.Role.String())
				httpx.SeeOther(w, r, d.Target())
			case d.View == guard.LoadingPlaceholder:
				writeLoading(w)
			default:
				ctx := context.WithValue(r.Context(), ctxKeySession, sess)
				next.ServeHTTP(w, r.WithContext(ctx))
			}
		})
	}
}

func writeLoading(w http.ResponseWriter) {
	httpx.SetRetryAfter(w, loadingRetry)
	httpx.WriteJSON(w, http.StatusAccepted, nurserysdk.LoadingResponse{Status: "loading"})
}
