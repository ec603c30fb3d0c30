package http

import (
	"context"
	"net/http"
	"time"

	"github.com/aussiebroadwan/nursery/internal/nursery/domain"
	"github.com/aussiebroadwan/nursery/internal/nursery/landing"
	"github.com/aussiebroadwan/nursery/internal/nursery/telemetry"
	"github.com/aussiebroadwan/nursery/pkg/httpx"
	"github.com/aussiebroadwan/nursery/pkg/nurserysdk"
	"github.com/aussiebroadwan/nursery/pkg/slogx"
)

type SessionHandler struct {
	MaxWait time.Duration
}

// ServeHTTP returns the session snapshot of the calling client.
//
//	@Summary		Current session
//	@Description	Returns the authentication state of the calling client. With wait the request is held until the session has resolved or the wait elapses, whichever comes first.
//	@Tags			Session
//	@Produce		json
//	@Param			wait	query		string	false	"Go duration to wait for resolution, e.g. 5s"
//	@Success		200		{object}	nurserysdk.SessionResponse
//	@Failure		400		{object}	nurserysdk.ErrorResponse	"Invalid wait"
//	@Router			/v1/session [get].
func (h *SessionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rt, ok := RuntimeFromContext(r.Context())
	if !ok {
		nurserysdk.ErrServerError.WriteError(w)
		return
	}

	var wait time.Duration
	if raw := r.URL.Query().Get("wait"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil || d < 0 {
			nurserysdk.NewAPIError(http.StatusBadRequest, nurserysdk.ErrorCodeInvalidRequest,
				"wait must be a non-negative duration such as 5s").WriteError(w)
			return
		}
		wait = min(d, h.MaxWait)
	}

	sess := rt.Session.Current()
	if wait > 0 && sess.Loading {
		ctx, cancel := context.WithTimeout(r.Context(), wait)
		defer cancel()

		var err error
		sess, err = rt.Session.WaitResolved(ctx)
		if err != nil {
			// Still loading; the snapshot says so.
			slogx.FromContext(r.Context()).Debug("session wait ended unresolved", "err", err)
		}
	}

	httpx.WriteJSON(w, http.StatusOK, sessionResponse(rt.ID, sess))
}

func sessionResponse(clientID string, sess domain.Session) nurserysdk.SessionResponse {
	out := nurserysdk.SessionResponse{
		ClientID:     clientID,
		Role:         sess.Role.String(),
		Loading:      sess.Loading,
		IsAdmin:      sess.IsAdmin(),
		IsSuperAdmin: sess.IsSuperAdmin(),
	}
	if sess.Identity != nil {
		ident := identityResponse(*sess.Identity)
		out.Identity = &ident
	}
	return out
}

type LandingHandler struct {
	Wait time.Duration
}

// ServeHTTP mounts a fresh landing redirector for the calling client.
//
//	@Summary		Landing redirect
//	@Description	Waits for the session to settle and redirects once: superadmins to /admin/dashboard, nursery owners to /owner/dashboard, shoppers to /user and signed-out clients to /login. Answers 202 when the session has not settled in time.
//	@Tags			Session
//	@Produce		json
//	@Success		303
//	@Success		202	{object}	nurserysdk.LoadingResponse	"Session not settled yet"
//	@Router			/landing [get].
func (h *LandingHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rt, ok := RuntimeFromContext(r.Context())
	if !ok {
		nurserysdk.ErrServerError.WriteError(w)
		return
	}

	var target string
	redirector := landing.New(landing.NavigatorFunc(func(path string) {
		target = path
	}), slogx.FromContext(r.Context()))

	updates, unsubscribe := rt.Session.Subscribe(4)
	defer unsubscribe()

	ctx, cancel := context.WithTimeout(r.Context(), h.Wait)
	defer cancel()

	if redirector.Run(ctx, updates) {
		telemetry.RecordLandingRedirect(target)
		httpx.SeeOther(w, r, target)
		return
	}

	if r.Context().Err() != nil {
		return
	}
	writeLoading(w)
}
