package http

import (
	"context"
	"net/http"
	"time"

	"github.com/aussiebroadwan/nursery/internal/nursery/identity/statestore"
	"github.com/aussiebroadwan/nursery/internal/nursery/store"
	"github.com/aussiebroadwan/nursery/pkg/httpx"
	"github.com/aussiebroadwan/nursery/pkg/jwtx"
	"github.com/aussiebroadwan/nursery/pkg/nurserysdk"
)

// readyProbeTimeout bounds each dependency ping.
const readyProbeTimeout = 2 * time.Second

// ReadyzHandler godoc
//
//	@Summary		Readiness Check Endpoint
//	@Description	Readiness probe covering the database, the client token signer and the identity state store
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	nurserysdk.HealthResponse	"status, uptime, version, checks"
//	@Failure		503	{object}	nurserysdk.HealthResponse	"status, uptime, version, checks - service not ready"
//	@Router			/readyz [get].
func ReadyzHandler(
	startTime time.Time,
	version string,
	st store.Store,
	keys *jwtx.KeySet,
	states statestore.Store,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), readyProbeTimeout)
		defer cancel()

		ready := true
		probe := func(err error) string {
			if err == nil {
				return "ok"
			}
			ready = false
			return "error: " + err.Error()
		}

		var signerErr error
		if !keys.IsReady() {
			signerErr = jwtx.ErrNoKey
		}

		checks := &nurserysdk.HealthChecks{
			Database:   probe(st.Ping(ctx)),
			Signer:     probe(signerErr),
			StateStore: probe(states.Ping(ctx)),
		}

		resp := nurserysdk.HealthResponse{
			Status:  "ok",
			Uptime:  uptime(startTime),
			Version: version,
			Checks:  checks,
		}
		code := http.StatusOK
		if !ready {
			resp.Status = "degraded"
			code = http.StatusServiceUnavailable
		}
		httpx.WriteJSON(w, code, resp)
	}
}
