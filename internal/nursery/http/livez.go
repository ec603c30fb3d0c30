package http

import (
	"net/http"
	"time"

	"github.com/aussiebroadwan/nursery/pkg/httpx"
	"github.com/aussiebroadwan/nursery/pkg/nurserysdk"
)

// LivezHandler godoc
//
//	@Summary		Health Check Endpoint
//	@Description	Liveness probe returning status, uptime and version. Always 200 while the process runs.
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	nurserysdk.HealthResponse	"status, uptime, version"
//	@Router			/livez [get].
func LivezHandler(startTime time.Time, version string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, nurserysdk.HealthResponse{
			Status:  "ok",
			Uptime:  uptime(startTime),
			Version: version,
		})
	}
}

func uptime(since time.Time) string {
	return time.Since(since).Truncate(time.Second).String()
}
