package slogx

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/aussiebroadwan/nursery/pkg/idx"
)

// accessInfo collects request facts learned downstream of the middleware so
// the access line can report them.
type accessInfo struct {
	mu       sync.Mutex
	clientID string
}

type accessKey struct{}

func noteClientID(ctx context.Context, clientID string) {
	if info, ok := ctx.Value(accessKey{}).(*accessInfo); ok {
		info.mu.Lock()
		info.clientID = clientID
		info.mu.Unlock()
	}
}

// HTTPMiddleware gives every request a logger tagged with its request ID and
// writes one "http_request" line when the handler returns. A client ID set
// with WithClientID further down the chain is included in that line.
func HTTPMiddleware(base *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			reqID := r.Header.Get("X-Request-ID")
			if reqID == "" {
				reqID = idx.New().String()
			}
			w.Header().Set("X-Request-ID", reqID)

			logger := base.With("req_id", reqID)
			info := &accessInfo{}
			ctx := context.WithValue(WithContext(r.Context(), logger), accessKey{}, info)

			rec := &responseRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r.WithContext(ctx))

			attrs := []slog.Attr{
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", rec.status),
				slog.Int("bytes", rec.bytes),
				slog.Int64("duration_ms", time.Since(start).Milliseconds()),
				slog.String("remote_addr", r.RemoteAddr),
			}
			info.mu.Lock()
			if info.clientID != "" {
				attrs = append(attrs, slog.String("client_id", info.clientID))
			}
			info.mu.Unlock()

			level := slog.LevelInfo
			if rec.status >= http.StatusInternalServerError {
				level = slog.LevelError
			}
			logger.LogAttrs(r.Context(), level, "http_request", attrs...)
		})
	}
}

type responseRecorder struct {
	http.ResponseWriter

	status      int
	bytes       int
	wroteHeader bool
}

func (rw *responseRecorder) WriteHeader(code int) {
	if !rw.wroteHeader {
		rw.status = code
		rw.wroteHeader = true
	}
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseRecorder) Write(b []byte) (int, error) {
	rw.wroteHeader = true
	n, err := rw.ResponseWriter.Write(b)
	rw.bytes += n
	return n, err
}

func (rw *responseRecorder) Unwrap() http.ResponseWriter { return rw.ResponseWriter }
