package httpx

import "context"

type ctxKey string

const (
	CtxKeyClientID ctxKey = "client_id"
	CtxKeyClaims   ctxKey = "claims"
)

// ClientIDFromContext returns the verified client runtime id, if any.
func ClientIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(CtxKeyClientID).(string)
	return id, ok && id != ""
}

// WithClientID stores a client runtime id in ctx.
func WithClientID(ctx context.Context, clientID string) context.Context {
	return context.WithValue(ctx, CtxKeyClientID, clientID)
}
