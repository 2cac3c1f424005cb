package forecaster

import "context"

type contextKey string

const requestIDKey contextKey = "request_id"

// WithRequestID attaches an id that is added to every log line of a lookup.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

func RequestIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}
