package requestctx

import "context"

type ctxKey string

const (
	requestIDKey ctxKey = "request_id"
	operatorKey  ctxKey = "operator_id"
)

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

func GetRequestID(ctx context.Context) string {
	if value, ok := ctx.Value(requestIDKey).(string); ok {
		return value
	}
	return ""
}

func WithOperatorID(ctx context.Context, operatorID string) context.Context {
	return context.WithValue(ctx, operatorKey, operatorID)
}

func GetOperatorID(ctx context.Context) string {
	if value, ok := ctx.Value(operatorKey).(string); ok {
		return value
	}
	return ""
}
