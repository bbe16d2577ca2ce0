package types

import "context"

type ContextKey string

const (
	CtxRequestID ContextKey = "ctx_request_id"
	CtxUserID    ContextKey = "ctx_user_id"
)

// DefaultUserID is used when no authenticated user is present in the context.
const DefaultUserID = "system"

func GetRequestID(ctx context.Context) string {
	if id, ok := ctx.Value(CtxRequestID).(string); ok {
		return id
	}
	return ""
}

func GetUserID(ctx context.Context) string {
	if id, ok := ctx.Value(CtxUserID).(string); ok && id != "" {
		return id
	}
	return DefaultUserID
}
