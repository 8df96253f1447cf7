package httpx

import (
	"context"
	"net/http"
)

type contextKey string

const (
	userIDKey    contextKey = "userID"
	requestIDKey contextKey = "requestID"
)

// UserIDFrom retrieves the authenticated user ID from the request context.
func UserIDFrom(r *http.Request) int64 {
	if v, ok := r.Context().Value(userIDKey).(int64); ok {
		return v
	}
	return 0
}

// ContextWithUserID returns a new context carrying the authenticated user ID.
func ContextWithUserID(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// RequestIDFrom retrieves the request ID from the request context.
func RequestIDFrom(r *http.Request) string {
	if v, ok := r.Context().Value(requestIDKey).(string); ok {
		return v
	}
	return ""
}

// ContextWithRequestID returns a new context carrying the request ID.
func ContextWithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

func contextWithSlot(ctx context.Context, slot *userIDSlot) context.Context {
	return context.WithValue(ctx, userIDSlotKey, slot)
}

// SetUserID stores the authenticated user ID in the request context and in
// the access log slot, if one is present.
func SetUserID(r *http.Request, userID int64) *http.Request {
	if slot, ok := r.Context().Value(userIDSlotKey).(*userIDSlot); ok {
		slot.id = userID
	}
	return r.WithContext(ContextWithUserID(r.Context(), userID))
}
