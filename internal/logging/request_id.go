package logging

import (
	"context"

	"github.com/google/uuid"
)

// RequestIDField is the log field and the basis of the outbound header.
const RequestIDField = "request_id"

// RequestIDHeader carries the request id on outbound HTTP calls.
const RequestIDHeader = "X-Request-ID"

type requestIDKeyType struct{}

var requestIDKey = requestIDKeyType{}

// NewRequestIDContext stores requestID in ctx, generating one when empty.
func NewRequestIDContext(ctx context.Context, requestID string) context.Context {
	if requestID == "" {
		requestID = GenerateRequestID()
	}
	return context.WithValue(ctx, requestIDKey, requestID)
}

// GetRequestID returns the request id stored in ctx.
func GetRequestID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(requestIDKey).(string)
	return id, ok && id != ""
}

// GenerateRequestID returns a new random id.
func GenerateRequestID() string {
	return uuid.New().String()
}
