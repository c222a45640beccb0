package types

// ContextKey is the type for request-scoped values stored in a context.Context.
type ContextKey string

const (
	// ContextKeyRequestID carries the X-Request-ID of the current HTTP request.
	ContextKeyRequestID ContextKey = "request_id"
	// ContextKeyRequestSource names the entry point (server, cli) that issued the call.
	ContextKeyRequestSource ContextKey = "request_source"
)
