package middleware

// Context keys used to store per-request metadata.
const (
	ContextKeyRequestID    = "request_id"
	ContextKeySessionID    = "session_id"
	ContextKeyOrchestrator = "orchestrator"
)
