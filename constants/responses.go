package constants

// HTTP Response Messages
const (
	ResponseInternalError = "Internal server error"
	ResponseBadHost       = "Bad Request (400)"
	ResponseHello         = "Hello from the Garmently backend!"
)

// Health Status
const (
	StatusHealthy   = "healthy"
	StatusOK        = "ok"
	StatusUnhealthy = "unhealthy"
)

// Error Messages for Logging
const (
	LogFailedWriteResponse = "Failed to write response: %v"
	LogInitFailed          = "Serverless initialization failed: %v"
	LogDisallowedHost      = "Invalid HTTP_HOST header"
)
