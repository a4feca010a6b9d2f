package constants

// Content Types
const (
	ContentTypeJSON = "application/json"
)

// HTTP Headers
const (
	HeaderContentType        = "Content-Type"
	HeaderAuthorization      = "Authorization"
	HeaderRequestID          = "X-Request-ID"
	HeaderContentTypeOptions = "X-Content-Type-Options"
	HeaderXSSProtection      = "X-XSS-Protection"
	HeaderFrameOptions       = "X-Frame-Options"
)

// Header Values
const (
	ValueNoSniff     = "nosniff"
	ValueXSSBlock    = "1; mode=block"
	FrameOptionsDeny = "DENY"
)

// Default Values
const (
	DefaultHTTPPort          = 8000
	DefaultCORSMaxAgeSeconds = 86400
)

// Routes
const (
	PathHealth  = "/healthz"
	PathHello   = "/api/hello/"
	PathStatus  = "/api/status/"
	PathMetrics = "/metrics"
)
