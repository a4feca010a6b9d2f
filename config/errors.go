package config

import "errors"

// Resolution and validation errors. Callers match them with errors.Is.
var (
	ErrUnknownProfile            = errors.New("unknown deployment profile")
	ErrInvalidDatabaseURL        = errors.New("invalid database URL")
	ErrUnsupportedDatabaseScheme = errors.New("unsupported database URL scheme")
	ErrInsecureSecretKey         = errors.New("placeholder secret key is not allowed")
	ErrAllowAllOrigins           = errors.New("allow-all CORS origins is not allowed")
	ErrEmptyMiddleware           = errors.New("middleware pipeline is empty")
	ErrUnknownMiddleware         = errors.New("unknown middleware")
	ErrDuplicateMiddleware       = errors.New("duplicate middleware")
	ErrInvalidLogLevel           = errors.New("invalid log level")
	ErrInvalidTracesExporter     = errors.New("invalid traces exporter")
	ErrInvalidMediaConfig        = errors.New("invalid media configuration")
)
