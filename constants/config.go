package constants

// Application
const (
	AppName            = "garmently"
	DefaultServiceName = "garmently-backend"
)

// Environment Variables
const (
	EnvProfile          = "GARMENTLY_PROFILE"
	EnvDebug            = "DEBUG"
	EnvDatabaseURL      = "DATABASE_URL"
	EnvSecretKey        = "SECRET_KEY"
	EnvSecretKeyFile    = "SECRET_KEY_FILE"
	EnvBaseDir          = "BASE_DIR"
	EnvLogLevel         = "LOG_LEVEL"
	EnvPort             = "PORT"
	EnvMediaRoot        = "MEDIA_ROOT"
	EnvMediaBucket      = "AWS_STORAGE_BUCKET_NAME"
	EnvMediaRegion      = "AWS_S3_REGION_NAME"
	EnvTracesExporter   = "OTEL_TRACES_EXPORTER"
	EnvTracesServiceKey = "OTEL_SERVICE_NAME"
)

// DebugTruthy is the only DEBUG value that turns debug mode on.
const DebugTruthy = "True"

// Deployment Profiles
const (
	ProfileStrict     = "strict"
	ProfilePermissive = "permissive"
	DefaultProfile    = ProfileStrict
)

// Database Engines
const (
	EngineSQLite   = "sqlite3"
	EnginePostgres = "postgresql"
)

// Storage Drivers (database/sql driver names)
const (
	StorageDriverSQLite   = "sqlite"
	StorageDriverPostgres = "postgres"
)

// Media Drivers
const (
	MediaDriverFilesystem = "filesystem"
	MediaDriverS3         = "s3"
)

// Trace Exporters
const (
	TracesExporterNone   = "none"
	TracesExporterStdout = "stdout"
	TracesExporterOTLP   = "otlp"
)
