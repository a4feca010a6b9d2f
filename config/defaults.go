package config

import (
	"path/filepath"

	"github.com/garmently/garmently/constants"
)

// Default paths and literals.
const (
	// PlaceholderSecretKey is substituted when SECRET_KEY is absent.
	// It is public and must never sign anything in production.
	PlaceholderSecretKey = "insecure-placeholder-secret-key-set-SECRET_KEY"
	// DefaultBaseDir is used when BASE_DIR is unset.
	DefaultBaseDir = "."
	// DefaultSQLiteFile is the sqlite file name used when DATABASE_URL is unset.
	DefaultSQLiteFile = "db.sqlite3"
	// TransientDir is the only writable directory on the serverless filesystem.
	TransientDir = "/tmp"
	// DefaultStaticURL is the URL prefix static assets are served under.
	DefaultStaticURL = "/static/"
	// DefaultStaticDir is the static asset root, relative to the base directory.
	DefaultStaticDir = "staticfiles"
	// DefaultMediaDir is the filesystem media root, relative to the base directory.
	DefaultMediaDir = "media"
	// DefaultConnMaxAge is the connection max age applied to URL-configured databases, in seconds.
	DefaultConnMaxAge = 600
)

// Middleware identifiers, outermost first. Security headers run ahead of
// cors and allowed_hosts so short-circuited responses still carry them.
const (
	MiddlewareRecoverer    = "recoverer"
	MiddlewareRequestID    = "request_id"
	MiddlewareLogging      = "logging"
	MiddlewareTelemetry    = "telemetry"
	MiddlewareCORS         = "cors"
	MiddlewareSecurity     = "security"
	MiddlewareAllowedHosts = "allowed_hosts"
	MiddlewareClickjacking = "clickjacking"
)

// KnownMiddleware lists every identifier the HTTP layer can build.
var KnownMiddleware = []string{
	MiddlewareRecoverer,
	MiddlewareRequestID,
	MiddlewareLogging,
	MiddlewareTelemetry,
	MiddlewareSecurity,
	MiddlewareClickjacking,
	MiddlewareCORS,
	MiddlewareAllowedHosts,
}

// The fixed values below are returned as fresh slices so that no two
// configurations share backing arrays.

func defaultAllowedHosts() []string {
	return []string{".vercel.app", ".now.sh", "localhost", "127.0.0.1"}
}

func defaultMiddleware() []string {
	return []string{
		MiddlewareRecoverer,
		MiddlewareRequestID,
		MiddlewareLogging,
		MiddlewareTelemetry,
		MiddlewareSecurity,
		MiddlewareClickjacking,
		MiddlewareCORS,
		MiddlewareAllowedHosts,
	}
}

func defaultAllowedOrigins() []string {
	return []string{
		"https://garmently-frontend.vercel.app",
		"http://localhost:3000",
	}
}

// profile is a named deployment variant.
type profile struct {
	name            string
	allowAllOrigins bool
	requireSecret   bool
	sqliteDir       func(baseDir string) string
}

var profiles = map[string]profile{
	constants.ProfileStrict: {
		name:            constants.ProfileStrict,
		allowAllOrigins: false,
		requireSecret:   true,
		sqliteDir:       func(baseDir string) string { return baseDir },
	},
	constants.ProfilePermissive: {
		name:            constants.ProfilePermissive,
		allowAllOrigins: true,
		requireSecret:   false,
		sqliteDir:       func(string) string { return TransientDir },
	},
}

func lookupProfile(name string) (profile, bool) {
	p, ok := profiles[name]
	return p, ok
}

// Profiles returns the names of the available deployment profiles.
func Profiles() []string {
	return []string{constants.ProfileStrict, constants.ProfilePermissive}
}

func (p profile) defaults(baseDir string) *Config {
	return &Config{
		Profile:      p.name,
		BaseDir:      baseDir,
		AllowedHosts: defaultAllowedHosts(),
		Middleware:   defaultMiddleware(),
		CORS: CORSConfig{
			AllowedOrigins:  defaultAllowedOrigins(),
			AllowAllOrigins: p.allowAllOrigins,
		},
		Static: StaticConfig{
			URL:  DefaultStaticURL,
			Root: joinBase(baseDir, DefaultStaticDir),
		},
		Security: SecurityConfig{
			ContentTypeNosniff: true,
			BrowserXSSFilter:   true,
			FrameOptions:       constants.FrameOptionsDeny,
		},
	}
}

func (p profile) fallbackDatabase(baseDir string) Database {
	return Database{
		Engine: constants.EngineSQLite,
		Name:   filepath.Join(p.sqliteDir(baseDir), DefaultSQLiteFile),
	}
}

func joinBase(baseDir, elem string) string {
	return filepath.Join(baseDir, elem)
}
