package config

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"go.uber.org/zap/zapcore"

	"github.com/garmently/garmently/constants"
)

// Config is the effective deployment configuration for one process lifetime.
// It is produced by Load and must be treated as read-only; use Clone to get
// a copy that is safe to modify.
type Config struct {
	Profile      string         `json:"profile" yaml:"profile"`
	Debug        bool           `json:"debug" yaml:"debug"`
	SecretKey    string         `json:"secret_key" yaml:"secret_key"`
	BaseDir      string         `json:"base_dir" yaml:"base_dir"`
	AllowedHosts []string       `json:"allowed_hosts" yaml:"allowed_hosts"`
	Middleware   []string       `json:"middleware" yaml:"middleware"`
	Database     Database       `json:"database" yaml:"database"`
	CORS         CORSConfig     `json:"cors" yaml:"cors"`
	Static       StaticConfig   `json:"static" yaml:"static"`
	Security     SecurityConfig `json:"security" yaml:"security"`
	Media        MediaConfig    `json:"media" yaml:"media"`
	Log          LogConfig      `json:"log" yaml:"log"`
	Tracing      TracingConfig  `json:"tracing" yaml:"tracing"`
	HTTP         HTTPConfig     `json:"http" yaml:"http"`
}

type CORSConfig struct {
	AllowedOrigins  []string `json:"allowed_origins" yaml:"allowed_origins"`
	AllowAllOrigins bool     `json:"allow_all_origins" yaml:"allow_all_origins"`
}

type StaticConfig struct {
	URL  string `json:"url" yaml:"url"`
	Root string `json:"root" yaml:"root"`
}

type SecurityConfig struct {
	ContentTypeNosniff bool   `json:"content_type_nosniff" yaml:"content_type_nosniff"`
	BrowserXSSFilter   bool   `json:"browser_xss_filter" yaml:"browser_xss_filter"`
	FrameOptions       string `json:"frame_options" yaml:"frame_options"`
}

// MediaConfig selects where uploaded media is stored.
type MediaConfig struct {
	Driver string `json:"driver" yaml:"driver"`
	Root   string `json:"root,omitempty" yaml:"root,omitempty"`
	Bucket string `json:"bucket,omitempty" yaml:"bucket,omitempty"`
	Region string `json:"region,omitempty" yaml:"region,omitempty"`
}

type LogConfig struct {
	Level string `json:"level" yaml:"level"`
}

type TracingConfig struct {
	Exporter    string `json:"exporter" yaml:"exporter"`
	ServiceName string `json:"service_name" yaml:"service_name"`
}

type HTTPConfig struct {
	Port int `json:"port" yaml:"port"`
}

// Load resolves the effective configuration from an environment snapshot.
// It never reads the process environment; pass Environ() for that.
func Load(environ Environment) (*Config, error) {
	vars, err := parseEnv(environ)
	if err != nil {
		return nil, err
	}

	p, ok := lookupProfile(vars.Profile)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownProfile, vars.Profile)
	}

	cfg := p.defaults(vars.BaseDir)
	cfg.Debug = vars.Debug == constants.DebugTruthy

	if vars.DatabaseURL != "" {
		db, err := ParseDatabaseURL(vars.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve %s: %w", constants.EnvDatabaseURL, err)
		}
		cfg.Database = db
	} else {
		cfg.Database = p.fallbackDatabase(vars.BaseDir)
	}

	cfg.SecretKey = vars.SecretKey
	if cfg.SecretKey == "" {
		cfg.SecretKey = PlaceholderSecretKey
	}

	cfg.Media = resolveMedia(vars)
	cfg.Log = LogConfig{Level: strings.ToLower(vars.LogLevel)}
	if cfg.Debug {
		cfg.Log.Level = zapcore.DebugLevel.String()
	}
	cfg.Tracing = TracingConfig{
		Exporter:    strings.ToLower(vars.TracesExporter),
		ServiceName: vars.ServiceName,
	}
	cfg.HTTP = HTTPConfig{Port: vars.Port}

	return cfg, nil
}

func resolveMedia(vars envVars) MediaConfig {
	if vars.MediaBucket != "" {
		return MediaConfig{
			Driver: constants.MediaDriverS3,
			Bucket: vars.MediaBucket,
			Region: vars.MediaRegion,
		}
	}
	root := vars.MediaRoot
	if root == "" {
		root = joinBase(vars.BaseDir, DefaultMediaDir)
	}
	return MediaConfig{Driver: constants.MediaDriverFilesystem, Root: root}
}

// SecretKeyIsPlaceholder reports whether SECRET_KEY was absent and the
// insecure fallback literal is in use.
func (c *Config) SecretKeyIsPlaceholder() bool {
	return c.SecretKey == PlaceholderSecretKey
}

// Validate checks the configuration against the rules of its profile.
// All violations are reported together.
func (c *Config) Validate() error {
	var errs []error

	p, ok := lookupProfile(c.Profile)
	if !ok {
		errs = append(errs, fmt.Errorf("%w: %q", ErrUnknownProfile, c.Profile))
	}
	if ok && p.requireSecret && !c.Debug && c.SecretKeyIsPlaceholder() {
		errs = append(errs, fmt.Errorf("%w: set %s", ErrInsecureSecretKey, constants.EnvSecretKey))
	}
	if ok && !p.allowAllOrigins && c.CORS.AllowAllOrigins {
		errs = append(errs, fmt.Errorf("%w in profile %q", ErrAllowAllOrigins, c.Profile))
	}

	if len(c.Middleware) == 0 {
		errs = append(errs, ErrEmptyMiddleware)
	}
	seen := make(map[string]bool, len(c.Middleware))
	for _, name := range c.Middleware {
		if !slices.Contains(KnownMiddleware, name) {
			errs = append(errs, fmt.Errorf("%w: %q", ErrUnknownMiddleware, name))
		}
		if seen[name] {
			errs = append(errs, fmt.Errorf("%w: %q", ErrDuplicateMiddleware, name))
		}
		seen[name] = true
	}

	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("%w: %v", ErrInvalidLogLevel, err))
	}

	switch c.Tracing.Exporter {
	case constants.TracesExporterNone, constants.TracesExporterStdout, constants.TracesExporterOTLP:
	default:
		errs = append(errs, fmt.Errorf("%w: %q", ErrInvalidTracesExporter, c.Tracing.Exporter))
	}

	switch c.Media.Driver {
	case constants.MediaDriverFilesystem:
		if c.Media.Root == "" {
			errs = append(errs, fmt.Errorf("%w: filesystem driver requires a root", ErrInvalidMediaConfig))
		}
	case constants.MediaDriverS3:
		if c.Media.Bucket == "" || c.Media.Region == "" {
			errs = append(errs, fmt.Errorf("%w: s3 driver requires %s and %s",
				ErrInvalidMediaConfig, constants.EnvMediaBucket, constants.EnvMediaRegion))
		}
	default:
		errs = append(errs, fmt.Errorf("%w: unsupported driver %q", ErrInvalidMediaConfig, c.Media.Driver))
	}

	return errors.Join(errs...)
}

// Warnings lists accepted but unsafe settings that should be surfaced at startup.
func (c *Config) Warnings() []string {
	var warnings []string
	if c.SecretKeyIsPlaceholder() {
		warnings = append(warnings, fmt.Sprintf("%s is not set; using the insecure placeholder secret", constants.EnvSecretKey))
	}
	if c.CORS.AllowAllOrigins {
		warnings = append(warnings, "CORS origin restriction is disabled; every origin is allowed")
	}
	if c.Debug {
		warnings = append(warnings, "debug mode is enabled")
	}
	if c.Database.Engine == constants.EngineSQLite && strings.HasPrefix(c.Database.Name, TransientDir) {
		warnings = append(warnings, fmt.Sprintf("sqlite database %s is transient and is lost on cold start", c.Database.Name))
	}
	return warnings
}

// Clone returns a deep copy of c.
func (c *Config) Clone() *Config {
	out := *c
	out.AllowedHosts = slices.Clone(c.AllowedHosts)
	out.Middleware = slices.Clone(c.Middleware)
	out.CORS.AllowedOrigins = slices.Clone(c.CORS.AllowedOrigins)
	out.Database.Options = maps.Clone(c.Database.Options)
	return &out
}

// Redacted returns a copy of c that is safe to print.
func (c *Config) Redacted() *Config {
	out := c.Clone()
	if !out.SecretKeyIsPlaceholder() {
		out.SecretKey = redactedValue
	}
	if out.Database.Password != "" {
		out.Database.Password = redactedValue
	}
	return out
}

const redactedValue = "********"
