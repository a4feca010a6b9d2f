package config

import (
	"fmt"
	"maps"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"

	"github.com/garmently/garmently/constants"
)

// Environment is a snapshot of environment variables.
type Environment map[string]string

// Environ snapshots the process environment.
func Environ() Environment {
	return Environment(env.ToMap(os.Environ()))
}

// WithDefault returns a copy of e with key set to value unless key is already
// present and non-empty.
func (e Environment) WithDefault(key, value string) Environment {
	out := maps.Clone(e)
	if out == nil {
		out = Environment{}
	}
	if out[key] == "" {
		out[key] = value
	}
	return out
}

// envVars mirrors the environment variables the resolver reads.
// Empty values are treated the same as unset ones.
type envVars struct {
	Profile        string `env:"GARMENTLY_PROFILE" envDefault:"strict"`
	Debug          string `env:"DEBUG"`
	DatabaseURL    string `env:"DATABASE_URL"`
	SecretKey      string `env:"SECRET_KEY"`
	SecretKeyFile  string `env:"SECRET_KEY_FILE,file"`
	BaseDir        string `env:"BASE_DIR" envDefault:"."`
	LogLevel       string `env:"LOG_LEVEL" envDefault:"info"`
	Port           int    `env:"PORT" envDefault:"8000"`
	MediaRoot      string `env:"MEDIA_ROOT"`
	MediaBucket    string `env:"AWS_STORAGE_BUCKET_NAME"`
	MediaRegion    string `env:"AWS_S3_REGION_NAME"`
	TracesExporter string `env:"OTEL_TRACES_EXPORTER" envDefault:"none"`
	ServiceName    string `env:"OTEL_SERVICE_NAME" envDefault:"garmently-backend"`
}

func parseEnv(environ Environment) (envVars, error) {
	var vars envVars
	if environ == nil {
		environ = Environment{}
	}
	if err := env.ParseWithOptions(&vars, env.Options{Environment: environ}); err != nil {
		return envVars{}, fmt.Errorf("error getting env configs: %w", err)
	}
	vars.Profile = orDefault(vars.Profile, constants.DefaultProfile)
	vars.BaseDir = orDefault(vars.BaseDir, DefaultBaseDir)
	vars.LogLevel = orDefault(vars.LogLevel, "info")
	vars.TracesExporter = orDefault(vars.TracesExporter, constants.TracesExporterNone)
	vars.ServiceName = orDefault(vars.ServiceName, constants.DefaultServiceName)
	// SECRET_KEY wins over a mounted secret file.
	vars.SecretKey = orDefault(vars.SecretKey, strings.TrimSpace(vars.SecretKeyFile))
	return vars, nil
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
