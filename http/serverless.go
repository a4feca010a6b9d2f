package http

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/garmently/garmently/config"
	"github.com/garmently/garmently/constants"
	"github.com/garmently/garmently/logger"
)

// BuildFunc constructs the handler a Delegate serves.
type BuildFunc func() (http.Handler, error)

// Delegate is a single-assignment holder for the application handler.
// The handler is built on first use and never rebuilt; a build error is
// cached and reported for every later request.
type Delegate struct {
	once    sync.Once
	build   BuildFunc
	handler http.Handler
	err     error
}

var _ http.Handler = (*Delegate)(nil)

// NewDelegate returns a Delegate that builds its handler with build.
func NewDelegate(build BuildFunc) *Delegate {
	return &Delegate{build: build}
}

// Handler returns the handler, building it on the first call.
func (d *Delegate) Handler() (http.Handler, error) {
	d.once.Do(func() {
		d.handler, d.err = d.build()
		if d.err == nil && d.handler == nil {
			d.err = fmt.Errorf("delegate build returned no handler")
		}
		if d.err != nil {
			d.handler = nil
		}
	})
	return d.handler, d.err
}

func (d *Delegate) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h, err := d.Handler()
	if err != nil {
		logger.Error(constants.LogInitFailed, err)
		http.Error(w, constants.ResponseInternalError, http.StatusInternalServerError)
		return
	}
	h.ServeHTTP(w, r)
}

// Bootstrap resolves and validates the configuration from environ and builds
// the Application. GARMENTLY_PROFILE defaults to the strict profile.
func Bootstrap(ctx context.Context, environ config.Environment) (*Application, error) {
	environ = environ.WithDefault(constants.EnvProfile, constants.DefaultProfile)

	cfg, err := config.Load(environ)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid %s configuration: %w", cfg.Profile, err)
	}
	for _, warning := range cfg.Warnings() {
		logger.Warn("%s", warning)
	}
	return NewApplication(ctx, cfg)
}

var (
	serverlessMu       sync.RWMutex
	serverlessDelegate = newServerlessDelegate()
)

func newServerlessDelegate() *Delegate {
	return NewDelegate(func() (http.Handler, error) {
		return Bootstrap(context.Background(), config.Environ())
	})
}

// ServerlessHandler serves a request with the process-wide Delegate, which is
// built from the process environment on the first request.
func ServerlessHandler(w http.ResponseWriter, r *http.Request) {
	serverlessMu.RLock()
	d := serverlessDelegate
	serverlessMu.RUnlock()
	d.ServeHTTP(w, r)
}

// ResetServerless discards the process-wide Delegate (for testing).
func ResetServerless() {
	serverlessMu.Lock()
	defer serverlessMu.Unlock()
	serverlessDelegate = newServerlessDelegate()
}
