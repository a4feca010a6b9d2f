package http

import (
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/rs/cors"

	"github.com/garmently/garmently/config"
	"github.com/garmently/garmently/constants"
	"github.com/garmently/garmently/logger"
	"github.com/garmently/garmently/telemetry"
)

// Middleware wraps a handler.
type Middleware = func(http.Handler) http.Handler

type middlewareFactory func(cfg *config.Config) Middleware

var middlewareFactories = map[string]middlewareFactory{
	config.MiddlewareRecoverer:    func(*config.Config) Middleware { return middleware.Recoverer },
	config.MiddlewareRequestID:    func(*config.Config) Middleware { return requestID },
	config.MiddlewareLogging:      func(*config.Config) Middleware { return accessLog },
	config.MiddlewareTelemetry:    newTelemetry,
	config.MiddlewareCORS:         newCORS,
	config.MiddlewareSecurity:     newSecurityHeaders,
	config.MiddlewareAllowedHosts: newAllowedHosts,
	config.MiddlewareClickjacking: newClickjacking,
}

// BuildMiddleware returns the configured pipeline, outermost first.
func BuildMiddleware(cfg *config.Config) ([]Middleware, error) {
	chain := make([]Middleware, 0, len(cfg.Middleware))
	for _, name := range cfg.Middleware {
		factory, ok := middlewareFactories[name]
		if !ok {
			return nil, fmt.Errorf("%w: %q", config.ErrUnknownMiddleware, name)
		}
		chain = append(chain, factory(cfg))
	}
	return chain, nil
}

func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(constants.HeaderRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(constants.HeaderRequestID, id)
		next.ServeHTTP(w, r.WithContext(logger.WithRequestID(r.Context(), id)))
	})
}

func accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		logger.InfoCtx(r.Context(), "request",
			"method", r.Method,
			"path", r.URL.Path,
			"host", r.Host,
			"status", status,
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
		)
	})
}

func newTelemetry(cfg *config.Config) Middleware {
	name := cfg.Tracing.ServiceName
	if name == "" {
		name = constants.DefaultServiceName
	}
	return func(next http.Handler) http.Handler {
		return telemetry.WrapHandler(name, next)
	}
}

func newCORS(cfg *config.Config) Middleware {
	if cfg.CORS.AllowAllOrigins {
		return cors.AllowAll().Handler
	}
	opts := cors.Options{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodPatch,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders: []string{
			"Accept",
			constants.HeaderAuthorization,
			constants.HeaderContentType,
			constants.HeaderRequestID,
		},
		ExposedHeaders: []string{constants.HeaderRequestID},
		MaxAge:         constants.DefaultCORSMaxAgeSeconds,
	}
	if cfg.Debug {
		opts.Debug = true
		opts.Logger = logger.StdLogger()
	}
	return cors.New(opts).Handler
}

func newSecurityHeaders(cfg *config.Config) Middleware {
	sec := cfg.Security
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if sec.ContentTypeNosniff {
				w.Header().Set(constants.HeaderContentTypeOptions, constants.ValueNoSniff)
			}
			if sec.BrowserXSSFilter {
				w.Header().Set(constants.HeaderXSSProtection, constants.ValueXSSBlock)
			}
			next.ServeHTTP(w, r)
		})
	}
}

func newClickjacking(cfg *config.Config) Middleware {
	value := cfg.Security.FrameOptions
	if value == "" {
		value = constants.FrameOptionsDeny
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Handlers may still override it.
			if w.Header().Get(constants.HeaderFrameOptions) == "" {
				w.Header().Set(constants.HeaderFrameOptions, value)
			}
			next.ServeHTTP(w, r)
		})
	}
}

func newAllowedHosts(cfg *config.Config) Middleware {
	patterns := make([]string, len(cfg.AllowedHosts))
	for i, p := range cfg.AllowedHosts {
		patterns[i] = strings.ToLower(p)
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !HostAllowed(r.Host, patterns) {
				logger.WarnCtx(r.Context(), constants.LogDisallowedHost, "host", r.Host)
				http.Error(w, constants.ResponseBadHost, http.StatusBadRequest)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// HostAllowed reports whether host (optionally with a port) matches one of
// the lower-case patterns. "*" matches everything and a leading dot matches
// the domain itself and all of its subdomains.
func HostAllowed(host string, patterns []string) bool {
	domain := hostDomain(host)
	if domain == "" {
		return false
	}
	for _, p := range patterns {
		switch {
		case p == "*":
			return true
		case strings.HasPrefix(p, "."):
			if domain == p[1:] || strings.HasSuffix(domain, p) {
				return true
			}
		case domain == p:
			return true
		}
	}
	return false
}

// hostDomain lower-cases host and strips any port and trailing dot.
// IPv6 literals keep their brackets, e.g. "[::1]".
func hostDomain(host string) string {
	host = strings.ToLower(strings.TrimSpace(host))
	if strings.HasSuffix(host, "]") {
		return host
	}
	if h, _, err := net.SplitHostPort(host); err == nil {
		if strings.Contains(h, ":") {
			return "[" + h + "]"
		}
		host = h
	}
	return strings.TrimSuffix(host, ".")
}
