package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/garmently/garmently/blob"
	"github.com/garmently/garmently/config"
	"github.com/garmently/garmently/constants"
	"github.com/garmently/garmently/logger"
	"github.com/garmently/garmently/storage"
	"github.com/garmently/garmently/telemetry"
)

const (
	mediaURL        = "/media/"
	statusPingLimit = 3 * time.Second
)

// Application is the request handler built from an effective configuration.
type Application struct {
	cfg     *config.Config
	router  chi.Router
	store   storage.Storage
	media   blob.BlobStore
	closers []func(context.Context) error
}

var _ http.Handler = (*Application)(nil)

// NewApplication wires logging, tracing, the database, media storage and the
// middleware pipeline for cfg. cfg is copied; later changes to it are ignored.
func NewApplication(ctx context.Context, cfg *config.Config) (*Application, error) {
	cfg = cfg.Clone()
	app := &Application{cfg: cfg}

	if err := logger.SetLevel(cfg.Log.Level); err != nil {
		return nil, err
	}

	shutdown, err := telemetry.Init(ctx, cfg.Tracing)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize tracing: %w", err)
	}
	app.closers = append(app.closers, shutdown)

	store, err := storage.Open(ctx, cfg.Database)
	if err != nil {
		app.Close(ctx)
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	app.store = store
	app.closers = append(app.closers, func(context.Context) error { return store.Close() })

	media, err := blob.NewDefaultBlobStore(ctx, cfg.Media)
	if err != nil {
		app.Close(ctx)
		return nil, fmt.Errorf("failed to initialize media storage: %w", err)
	}
	app.media = media

	chain, err := BuildMiddleware(cfg)
	if err != nil {
		app.Close(ctx)
		return nil, err
	}
	app.router = app.routes(chain)

	logger.Info("application ready: profile=%s debug=%t database=%s media=%s",
		cfg.Profile, cfg.Debug, cfg.Database.Engine, media.Driver())
	return app, nil
}

func (a *Application) routes(chain []Middleware) chi.Router {
	r := chi.NewRouter()
	r.Use(chain...)

	r.Get(constants.PathHealth, a.health)
	r.Get(constants.PathHello, a.hello)
	r.Get(constants.PathStatus, a.status)
	r.Method(http.MethodGet, constants.PathMetrics, telemetry.MetricsHandler())
	r.Get(mediaURL+"*", a.serveMedia)
	r.Handle(a.cfg.Static.URL+"*", staticHandler(a.cfg.Static))

	return r
}

func (a *Application) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.router.ServeHTTP(w, r)
}

// Config returns a copy of the effective configuration.
func (a *Application) Config() *config.Config {
	return a.cfg.Clone()
}

// Close releases the database and flushes traces.
func (a *Application) Close(ctx context.Context) error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

func (a *Application) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{"status": constants.StatusHealthy})
}

func (a *Application) hello(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{"message": constants.ResponseHello})
}

type componentStatus struct {
	Engine string `json:"engine,omitempty"`
	Driver string `json:"driver,omitempty"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type statusResponse struct {
	Status   string          `json:"status"`
	Profile  string          `json:"profile"`
	Debug    bool            `json:"debug"`
	Database componentStatus `json:"database"`
	Media    componentStatus `json:"media"`
	Time     time.Time       `json:"time"`
}

func (a *Application) status(w http.ResponseWriter, r *http.Request) {
	resp := statusResponse{
		Status:   constants.StatusOK,
		Profile:  a.cfg.Profile,
		Debug:    a.cfg.Debug,
		Database: componentStatus{Engine: a.store.Engine(), Status: constants.StatusOK},
		Media:    componentStatus{Driver: a.media.Driver(), Status: constants.StatusOK},
		Time:     time.Now().UTC(),
	}
	code := http.StatusOK

	ctx, cancel := context.WithTimeout(r.Context(), statusPingLimit)
	defer cancel()
	if err := a.store.Ping(ctx); err != nil {
		logger.ErrorCtx(r.Context(), "database ping failed", "error", err)
		resp.Status = constants.StatusUnhealthy
		resp.Database.Status = constants.StatusUnhealthy
		if a.cfg.Debug {
			resp.Database.Error = err.Error()
		}
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, r, code, resp)
}

func (a *Application) serveMedia(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "*")
	clean := strings.TrimPrefix(path.Clean("/"+name), "/")
	if name == "" || clean != name {
		http.NotFound(w, r)
		return
	}
	data, err := a.media.Get(r.Context(), a.media.URL(clean))
	if err != nil {
		logger.DebugCtx(r.Context(), "media lookup failed", "name", clean, "error", err)
		http.NotFound(w, r)
		return
	}
	if ct := mime.TypeByExtension(path.Ext(clean)); ct != "" {
		w.Header().Set(constants.HeaderContentType, ct)
	}
	w.Write(data)
}

// staticHandler serves files under cfg.Root without directory listings.
func staticHandler(cfg config.StaticConfig) http.Handler {
	fs := http.StripPrefix(cfg.URL, http.FileServer(http.Dir(cfg.Root)))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		if strings.HasSuffix(r.URL.Path, "/") {
			http.NotFound(w, r)
			return
		}
		fs.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, r *http.Request, code int, v any) {
	w.Header().Set(constants.HeaderContentType, constants.ContentTypeJSON)
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.ErrorCtx(r.Context(), fmt.Sprintf(constants.LogFailedWriteResponse, err))
	}
}
