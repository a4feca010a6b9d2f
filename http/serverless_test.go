package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/garmently/garmently/config"
	"github.com/garmently/garmently/constants"
	"github.com/garmently/garmently/testutil"
)

func TestDelegate_BuildsOnce(t *testing.T) {
	var builds atomic.Int32
	d := NewDelegate(func() (http.Handler, error) {
		builds.Add(1)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("delegated"))
		}), nil
	})
	assert.Zero(t, builds.Load())

	var wg sync.WaitGroup
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rec := httptest.NewRecorder()
			d.ServeHTTP(rec, newRequest(http.MethodGet, "/"))
			assert.Equal(t, "delegated", rec.Body.String())
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), builds.Load())
}

func TestDelegate_CachesBuildError(t *testing.T) {
	var builds atomic.Int32
	buildErr := errors.New("database unreachable")
	d := NewDelegate(func() (http.Handler, error) {
		builds.Add(1)
		return nil, buildErr
	})

	for range 3 {
		rec := httptest.NewRecorder()
		d.ServeHTTP(rec, newRequest(http.MethodGet, "/"))
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Contains(t, rec.Body.String(), constants.ResponseInternalError)
	}

	h, err := d.Handler()
	assert.Nil(t, h)
	assert.ErrorIs(t, err, buildErr)
	assert.Equal(t, int32(1), builds.Load())
}

func TestDelegate_NilHandler(t *testing.T) {
	d := NewDelegate(func() (http.Handler, error) { return nil, nil })

	h, err := d.Handler()
	assert.Nil(t, h)
	assert.Error(t, err)
}

func TestDelegate_TypedNilHandler(t *testing.T) {
	d := NewDelegate(func() (http.Handler, error) {
		var app *Application
		return app, errors.New("failed")
	})

	h, err := d.Handler()
	assert.Error(t, err)
	assert.True(t, h == nil)
}

func TestBootstrap_DefaultsToStrictProfile(t *testing.T) {
	_, err := Bootstrap(context.Background(), config.Environment{
		constants.EnvBaseDir: t.TempDir(),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, config.ErrInsecureSecretKey)
}

func TestBootstrap_Strict(t *testing.T) {
	base := t.TempDir()
	app, err := Bootstrap(context.Background(), config.Environment{
		constants.EnvBaseDir:   base,
		constants.EnvSecretKey: "s3cret",
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close(context.Background()) })

	cfg := app.Config()
	assert.Equal(t, constants.ProfileStrict, cfg.Profile)
	assert.False(t, cfg.CORS.AllowAllOrigins)
	assert.Equal(t, filepath.Join(base, config.DefaultSQLiteFile), cfg.Database.Name)
}

func TestBootstrap_StrictDebugAllowsPlaceholder(t *testing.T) {
	app, err := Bootstrap(context.Background(), config.Environment{
		constants.EnvBaseDir: t.TempDir(),
		constants.EnvDebug:   "True",
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close(context.Background()) })

	assert.True(t, app.Config().SecretKeyIsPlaceholder())
}

func TestBootstrap_Permissive(t *testing.T) {
	app, err := Bootstrap(context.Background(), config.Environment{
		constants.EnvProfile:     constants.ProfilePermissive,
		constants.EnvDatabaseURL: "sqlite:///" + filepath.Join(t.TempDir(), "db.sqlite3"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close(context.Background()) })

	cfg := app.Config()
	assert.Equal(t, constants.ProfilePermissive, cfg.Profile)
	assert.True(t, cfg.CORS.AllowAllOrigins)
	assert.True(t, cfg.SecretKeyIsPlaceholder())
}

func TestBootstrap_UnknownProfile(t *testing.T) {
	_, err := Bootstrap(context.Background(), config.Environment{
		constants.EnvProfile: "staging",
	})
	assert.ErrorIs(t, err, config.ErrUnknownProfile)
}

func TestBootstrap_InvalidDatabaseURL(t *testing.T) {
	_, err := Bootstrap(context.Background(), config.Environment{
		constants.EnvSecretKey:   "s3cret",
		constants.EnvDatabaseURL: "mysql://u:p@db/app",
	})
	assert.ErrorIs(t, err, config.ErrUnsupportedDatabaseScheme)
}

// A fully specified environment resolves to exactly what it names.
func TestBootstrap_ExplicitEnvironment(t *testing.T) {
	app, err := Bootstrap(context.Background(), config.Environment{
		constants.EnvBaseDir:     t.TempDir(),
		constants.EnvDatabaseURL: "postgres://app:pw@db.internal:5432/garmently",
		constants.EnvSecretKey:   "s3cret",
		constants.EnvDebug:       "True",
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close(context.Background()) })

	cfg := app.Config()
	assert.True(t, cfg.Debug)
	assert.Equal(t, "s3cret", cfg.SecretKey)
	assert.Equal(t, constants.EnginePostgres, cfg.Database.Engine)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "garmently", cfg.Database.Name)
}

func TestServerlessHandler(t *testing.T) {
	testutil.CleanEnv(t, map[string]string{constants.EnvSecretKey: "s3cret"})
	ResetServerless()
	t.Cleanup(ResetServerless)

	rec := httptest.NewRecorder()
	ServerlessHandler(rec, newRequest(http.MethodGet, constants.PathHealth))
	assert.Equal(t, http.StatusOK, rec.Code)

	// The handler is fixed after the first request.
	t.Setenv(constants.EnvSecretKey, "")
	rec = httptest.NewRecorder()
	ServerlessHandler(rec, newRequest(http.MethodGet, constants.PathHealth))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestServerlessHandler_InitFailure(t *testing.T) {
	testutil.CleanEnv(t, nil)
	ResetServerless()
	t.Cleanup(ResetServerless)

	rec := httptest.NewRecorder()
	ServerlessHandler(rec, newRequest(http.MethodGet, constants.PathHealth))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
