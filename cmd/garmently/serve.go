package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/garmently/garmently/config"
	"github.com/garmently/garmently/constants"
	garmentlyhttp "github.com/garmently/garmently/http"
	"github.com/garmently/garmently/logger"
)

const (
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 15 * time.Second
)

// newServeCmd creates the 'serve' subcommand.
func newServeCmd() *cobra.Command {
	var port int
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the backend as a long-running HTTP server",
		Run: func(cmd *cobra.Command, args []string) {
			run(cmd, func() error {
				ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
				defer stop()
				environ := environment()
				if cmd.Flags().Changed("port") {
					environ[constants.EnvPort] = strconv.Itoa(port)
				}
				return serve(ctx, environ, nil)
			})
		},
	}
	cmd.Flags().IntVar(&port, "port", constants.DefaultHTTPPort, "Port to listen on (overrides "+constants.EnvPort+")")
	return cmd
}

// serve runs the application until ctx is cancelled. If ready is non-nil it
// receives the bound address once the listener is open.
func serve(ctx context.Context, environ config.Environment, ready chan<- string) error {
	app, err := garmentlyhttp.Bootstrap(ctx, environ)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := app.Close(closeCtx); err != nil {
			logger.Error("failed to release resources: %v", err)
		}
	}()

	cfg := app.Config()
	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.HTTP.Port))
	if err != nil {
		return fmt.Errorf("failed to listen on port %d: %w", cfg.HTTP.Port, err)
	}
	srv := &http.Server{
		Handler:           app,
		ReadHeaderTimeout: readHeaderTimeout,
		ErrorLog:          logger.StdLogger(),
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()
	logger.Info("listening on %s (profile=%s)", ln.Addr(), cfg.Profile)
	if ready != nil {
		ready <- ln.Addr().String()
	}

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}
