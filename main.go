package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

const (
	releaseVersion = "1.0.0"
)

func main() {
	_ = godotenv.Load()
	cfg := &Config{}
	cobra.CheckErr(newCmd(cfg).Execute())
}

// serve wires the app from cfg and runs the HTTP server until SIGINT or SIGTERM.
func serve(ctx context.Context, cfg *Config) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	app, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := app.Close(); err != nil {
			logWarn("Closing app: %v", err)
		}
	}()

	logInfo("Starting Semord in %s mode (store %s, timezone %s)", envName(app.IsProduction), cfg.store, app.Selector.Location())

	go app.runJanitor(ctx, cfg.janitorInterval)

	startServer(app.newRouter(), strconv.Itoa(cfg.port))
	cancel()
	return nil
}

func startServer(handler http.Handler, port string) {
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	idleConnsClosed := make(chan struct{})
	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, syscall.SIGINT, syscall.SIGTERM)
		<-sigint
		logInfo("Shutdown signal received, shutting down server gracefully...")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logWarn("HTTP server Shutdown: %v", err)
		}
		close(idleConnsClosed)
	}()

	logInfo("Server starting on http://localhost:%s", port)
	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		logFatal("Server failed to start: %v", err)
	}
	<-idleConnsClosed
	logInfo("Server shutdown complete")
}
