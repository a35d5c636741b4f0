// Command tioanime-api serves the catalog operations and the followed-title
// library as a JSON HTTP API.
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pevans/tioanime"
	"github.com/pevans/tioanime/config"
	"github.com/pevans/tioanime/library"
	"github.com/pevans/tioanime/scrape"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := cfg.Logger(os.Getenv("GIN_MODE") != gin.ReleaseMode)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server failed", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	if err := cfg.EnsureLibraryDir(); err != nil {
		return err
	}
	store, err := library.NewStore(cfg.LibraryDSN)
	if err != nil {
		return err
	}
	defer store.Close()

	fetcher := scrape.NewHTTPFetcher(cfg.Timeout)
	if cfg.UserAgent != "" {
		fetcher.UserAgent = cfg.UserAgent
	}

	client := tioanime.NewClient(
		tioanime.WithBaseURL(cfg.BaseURL),
		tioanime.WithFetcher(fetcher),
		tioanime.WithLogger(logger),
	)

	server := &http.Server{
		Addr:              cfg.APIAddr,
		Handler:           tioanime.NewAPIServer(client, store, logger).SetupRouter(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting API server",
			zap.String("addr", cfg.APIAddr),
			zap.String("site", cfg.BaseURL),
			zap.String("library", cfg.LibraryDSN))
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		logger.Info("shutting down API server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
