package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/finance1/summary-agent/backend/internal/config"
	"github.com/finance1/summary-agent/backend/internal/handler"
	"github.com/finance1/summary-agent/backend/internal/logger"
	agentService "github.com/finance1/summary-agent/backend/internal/service/agent"
	"github.com/finance1/summary-agent/backend/internal/service/ai"
	"github.com/finance1/summary-agent/backend/internal/service/storage"
	"github.com/finance1/summary-agent/backend/internal/service/zoho"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logger.New("info", "console").Fatal("failed to load configuration", zap.Error(err))
	}

	log := logger.New(cfg.Log.Level, cfg.Log.Format)
	defer log.Sync()

	if envErr != nil {
		log.Info("no .env file loaded, using system environment", zap.Error(envErr))
	}

	// Zoho CRM access
	var tokens agentService.TokenSource
	var records agentService.RecordSource
	if cfg.Zoho.Enabled() {
		tokens = zoho.NewTokenProvider(cfg.Zoho, log)
		records = zoho.NewClient(cfg.Zoho, log)
		log.Info("Zoho CRM client initialized", zap.String("api_domain", cfg.Zoho.APIDomain))
	} else {
		log.Warn("Zoho credentials not configured, CRM-backed endpoints disabled")
	}

	// Generation backend
	var generator agentService.Generator
	if cfg.AI.Enabled() {
		aiSvc, err := ai.NewService(ctx, cfg.AI, log)
		if err != nil {
			log.Warn("failed to initialize generation backend, continuing without it", zap.Error(err))
		} else {
			generator = aiSvc
			log.Info("generation backend initialized", zap.String("model", cfg.AI.Model))
		}
	} else {
		log.Warn("GOOGLE_API_KEY not set, generation disabled")
	}

	// Missing credentials surface as configuration errors per request
	// instead of unrouted endpoints.
	orchestrator := agentService.NewService(tokens, records, generator, log)

	// Document storage
	var store *storage.Store
	if cfg.Storage.Enabled() {
		store = storage.New(cfg.Storage.UploadDir, log)
		log.Info("document storage initialized", zap.String("dir", cfg.Storage.UploadDir))
	} else {
		log.Warn("UPLOAD_DIR not set, uploads disabled")
	}

	deps := handler.Deps{
		Orchestrator: orchestrator,
		Streamer:     orchestrator,
		ScanEnabled:  cfg.Features.ScanEnabled,
		Development:  cfg.Features.Development(),
		Log:          log,
	}
	if store != nil {
		deps.Store = store
	}

	startServer(ctx, cfg.Server, handler.NewRouter(deps), log)
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler, log *zap.Logger) {
	srv := &http.Server{
		Addr:              serverCfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Info("widget backend listening", zap.String("addr", serverCfg.Addr))
	if err := runServer(ctx, srv); err != nil {
		log.Fatal("server error", zap.Error(err))
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
