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

	"github.com/wrenhealth/careline/internal/calendar"
	"github.com/wrenhealth/careline/internal/config"
	"github.com/wrenhealth/careline/internal/handler"
	"github.com/wrenhealth/careline/internal/observability"
	"github.com/wrenhealth/careline/internal/service/ai"
	bookingsvc "github.com/wrenhealth/careline/internal/service/booking"
	"github.com/wrenhealth/careline/internal/service/dialog"
	"github.com/wrenhealth/careline/internal/service/session"
	"github.com/wrenhealth/careline/internal/temporal"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	observability.Init()
	logger := observability.GetLogger()
	defer logger.Sync()

	if err := godotenv.Load(); err != nil {
		logger.Warn("no .env file loaded, using system environment only", zap.Error(err))
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load configuration", zap.Error(err))
	}

	sessions := session.NewManager()
	machine := bookingsvc.NewMachine(temporal.NewResolver())
	exporter := calendar.NewExporter()

	// The answer generator is optional: booking and symptom flows keep
	// working when no model credentials are configured.
	var answers dialog.AnswerGenerator
	if cfg.AI.Enabled() {
		aiService, err := ai.NewService(ctx, cfg.AI)
		if err != nil {
			logger.Warn("failed to initialize answer generation", zap.Error(err))
		} else {
			answers = aiService
			logger.Info("answer generation initialized")
		}
	} else {
		logger.Info("chat model credentials not configured, skipping answer generation")
	}

	dialogService := dialog.NewService(sessions, machine, answers)
	router := handler.NewRouter(dialogService, exporter)

	startServer(ctx, cfg.Server, router, logger)
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler, logger *zap.Logger) {
	srv := &http.Server{
		Addr:              serverCfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	logger.Info("careline backend listening", zap.String("addr", serverCfg.Addr))
	if err := runServer(ctx, srv); err != nil {
		logger.Fatal("server error", zap.Error(err))
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
