package main

import (
	"FairShare/config/environment"
	"FairShare/config/logger"
	"FairShare/controllers"
	route "FairShare/routes"
	"FairShare/services"
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	// Load environment variables
	if os.Getenv("APP_ENV") != "production" {
		if err := godotenv.Load(); err != nil {
			log.Println("⚠️  No .env file found, using process environment")
		}
	}

	cfg, err := environment.Load()
	if err != nil {
		log.Fatalf("❌ Invalid configuration: %v", err)
	}

	logr, err := logger.New(cfg.LogLevel, cfg.AppEnv)
	if err != nil {
		log.Fatalf("❌ Logger init failed: %v", err)
	}
	defer func() { _ = logr.Sync() }()

	if err := run(cfg, logr); err != nil {
		logr.Fatalw("server stopped with error", "error", err)
	}
}

func run(cfg *environment.Config, logr *zap.SugaredLogger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	engine, err := newVisionEngine(ctx, cfg, logr)
	if err != nil {
		return err
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	receiptService := services.NewReceiptService(engine, logr)
	receiptController := controllers.NewReceiptController(receiptService)
	r := route.NewRouter(route.Options{
		AllowOrigins:   cfg.AllowOrigins,
		MaxUploadBytes: cfg.MaxUploadBytes,
	}, logr, receiptController)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logr.Infow("🚀 Server running", "addr", srv.Addr, "provider", engine.Name())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logr.Infow("shutting down", "timeout", cfg.ShutdownTimeout)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// newVisionEngine builds the engine selected by VISION_PROVIDER.
func newVisionEngine(ctx context.Context, cfg *environment.Config, logr *zap.SugaredLogger) (services.VisionEngine, error) {
	switch cfg.Provider {
	case environment.ProviderGemini:
		gemini, err := services.NewGeminiService(ctx, services.GeminiConfig{
			APIKey:           cfg.GeminiAPIKey,
			BaseURL:          cfg.GeminiBaseURL,
			Model:            cfg.GeminiModel,
			MaxTokens:        cfg.MaxTokens,
			Timeout:          cfg.VisionTimeout,
			StructuredOutput: cfg.StructuredOutput,
		}, logr)
		if err != nil {
			return nil, err
		}
		return gemini, nil
	default:
		return services.NewOpenAIService(services.OpenAIConfig{
			APIKey:           cfg.OpenAIAPIKey,
			BaseURL:          cfg.OpenAIBaseURL,
			Model:            cfg.OpenAIModel,
			MaxTokens:        cfg.MaxTokens,
			Timeout:          cfg.VisionTimeout,
			StructuredOutput: cfg.StructuredOutput,
		}, logr), nil
	}
}
