// cmd/server/main.go
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"mira-backend/internal/clients/openai"
	"mira-backend/internal/clients/tavily"
	"mira-backend/internal/common/config"
	"mira-backend/internal/common/logger"
	"mira-backend/internal/common/observability"
	"mira-backend/internal/pipeline"
	"mira-backend/internal/server"
	buildreport "mira-backend/internal/stages/build-report"
	researchproducts "mira-backend/internal/stages/research-products"
	validateinputs "mira-backend/internal/stages/validate-inputs"
	verifylinks "mira-backend/internal/stages/verify-links"
	websearch "mira-backend/internal/stages/web-search"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		zap.NewExample().Fatal("failed to load configuration", zap.Error(err))
	}

	zapLogger := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLogger.Sync()
	log := logger.NewZapAdapter(zapLogger)

	log.Info("starting mira backend", map[string]interface{}{
		"version":     cfg.App.Version,
		"environment": cfg.App.Environment,
		"bindAddr":    cfg.Server.BindAddr,
	})

	if cfg.OpenAI.APIKey == "" {
		log.Warn("OPENAI_API_KEY is not set, report generation will fail", nil)
	}
	if cfg.Tavily.APIKey == "" {
		log.Warn("TAVILY_API_KEY is not set, web search will be skipped", nil)
	}

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	aiClient := openai.NewClient(openai.Config{
		APIKey:  cfg.OpenAI.APIKey,
		BaseURL: cfg.OpenAI.BaseURL,
		Timeout: cfg.OpenAI.TimeoutDuration(),
	})
	searchClient := tavily.NewClient(tavily.Config{
		APIKey:      cfg.Tavily.APIKey,
		BaseURL:     cfg.Tavily.BaseURL,
		SearchDepth: cfg.Tavily.SearchDepth,
		MaxResults:  cfg.Tavily.MaxResults,
		Timeout:     cfg.Tavily.TimeoutDuration(),
	})

	generator := pipeline.NewGenerator(
		validateinputs.NewHandler(validateinputs.DefaultConfig(cfg.OpenAI.ValidationModel), aiClient, log),
		websearch.NewHandler(searchClient, log),
		researchproducts.NewHandler(researchproducts.DefaultConfig(cfg.OpenAI.ResearchModel), aiClient, log),
		verifylinks.NewHandler(&verifylinks.Config{
			Timeout:        cfg.Verifier.TimeoutDuration(),
			MaxConcurrency: cfg.Verifier.MaxConcurrency,
			UserAgent:      cfg.Verifier.UserAgent,
		}, log),
		buildreport.NewHandler(log),
		obs,
		log,
	)

	srv := server.New(cfg, generator, log)
	httpServer := &http.Server{
		Addr:         cfg.Server.BindAddr,
		Handler:      srv.Router(),
		ReadTimeout:  cfg.Server.ReadTimeoutDuration(),
		WriteTimeout: cfg.Server.WriteTimeoutDuration(),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("http server listening", map[string]interface{}{"addr": cfg.Server.BindAddr})
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received", nil)
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server failed", map[string]interface{}{"error": err.Error()})
			os.Exit(1)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeoutDuration())
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", map[string]interface{}{"error": err.Error()})
	}
	log.Info("server stopped", nil)
}
