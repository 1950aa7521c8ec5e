package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"questbot-backend/internal/ai"
	"questbot-backend/internal/config"
	"questbot-backend/internal/db"
	"questbot-backend/internal/personality"
	"questbot-backend/internal/questbot"
)

func main() {
	cfg := config.Load()

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		panic(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var database *sql.DB
	if dsn := cfg.ConnString(); dsn != "" {
		database, err = db.Connect(cfg.AnalyticsDriver, dsn)
		if err != nil {
			logger.Fatal("failed to connect analytics database", zap.String("driver", cfg.AnalyticsDriver), zap.Error(err))
		}
		if err := db.Migrate(ctx, database, cfg.AnalyticsDriver); err != nil {
			logger.Fatal("failed to migrate analytics database", zap.Error(err))
		}
		logger.Info("analytics enabled", zap.String("driver", cfg.AnalyticsDriver))
	}

	completer, err := newCompleter(cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialize completion client", zap.Error(err))
	}

	relay := questbot.New(completer, database, logger)
	relay.Timeout = cfg.CompletionTimeout
	if cfg.EstimateTokens {
		relay.Tokens = ai.NewTokenCounter(cfg.OpenAIModel)
	}

	if cfg.ServeStatic {
		logger.Info("serving static files", zap.String("dir", cfg.StaticDir))
	}

	srv := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: newHandler(cfg, relay, database, logger),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("API server is running", zap.String("addr", cfg.ListenAddr), zap.String("provider", cfg.LLMProvider), zap.String("model", cfg.OpenAIModel), zap.Strings("personalities", personality.Keys()))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server stopped", zap.Error(err))
		}
	case <-ctx.Done():
		logger.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	closeErr := srv.Shutdown(shutdownCtx)
	if database != nil {
		closeErr = multierr.Append(closeErr, database.Close())
	}
	if closeErr != nil {
		logger.Error("shutdown incomplete", zap.Error(closeErr))
	}
	_ = logger.Sync()
}

func newLogger(level string) (*zap.Logger, error) {
	if level == "debug" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func newCompleter(cfg *config.Config, logger *zap.Logger) (ai.Completer, error) {
	if cfg.LLMProvider == config.ProviderLangChain {
		token := cfg.OpenAIKey
		if token == "" {
			// local OpenAI-compatible servers ignore the key
			token = "unused"
		}
		return ai.NewLangChain(token, cfg.OpenAIBaseURL, cfg.OpenAIModel, cfg.Temperature)
	}

	if cfg.OpenAIKey == "" {
		logger.Warn("OPENAI_API_KEY is not set; /questbot requests will fail")
	}
	return ai.New(cfg.OpenAIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel, cfg.Temperature), nil
}
