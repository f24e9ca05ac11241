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
	"golang.org/x/sync/errgroup"

	"github.com/yourname/symptomtracker/internal"
	"github.com/yourname/symptomtracker/internal/api"
	"github.com/yourname/symptomtracker/internal/auth"
	"github.com/yourname/symptomtracker/internal/config"
	"github.com/yourname/symptomtracker/internal/llm"
	"github.com/yourname/symptomtracker/internal/service"
	"github.com/yourname/symptomtracker/internal/storage"
)

func main() {
	cfg := config.Load()

	logger, err := internal.NewLogger(cfg.Env, cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if cfg.Env != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := storage.Open(cfg.DBType, cfg.DBDSN, cfg.FileSymptom, cfg.FileFields, logger)
	if err != nil {
		logger.Fatalf("failed to init storage: %v", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Errorf("failed to close storage: %v", err)
		}
	}()

	completer, err := llm.New(ctx, cfg.LLM, logger)
	if err != nil {
		logger.Fatalf("failed to init %s client: %v", cfg.LLM.Provider, err)
	}
	insights := service.NewInsightService(completer, cfg.LLM.MaxTokens, cfg.LLM.Temperature, logger)

	app := api.NewApplication(logger, store, store, insights)
	router := api.NewRouter(app, auth.NewProvider(cfg, logger), cfg)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Infof("server running on :%s (env=%s, storage=%s, llm=%s)", cfg.Port, cfg.Env, cfg.DBType, cfg.LLM.Provider)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Errorf("server stopped: %v", err)
	}
}
