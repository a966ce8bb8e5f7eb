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

	"github.com/KirthanNB/Zchedule.ai/internal"
	api "github.com/KirthanNB/Zchedule.ai/internal/api"
	"github.com/KirthanNB/Zchedule.ai/internal/config"
	"github.com/KirthanNB/Zchedule.ai/internal/llm"
	"github.com/KirthanNB/Zchedule.ai/internal/service"
	"github.com/KirthanNB/Zchedule.ai/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid config: %v", err)
	}
	logger, err := internal.NewLogger(cfg.Env, cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync()

	for _, w := range cfg.Warnings() {
		logger.Warnf("config: %s", w)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store := storage.Open(ctx, cfg, logger)
	defer func() {
		if err := store.Close(); err != nil {
			logger.Errorf("storage: close: %v", err)
		}
	}()

	client := llm.NewOpenAIClient(cfg.LLM)
	svc := service.NewScheduleService(store, store, service.NewSynthesizer(client, logger), logger)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := api.NewRouter(&api.Deps{Log: logger, Cfg: cfg, Schedule: svc})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Infof("server running on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("shutdown: %v", err)
	}
}
