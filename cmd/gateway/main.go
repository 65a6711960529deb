package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"tau-journal/clients"
	"tau-journal/config"
	"tau-journal/gateway"
	"tau-journal/helper"
	"tau-journal/identity"
	"tau-journal/middleware"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	logger, err := config.NewLogger(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}
	defer logger.Sync()

	httpHelper, err := helper.NewHTTPHelper()
	if err != nil {
		logger.Fatal("validator init failed", zap.Error(err))
	}
	middleware.HTTPHelper = httpHelper

	// The gateway is the trust boundary: it always verifies the bearer
	// token itself, never forwarded headers.
	verifier := identity.NewVerifier(cfg.JWTSecret)
	resolver := identity.NewTokenResolver(verifier)

	proxy := gateway.NewProxy(cfg.ProxyTimeout, logger, httpHelper)

	articleClient := clients.NewArticleClient(cfg.ServiceURLs["articles"], cfg.OutboundTimeout, logger)
	reviewClient := clients.NewReviewClient(cfg.ServiceURLs["reviews"], cfg.OutboundTimeout, logger)
	profileClient := clients.NewProfileClient(cfg.ServiceURLs["users"], cfg.ServiceURLs["auth"], cfg.EnrichTimeout, logger)
	aggregator := gateway.NewAggregator(articleClient, reviewClient, profileClient, cfg.EnrichTimeout, logger, httpHelper)

	r := gateway.NewRouter(cfg, logger, resolver, proxy, aggregator)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: r,
	}

	go func() {
		logger.Info("gateway listening", zap.Int("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", zap.Error(err))
	}
	logger.Info("gateway stopped")
}
