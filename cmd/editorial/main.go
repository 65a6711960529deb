package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"tau-journal/clients"
	"tau-journal/config"
	"tau-journal/handlers"
	"tau-journal/helper"
	"tau-journal/identity"
	"tau-journal/middleware"
	"tau-journal/models"
	"tau-journal/repositories"
	"tau-journal/services"
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

	db, err := config.InitDB(cfg, &models.EditorialTask{})
	if err != nil {
		logger.Fatal("database init failed", zap.Error(err))
	}

	httpHelper, err := helper.NewHTTPHelper()
	if err != nil {
		logger.Fatal("validator init failed", zap.Error(err))
	}
	middleware.HTTPHelper = httpHelper

	taskRepo := repositories.NewEditorialTaskRepository(db)
	notificationClient := clients.NewNotificationClient(cfg.ServiceURLs["notifications"], cfg.OutboundTimeout, logger)

	editorialService := services.NewEditorialService(taskRepo, notificationClient)
	editorialHandler := handlers.NewEditorialHandler(editorialService, httpHelper)

	verifier := identity.NewVerifier(cfg.JWTSecret)
	var resolver identity.Resolver
	if cfg.TrustForwardedIdentity {
		resolver = identity.NewForwardedResolver(verifier)
	} else {
		resolver = identity.NewTokenResolver(verifier)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.Metrics("editorial"))

	r.GET("/health", handlers.Health)
	r.GET("/metrics", middleware.MetricsHandler())

	tasks := r.Group("/editorial", middleware.Auth(resolver), middleware.RequireRole(identity.RoleEditor))
	{
		tasks.POST("", editorialHandler.Create)
		tasks.GET("", editorialHandler.List)
		tasks.GET("/:id", editorialHandler.Get)
		tasks.PATCH("/:id", editorialHandler.Update)
		tasks.GET("/article/:article_id", editorialHandler.ListByArticle)
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: r,
	}

	go func() {
		logger.Info("editorial service listening", zap.Int("port", cfg.Port))
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
	logger.Info("editorial service stopped")
}
