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

	db, err := config.InitDB(cfg,
		&models.Author{},
		&models.Keyword{},
		&models.Article{},
		&models.ArticleVersion{},
		&models.ArticleReviewer{},
		&models.Volume{},
	)
	if err != nil {
		logger.Fatal("database init failed", zap.Error(err))
	}

	httpHelper, err := helper.NewHTTPHelper()
	if err != nil {
		logger.Fatal("validator init failed", zap.Error(err))
	}
	middleware.HTTPHelper = httpHelper

	articleRepo := repositories.NewArticleRepository(db)
	authorRepo := repositories.NewAuthorRepository(db)
	keywordRepo := repositories.NewKeywordRepository(db)
	volumeRepo := repositories.NewVolumeRepository(db)

	reviewClient := clients.NewReviewClient(cfg.ServiceURLs["reviews"], cfg.OutboundTimeout, logger)
	profileClient := clients.NewProfileClient(cfg.ServiceURLs["users"], cfg.ServiceURLs["auth"], cfg.EnrichTimeout, logger)
	fileClient := clients.NewFileClient(cfg.ServiceURLs["files"], cfg.OutboundTimeout, logger)
	notificationClient := clients.NewNotificationClient(cfg.ServiceURLs["notifications"], cfg.OutboundTimeout, logger)

	articleService := services.NewArticleService(articleRepo, authorRepo, keywordRepo, reviewClient, profileClient, fileClient, notificationClient, logger)
	authorService := services.NewAuthorService(authorRepo)
	keywordService := services.NewKeywordService(keywordRepo)
	volumeService := services.NewVolumeService(volumeRepo, articleRepo)

	articleHandler := handlers.NewArticleHandler(articleService, httpHelper)
	catalogHandler := handlers.NewCatalogHandler(authorService, keywordService, httpHelper)
	volumeHandler := handlers.NewVolumeHandler(volumeService, httpHelper)

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
	r.Use(middleware.Metrics("articles"))

	r.GET("/health", handlers.Health)
	r.GET("/metrics", middleware.MetricsHandler())

	articles := r.Group("/articles", middleware.Auth(resolver))
	{
		articles.POST("", middleware.RequireRole(identity.RoleAuthor), articleHandler.Create)
		articles.GET("/my", articleHandler.ListMy)
		articles.GET("/my/:id", articleHandler.GetMy)
		articles.GET("/my/:id/file", articleHandler.ManuscriptFile)
		articles.GET("/my/:id/file/download", articleHandler.ManuscriptDownload)
		articles.GET("/editor/:id", middleware.RequireRole(identity.RoleEditor), articleHandler.Get)
		articles.GET("/unassigned", middleware.RequireRole(identity.RoleEditor), articleHandler.ListUnassigned)
		articles.PUT("/:id", articleHandler.Update)
		articles.POST("/:id/versions", articleHandler.CreateVersion)
		articles.POST("/:id/withdraw", articleHandler.Withdraw)
		articles.PATCH("/:id/status", middleware.RequireRole(identity.RoleEditor), articleHandler.ChangeStatus)
		articles.POST("/:id/assign_editor", middleware.RequireRole(identity.RoleEditor), articleHandler.AssignEditor)
		articles.POST("/:id/assign_reviewers", middleware.RequireRole(identity.RoleEditor), articleHandler.AssignReviewers)
		articles.GET("/:id/reviewers", articleHandler.Reviewers)
		articles.POST("/:id/review-submitted", articleHandler.ReviewSubmitted)

		articles.POST("/authors", middleware.RequireRole(identity.RoleAuthor), catalogHandler.CreateAuthor)
		articles.GET("/authors", catalogHandler.ListAuthors)
		articles.GET("/authors/:id", catalogHandler.GetAuthor)

		articles.POST("/keywords", middleware.RequireRole(identity.RoleAuthor), catalogHandler.CreateKeyword)
		articles.GET("/keywords", catalogHandler.ListKeywords)
		articles.GET("/keywords/:id", catalogHandler.GetKeyword)
	}

	volumes := r.Group("/volumes")
	{
		volumes.GET("", volumeHandler.List)
		volumes.GET("/:id", volumeHandler.Get)

		editorOnly := volumes.Group("", middleware.Auth(resolver), middleware.RequireRole(identity.RoleEditor))
		editorOnly.POST("", volumeHandler.Create)
		editorOnly.PUT("/:id", volumeHandler.Update)
		editorOnly.DELETE("/:id", volumeHandler.Delete)
	}

	run(logger, cfg.Port, r)
}

func run(logger *zap.Logger, port int, handler http.Handler) {
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: handler,
	}

	go func() {
		logger.Info("article service listening", zap.Int("port", port))
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
	logger.Info("article service stopped")
}
