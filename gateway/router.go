package gateway

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"tau-journal/config"
	"tau-journal/identity"
	"tau-journal/middleware"
)

// NewRouter wires the gateway: one proxied route group per backend
// service, authentication on everything except the auth service itself,
// and the reviewer aggregation endpoint layered over the articles
// proxy.
func NewRouter(
	cfg *config.Config,
	logger *zap.Logger,
	resolver identity.Resolver,
	proxy *Proxy,
	aggregator *Aggregator,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.Metrics("gateway"))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", middleware.MetricsHandler())

	for prefix, base := range cfg.ServiceURLs {
		handler := proxy.Handler(base)
		if prefix == "articles" {
			handler = articlesHandler(proxy, aggregator, base)
		}

		var group *gin.RouterGroup
		switch prefix {
		case "auth":
			// Login and registration happen before a token exists.
			group = r.Group("/" + prefix)
		case "reviews", "volumes":
			// These services carry public reads (review summaries, the
			// published volume catalog). Identity is forwarded when a
			// valid token is present; the services guard their own
			// protected routes via the forwarded Authorization header.
			group = r.Group("/"+prefix, middleware.OptionalAuth(resolver))
		default:
			group = r.Group("/"+prefix, middleware.Auth(resolver))
		}
		group.Any("", handler)
		group.Any("/*path", handler)
	}

	return r
}

// articlesHandler intercepts GET /articles/:id/reviewers for local
// aggregation and proxies everything else.
func articlesHandler(proxy *Proxy, aggregator *Aggregator, base string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodGet {
			if id, ok := reviewerListingTarget(c.Param("path")); ok {
				aggregator.ArticleReviewers(c, id)
				return
			}
		}
		proxy.Forward(c, base)
	}
}

func reviewerListingTarget(path string) (uint, bool) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) != 2 || parts[1] != "reviewers" {
		return 0, false
	}
	id, err := strconv.ParseUint(parts[0], 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}
