package gateway

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"tau-journal/clients"
	"tau-journal/helper"
	"tau-journal/identity"
	"tau-journal/middleware"
	"tau-journal/models"
)

// Aggregator builds the reviewer listing for one article by fanning out
// to the review, user-profile and auth services. The review call is
// load-bearing; profile enrichment degrades to nulls.
type Aggregator struct {
	articles      *clients.ArticleClient
	reviews       *clients.ReviewClient
	profiles      *clients.ProfileClient
	enrichTimeout time.Duration
	logger        *zap.Logger
	helper        *helper.HTTPHelper
}

func NewAggregator(
	articles *clients.ArticleClient,
	reviews *clients.ReviewClient,
	profiles *clients.ProfileClient,
	enrichTimeout time.Duration,
	logger *zap.Logger,
	h *helper.HTTPHelper,
) *Aggregator {
	return &Aggregator{
		articles:      articles,
		reviews:       reviews,
		profiles:      profiles,
		enrichTimeout: enrichTimeout,
		logger:        logger,
		helper:        h,
	}
}

// ArticleReviewers handles GET /articles/:id/reviewers. Editors pass
// straight through; anyone else must own the article, which the article
// service decides via its my/:id route.
func (a *Aggregator) ArticleReviewers(c *gin.Context, articleID uint) {
	ident := middleware.CurrentIdentity(c)
	ctx := c.Request.Context()

	if !ident.HasRole(identity.RoleEditor) {
		if err := a.articles.CheckOwnership(ctx, c.GetHeader("Authorization"), articleID); err != nil {
			if clients.IsNotFound(err) {
				a.helper.SendNotFound(c, "Article not found")
				return
			}
			var statusErr *clients.StatusError
			if errors.As(err, &statusErr) {
				a.helper.SendForbidden(c, "You do not have access to this article's reviews")
				return
			}
			a.logger.Error("ownership probe failed",
				zap.Uint("article_id", articleID),
				zap.Error(err),
			)
			a.helper.SendBadGateway(c, "Article service unavailable")
			return
		}
	}

	summaries, err := a.reviews.ListByArticle(ctx, ident, articleID)
	if err != nil {
		if clients.IsNotFound(err) {
			summaries = []models.ReviewSummary{}
		} else {
			a.logger.Error("review listing failed",
				zap.Uint("article_id", articleID),
				zap.Error(err),
			)
			a.helper.SendBadGateway(c, "Review service unavailable")
			return
		}
	}

	result := make([]models.ArticleReviewerInfo, 0, len(summaries))
	for _, summary := range summaries {
		reviewID := summary.ID
		status := summary.Status
		info := models.ArticleReviewerInfo{
			ReviewID:   &reviewID,
			ReviewerID: summary.ReviewerID,
			Status:     &status,
			Deadline:   summary.Deadline,
		}

		enrichCtx, cancel := context.WithTimeout(ctx, a.enrichTimeout)
		info.Reviewer = a.profiles.FetchReviewer(enrichCtx, ident, summary.ReviewerID)
		cancel()

		result = append(result, info)
	}

	c.JSON(http.StatusOK, gin.H{
		"article_id": articleID,
		"reviews":    result,
	})
}
