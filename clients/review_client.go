package clients

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"tau-journal/identity"
	"tau-journal/models"
)

// ReviewClient talks to the review service on behalf of the article
// service when reviewers get assigned.
type ReviewClient struct {
	baseClient
}

func NewReviewClient(baseURL string, timeout time.Duration, logger *zap.Logger) *ReviewClient {
	return &ReviewClient{baseClient: newBaseClient("reviews", baseURL, timeout, logger)}
}

// Assign creates (or reuses) the review slot for one reviewer. Failures
// are swallowed: reviewer assignment on the article side must not break
// because the review service is down.
func (c *ReviewClient) Assign(ctx context.Context, ident *identity.Identity, articleID, reviewerID uint, deadline *time.Time) {
	body := models.ReviewAssignRequest{
		ArticleID:  articleID,
		ReviewerID: reviewerID,
		Deadline:   deadline,
	}
	err := c.doJSON(ctx, http.MethodPost, "/reviews/assign", ident, body, nil)
	c.bestEffort("assign", err)
}

// ListByArticle fetches the compact review summaries for one article.
func (c *ReviewClient) ListByArticle(ctx context.Context, ident *identity.Identity, articleID uint) ([]models.ReviewSummary, error) {
	var summaries []models.ReviewSummary
	path := fmt.Sprintf("/reviews/article/%d", articleID)
	if err := c.doJSON(ctx, http.MethodGet, path, ident, nil, &summaries); err != nil {
		return nil, err
	}
	return summaries, nil
}
