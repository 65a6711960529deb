package clients

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"tau-journal/identity"
)

// ArticleClient is used by the review service to poke the article
// service when a review completes.
type ArticleClient struct {
	baseClient
}

func NewArticleClient(baseURL string, timeout time.Duration, logger *zap.Logger) *ArticleClient {
	return &ArticleClient{baseClient: newBaseClient("articles", baseURL, timeout, logger)}
}

// CheckOwnership probes GET /articles/my/{id} with the caller's own
// credentials. The original Authorization header travels as-is so the
// article service verifies it itself instead of trusting a forwarded
// identity. A nil error means the article exists and the caller is its
// responsible user; a StatusError carries the article service's verdict.
func (c *ArticleClient) CheckOwnership(ctx context.Context, authorization string, articleID uint) error {
	url := fmt.Sprintf("%s/articles/my/%d", c.baseURL, articleID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &StatusError{Code: resp.StatusCode, Body: string(raw)}
	}
	return nil
}

type reviewSubmittedPayload struct {
	ReviewerID     uint   `json:"reviewer_id"`
	Recommendation string `json:"recommendation"`
}

// NotifyReviewSubmitted tells the article service that a reviewer
// finished. Best effort: the submitted review stands even if the
// article service never hears about it.
func (c *ArticleClient) NotifyReviewSubmitted(ctx context.Context, ident *identity.Identity, articleID, reviewerID uint, recommendation string) {
	path := fmt.Sprintf("/articles/%d/review-submitted", articleID)
	body := reviewSubmittedPayload{ReviewerID: reviewerID, Recommendation: recommendation}
	err := c.doJSON(ctx, http.MethodPost, path, ident, body, nil)
	c.bestEffort("review-submitted", err)
}
