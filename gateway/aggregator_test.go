package gateway

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"tau-journal/clients"
	"tau-journal/helper"
	"tau-journal/identity"
	"tau-journal/middleware"
	"tau-journal/models"
)

type aggregatorBackends struct {
	articles *httptest.Server
	reviews  *httptest.Server
	users    *httptest.Server
	auth     *httptest.Server
}

// newAggregatorBackends fakes the downstream services. Article 1 exists
// and belongs to user 10; its reviews sit with reviewers 31 and 32, and
// only reviewer 31 has profile records.
func newAggregatorBackends(t *testing.T) *aggregatorBackends {
	t.Helper()
	b := &aggregatorBackends{}

	// The ownership probe carries the caller's own bearer token, so the
	// fake verifies it the way the real article service would instead of
	// trusting any forwarded identity headers.
	resolver := identity.NewTokenResolver(identity.NewVerifier(testSecret))
	b.articles = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/articles/my/1" {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"detail":"Article not found"}`))
			return
		}
		ident, err := resolver.Resolve(r)
		if err != nil {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"detail":"Invalid credentials"}`))
			return
		}
		if ident.UserID != 10 {
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte(`{"detail":"You do not own this article"}`))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"id": 1})
	}))
	t.Cleanup(b.articles.Close)

	deadline := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	b.reviews = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/reviews/article/1" {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"detail":"Review not found"}`))
			return
		}
		_ = json.NewEncoder(w).Encode([]models.ReviewSummary{
			{ID: 7, ArticleID: 1, ReviewerID: 31, Status: models.ReviewInProgress, Deadline: &deadline, HasContent: true},
			{ID: 8, ArticleID: 1, ReviewerID: 32, Status: models.ReviewPending},
		})
	}))
	t.Cleanup(b.reviews.Close)

	b.users = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/users/31" {
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"id":        31,
				"full_name": "Dana Serikova",
				"roles":     []string{"reviewer"},
			})
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(b.users.Close)

	b.auth = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/auth/users/31" {
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"username":  "dserikova",
				"email":     "dana@example.kz",
				"is_active": true,
			})
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(b.auth.Close)

	return b
}

func aggregatorEngine(t *testing.T, b *aggregatorBackends) *gin.Engine {
	t.Helper()
	logger := zap.NewNop()
	h := &helper.HTTPHelper{}

	articleClient := clients.NewArticleClient(b.articles.URL, time.Second, logger)
	reviewClient := clients.NewReviewClient(b.reviews.URL, time.Second, logger)
	profileClient := clients.NewProfileClient(b.users.URL, b.auth.URL, time.Second, logger)
	aggregator := NewAggregator(articleClient, reviewClient, profileClient, time.Second, logger, h)

	proxy := NewProxy(time.Second, logger, h)
	resolver := identity.NewTokenResolver(identity.NewVerifier(testSecret))

	r := gin.New()
	group := r.Group("/articles", middleware.Auth(resolver))
	group.Any("/*path", articlesHandler(proxy, aggregator, b.articles.URL))
	return r
}

func doAggregation(t *testing.T, r *gin.Engine, path string, userID uint, roles ...string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Header.Set("Authorization", bearerFor(t, userID, roles...))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

type aggregationBody struct {
	ArticleID uint                         `json:"article_id"`
	Reviews   []models.ArticleReviewerInfo `json:"reviews"`
}

func TestAggregationMergesReviewAndProfileData(t *testing.T) {
	b := newAggregatorBackends(t)
	r := aggregatorEngine(t, b)

	w := doAggregation(t, r, "/articles/1/reviewers", 20, "editor")
	require.Equal(t, http.StatusOK, w.Code)

	var body aggregationBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, uint(1), body.ArticleID)
	require.Len(t, body.Reviews, 2)

	enriched := body.Reviews[0]
	assert.Equal(t, uint(31), enriched.ReviewerID)
	require.NotNil(t, enriched.ReviewID)
	assert.Equal(t, uint(7), *enriched.ReviewID)
	require.NotNil(t, enriched.Status)
	assert.Equal(t, models.ReviewInProgress, *enriched.Status)
	require.NotNil(t, enriched.Deadline)
	require.NotNil(t, enriched.Reviewer)
	require.NotNil(t, enriched.Reviewer.FullName)
	assert.Equal(t, "Dana Serikova", *enriched.Reviewer.FullName)
	require.NotNil(t, enriched.Reviewer.Username)
	assert.Equal(t, "dserikova", *enriched.Reviewer.Username)

	// Reviewer 32 has no profile records: the review fields survive,
	// the profile degrades to nulls.
	bare := body.Reviews[1]
	assert.Equal(t, uint(32), bare.ReviewerID)
	require.NotNil(t, bare.ReviewID)
	assert.Equal(t, uint(8), *bare.ReviewID)
	require.NotNil(t, bare.Reviewer)
	assert.Nil(t, bare.Reviewer.FullName)
	assert.Equal(t, uint(32), bare.Reviewer.UserID)
}

func TestAggregationOwnerMayReadOwnArticle(t *testing.T) {
	b := newAggregatorBackends(t)
	r := aggregatorEngine(t, b)

	w := doAggregation(t, r, "/articles/1/reviewers", 10, "author")
	require.Equal(t, http.StatusOK, w.Code)

	var body aggregationBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Len(t, body.Reviews, 2)
}

func TestAggregationStrangerIsForbidden(t *testing.T) {
	b := newAggregatorBackends(t)
	r := aggregatorEngine(t, b)

	w := doAggregation(t, r, "/articles/1/reviewers", 77, "author")
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAggregationUnknownArticleIs404ForNonEditors(t *testing.T) {
	b := newAggregatorBackends(t)
	r := aggregatorEngine(t, b)

	w := doAggregation(t, r, "/articles/999/reviewers", 10, "author")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAggregationNoReviewsYetIsEmptyList(t *testing.T) {
	b := newAggregatorBackends(t)
	r := aggregatorEngine(t, b)

	// The review ledger knows nothing about article 999 and answers 404;
	// for an editor that reads as an empty listing.
	w := doAggregation(t, r, "/articles/999/reviewers", 20, "editor")
	require.Equal(t, http.StatusOK, w.Code)

	var body aggregationBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Empty(t, body.Reviews)
}

func TestAggregationReviewServiceDownIs502(t *testing.T) {
	b := newAggregatorBackends(t)
	b.reviews.Close()
	r := aggregatorEngine(t, b)

	w := doAggregation(t, r, "/articles/1/reviewers", 20, "editor")
	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestAggregationArticleServiceDownIs502ForNonEditors(t *testing.T) {
	b := newAggregatorBackends(t)
	b.articles.Close()
	r := aggregatorEngine(t, b)

	w := doAggregation(t, r, "/articles/1/reviewers", 10, "author")
	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestReviewerListingTargetParsing(t *testing.T) {
	id, ok := reviewerListingTarget("/5/reviewers")
	assert.True(t, ok)
	assert.Equal(t, uint(5), id)

	_, ok = reviewerListingTarget("/5")
	assert.False(t, ok)
	_, ok = reviewerListingTarget("/abc/reviewers")
	assert.False(t, ok)
	_, ok = reviewerListingTarget("/5/reviewers/extra")
	assert.False(t, ok)
}
