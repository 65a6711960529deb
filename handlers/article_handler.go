package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"tau-journal/helper"
	"tau-journal/middleware"
	"tau-journal/models"
	"tau-journal/services"
)

type ArticleHandler struct {
	service services.ArticleService
	helper  *helper.HTTPHelper
}

func NewArticleHandler(service services.ArticleService, h *helper.HTTPHelper) *ArticleHandler {
	return &ArticleHandler{service: service, helper: h}
}

// Create handles POST /articles.
func (h *ArticleHandler) Create(c *gin.Context) {
	var req models.ArticleCreateRequest
	if !bindJSON(h.helper, c, &req) {
		return
	}
	ident := middleware.CurrentIdentity(c)
	article, err := h.service.Create(c.Request.Context(), ident, req)
	if err != nil {
		respondError(h.helper, c, err)
		return
	}
	c.JSON(http.StatusCreated, article)
}

// Update handles PUT /articles/:id.
func (h *ArticleHandler) Update(c *gin.Context) {
	id, ok := pathID(h.helper, c, "id")
	if !ok {
		return
	}
	var req models.ArticleUpdateRequest
	if !bindJSON(h.helper, c, &req) {
		return
	}
	ident := middleware.CurrentIdentity(c)
	article, err := h.service.Update(c.Request.Context(), ident, id, req)
	if err != nil {
		respondError(h.helper, c, err)
		return
	}
	c.JSON(http.StatusOK, article)
}

// Get handles GET /articles/editor/:id, returning the article with its
// full version history.
func (h *ArticleHandler) Get(c *gin.Context) {
	id, ok := pathID(h.helper, c, "id")
	if !ok {
		return
	}
	article, err := h.service.GetDetail(id)
	if err != nil {
		respondError(h.helper, c, err)
		return
	}
	c.JSON(http.StatusOK, article)
}

// GetMy handles GET /articles/my/:id. Only the responsible user can read
// their own article through this route.
func (h *ArticleHandler) GetMy(c *gin.Context) {
	id, ok := pathID(h.helper, c, "id")
	if !ok {
		return
	}
	ident := middleware.CurrentIdentity(c)
	article, err := h.service.GetOwned(ident, id)
	if err != nil {
		respondError(h.helper, c, err)
		return
	}
	c.JSON(http.StatusOK, article)
}

// ManuscriptFile handles GET /articles/my/:id/file, returning the file
// service's metadata record for the owner's manuscript.
func (h *ArticleHandler) ManuscriptFile(c *gin.Context) {
	id, ok := pathID(h.helper, c, "id")
	if !ok {
		return
	}
	ident := middleware.CurrentIdentity(c)
	metadata, err := h.service.ManuscriptMetadata(c.Request.Context(), ident, id)
	if err != nil {
		respondError(h.helper, c, err)
		return
	}
	c.JSON(http.StatusOK, metadata)
}

// ManuscriptDownload handles GET /articles/my/:id/file/download,
// streaming the manuscript bytes through from the file service.
func (h *ArticleHandler) ManuscriptDownload(c *gin.Context) {
	id, ok := pathID(h.helper, c, "id")
	if !ok {
		return
	}
	ident := middleware.CurrentIdentity(c)
	resp, err := h.service.ManuscriptDownload(c.Request.Context(), ident, id)
	if err != nil {
		respondError(h.helper, c, err)
		return
	}
	defer resp.Body.Close()

	for _, header := range []string{"Content-Type", "Content-Length", "Content-Disposition"} {
		if v := resp.Header.Get(header); v != "" {
			c.Header(header, v)
		}
	}
	c.Status(resp.StatusCode)
	_, _ = io.Copy(c.Writer, resp.Body)
}

// CreateVersion handles POST /articles/:id/versions.
func (h *ArticleHandler) CreateVersion(c *gin.Context) {
	id, ok := pathID(h.helper, c, "id")
	if !ok {
		return
	}
	ident := middleware.CurrentIdentity(c)
	version, err := h.service.CreateVersion(ident, id)
	if err != nil {
		respondError(h.helper, c, err)
		return
	}
	c.JSON(http.StatusCreated, version)
}

// ListMy handles GET /articles/my.
func (h *ArticleHandler) ListMy(c *gin.Context) {
	ident := middleware.CurrentIdentity(c)
	articles, err := h.service.ListMy(ident)
	if err != nil {
		respondError(h.helper, c, err)
		return
	}
	if articles == nil {
		articles = []models.Article{}
	}
	c.JSON(http.StatusOK, articles)
}

// ListUnassigned handles GET /articles/unassigned with filters and
// pagination.
func (h *ArticleHandler) ListUnassigned(c *gin.Context) {
	var params models.UnassignedListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		h.helper.SendBadRequest(c, "Invalid query parameters")
		return
	}
	page, err := h.service.ListUnassigned(params)
	if err != nil {
		respondError(h.helper, c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// ChangeStatus handles PATCH /articles/:id/status.
func (h *ArticleHandler) ChangeStatus(c *gin.Context) {
	id, ok := pathID(h.helper, c, "id")
	if !ok {
		return
	}
	var req models.ChangeStatusRequest
	if !bindJSON(h.helper, c, &req) {
		return
	}
	ident := middleware.CurrentIdentity(c)
	article, err := h.service.ChangeStatus(c.Request.Context(), ident, id, req.Status)
	if err != nil {
		respondError(h.helper, c, err)
		return
	}
	c.JSON(http.StatusOK, article)
}

// Withdraw handles POST /articles/:id/withdraw.
func (h *ArticleHandler) Withdraw(c *gin.Context) {
	id, ok := pathID(h.helper, c, "id")
	if !ok {
		return
	}
	ident := middleware.CurrentIdentity(c)
	article, err := h.service.Withdraw(c.Request.Context(), ident, id)
	if err != nil {
		respondError(h.helper, c, err)
		return
	}
	c.JSON(http.StatusOK, article)
}

// AssignEditor handles POST /articles/:id/assign_editor.
func (h *ArticleHandler) AssignEditor(c *gin.Context) {
	id, ok := pathID(h.helper, c, "id")
	if !ok {
		return
	}
	var req models.AssignEditorRequest
	if !bindJSON(h.helper, c, &req) {
		return
	}
	ident := middleware.CurrentIdentity(c)
	article, err := h.service.AssignEditor(c.Request.Context(), ident, id, req.EditorID)
	if err != nil {
		respondError(h.helper, c, err)
		return
	}
	c.JSON(http.StatusOK, article)
}

// AssignReviewers handles POST /articles/:id/assign_reviewers.
func (h *ArticleHandler) AssignReviewers(c *gin.Context) {
	id, ok := pathID(h.helper, c, "id")
	if !ok {
		return
	}
	var req models.AssignReviewersRequest
	if !bindJSON(h.helper, c, &req) {
		return
	}
	ident := middleware.CurrentIdentity(c)
	article, err := h.service.AssignReviewers(c.Request.Context(), ident, id, req)
	if err != nil {
		respondError(h.helper, c, err)
		return
	}
	c.JSON(http.StatusOK, article)
}

// Reviewers handles GET /articles/:id/reviewers.
func (h *ArticleHandler) Reviewers(c *gin.Context) {
	id, ok := pathID(h.helper, c, "id")
	if !ok {
		return
	}
	ident := middleware.CurrentIdentity(c)
	reviewers, err := h.service.Reviewers(c.Request.Context(), ident, id)
	if err != nil {
		respondError(h.helper, c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"article_id": id, "reviewers": reviewers})
}

type reviewSubmittedRequest struct {
	ReviewerID     uint   `json:"reviewer_id" binding:"required"`
	Recommendation string `json:"recommendation"`
}

// ReviewSubmitted handles POST /articles/:id/review-submitted, the
// internal hook called by the review service.
func (h *ArticleHandler) ReviewSubmitted(c *gin.Context) {
	id, ok := pathID(h.helper, c, "id")
	if !ok {
		return
	}
	var req reviewSubmittedRequest
	if !bindJSON(h.helper, c, &req) {
		return
	}
	ident := middleware.CurrentIdentity(c)
	err := h.service.ReviewSubmitted(c.Request.Context(), ident, id, req.ReviewerID, req.Recommendation)
	if err != nil {
		respondError(h.helper, c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"detail": "Notification sent"})
}
