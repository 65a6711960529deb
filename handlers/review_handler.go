package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tau-journal/helper"
	"tau-journal/middleware"
	"tau-journal/models"
	"tau-journal/services"
)

type ReviewHandler struct {
	service services.ReviewService
	helper  *helper.HTTPHelper
}

func NewReviewHandler(service services.ReviewService, h *helper.HTTPHelper) *ReviewHandler {
	return &ReviewHandler{service: service, helper: h}
}

// Assign handles POST /reviews/assign. A fresh assignment answers 201;
// re-assigning an existing pair answers 200.
func (h *ReviewHandler) Assign(c *gin.Context) {
	var req models.ReviewAssignRequest
	if !bindJSON(h.helper, c, &req) {
		return
	}
	ident := middleware.CurrentIdentity(c)
	review, created, err := h.service.Assign(c.Request.Context(), ident, req)
	if err != nil {
		respondError(h.helper, c, err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, review)
}

// Update handles PATCH /reviews/:id with the save/submit action switch.
func (h *ReviewHandler) Update(c *gin.Context) {
	id, ok := pathID(h.helper, c, "id")
	if !ok {
		return
	}
	var req models.ReviewUpdateRequest
	if !bindJSON(h.helper, c, &req) {
		return
	}
	ident := middleware.CurrentIdentity(c)
	review, err := h.service.Update(c.Request.Context(), ident, id, req)
	if err != nil {
		respondError(h.helper, c, err)
		return
	}
	c.JSON(http.StatusOK, review)
}

// RequestResubmission handles POST /reviews/:id/request_resubmission.
func (h *ReviewHandler) RequestResubmission(c *gin.Context) {
	id, ok := pathID(h.helper, c, "id")
	if !ok {
		return
	}
	var req models.ResubmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		h.helper.SendBadRequest(c, "Invalid request body")
		return
	}
	ident := middleware.CurrentIdentity(c)
	review, err := h.service.RequestResubmission(c.Request.Context(), ident, id, req)
	if err != nil {
		respondError(h.helper, c, err)
		return
	}
	c.JSON(http.StatusOK, review)
}

// Get handles GET /reviews/:id.
func (h *ReviewHandler) Get(c *gin.Context) {
	id, ok := pathID(h.helper, c, "id")
	if !ok {
		return
	}
	ident := middleware.CurrentIdentity(c)
	review, err := h.service.Get(ident, id)
	if err != nil {
		respondError(h.helper, c, err)
		return
	}
	c.JSON(http.StatusOK, review)
}

// ListByArticle handles GET /reviews/article/:article_id. Public:
// exposes only the compact summary, never the review text.
func (h *ReviewHandler) ListByArticle(c *gin.Context) {
	articleID, ok := pathID(h.helper, c, "article_id")
	if !ok {
		return
	}
	summaries, err := h.service.ListByArticle(articleID)
	if err != nil {
		respondError(h.helper, c, err)
		return
	}
	if summaries == nil {
		summaries = []models.ReviewSummary{}
	}
	c.JSON(http.StatusOK, summaries)
}

// ListMy handles GET /reviews/my.
func (h *ReviewHandler) ListMy(c *gin.Context) {
	ident := middleware.CurrentIdentity(c)
	reviews, err := h.service.ListByReviewer(ident)
	if err != nil {
		respondError(h.helper, c, err)
		return
	}
	if reviews == nil {
		reviews = []models.Review{}
	}
	c.JSON(http.StatusOK, reviews)
}
