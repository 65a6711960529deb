package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"tau-journal/helper"
	"tau-journal/middleware"
	"tau-journal/models"
	"tau-journal/services"
)

type EditorialHandler struct {
	service services.EditorialService
	helper  *helper.HTTPHelper
}

func NewEditorialHandler(service services.EditorialService, h *helper.HTTPHelper) *EditorialHandler {
	return &EditorialHandler{service: service, helper: h}
}

// Create handles POST /editorial.
func (h *EditorialHandler) Create(c *gin.Context) {
	var req models.EditorialTaskCreateRequest
	if !bindJSON(h.helper, c, &req) {
		return
	}
	ident := middleware.CurrentIdentity(c)
	task, err := h.service.Create(ident, req)
	if err != nil {
		respondError(h.helper, c, err)
		return
	}
	c.JSON(http.StatusCreated, task)
}

// Update handles PATCH /editorial/:id.
func (h *EditorialHandler) Update(c *gin.Context) {
	id, ok := pathID(h.helper, c, "id")
	if !ok {
		return
	}
	var req models.EditorialTaskUpdateRequest
	if !bindJSON(h.helper, c, &req) {
		return
	}
	ident := middleware.CurrentIdentity(c)
	task, err := h.service.Update(c.Request.Context(), ident, id, req)
	if err != nil {
		respondError(h.helper, c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

// Get handles GET /editorial/:id.
func (h *EditorialHandler) Get(c *gin.Context) {
	id, ok := pathID(h.helper, c, "id")
	if !ok {
		return
	}
	task, err := h.service.Get(id)
	if err != nil {
		respondError(h.helper, c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

// ListByArticle handles GET /editorial/article/:article_id.
func (h *EditorialHandler) ListByArticle(c *gin.Context) {
	articleID, ok := pathID(h.helper, c, "article_id")
	if !ok {
		return
	}
	tasks, err := h.service.ListByArticle(articleID)
	if err != nil {
		respondError(h.helper, c, err)
		return
	}
	c.JSON(http.StatusOK, tasks)
}

// List handles GET /editorial.
func (h *EditorialHandler) List(c *gin.Context) {
	page := queryInt(c, "page", 1)
	pageSize := queryInt(c, "page_size", 10)
	tasks, err := h.service.List(page, pageSize)
	if err != nil {
		respondError(h.helper, c, err)
		return
	}
	c.JSON(http.StatusOK, tasks)
}

func queryInt(c *gin.Context, name string, defaultVal int) int {
	val := c.Query(name)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return n
}
