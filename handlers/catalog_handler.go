package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tau-journal/helper"
	"tau-journal/models"
	"tau-journal/services"
)

// CatalogHandler serves the bibliographic reference data: authors and
// keywords.
type CatalogHandler struct {
	authors  services.AuthorService
	keywords services.KeywordService
	helper   *helper.HTTPHelper
}

func NewCatalogHandler(authors services.AuthorService, keywords services.KeywordService, h *helper.HTTPHelper) *CatalogHandler {
	return &CatalogHandler{authors: authors, keywords: keywords, helper: h}
}

func (h *CatalogHandler) CreateAuthor(c *gin.Context) {
	var req models.AuthorCreateRequest
	if !bindJSON(h.helper, c, &req) {
		return
	}
	author, err := h.authors.Create(req)
	if err != nil {
		respondError(h.helper, c, err)
		return
	}
	c.JSON(http.StatusCreated, author)
}

func (h *CatalogHandler) GetAuthor(c *gin.Context) {
	id, ok := pathID(h.helper, c, "id")
	if !ok {
		return
	}
	author, err := h.authors.Get(id)
	if err != nil {
		respondError(h.helper, c, err)
		return
	}
	c.JSON(http.StatusOK, author)
}

func (h *CatalogHandler) ListAuthors(c *gin.Context) {
	authors, err := h.authors.List()
	if err != nil {
		respondError(h.helper, c, err)
		return
	}
	c.JSON(http.StatusOK, authors)
}

func (h *CatalogHandler) CreateKeyword(c *gin.Context) {
	var req models.KeywordCreateRequest
	if !bindJSON(h.helper, c, &req) {
		return
	}
	keyword, err := h.keywords.Create(req)
	if err != nil {
		respondError(h.helper, c, err)
		return
	}
	c.JSON(http.StatusCreated, keyword)
}

func (h *CatalogHandler) GetKeyword(c *gin.Context) {
	id, ok := pathID(h.helper, c, "id")
	if !ok {
		return
	}
	keyword, err := h.keywords.Get(id)
	if err != nil {
		respondError(h.helper, c, err)
		return
	}
	c.JSON(http.StatusOK, keyword)
}

func (h *CatalogHandler) ListKeywords(c *gin.Context) {
	keywords, err := h.keywords.List()
	if err != nil {
		respondError(h.helper, c, err)
		return
	}
	c.JSON(http.StatusOK, keywords)
}
