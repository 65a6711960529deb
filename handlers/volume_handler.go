package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tau-journal/helper"
	"tau-journal/models"
	"tau-journal/services"
)

type VolumeHandler struct {
	service services.VolumeService
	helper  *helper.HTTPHelper
}

func NewVolumeHandler(service services.VolumeService, h *helper.HTTPHelper) *VolumeHandler {
	return &VolumeHandler{service: service, helper: h}
}

// Create handles POST /volumes.
func (h *VolumeHandler) Create(c *gin.Context) {
	var req models.VolumeCreateRequest
	if !bindJSON(h.helper, c, &req) {
		return
	}
	volume, err := h.service.Create(req)
	if err != nil {
		respondError(h.helper, c, err)
		return
	}
	c.JSON(http.StatusCreated, volume)
}

// Update handles PUT /volumes/:id.
func (h *VolumeHandler) Update(c *gin.Context) {
	id, ok := pathID(h.helper, c, "id")
	if !ok {
		return
	}
	var req models.VolumeUpdateRequest
	if !bindJSON(h.helper, c, &req) {
		return
	}
	volume, err := h.service.Update(id, req)
	if err != nil {
		respondError(h.helper, c, err)
		return
	}
	c.JSON(http.StatusOK, volume)
}

// Get handles GET /volumes/:id.
func (h *VolumeHandler) Get(c *gin.Context) {
	id, ok := pathID(h.helper, c, "id")
	if !ok {
		return
	}
	volume, err := h.service.Get(id)
	if err != nil {
		respondError(h.helper, c, err)
		return
	}
	c.JSON(http.StatusOK, volume)
}

// List handles GET /volumes.
func (h *VolumeHandler) List(c *gin.Context) {
	var params models.VolumeListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		h.helper.SendBadRequest(c, "Invalid query parameters")
		return
	}
	volumes, err := h.service.List(params)
	if err != nil {
		respondError(h.helper, c, err)
		return
	}
	c.JSON(http.StatusOK, volumes)
}

// Delete handles DELETE /volumes/:id.
func (h *VolumeHandler) Delete(c *gin.Context) {
	id, ok := pathID(h.helper, c, "id")
	if !ok {
		return
	}
	if err := h.service.Delete(id); err != nil {
		respondError(h.helper, c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"detail": "Volume deleted"})
}
