package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"tau-journal/helper"
	"tau-journal/services"
)

// respondError maps a service-layer error onto the response contract.
// Anything without an explicit status is an opaque 500.
func respondError(h *helper.HTTPHelper, c *gin.Context, err error) {
	var se *services.StatusError
	if errors.As(err, &se) {
		h.SendDetail(c, se.Code, se.Detail)
		return
	}
	h.SendDetail(c, http.StatusInternalServerError, "Internal server error")
}

func bindJSON(h *helper.HTTPHelper, c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		var verr validator.ValidationErrors
		if errors.As(err, &verr) {
			h.SendValidationError(c, verr)
		} else {
			h.SendBadRequest(c, "Invalid request body")
		}
		return false
	}
	return true
}

func pathID(h *helper.HTTPHelper, c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		h.SendBadRequest(c, "Invalid id")
		return 0, false
	}
	return uint(id), true
}

// Health is the liveness endpoint shared by every service binary.
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
