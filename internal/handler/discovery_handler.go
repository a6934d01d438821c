package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hellodap/dap-backend/internal/dto"
	"github.com/hellodap/dap-backend/internal/service"
	"github.com/hellodap/dap-backend/pkg/response"
	"github.com/hellodap/dap-backend/pkg/validator"
)

type DiscoveryHandler struct {
	service service.DiscoveryService
}

func NewDiscoveryHandler(service service.DiscoveryService) *DiscoveryHandler {
	return &DiscoveryHandler{service: service}
}

func (h *DiscoveryHandler) Discover(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var filter dto.DiscoverFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	resp, err := h.service.Discover(c.Request.Context(), userID, filter)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
