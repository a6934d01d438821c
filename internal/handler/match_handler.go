package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hellodap/dap-backend/internal/dto"
	"github.com/hellodap/dap-backend/internal/service"
	"github.com/hellodap/dap-backend/pkg/response"
	"github.com/hellodap/dap-backend/pkg/validator"
)

type MatchHandler struct {
	service service.MatchService
}

func NewMatchHandler(service service.MatchService) *MatchHandler {
	return &MatchHandler{service: service}
}

func (h *MatchHandler) ToggleLike(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var req dto.LikeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	resp, err := h.service.ToggleLike(c.Request.Context(), userID, req.ToUserID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
