package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hellodap/dap-backend/internal/dto"
	"github.com/hellodap/dap-backend/internal/service"
	"github.com/hellodap/dap-backend/pkg/response"
	"github.com/hellodap/dap-backend/pkg/validator"
)

// photoFields maps multipart form file keys to upload kinds.
var photoFields = []string{"avatar", "photo1", "photo2", "hobby", "pet"}

type ProfileHandler struct {
	service service.ProfileService
}

func NewProfileHandler(service service.ProfileService) *ProfileHandler {
	return &ProfileHandler{service: service}
}

func (h *ProfileHandler) GetMe(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	user, err := h.service.GetProfile(c.Request.Context(), userID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": user})
}

// UpdateMe accepts multipart form data: a "payload" JSON part with the
// field changes plus optional image parts keyed by kind.
func (h *ProfileHandler) UpdateMe(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var input dto.UpdateProfileInput
	if payload := c.PostForm("payload"); payload != "" {
		if err := json.Unmarshal([]byte(payload), &input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload JSON"})
			return
		}
	} else if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	var photos []dto.AvatarFile
	for _, kind := range photoFields {
		fileHeader, err := c.FormFile(kind)
		if err != nil {
			continue
		}
		file, err := fileHeader.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read uploaded file"})
			return
		}
		defer file.Close()
		photos = append(photos, dto.AvatarFile{
			Reader:   file,
			FileName: fileHeader.Filename,
			Kind:     kind,
		})
	}

	user, err := h.service.UpdateProfile(c.Request.Context(), userID, input, photos)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": user})
}
