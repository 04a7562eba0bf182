package handler

import (
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/DAVIPRADIPTA/website-anemware/internal/middleware"
	"github.com/DAVIPRADIPTA/website-anemware/internal/service"
	"github.com/DAVIPRADIPTA/website-anemware/pkg/cloudinary"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

var allowedImageExt = map[string]bool{".png": true, ".jpg": true, ".jpeg": true}

type ScreeningHandler struct {
	screeningSvc *service.ScreeningService
	cloud        cloudinary.Client
}

func NewScreeningHandler(screeningSvc *service.ScreeningService, cloud cloudinary.Client) *ScreeningHandler {
	return &ScreeningHandler{screeningSvc: screeningSvc, cloud: cloud}
}

// Submit handles POST /screening: multipart form with optional eye_image and
// nail_image files (at least one required) and a symptoms JSON object mapping
// symptom keys to levels 0-2.
func (h *ScreeningHandler) Submit(c *gin.Context) {
	userID := middleware.GetUserID(c)

	symptoms := map[string]int{}
	if raw := c.PostForm("symptoms"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &symptoms); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid symptoms json"})
			return
		}
	}

	eyeURL, err := h.uploadImage(c, "eye_image", userID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	nailURL, err := h.uploadImage(c, "nail_image", userID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if eyeURL == "" && nailURL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "at least one image required"})
		return
	}

	result, err := h.screeningSvc.Submit(c.Request.Context(), userID, eyeURL, nailURL, symptoms)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

// History handles GET /screening/history.
func (h *ScreeningHandler) History(c *gin.Context) {
	userID := middleware.GetUserID(c)
	records, err := h.screeningSvc.History(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"records": records})
}

// uploadImage stores one optional multipart image on Cloudinary and returns
// its URL; empty string when the field is absent.
func (h *ScreeningHandler) uploadImage(c *gin.Context, field string, userID uint) (string, error) {
	fileHeader, err := c.FormFile(field)
	if err != nil {
		return "", nil
	}
	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if !allowedImageExt[ext] {
		return "", fmt.Errorf("%s: unsupported file type", field)
	}
	file, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("%s: %v", field, err)
	}
	defer func(f multipart.File) { _ = f.Close() }(file)

	publicID := fmt.Sprintf("%s_%d_%s", field, userID, uuid.NewString())
	url, err := h.cloud.UploadImage(c.Request.Context(), file, "screening", publicID)
	if err != nil {
		return "", fmt.Errorf("upload failed: %v", err)
	}
	return url, nil
}
