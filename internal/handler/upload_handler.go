package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"peachy/internal/middleware"
	"peachy/pkg/cloudinary"

	"github.com/gin-gonic/gin"
)

type UploadHandler struct {
	cloud cloudinary.Client
}

func NewUploadHandler(cloud cloudinary.Client) *UploadHandler {
	return &UploadHandler{cloud: cloud}
}

// UploadPostMedia uploads an image or video for a post and returns its URL.
func (h *UploadHandler) UploadPostMedia(c *gin.Context) {
	userID := middleware.GetUserID(c)
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file required"})
		return
	}
	folder := "peachy/posts/" + strconv.FormatUint(uint64(userID), 10)
	publicID := "media_" + strings.ReplaceAll(uuid.New().String(), "-", "")[:16]

	f, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read file"})
		return
	}
	defer f.Close()

	contentType := file.Header.Get("Content-Type")
	var url, thumb string
	if strings.HasPrefix(contentType, "video/") {
		url, thumb, err = h.cloud.UploadVideo(c.Request.Context(), f, folder, publicID)
	} else {
		url, thumb, err = h.cloud.UploadImage(c.Request.Context(), f, folder, publicID)
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "upload failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url, "thumbnail_url": thumb})
}

// UploadMessageMedia uploads an image attached to a direct message.
func (h *UploadHandler) UploadMessageMedia(c *gin.Context) {
	userID := middleware.GetUserID(c)
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file required"})
		return
	}
	folder := "peachy/messages/" + strconv.FormatUint(uint64(userID), 10)
	publicID := "img_" + strings.ReplaceAll(uuid.New().String(), "-", "")[:16]

	f, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read file"})
		return
	}
	defer f.Close()

	url, _, err := h.cloud.UploadImage(c.Request.Context(), f, folder, publicID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "upload failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}
