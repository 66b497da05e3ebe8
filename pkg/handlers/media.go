package handlers

import (
	"errors"
	"net/http"
	"os"

	"content-site/pkg/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func (h *Handler) ListMedia(c *gin.Context) {
	files, err := h.Media.List()
	if err != nil {
		h.Logger.Error("list media", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list media"})
		return
	}
	c.JSON(http.StatusOK, files)
}

func (h *Handler) UploadMedia(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return
	}

	info, err := h.Media.Save(file)
	if errors.Is(err, services.ErrUnsupportedMedia) {
		c.JSON(http.StatusUnsupportedMediaType, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		h.Logger.Error("save media", zap.String("file", file.Filename), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save file"})
		return
	}

	h.Logger.Info("media uploaded", zap.String("path", info.Path), zap.Int64("size", info.Size))
	c.JSON(http.StatusOK, info)
}

func (h *Handler) DeleteMedia(c *gin.Context) {
	err := h.Media.Delete(c.Param("name"))
	switch {
	case errors.Is(err, services.ErrInvalidMediaPath):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid media name"})
	case errors.Is(err, os.ErrNotExist):
		c.JSON(http.StatusNotFound, gin.H{"error": "Media not found"})
	case err != nil:
		h.Logger.Error("delete media", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete"})
	default:
		c.JSON(http.StatusOK, gin.H{"status": "deleted"})
	}
}
