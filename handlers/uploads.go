package handlers

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/minio/minio-go/v7"
)

const maxPhotoSize = 5 * 1024 * 1024 // 5MB

var allowedPhotoExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

// UploadProductPhoto stores a menu image in the configured bucket and returns
// its object path for use as a product imageUrl.
func (h *Handler) UploadProductPhoto(c *gin.Context) {
	if h.Minio == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Image storage is not configured"})
		return
	}

	file, err := c.FormFile("photo")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "photo file is required"})
		return
	}
	if file.Size > maxPhotoSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file size exceeds the 5MB limit"})
		return
	}
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedPhotoExtensions[ext] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported file format: " + ext})
		return
	}

	src, err := file.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	defer src.Close()

	objectName := fmt.Sprintf("products/%s_%d%s", c.PostForm("productId"), time.Now().Unix(), ext)
	contentType := file.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err = h.Minio.PutObject(c.Request.Context(), h.Cfg.Minio.Bucket, objectName, src, file.Size,
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"bucket": h.Cfg.Minio.Bucket,
		"object": objectName,
	})
}
