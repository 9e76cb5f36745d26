package main

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stitchcraft/pos_backend/models"
	"github.com/stitchcraft/pos_backend/utils"
)

const maxUploadSizeBytes int64 = 5 * 1024 * 1024

var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

func uploadRoot() string {
	root := strings.TrimSpace(os.Getenv("UPLOAD_DIR"))
	if root == "" {
		root = "uploads"
	}
	return root
}

// uploadProductImageHandler stores a product photo on local disk,
// generates a 200px thumbnail, and records the image path on the
// product.
func uploadProductImageHandler(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathId(c)
		if !ok {
			return
		}

		fileHeader, err := c.FormFile("image")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "image file is required"})
			return
		}
		if fileHeader.Size > maxUploadSizeBytes {
			c.JSON(http.StatusBadRequest, gin.H{"error": "file size exceeds 5MB limit"})
			return
		}
		ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
		if !imageExtensions[ext] {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported image type"})
			return
		}

		src, err := fileHeader.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "could not read upload"})
			return
		}
		defer src.Close()

		img, err := imaging.Decode(src)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "not a valid image"})
			return
		}

		dir := filepath.Join(uploadRoot(), "products")
		if err := os.MkdirAll(filepath.Join(dir, "thumbnails"), 0o755); err != nil {
			logUploadError(logger, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not store image"})
			return
		}

		filename := utils.GenerateUniqueFilename() + ".jpg"
		imagePath := filepath.Join(dir, filename)
		if err := imaging.Save(img, imagePath, imaging.JPEGQuality(90)); err != nil {
			logUploadError(logger, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not store image"})
			return
		}

		thumbnail := imaging.Resize(img, 200, 0, imaging.Lanczos)
		thumbnailPath := filepath.Join(dir, "thumbnails", filename)
		if err := imaging.Save(thumbnail, thumbnailPath); err != nil {
			logUploadError(logger, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not store thumbnail"})
			return
		}

		product, err := models.SetProductImage(c.Request.Context(), id, "/"+filepath.ToSlash(imagePath))
		if err != nil {
			respondError(c, err)
			return
		}

		logger.WithFields(logrus.Fields{
			"product_id": id,
			"image":      imagePath,
		}).Info("[upload.complete]")

		c.JSON(http.StatusOK, gin.H{"data": gin.H{
			"image_url":     product.ImageUrl,
			"thumbnail_url": "/" + filepath.ToSlash(thumbnailPath),
		}})
	}
}

func logUploadError(logger *logrus.Logger, err error) {
	logger.WithFields(logrus.Fields{
		"error": err.Error(),
	}).Error("[upload.error]")
}
