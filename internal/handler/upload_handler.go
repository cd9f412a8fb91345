package handler

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	_ "golang.org/x/image/webp"
)

const (
	uploadSubdir   = "uploads"
	maxUploadBytes = 10 << 20
)

// uploadExtensions maps decoded image formats to the stored file extension.
var uploadExtensions = map[string]string{
	"png":  ".png",
	"jpeg": ".jpg",
	"gif":  ".gif",
	"webp": ".webp",
}

// UploadImage stores an image under the static uploads directory and
// returns the path to put into an article's image field.
func (a *API) UploadImage(c *gin.Context) {
	file, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image file is required"})
		return
	}
	if file.Size > maxUploadBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "image is larger than 10 MB"})
		return
	}

	src, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unable to read upload"})
		return
	}
	_, format, err := image.DecodeConfig(src)
	src.Close()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "only png, jpeg, gif and webp images are accepted"})
		return
	}
	ext, ok := uploadExtensions[format]
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "only png, jpeg, gif and webp images are accepted"})
		return
	}

	uploadDir := filepath.Join(a.staticDir, uploadSubdir)
	if err := os.MkdirAll(uploadDir, 0o755); err != nil {
		zerolog.Ctx(c.Request.Context()).Error().Err(err).Msg("create upload dir")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "unable to store upload"})
		return
	}

	name := fmt.Sprintf("%s-%s%s", time.Now().Format("20060102"), uuid.NewString(), ext)
	if err := c.SaveUploadedFile(file, filepath.Join(uploadDir, name)); err != nil {
		zerolog.Ctx(c.Request.Context()).Error().Err(err).Msg("save upload")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "unable to store upload"})
		return
	}

	relative := path.Join(uploadSubdir, name)
	zerolog.Ctx(c.Request.Context()).Info().Str("path", relative).Str("format", format).Msg("image uploaded")
	c.JSON(http.StatusOK, gin.H{
		"path": relative,
		"url":  path.Join(StaticURL, relative),
	})
}
