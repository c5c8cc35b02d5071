package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/formward/formward/internal/types"
)

// allowedUploadExts is the asset extension allow-list. Everything else is
// rejected regardless of content type.
var allowedUploadExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
	".svg":  true,
}

// uploadAsset stores a builder asset under the upload dir and returns its
// public URL. Enforces the extension allow-list and the size cap before
// touching the filesystem.
func (h *HttpEndpoints) uploadAsset(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file field is required"})
		return
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedUploadExts[ext] {
		c.JSON(http.StatusForbidden, gin.H{"error": fmt.Sprintf("file type %q not allowed", ext)})
		return
	}
	if file.Size > types.MaxUploadBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file exceeds 5 MB limit"})
		return
	}

	if err := os.MkdirAll(h.cfg.Server.UploadDir, 0755); err != nil {
		slog.Error("error creating upload dir", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error storing file"})
		return
	}

	// Server-generated name; the client filename only contributes the
	// extension.
	name := fmt.Sprintf("%s%s", types.NewFormID(), ext)
	dst := filepath.Join(h.cfg.Server.UploadDir, name)
	if err := c.SaveUploadedFile(file, dst); err != nil {
		slog.Error("error storing upload", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error storing file"})
		return
	}

	slog.Info("asset uploaded", slog.String("name", name), slog.Int64("size", file.Size))
	c.JSON(http.StatusCreated, gin.H{"url": "/uploads/" + name})
}
