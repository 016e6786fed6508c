package api

import (
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
)

// ServePhoto handles GET /uploads/*filepath.
func (h *Handler) ServePhoto(c *gin.Context) {
	abs, err := h.photos.Abs(c.Param("filepath"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "photo not found"})
		return
	}
	info, err := os.Stat(abs)
	if err != nil || info.IsDir() {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "photo not found"})
		return
	}
	c.File(abs)
}

// Health handles GET /healthz.
func (h *Handler) Health(c *gin.Context) {
	if err := h.registry.Ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
