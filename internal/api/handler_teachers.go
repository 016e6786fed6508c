package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// Index serves the registration form.
func (h *Handler) Index(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", nil)
}

// ListTeachers handles GET /list.
func (h *Handler) ListTeachers(c *gin.Context) {
	teachers, err := h.registry.List(c.Request.Context())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve teachers"})
		return
	}
	c.HTML(http.StatusOK, "list.html", gin.H{"teachers": teachers})
}

// DeleteTeacher handles GET /delete/:id and redirects back to the list.
func (h *Handler) DeleteTeacher(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid teacher ID"})
		return
	}

	if err := h.registry.Delete(c.Request.Context(), id); err != nil {
		status, msg := errorResponse(err)
		c.AbortWithStatusJSON(status, gin.H{"error": msg})
		return
	}
	c.Redirect(http.StatusFound, "/list")
}
