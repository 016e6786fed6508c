package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// schoolResult is the shape expected by the form's school picker.
type schoolResult struct {
	ID           int    `json:"id"`
	Text         string `json:"text"`
	Municipality string `json:"municipality"`
}

// SearchSchools handles GET /api/schools?query=.
func (h *Handler) SearchSchools(c *gin.Context) {
	schools := h.registry.SearchSchools(c.Query("query"))

	results := make([]schoolResult, 0, len(schools))
	for _, s := range schools {
		results = append(results, schoolResult{ID: s.ID, Text: s.Name, Municipality: s.Municipality})
	}
	c.JSON(http.StatusOK, gin.H{"results": results})
}
