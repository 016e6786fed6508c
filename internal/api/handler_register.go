package api

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"teacher-registry-backend/internal/registry"
)

type registerForm struct {
	Name       string                `form:"name"`
	NationalID string                `form:"nationalId"`
	SchoolID   string                `form:"schoolId"`
	Photo      *multipart.FileHeader `form:"photo"`
}

// Register handles POST /register.
func (h *Handler) Register(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes)

	var form registerForm
	if err := c.ShouldBind(&form); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) || strings.Contains(err.Error(), "request body too large") {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"message": "photo exceeds the maximum upload size"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid form data"})
		return
	}

	reg := registry.Registration{
		Name:       form.Name,
		NationalID: form.NationalID,
		SchoolID:   form.SchoolID,
	}
	if form.Photo != nil {
		f, err := form.Photo.Open()
		if err != nil {
			status, msg := errorResponse(registry.ErrUploadFailed)
			c.JSON(status, gin.H{"message": msg})
			return
		}
		defer f.Close()
		reg.Photo = &registry.Photo{Filename: form.Photo.Filename, Content: f}
	}

	got, err := h.registry.Register(c.Request.Context(), reg)
	if err != nil {
		status, msg := errorResponse(err)
		c.JSON(status, gin.H{"message": msg})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "registration completed successfully",
		"id":         got.ID,
		"nationalId": got.NationalID,
		"name":       got.Name,
		"schoolName": got.SchoolName,
	})
}
