package api

import (
	"errors"
	"net/http"

	"teacher-registry-backend/internal/photo"
	"teacher-registry-backend/internal/registry"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	registry       *registry.Service
	photos         *photo.Storage
	maxUploadBytes int64
}

// NewHandler creates a new API handler.
func NewHandler(svc *registry.Service, photos *photo.Storage, maxUploadBytes int64) *Handler {
	return &Handler{
		registry:       svc,
		photos:         photos,
		maxUploadBytes: maxUploadBytes,
	}
}

var publicErrors = []error{
	registry.ErrMissingField,
	registry.ErrInvalidNationalID,
	registry.ErrInvalidSchoolID,
	registry.ErrNameTooLong,
	registry.ErrDuplicateNationalID,
	registry.ErrUploadFailed,
	registry.ErrPersistenceFailed,
	registry.ErrNotFound,
}

// errorResponse maps a workflow error to a status code and a message that is
// safe to show to users. Causes wrapped behind the sentinel are not exposed.
func errorResponse(err error) (int, string) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, registry.ErrMissingField),
		errors.Is(err, registry.ErrInvalidNationalID),
		errors.Is(err, registry.ErrInvalidSchoolID),
		errors.Is(err, registry.ErrNameTooLong):
		status = http.StatusBadRequest
	case errors.Is(err, registry.ErrDuplicateNationalID):
		status = http.StatusConflict
	case errors.Is(err, registry.ErrNotFound):
		status = http.StatusNotFound
	}

	for _, pub := range publicErrors {
		if errors.Is(err, pub) {
			return status, pub.Error()
		}
	}
	return status, "internal error"
}
