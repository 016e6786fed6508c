package registry

import "errors"

// Workflow failures. Returned errors wrap one of these; use errors.Is.
var (
	ErrMissingField        = errors.New("all fields are required")
	ErrInvalidNationalID   = errors.New("national id must contain exactly 11 numeric digits")
	ErrInvalidSchoolID     = errors.New("school id must be an integer")
	ErrNameTooLong         = errors.New("name must be at most 100 characters")
	ErrDuplicateNationalID = errors.New("a teacher with this national id is already registered")
	ErrUploadFailed        = errors.New("photo upload failed")
	ErrPersistenceFailed   = errors.New("failed to save the registration")
	ErrNotFound            = errors.New("teacher not found")
)
