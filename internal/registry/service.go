package registry

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/sirupsen/logrus"

	"teacher-registry-backend/internal/directory"
	"teacher-registry-backend/internal/model"
	"teacher-registry-backend/internal/parse"
	"teacher-registry-backend/internal/photo"
	"teacher-registry-backend/internal/store"
)

// Photo is an uploaded photo as received from the client.
type Photo struct {
	Filename string
	Content  io.Reader
}

// Registration is the input of Register. SchoolID is kept raw so that
// validation reports it like the other form fields.
type Registration struct {
	Name       string
	NationalID string
	SchoolID   string
	Photo      *Photo
}

// Registered confirms a successful registration.
type Registered struct {
	ID         int64
	Name       string
	NationalID string
	SchoolName string
}

// TeacherView is a display-ready teacher row.
type TeacherView struct {
	ID         int64
	Name       string
	NationalID string
	SchoolName string
	PhotoURL   string
}

// Service runs the registration, deletion and listing workflows. It keeps
// each photo file and its row either both present or both absent.
type Service struct {
	store     store.Store
	directory *directory.Directory
	photos    *photo.Storage
	log       logrus.FieldLogger
}

// NewService wires a Service.
func NewService(s store.Store, dir *directory.Directory, photos *photo.Storage, log logrus.FieldLogger) *Service {
	return &Service{
		store:     s,
		directory: dir,
		photos:    photos,
		log:       log,
	}
}

// Register validates reg, stores its photo and inserts the teacher.
//
// The photo is staged first and only moved to <municipality>/<nationalID><ext>
// inside the insert transaction, so a rejected attempt never overwrites the
// photo of an existing teacher. On any failure the staged or moved file is
// removed again.
func (s *Service) Register(ctx context.Context, reg Registration) (Registered, error) {
	name := strings.TrimSpace(reg.Name)
	if name == "" || reg.NationalID == "" || strings.TrimSpace(reg.SchoolID) == "" || reg.Photo == nil || reg.Photo.Content == nil {
		return Registered{}, ErrMissingField
	}
	if utf8.RuneCountInString(name) > model.MaxNameLength {
		return Registered{}, ErrNameTooLong
	}
	if err := parse.NationalID(reg.NationalID); err != nil {
		return Registered{}, ErrInvalidNationalID
	}
	schoolID, err := strconv.Atoi(strings.TrimSpace(reg.SchoolID))
	if err != nil {
		return Registered{}, ErrInvalidSchoolID
	}

	school := s.directory.LookupID(schoolID)
	log := s.log.WithFields(logrus.Fields{
		"national_id":  reg.NationalID,
		"school_id":    schoolID,
		"municipality": school.Municipality,
	})

	rel, err := s.photos.Resolve(school.Municipality, reg.NationalID, parse.Extension(reg.Photo.Filename))
	if err != nil {
		log.WithError(err).Error("failed to resolve photo path")
		return Registered{}, fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}
	log = log.WithField("path", rel)

	staged, err := s.photos.Stage(reg.Photo.Content)
	if err != nil {
		log.WithError(err).Error("failed to write photo")
		s.photos.Prune(path.Dir(rel))
		return Registered{}, fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}

	// Fast rejection; the unique index below is what actually guarantees it.
	exists, err := s.store.NationalIDExists(ctx, reg.NationalID)
	if err != nil {
		s.abandon(staged, rel)
		log.WithError(err).Error("failed to check for duplicate national id")
		return Registered{}, fmt.Errorf("%w: %v", ErrPersistenceFailed, err)
	}
	if exists {
		s.abandon(staged, rel)
		log.Info("rejected duplicate national id")
		return Registered{}, ErrDuplicateNationalID
	}

	teacher := &model.Teacher{
		Name:       name,
		NationalID: reg.NationalID,
		SchoolID:   schoolID,
		PhotoPath:  rel,
	}
	err = s.store.CreateTeacher(ctx, teacher, func() error {
		return staged.Commit(rel)
	})
	if err != nil {
		s.abandon(staged, rel)
		if errors.Is(err, store.ErrDuplicateNationalID) {
			log.Info("unique index rejected duplicate national id")
			return Registered{}, ErrDuplicateNationalID
		}
		log.WithError(err).Error("failed to insert teacher")
		return Registered{}, fmt.Errorf("%w: %v", ErrPersistenceFailed, err)
	}

	log.WithField("teacher_id", teacher.ID).Info("teacher registered")
	return Registered{
		ID:         teacher.ID,
		Name:       teacher.Name,
		NationalID: teacher.NationalID,
		SchoolName: school.Name,
	}, nil
}

// abandon undoes the file side of a failed registration.
func (s *Service) abandon(staged *photo.Staged, rel string) {
	staged.Discard()
	s.photos.Prune(path.Dir(rel))
}

// Delete removes the teacher row and then its photo. The row goes first so a
// failed delete never leaves a record pointing at a missing file; a photo
// that cannot be removed is left for the sweeper.
func (s *Service) Delete(ctx context.Context, id int64) error {
	teacher, err := s.store.DeleteTeacher(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}
		s.log.WithError(err).WithField("teacher_id", id).Error("failed to delete teacher")
		return fmt.Errorf("%w: %v", ErrPersistenceFailed, err)
	}

	s.photos.Remove(teacher.PhotoPath)
	s.log.WithFields(logrus.Fields{
		"teacher_id":  id,
		"national_id": teacher.NationalID,
	}).Info("teacher deleted")
	return nil
}

// List returns every teacher in id order, ready for display.
func (s *Service) List(ctx context.Context) ([]TeacherView, error) {
	teachers, err := s.store.ListTeachers(ctx)
	if err != nil {
		return nil, err
	}

	views := make([]TeacherView, 0, len(teachers))
	for _, t := range teachers {
		views = append(views, TeacherView{
			ID:         t.ID,
			Name:       t.Name,
			NationalID: t.NationalID,
			SchoolName: s.directory.LookupID(t.SchoolID).Name,
			PhotoURL:   photo.URL(t.PhotoPath),
		})
	}
	return views, nil
}

// SearchSchools exposes the directory search.
func (s *Service) SearchSchools(query string) []model.School {
	return s.directory.Search(query)
}

// Ping checks that the database is reachable.
func (s *Service) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}
