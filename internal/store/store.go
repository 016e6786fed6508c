package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
	"gorm.io/gorm"

	"teacher-registry-backend/internal/model"
)

var (
	// ErrNotFound is returned when no teacher has the requested id.
	ErrNotFound = errors.New("teacher not found")
	// ErrDuplicateNationalID is returned when the unique index on
	// national_id rejects an insert.
	ErrDuplicateNationalID = errors.New("national id already registered")
)

// Store defines the interface for all database operations.
type Store interface {
	NationalIDExists(ctx context.Context, nationalID string) (bool, error)
	// CreateTeacher inserts t inside a transaction and runs beforeCommit
	// before committing. An error from beforeCommit rolls the insert back.
	CreateTeacher(ctx context.Context, t *model.Teacher, beforeCommit func() error) error
	GetTeacher(ctx context.Context, id int64) (model.Teacher, error)
	ListTeachers(ctx context.Context) ([]model.Teacher, error)
	// DeleteTeacher removes the row and returns what it held.
	DeleteTeacher(ctx context.Context, id int64) (model.Teacher, error)
	PhotoPaths(ctx context.Context) (map[string]struct{}, error)
	Ping(ctx context.Context) error
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) NationalIDExists(ctx context.Context, nationalID string) (bool, error) {
	var count int64
	if err := s.db.WithContext(ctx).
		Model(&model.Teacher{}).
		Where("national_id = ?", nationalID).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check national id: %w", err)
	}
	return count > 0, nil
}

func (s *gormStore) CreateTeacher(ctx context.Context, t *model.Teacher, beforeCommit func() error) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(t).Error; err != nil {
			return err
		}
		if beforeCommit != nil {
			return beforeCommit()
		}
		return nil
	})
	if err == nil {
		return nil
	}
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: %s", ErrDuplicateNationalID, t.NationalID)
	}
	return fmt.Errorf("failed to create teacher: %w", err)
}

func (s *gormStore) GetTeacher(ctx context.Context, id int64) (model.Teacher, error) {
	var t model.Teacher
	if err := s.db.WithContext(ctx).First(&t, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model.Teacher{}, ErrNotFound
		}
		return model.Teacher{}, fmt.Errorf("failed to get teacher %d: %w", id, err)
	}
	return t, nil
}

func (s *gormStore) ListTeachers(ctx context.Context) ([]model.Teacher, error) {
	var teachers []model.Teacher
	if err := s.db.WithContext(ctx).Order("id").Find(&teachers).Error; err != nil {
		return nil, fmt.Errorf("failed to list teachers: %w", err)
	}
	return teachers, nil
}

func (s *gormStore) DeleteTeacher(ctx context.Context, id int64) (model.Teacher, error) {
	var t model.Teacher
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&t, id).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Teacher{}, id).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model.Teacher{}, ErrNotFound
		}
		return model.Teacher{}, fmt.Errorf("failed to delete teacher %d: %w", id, err)
	}
	return t, nil
}

func (s *gormStore) PhotoPaths(ctx context.Context) (map[string]struct{}, error) {
	var paths []string
	if err := s.db.WithContext(ctx).
		Model(&model.Teacher{}).
		Pluck("photo_path", &paths).Error; err != nil {
		return nil, fmt.Errorf("failed to list photo paths: %w", err)
	}
	set := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		set[p] = struct{}{}
	}
	return set, nil
}

func (s *gormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// isUniqueViolation recognises unique-constraint failures from either
// driver, whether or not GORM translated them.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}
