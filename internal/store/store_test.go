package store

import (
	"context"
	"database/sql/driver"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"teacher-registry-backend/internal/model"
	"teacher-registry-backend/internal/testutil"
)

// A helper function to create a mock database connection.
func newTestDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{})
	require.NoError(t, err)

	return gormDB, mock
}

func newTeacher() *model.Teacher {
	return &model.Teacher{
		Name:       "Ana Silva",
		NationalID: "12345678901",
		SchoolID:   101,
		PhotoPath:  "Boa Vista/12345678901.jpg",
	}
}

func TestGormStore_CreateTeacher(t *testing.T) {
	testCases := []struct {
		name             string
		beforeCommit     func() error
		mockExpectations func(mock sqlmock.Sqlmock)
		expectedErr      error
		expectAnyErr     bool
		expectedID       int64
	}{
		{
			name:         "Inserted and committed",
			beforeCommit: func() error { return nil },
			mockExpectations: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "teachers"`)).
					WithArgs("Ana Silva", "12345678901", 101, "Boa Vista/12345678901.jpg", Any{}).
					WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
				mock.ExpectCommit()
			},
			expectedID: 7,
		},
		{
			name:         "Unique violation maps to duplicate",
			beforeCommit: func() error { return nil },
			mockExpectations: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "teachers"`)).
					WillReturnError(&pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint"})
				mock.ExpectRollback()
			},
			expectedErr: ErrDuplicateNationalID,
		},
		{
			name:         "Hook failure rolls back",
			beforeCommit: func() error { return errors.New("rename failed") },
			mockExpectations: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "teachers"`)).
					WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(8))
				mock.ExpectRollback()
			},
			expectAnyErr: true,
		},
		{
			name:         "Other insert failure",
			beforeCommit: func() error { return nil },
			mockExpectations: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "teachers"`)).
					WillReturnError(errors.New("connection refused"))
				mock.ExpectRollback()
			},
			expectAnyErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			gormDB, mock := newTestDB(t)
			store := NewGormStore(gormDB)
			tc.mockExpectations(mock)

			teacher := newTeacher()
			err := store.CreateTeacher(context.Background(), teacher, tc.beforeCommit)

			switch {
			case tc.expectedErr != nil:
				assert.ErrorIs(t, err, tc.expectedErr)
			case tc.expectAnyErr:
				assert.Error(t, err)
				assert.NotErrorIs(t, err, ErrDuplicateNationalID)
			default:
				assert.NoError(t, err)
				assert.Equal(t, tc.expectedID, teacher.ID)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestGormStore_NationalIDExists(t *testing.T) {
	gormDB, mock := newTestDB(t)
	store := NewGormStore(gormDB)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "teachers" WHERE national_id = $1`)).
		WithArgs("12345678901").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	exists, err := store.NationalIDExists(context.Background(), "12345678901")
	require.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStore_DeleteTeacher(t *testing.T) {
	t.Run("Deleted inside a transaction", func(t *testing.T) {
		gormDB, mock := newTestDB(t)
		store := NewGormStore(gormDB)

		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "teachers" WHERE "teachers"."id" = $1`)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "name", "national_id", "school_id", "photo_path"}).
				AddRow(7, "Ana Silva", "12345678901", 101, "Boa Vista/12345678901.jpg"))
		mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "teachers" WHERE "teachers"."id" = $1`)).
			WithArgs(7).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		deleted, err := store.DeleteTeacher(context.Background(), 7)
		require.NoError(t, err)
		assert.Equal(t, "Boa Vista/12345678901.jpg", deleted.PhotoPath)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Missing row", func(t *testing.T) {
		gormDB, mock := newTestDB(t)
		store := NewGormStore(gormDB)

		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "teachers" WHERE "teachers"."id" = $1`)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))
		mock.ExpectRollback()

		_, err := store.DeleteTeacher(context.Background(), 7)
		assert.ErrorIs(t, err, ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Delete failure rolls back", func(t *testing.T) {
		gormDB, mock := newTestDB(t)
		store := NewGormStore(gormDB)

		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "teachers" WHERE "teachers"."id" = $1`)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
		mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "teachers"`)).
			WillReturnError(errors.New("disk I/O error"))
		mock.ExpectRollback()

		_, err := store.DeleteTeacher(context.Background(), 7)
		assert.Error(t, err)
		assert.NotErrorIs(t, err, ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormStore_SQLite(t *testing.T) {
	store := NewGormStore(testutil.SetupTestDB(t))
	ctx := context.Background()

	first := newTeacher()
	require.NoError(t, store.CreateTeacher(ctx, first, nil))

	second := &model.Teacher{Name: "Bruno Lima", NationalID: "10987654321", SchoolID: 103, PhotoPath: "Caracaraí/10987654321.png"}
	require.NoError(t, store.CreateTeacher(ctx, second, nil))

	t.Run("Unique index rejects a second national id", func(t *testing.T) {
		dup := newTeacher()
		err := store.CreateTeacher(ctx, dup, nil)
		assert.ErrorIs(t, err, ErrDuplicateNationalID)
	})

	t.Run("Existence check", func(t *testing.T) {
		exists, err := store.NationalIDExists(ctx, "12345678901")
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = store.NationalIDExists(ctx, "00000000000")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("List in id order", func(t *testing.T) {
		teachers, err := store.ListTeachers(ctx)
		require.NoError(t, err)
		require.Len(t, teachers, 2)
		assert.Equal(t, first.ID, teachers[0].ID)
		assert.Equal(t, second.ID, teachers[1].ID)
	})

	t.Run("Photo paths", func(t *testing.T) {
		paths, err := store.PhotoPaths(ctx)
		require.NoError(t, err)
		assert.Equal(t, map[string]struct{}{
			"Boa Vista/12345678901.jpg": {},
			"Caracaraí/10987654321.png": {},
		}, paths)
	})

	t.Run("Delete then get", func(t *testing.T) {
		deleted, err := store.DeleteTeacher(ctx, first.ID)
		require.NoError(t, err)
		assert.Equal(t, "12345678901", deleted.NationalID)

		_, err = store.GetTeacher(ctx, first.ID)
		assert.ErrorIs(t, err, ErrNotFound)

		_, err = store.DeleteTeacher(ctx, first.ID)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("Ping", func(t *testing.T) {
		assert.NoError(t, store.Ping(ctx))
	})
}

// Any is a helper for sqlmock to match any argument.
type Any struct{}

// Match satisfies the sqlmock.Argument interface
func (a Any) Match(v driver.Value) bool {
	return true
}
