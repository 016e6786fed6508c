package testutil

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"teacher-registry-backend/config"
	"teacher-registry-backend/internal/db"
	"teacher-registry-backend/internal/logger"
)

// SetupTestDB opens a private in-memory SQLite database with the schema
// migrated. It is closed when the test ends.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	cfg := &config.DatabaseConfig{
		SQLitePath:   fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()),
		MaxOpenConns: 1,
	}
	gormDB, err := db.Init(cfg, logger.Discard())
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		t.Fatalf("Failed to get sql.DB: %v", err)
	}
	t.Cleanup(func() { sqlDB.Close() })

	return gormDB
}

// Form describes a multipart registration request.
type Form struct {
	Fields        map[string]string
	PhotoField    string
	PhotoFilename string
	Photo         []byte
}

// MultipartRequest builds a POST request carrying form as multipart data.
// The photo part is omitted when PhotoFilename is empty.
func MultipartRequest(t *testing.T, target string, form Form) *http.Request {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for k, v := range form.Fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatalf("Failed to write field %s: %v", k, err)
		}
	}
	if form.PhotoFilename != "" {
		field := form.PhotoField
		if field == "" {
			field = "photo"
		}
		part, err := w.CreateFormFile(field, form.PhotoFilename)
		if err != nil {
			t.Fatalf("Failed to create file part: %v", err)
		}
		if _, err := part.Write(form.Photo); err != nil {
			t.Fatalf("Failed to write file part: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Failed to close multipart writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, target, &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}
