package photo

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"teacher-registry-backend/internal/parse"
)

// URLPrefix is the public route under which stored photos are served.
const URLPrefix = "/uploads"

const stagingDir = ".staging"

// ErrInvalidPath is returned for relative paths that escape the upload root
// or address hidden entries.
var ErrInvalidPath = errors.New("invalid photo path")

// Storage keeps photos under root/<municipality>/<nationalID><ext>.
// Relative paths handed out and accepted by Storage always use "/".
type Storage struct {
	root string
	log  logrus.FieldLogger
}

// NewStorage creates the upload root and its staging area if needed.
func NewStorage(root string, log logrus.FieldLogger) (*Storage, error) {
	if err := os.MkdirAll(filepath.Join(root, stagingDir), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload root %q: %w", root, err)
	}
	return &Storage{root: root, log: log}, nil
}

// Root returns the upload root directory.
func (s *Storage) Root() string {
	return s.root
}

// Resolve computes the relative destination of a photo and makes sure the
// municipality folder exists. Creating an existing folder is not an error.
func (s *Storage) Resolve(municipality, nationalID, ext string) (string, error) {
	folder := parse.FolderName(municipality)
	if err := os.MkdirAll(filepath.Join(s.root, folder), 0o755); err != nil {
		return "", fmt.Errorf("failed to create folder %q: %w", folder, err)
	}
	name := parse.FolderName(nationalID + strings.ToLower(ext))
	return path.Join(folder, name), nil
}

// Stage writes r to a private staging file. The photo only becomes visible
// under its final path once Commit is called.
func (s *Storage) Stage(r io.Reader) (*Staged, error) {
	dir := filepath.Join(s.root, stagingDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create staging area: %w", err)
	}

	tmp := filepath.Join(dir, uuid.NewString())
	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to create staging file: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(tmp)
		return nil, fmt.Errorf("failed to write staging file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return nil, fmt.Errorf("failed to close staging file: %w", err)
	}
	return &Staged{storage: s, tmp: tmp}, nil
}

// Remove deletes the photo at rel and then its folder when that is left
// empty. Failures are logged, never returned.
func (s *Storage) Remove(rel string) {
	abs, err := s.Abs(rel)
	if err != nil {
		s.log.WithField("path", rel).Warn("refusing to remove photo outside the upload root")
		return
	}
	if err := os.Remove(abs); err != nil && !errors.Is(err, fs.ErrNotExist) {
		s.log.WithError(err).WithField("path", rel).Error("failed to remove photo")
	} else if err == nil {
		s.log.WithField("path", rel).Debug("photo removed")
	}
	s.Prune(path.Dir(rel))
}

// Prune removes the folder at rel if it holds no entries. Failures are logged.
func (s *Storage) Prune(rel string) {
	abs, err := s.Abs(rel)
	if err != nil {
		return
	}
	entries, err := os.ReadDir(abs)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.log.WithError(err).WithField("folder", rel).Warn("failed to inspect folder")
		}
		return
	}
	if len(entries) > 0 {
		return
	}
	// os.Remove refuses non-empty directories, so a file landing here
	// concurrently keeps the folder alive.
	if err := os.Remove(abs); err != nil && !errors.Is(err, fs.ErrNotExist) {
		s.log.WithError(err).WithField("folder", rel).Warn("failed to remove empty folder")
		return
	}
	s.log.WithField("folder", rel).Info("removed empty municipality folder")
}

// Abs maps a relative photo path to a file path inside the upload root.
func (s *Storage) Abs(rel string) (string, error) {
	clean := strings.TrimPrefix(path.Clean("/"+rel), "/")
	if clean == "" {
		return "", ErrInvalidPath
	}
	for _, seg := range strings.Split(clean, "/") {
		if strings.HasPrefix(seg, ".") {
			return "", ErrInvalidPath
		}
	}
	return filepath.Join(s.root, filepath.FromSlash(clean)), nil
}

// URL returns the public URL of the photo at rel.
func URL(rel string) string {
	segs := strings.Split(strings.TrimPrefix(rel, "/"), "/")
	for i, seg := range segs {
		segs[i] = url.PathEscape(seg)
	}
	return URLPrefix + "/" + strings.Join(segs, "/")
}

// Staged is a photo written to the staging area but not yet in place.
type Staged struct {
	storage *Storage
	tmp     string
	final   string
}

// Commit moves the staged photo to rel.
func (st *Staged) Commit(rel string) error {
	dst, err := st.storage.Abs(rel)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("failed to create folder for %q: %w", rel, err)
	}
	if err := os.Rename(st.tmp, dst); err != nil {
		return fmt.Errorf("failed to move photo into %q: %w", rel, err)
	}
	st.final = rel
	return nil
}

// Discard removes whatever the staged photo left on disk: the staging file,
// or the committed file and its folder if it ended up empty.
func (st *Staged) Discard() {
	if st.final != "" {
		st.storage.Remove(st.final)
		st.final = ""
		return
	}
	if err := os.Remove(st.tmp); err != nil && !errors.Is(err, fs.ErrNotExist) {
		st.storage.log.WithError(err).WithField("path", st.tmp).Error("failed to remove staging file")
	}
}
