package photo

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// PhotoIndex lists the photo paths referenced by stored records.
type PhotoIndex interface {
	PhotoPaths(ctx context.Context) (map[string]struct{}, error)
}

// Sweeper reclaims files that no record points to: staging files left by an
// interrupted registration and photos whose record is gone. Files younger
// than the grace period are never touched, so in-flight registrations are safe.
type Sweeper struct {
	storage *Storage
	index   PhotoIndex
	grace   time.Duration
	log     logrus.FieldLogger
	cron    *cron.Cron
}

// NewSweeper creates a sweeper. It does nothing until Start or SweepOnce.
func NewSweeper(storage *Storage, index PhotoIndex, grace time.Duration, log logrus.FieldLogger) *Sweeper {
	return &Sweeper{
		storage: storage,
		index:   index,
		grace:   grace,
		log:     log,
	}
}

// Start schedules SweepOnce with a cron spec such as "@every 1h".
func (sw *Sweeper) Start(schedule string) error {
	sw.cron = cron.New()
	_, err := sw.cron.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		removed, err := sw.SweepOnce(ctx, time.Now())
		if err != nil {
			sw.log.WithError(err).Error("photo sweep failed")
			return
		}
		sw.log.WithField("removed", removed).Info("photo sweep finished")
	})
	if err != nil {
		return fmt.Errorf("invalid sweeper schedule %q: %w", schedule, err)
	}
	sw.cron.Start()
	sw.log.WithField("schedule", schedule).Info("photo sweeper started")
	return nil
}

// Stop halts the schedule and waits for a running sweep to finish.
func (sw *Sweeper) Stop() {
	if sw.cron == nil {
		return
	}
	<-sw.cron.Stop().Done()
}

// SweepOnce performs one pass and returns the number of files removed.
func (sw *Sweeper) SweepOnce(ctx context.Context, now time.Time) (int, error) {
	referenced, err := sw.index.PhotoPaths(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list referenced photos: %w", err)
	}

	removed := sw.sweepStaging(now)

	folders, err := os.ReadDir(sw.storage.root)
	if err != nil {
		return removed, fmt.Errorf("failed to read upload root: %w", err)
	}
	for _, folder := range folders {
		if err := ctx.Err(); err != nil {
			return removed, err
		}
		if !folder.IsDir() || strings.HasPrefix(folder.Name(), ".") {
			continue
		}
		removed += sw.sweepFolder(folder.Name(), referenced, now)
		sw.storage.Prune(folder.Name())
	}
	return removed, nil
}

func (sw *Sweeper) sweepStaging(now time.Time) int {
	dir := filepath.Join(sw.storage.root, stagingDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			sw.log.WithError(err).Warn("failed to read staging area")
		}
		return 0
	}

	removed := 0
	for _, e := range entries {
		if e.IsDir() || !sw.expired(e, now) {
			continue
		}
		p := filepath.Join(dir, e.Name())
		if err := os.Remove(p); err != nil {
			sw.log.WithError(err).WithField("path", p).Warn("failed to remove stale staging file")
			continue
		}
		sw.log.WithField("path", p).Info("removed stale staging file")
		removed++
	}
	return removed
}

func (sw *Sweeper) sweepFolder(folder string, referenced map[string]struct{}, now time.Time) int {
	dir := filepath.Join(sw.storage.root, folder)
	entries, err := os.ReadDir(dir)
	if err != nil {
		sw.log.WithError(err).WithField("folder", folder).Warn("failed to read folder")
		return 0
	}

	removed := 0
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		rel := path.Join(folder, e.Name())
		if _, ok := referenced[rel]; ok || !sw.expired(e, now) {
			continue
		}
		if err := os.Remove(filepath.Join(dir, e.Name())); err != nil {
			sw.log.WithError(err).WithField("path", rel).Warn("failed to remove orphaned photo")
			continue
		}
		sw.log.WithField("path", rel).Info("removed orphaned photo")
		removed++
	}
	return removed
}

func (sw *Sweeper) expired(e fs.DirEntry, now time.Time) bool {
	info, err := e.Info()
	if err != nil {
		return false
	}
	return now.Sub(info.ModTime()) >= sw.grace
}
