// Package sweep removes upload files that no record points at any more.
package sweep

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/tazhibayda/family-gallery/internal/log"
	"github.com/tazhibayda/family-gallery/internal/metrics"
	"github.com/tazhibayda/family-gallery/internal/storage"
	"go.uber.org/zap"
)

type Files interface {
	Walk(ctx context.Context, fn func(storage.StoredFile) error) error
	Remove(ctx context.Context, url string) error
}

type Refs interface {
	ReferencedURLs(ctx context.Context) (map[string]struct{}, error)
}

type Sweeper struct {
	files Files
	refs  Refs
	grace time.Duration
	now   func() time.Time
}

// New builds a sweeper that leaves files younger than grace alone, so uploads whose
// record is still being written are never touched.
func New(files Files, refs Refs, grace time.Duration) *Sweeper {
	return &Sweeper{files: files, refs: refs, grace: grace, now: time.Now}
}

// Run does one pass and returns the number of removed files.
func (s *Sweeper) Run(ctx context.Context) (int, error) {
	refs, err := s.refs.ReferencedURLs(ctx)
	if err != nil {
		return 0, err
	}
	cutoff := s.now().Add(-s.grace)

	var orphans []string
	err = s.files.Walk(ctx, func(f storage.StoredFile) error {
		if _, ok := refs[f.URL]; ok || f.ModTime.After(cutoff) {
			return nil
		}
		orphans = append(orphans, f.URL)
		return nil
	})
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, u := range orphans {
		if err := s.files.Remove(ctx, u); err != nil {
			log.L().Warn("sweep remove", zap.String("url", u), zap.Error(err))
			continue
		}
		removed++
	}
	metrics.SweptFiles.Add(float64(removed))
	return removed, nil
}

// Schedule registers Run on a cron spec. The caller starts and stops the returned scheduler.
func (s *Sweeper) Schedule(spec string) (*cron.Cron, error) {
	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		n, err := s.Run(ctx)
		if err != nil {
			log.L().Error("sweep failed", zap.Error(err))
			return
		}
		if n > 0 {
			log.L().Info("sweep done", zap.Int("removed", n))
		}
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}
