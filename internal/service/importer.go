package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/tazhibayda/family-gallery/internal/domain"
	"github.com/tazhibayda/family-gallery/internal/ingest"
	"github.com/tazhibayda/family-gallery/internal/log"
	"github.com/tazhibayda/family-gallery/internal/metrics"
	"github.com/tazhibayda/family-gallery/internal/photos"
	"github.com/tazhibayda/family-gallery/internal/queue"
	"github.com/tazhibayda/family-gallery/internal/serr"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type ImportRequest struct {
	GalleryID   string             `json:"galleryId"`
	AccessToken string             `json:"accessToken"`
	Items       []photos.MediaItem `json:"items"`
}

type ImportResult struct {
	Entries []domain.Entry `json:"entries"`
	Results []ItemResult   `json:"results"`
}

// Import downloads every item with bounded concurrency and a per-item deadline.
// Results keep the order of the request; Entries holds only the successes.
func (s *EntryService) Import(ctx context.Context, req ImportRequest) (*ImportResult, error) {
	if req.AccessToken == "" {
		return nil, serr.New(serr.Validation, "accessToken is required")
	}
	if len(req.Items) == 0 {
		return nil, serr.New(serr.Validation, "items are required")
	}
	gid, err := s.gallery(ctx, req.GalleryID)
	if err != nil {
		return nil, err
	}

	entries := make([]*domain.Entry, len(req.Items))
	results := make([]ItemResult, len(req.Items))

	var g errgroup.Group
	g.SetLimit(s.opts.Concurrency)
	for i, item := range req.Items {
		g.Go(func() error {
			e, err := s.importOne(ctx, gid, item, req.AccessToken)
			if err != nil {
				metrics.ImportItems.WithLabelValues("failed").Inc()
				log.WithDD(ctx, log.L()).Warn("import item skipped", zap.String("item", item.ID), zap.Error(err))
				results[i] = ItemResult{ID: item.ID, Error: importMessage(err)}
				return nil
			}
			metrics.ImportItems.WithLabelValues("ok").Inc()
			entries[i] = e
			results[i] = ItemResult{ID: item.ID, OK: true}
			return nil
		})
	}
	_ = g.Wait()

	out := &ImportResult{Entries: make([]domain.Entry, 0, len(entries)), Results: results}
	for _, e := range entries {
		if e != nil {
			out.Entries = append(out.Entries, *e)
		}
	}
	publish(ctx, s.pub, queue.KeyEntriesImported, queue.EntriesImported{
		GalleryID: gid, Imported: len(out.Entries), Failed: len(results) - len(out.Entries),
	})
	return out, nil
}

func (s *EntryService) importOne(ctx context.Context, gid primitive.ObjectID, item photos.MediaItem, token string) (*domain.Entry, error) {
	if item.BaseURL == "" {
		return nil, photos.ErrMissingURL
	}
	ctx, cancel := context.WithTimeout(ctx, s.opts.ItemTimeout)
	defer cancel()

	body, err := s.source.Fetch(ctx, item, token)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	name := item.Filename
	if name == "" {
		name = item.ID + ".jpg"
	}
	st, err := s.files.Ingest(ctx, ingest.DirEntries, name, body)
	if err != nil {
		return nil, fmt.Errorf("ingest: %w", err)
	}
	e := &domain.Entry{
		Title:       item.Filename,
		Description: item.Description,
		ImageURL:    st.URL,
		GalleryID:   gid,
		DateTaken:   item.Created(),
	}
	if e.DateTaken == nil {
		e.DateTaken = st.CaptureTime
	}
	if err := s.record(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

func importMessage(err error) string {
	var se *serr.Error
	if errors.As(err, &se) {
		return serr.Message(err)
	}
	return err.Error()
}
