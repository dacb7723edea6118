package service

import (
	"context"
	"strings"
	"time"

	"github.com/tazhibayda/family-gallery/internal/domain"
	"github.com/tazhibayda/family-gallery/internal/ingest"
	"github.com/tazhibayda/family-gallery/internal/log"
	"github.com/tazhibayda/family-gallery/internal/metrics"
	"github.com/tazhibayda/family-gallery/internal/photos"
	"github.com/tazhibayda/family-gallery/internal/queue"
	"github.com/tazhibayda/family-gallery/internal/serr"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type EntryInput struct {
	GalleryID   string
	Title       string
	Description string
	// DateTaken overrides the capture time read from the image.
	DateTaken *time.Time
}

type ImportOptions struct {
	Concurrency int
	ItemTimeout time.Duration
}

type EntryService struct {
	galleries GalleryStore
	entries   EntryStore
	files     Files
	source    photos.Source
	pub       queue.Publisher
	opts      ImportOptions
}

func NewEntryService(galleries GalleryStore, entries EntryStore, files Files, source photos.Source, pub queue.Publisher, opts ImportOptions) *EntryService {
	if opts.Concurrency <= 0 {
		opts.Concurrency = 4
	}
	if opts.ItemTimeout <= 0 {
		opts.ItemTimeout = 60 * time.Second
	}
	return &EntryService{galleries: galleries, entries: entries, files: files, source: source, pub: pub, opts: opts}
}

// List returns a gallery's entries oldest capture first. Family-only galleries need a privileged viewer.
func (s *EntryService) List(ctx context.Context, v domain.Viewer, galleryID string) ([]domain.Entry, error) {
	gid, err := parseID(galleryID, "gallery")
	if err != nil {
		return nil, err
	}
	g, err := s.galleries.FindGallery(ctx, gid)
	if err != nil {
		return nil, internalErr(err, "find gallery")
	}
	if err := visible(g, v); err != nil {
		return nil, err
	}
	es, err := s.entries.ListEntries(ctx, gid)
	if err != nil {
		return nil, internalErr(err, "list entries")
	}
	return es, nil
}

func (s *EntryService) gallery(ctx context.Context, id string) (primitive.ObjectID, error) {
	if strings.TrimSpace(id) == "" {
		return primitive.NilObjectID, serr.New(serr.Validation, "galleryId is required")
	}
	gid, err := parseID(id, "gallery")
	if err != nil {
		return gid, err
	}
	g, err := s.galleries.FindGallery(ctx, gid)
	if err != nil {
		return gid, internalErr(err, "find gallery")
	}
	if g == nil {
		return gid, serr.New(serr.NotFound, "gallery not found")
	}
	return gid, nil
}

// record writes the entry for an already stored file and removes the file if that fails.
func (s *EntryService) record(ctx context.Context, e *domain.Entry) error {
	if err := s.entries.CreateEntry(ctx, e); err != nil {
		s.files.Discard(context.WithoutCancel(ctx), e.ImageURL)
		return internalErr(err, "create entry")
	}
	metrics.UploadedFiles.WithLabelValues(ingest.DirEntries).Inc()
	return nil
}

// Upload stores each file as its own entry. One bad file does not abort the batch.
func (s *EntryService) Upload(ctx context.Context, in EntryInput, ups []Upload) ([]domain.Entry, []ItemResult, error) {
	if len(ups) == 0 {
		return nil, nil, serr.New(serr.Validation, "at least one image is required")
	}
	gid, err := s.gallery(ctx, in.GalleryID)
	if err != nil {
		return nil, nil, err
	}

	created := make([]domain.Entry, 0, len(ups))
	results := make([]ItemResult, 0, len(ups))
	for _, up := range ups {
		e, err := s.createOne(ctx, gid, in, up)
		if err != nil {
			log.WithDD(ctx, log.L()).Warn("entry upload skipped", zap.String("file", up.Name), zap.Error(err))
			results = append(results, ItemResult{ID: up.Name, Error: serr.Message(err)})
			continue
		}
		created = append(created, *e)
		results = append(results, ItemResult{ID: up.Name, OK: true})
	}
	return created, results, nil
}

// CreateOne stores a single image; failures are returned rather than skipped.
func (s *EntryService) CreateOne(ctx context.Context, in EntryInput, up *Upload) (*domain.Entry, error) {
	if up == nil {
		return nil, serr.New(serr.Validation, "image is required")
	}
	gid, err := s.gallery(ctx, in.GalleryID)
	if err != nil {
		return nil, err
	}
	return s.createOne(ctx, gid, in, *up)
}

func (s *EntryService) createOne(ctx context.Context, gid primitive.ObjectID, in EntryInput, up Upload) (*domain.Entry, error) {
	st, err := storeFile(ctx, s.files, ingest.DirEntries, up)
	if err != nil {
		return nil, err
	}
	e := &domain.Entry{
		Title:       in.Title,
		Description: in.Description,
		ImageURL:    st.URL,
		GalleryID:   gid,
		DateTaken:   st.CaptureTime,
	}
	if in.DateTaken != nil {
		e.DateTaken = in.DateTaken
	}
	if err := s.record(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

// Delete removes the file best effort, then the record.
func (s *EntryService) Delete(ctx context.Context, id string) error {
	oid, err := parseID(id, "entry")
	if err != nil {
		return err
	}
	e, err := s.entries.FindEntry(ctx, oid)
	if err != nil {
		return internalErr(err, "find entry")
	}
	if e == nil {
		return serr.New(serr.NotFound, "entry not found")
	}
	s.files.Discard(ctx, e.ImageURL)
	if _, err := s.entries.DeleteEntry(ctx, oid); err != nil {
		return internalErr(err, "delete entry")
	}
	return nil
}
