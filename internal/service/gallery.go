package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/tazhibayda/family-gallery/internal/domain"
	"github.com/tazhibayda/family-gallery/internal/ingest"
	"github.com/tazhibayda/family-gallery/internal/queue"
	"github.com/tazhibayda/family-gallery/internal/serr"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type GalleryInput struct {
	Name         string
	Description  string
	Story        string
	CoverImage   string
	IsFamilyOnly bool
	Tags         []string
	Year         int
	Month        int
}

// GalleryUpdate carries the fields a partial update may change; nil leaves a field alone.
// Visibility is not part of it.
type GalleryUpdate struct {
	Name        *string
	Description *string
	Story       *string
	Tags        *[]string
	Year        *int
	Month       *int
}

type GalleryService struct {
	galleries GalleryStore
	entries   EntryStore
	tags      TagStore
	files     Files
	pub       queue.Publisher
	now       func() time.Time
}

func NewGalleryService(galleries GalleryStore, entries EntryStore, tags TagStore, files Files, pub queue.Publisher) *GalleryService {
	return &GalleryService{galleries: galleries, entries: entries, tags: tags, files: files, pub: pub, now: time.Now}
}

func (s *GalleryService) List(ctx context.Context, v domain.Viewer) ([]domain.Gallery, error) {
	gs, err := s.galleries.ListGalleries(ctx, CanSeeFamily(v))
	if err != nil {
		return nil, internalErr(err, "list galleries")
	}
	for i := range gs {
		if gs[i].Tags, err = populate(ctx, s.tags, gs[i].TagIDs); err != nil {
			return nil, err
		}
	}
	return gs, nil
}

// Get accepts either an id or a gallery name.
func (s *GalleryService) Get(ctx context.Context, v domain.Viewer, idOrName string) (*domain.Gallery, error) {
	var (
		g   *domain.Gallery
		err error
	)
	if oid, perr := primitive.ObjectIDFromHex(idOrName); perr == nil {
		g, err = s.galleries.FindGallery(ctx, oid)
	} else {
		g, err = s.galleries.FindGalleryByName(ctx, strings.TrimSpace(idOrName))
	}
	if err != nil {
		return nil, internalErr(err, "find gallery")
	}
	if err := visible(g, v); err != nil {
		return nil, err
	}
	if g.Tags, err = populate(ctx, s.tags, g.TagIDs); err != nil {
		return nil, err
	}
	return g, nil
}

func visible(g *domain.Gallery, v domain.Viewer) error {
	if g == nil {
		return serr.New(serr.NotFound, "gallery not found")
	}
	if g.IsFamilyOnly && !CanSeeFamily(v) {
		return serr.New(serr.Forbidden, "access denied")
	}
	return nil
}

// CreateForFamily always produces a family-only gallery.
func (s *GalleryService) CreateForFamily(ctx context.Context, in GalleryInput) (*domain.Gallery, error) {
	in.IsFamilyOnly = true
	return s.create(ctx, in)
}

func (s *GalleryService) CreateForAdmin(ctx context.Context, in GalleryInput) (*domain.Gallery, error) {
	return s.create(ctx, in)
}

func (s *GalleryService) create(ctx context.Context, in GalleryInput) (*domain.Gallery, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, serr.New(serr.Validation, "name is required")
	}
	now := s.now()
	if in.Year == 0 {
		in.Year = now.Year()
	}
	if in.Month == 0 {
		in.Month = int(now.Month())
	}
	if in.Month < 1 || in.Month > 12 {
		return nil, serr.New(serr.Validation, "month must be between 1 and 12")
	}
	tagIDs, err := parseIDs(in.Tags)
	if err != nil {
		return nil, err
	}
	g := &domain.Gallery{
		Name:         name,
		Description:  in.Description,
		Story:        in.Story,
		CoverImage:   in.CoverImage,
		IsFamilyOnly: in.IsFamilyOnly,
		TagIDs:       tagIDs,
		Year:         in.Year,
		Month:        in.Month,
	}
	if err := s.galleries.CreateGallery(ctx, g); err != nil {
		return nil, galleryWriteErr(err)
	}
	if g.Tags, err = populate(ctx, s.tags, g.TagIDs); err != nil {
		return nil, err
	}
	publish(ctx, s.pub, queue.KeyGalleryCreated, queue.GalleryCreated{
		GalleryID: g.ID, Name: g.Name, IsFamilyOnly: g.IsFamilyOnly,
	})
	return g, nil
}

func galleryWriteErr(err error) error {
	if errors.Is(err, domain.ErrDuplicate) {
		return serr.Wrap(err, serr.Validation, "gallery name already exists")
	}
	return internalErr(err, "save gallery")
}

func (s *GalleryService) Update(ctx context.Context, id string, in GalleryUpdate) (*domain.Gallery, error) {
	oid, err := parseID(id, "gallery")
	if err != nil {
		return nil, err
	}
	p := domain.GalleryPatch{
		Description: in.Description,
		Story:       in.Story,
		Year:        in.Year,
		Month:       in.Month,
	}
	if in.Name != nil {
		n := strings.TrimSpace(*in.Name)
		if n == "" {
			return nil, serr.New(serr.Validation, "name must not be empty")
		}
		p.Name = &n
	}
	if in.Month != nil && (*in.Month < 1 || *in.Month > 12) {
		return nil, serr.New(serr.Validation, "month must be between 1 and 12")
	}
	if in.Tags != nil {
		ids, err := parseIDs(*in.Tags)
		if err != nil {
			return nil, err
		}
		p.TagIDs = &ids
	}
	g, err := s.galleries.UpdateGallery(ctx, oid, p)
	if err != nil {
		return nil, galleryWriteErr(err)
	}
	if g == nil {
		return nil, serr.New(serr.NotFound, "gallery not found")
	}
	if g.Tags, err = populate(ctx, s.tags, g.TagIDs); err != nil {
		return nil, err
	}
	return g, nil
}

// SetCover stores a new cover image and removes the previous one.
func (s *GalleryService) SetCover(ctx context.Context, id string, up *Upload) (*domain.Gallery, error) {
	oid, err := parseID(id, "gallery")
	if err != nil {
		return nil, err
	}
	if up == nil {
		return nil, serr.New(serr.Validation, "image is required")
	}
	prev, err := s.galleries.FindGallery(ctx, oid)
	if err != nil {
		return nil, internalErr(err, "find gallery")
	}
	if prev == nil {
		return nil, serr.New(serr.NotFound, "gallery not found")
	}
	st, err := storeFile(ctx, s.files, ingest.DirGalleries, *up)
	if err != nil {
		return nil, err
	}
	g, err := s.galleries.UpdateGallery(ctx, oid, domain.GalleryPatch{CoverImage: &st.URL})
	if err != nil || g == nil {
		s.files.Discard(ctx, st.URL)
		if err != nil {
			return nil, galleryWriteErr(err)
		}
		return nil, serr.New(serr.NotFound, "gallery not found")
	}
	if prev.CoverImage != "" && prev.CoverImage != st.URL {
		s.files.Discard(ctx, prev.CoverImage)
	}
	if g.Tags, err = populate(ctx, s.tags, g.TagIDs); err != nil {
		return nil, err
	}
	return g, nil
}

// Delete removes the cover, every entry file, the entry records and the gallery.
// File removal failures are logged and do not stop the cascade.
func (s *GalleryService) Delete(ctx context.Context, id string) error {
	oid, err := parseID(id, "gallery")
	if err != nil {
		return err
	}
	g, err := s.galleries.FindGallery(ctx, oid)
	if err != nil {
		return internalErr(err, "find gallery")
	}
	if g == nil {
		return serr.New(serr.NotFound, "gallery not found")
	}
	es, err := s.entries.ListEntries(ctx, oid)
	if err != nil {
		return internalErr(err, "list entries")
	}

	s.files.Discard(ctx, g.CoverImage)
	for _, e := range es {
		s.files.Discard(ctx, e.ImageURL)
	}
	if _, err := s.entries.DeleteEntriesByGallery(ctx, oid); err != nil {
		return internalErr(err, "delete entries")
	}
	if _, err := s.galleries.DeleteGallery(ctx, oid); err != nil {
		return internalErr(err, "delete gallery")
	}
	return nil
}
