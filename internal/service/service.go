// Package service holds the resource rules shared by every transport: who may see what,
// how files and records are kept consistent, and how batches report partial failure.
package service

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/tazhibayda/family-gallery/internal/domain"
	"github.com/tazhibayda/family-gallery/internal/ingest"
	"github.com/tazhibayda/family-gallery/internal/log"
	"github.com/tazhibayda/family-gallery/internal/queue"
	"github.com/tazhibayda/family-gallery/internal/serr"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type AdminStore interface {
	FindAdminByUsername(ctx context.Context, username string) (*domain.AdminUser, error)
	FindAdminByID(ctx context.Context, id primitive.ObjectID) (*domain.AdminUser, error)
	UpsertAdmin(ctx context.Context, username, passwordHash string) (*domain.AdminUser, bool, error)
}

type FamilyStore interface {
	EnsureFamilyUser(ctx context.Context, ext domain.ExternalIdentity) (*domain.FamilyUser, bool, error)
	FindFamilyByExternalID(ctx context.Context, externalID string) (*domain.FamilyUser, error)
	ListFamilyUsers(ctx context.Context) ([]domain.FamilyUser, error)
	SetFamilyStatus(ctx context.Context, id primitive.ObjectID, status domain.FamilyStatus) (*domain.FamilyUser, error)
}

type GalleryStore interface {
	ListGalleries(ctx context.Context, includeFamily bool) ([]domain.Gallery, error)
	FindGallery(ctx context.Context, id primitive.ObjectID) (*domain.Gallery, error)
	FindGalleryByName(ctx context.Context, name string) (*domain.Gallery, error)
	CreateGallery(ctx context.Context, g *domain.Gallery) error
	UpdateGallery(ctx context.Context, id primitive.ObjectID, p domain.GalleryPatch) (*domain.Gallery, error)
	DeleteGallery(ctx context.Context, id primitive.ObjectID) (bool, error)
}

type EntryStore interface {
	ListEntries(ctx context.Context, galleryID primitive.ObjectID) ([]domain.Entry, error)
	FindEntry(ctx context.Context, id primitive.ObjectID) (*domain.Entry, error)
	CreateEntry(ctx context.Context, e *domain.Entry) error
	DeleteEntry(ctx context.Context, id primitive.ObjectID) (bool, error)
	DeleteEntriesByGallery(ctx context.Context, galleryID primitive.ObjectID) (int64, error)
}

type TagStore interface {
	ListTags(ctx context.Context) ([]domain.Tag, error)
	FindTagsByIDs(ctx context.Context, ids []primitive.ObjectID) ([]domain.Tag, error)
	CreateTag(ctx context.Context, t *domain.Tag) error
	DeleteTag(ctx context.Context, id primitive.ObjectID) (bool, error)
}

type PostStore interface {
	ListPublishedPosts(ctx context.Context, skip, limit int64) ([]domain.Post, int64, error)
	ListAllPosts(ctx context.Context) ([]domain.Post, error)
	FindPost(ctx context.Context, id primitive.ObjectID) (*domain.Post, error)
	CreatePost(ctx context.Context, p *domain.Post) error
	SavePost(ctx context.Context, p *domain.Post) (bool, error)
	DeletePost(ctx context.Context, id primitive.ObjectID) (bool, error)
}

// Files stores image payloads. Discard never fails, it only logs.
type Files interface {
	Ingest(ctx context.Context, dir, name string, r io.Reader) (*ingest.Stored, error)
	Discard(ctx context.Context, url string)
}

// Upload is one file received from a client.
type Upload struct {
	Name string
	Open func() (io.ReadCloser, error)
}

// ItemResult reports the outcome of one item of a batch.
type ItemResult struct {
	ID    string `json:"id"`
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// CanSeeFamily is the single visibility rule for family-only content.
func CanSeeFamily(v domain.Viewer) bool {
	return v.IsAdmin() || v.IsApprovedFamily()
}

type reqIDKey struct{}

// WithRequestID attaches the id that published events carry.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, reqIDKey{}, id)
}

func requestID(ctx context.Context) string {
	id, _ := ctx.Value(reqIDKey{}).(string)
	return id
}

// publish is best effort: a broker outage never fails the request.
func publish(ctx context.Context, pub queue.Publisher, key string, event any) {
	if pub == nil {
		return
	}
	if err := pub.Publish(ctx, key, event, requestID(ctx)); err != nil {
		log.WithDD(ctx, log.L()).Warn("publish event", zap.String("key", key), zap.Error(err))
	}
}

func parseID(s, what string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(strings.TrimSpace(s))
	if err != nil {
		return primitive.NilObjectID, serr.New(serr.Validation, "invalid %s id", what)
	}
	return id, nil
}

func parseIDs(ss []string) ([]primitive.ObjectID, error) {
	out := make([]primitive.ObjectID, 0, len(ss))
	for _, s := range ss {
		if strings.TrimSpace(s) == "" {
			continue
		}
		id, err := parseID(s, "tag")
		if err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, nil
}

func internalErr(err error, msg string) error {
	return serr.Wrap(err, serr.Internal, msg)
}

// ingestErr classifies a failed file ingestion.
func ingestErr(err error) error {
	switch {
	case errors.Is(err, ingest.ErrNotImage):
		return serr.Wrap(err, serr.Validation, "only image files are allowed")
	case errors.Is(err, ingest.ErrTooLarge):
		return serr.Wrap(err, serr.Validation, "file too large")
	default:
		return internalErr(err, "store file")
	}
}

func storeFile(ctx context.Context, files Files, dir string, up Upload) (*ingest.Stored, error) {
	rc, err := up.Open()
	if err != nil {
		return nil, internalErr(err, "open upload")
	}
	defer rc.Close()
	st, err := files.Ingest(ctx, dir, up.Name, rc)
	if err != nil {
		return nil, ingestErr(err)
	}
	return st, nil
}
