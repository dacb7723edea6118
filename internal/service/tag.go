package service

import (
	"context"
	"errors"
	"strings"

	"github.com/tazhibayda/family-gallery/internal/domain"
	"github.com/tazhibayda/family-gallery/internal/serr"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TagService struct {
	tags TagStore
}

func NewTagService(tags TagStore) *TagService { return &TagService{tags: tags} }

func (s *TagService) List(ctx context.Context) ([]domain.Tag, error) {
	ts, err := s.tags.ListTags(ctx)
	if err != nil {
		return nil, internalErr(err, "list tags")
	}
	return ts, nil
}

func (s *TagService) Create(ctx context.Context, name, slug string) (*domain.Tag, error) {
	t := &domain.Tag{
		Name: strings.TrimSpace(name),
		Slug: strings.ToLower(strings.TrimSpace(slug)),
	}
	if t.Name == "" || t.Slug == "" {
		return nil, serr.New(serr.Validation, "name and slug are required")
	}
	if err := s.tags.CreateTag(ctx, t); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, serr.Wrap(err, serr.Validation, "tag already exists")
		}
		return nil, internalErr(err, "create tag")
	}
	return t, nil
}

// Delete leaves references in galleries and posts; they are dropped when tags are resolved.
func (s *TagService) Delete(ctx context.Context, id string) error {
	oid, err := parseID(id, "tag")
	if err != nil {
		return err
	}
	ok, err := s.tags.DeleteTag(ctx, oid)
	if err != nil {
		return internalErr(err, "delete tag")
	}
	if !ok {
		return serr.New(serr.NotFound, "tag not found")
	}
	return nil
}

// populate resolves tag ids into tags, skipping dangling ids.
func populate(ctx context.Context, tags TagStore, ids []primitive.ObjectID) ([]domain.Tag, error) {
	if len(ids) == 0 {
		return []domain.Tag{}, nil
	}
	ts, err := tags.FindTagsByIDs(ctx, ids)
	if err != nil {
		return nil, internalErr(err, "resolve tags")
	}
	byID := make(map[primitive.ObjectID]domain.Tag, len(ts))
	for _, t := range ts {
		byID[t.ID] = t
	}
	out := make([]domain.Tag, 0, len(ids))
	for _, id := range ids {
		if t, ok := byID[id]; ok {
			out = append(out, t)
		}
	}
	return out, nil
}
