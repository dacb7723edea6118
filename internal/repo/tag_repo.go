package repo

import (
	"context"
	"strings"

	"github.com/tazhibayda/family-gallery/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (s *Store) ListTags(ctx context.Context) (_ []domain.Tag, err error) {
	sp, ctx := startSpan(ctx, "tags.list")
	defer func() { finish(sp, err) }()

	cur, err := s.col(colTags).Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, err
	}
	return decodeAll[domain.Tag](ctx, cur)
}

// FindTagsByIDs silently drops ids that no longer resolve.
func (s *Store) FindTagsByIDs(ctx context.Context, ids []primitive.ObjectID) (_ []domain.Tag, err error) {
	if len(ids) == 0 {
		return []domain.Tag{}, nil
	}
	sp, ctx := startSpan(ctx, "tags.find_many")
	defer func() { finish(sp, err) }()

	cur, err := s.col(colTags).Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	return decodeAll[domain.Tag](ctx, cur)
}

func (s *Store) CreateTag(ctx context.Context, t *domain.Tag) (err error) {
	sp, ctx := startSpan(ctx, "tags.insert")
	defer func() { finish(sp, err) }()

	t.Name = strings.TrimSpace(t.Name)
	t.Slug = strings.ToLower(strings.TrimSpace(t.Slug))
	res, err := s.col(colTags).InsertOne(ctx, t)
	if err != nil {
		return dupOr(err)
	}
	t.ID = insertedID(res)
	return nil
}

func (s *Store) DeleteTag(ctx context.Context, id primitive.ObjectID) (_ bool, err error) {
	sp, ctx := startSpan(ctx, "tags.delete")
	defer func() { finish(sp, err) }()

	res, err := s.col(colTags).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, err
	}
	return res.DeletedCount == 1, nil
}
