package repo

import (
	"context"
	"time"

	"github.com/tazhibayda/family-gallery/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var newestFirst = bson.D{{Key: "createdAt", Value: -1}}

// ListPublishedPosts returns one window of published posts plus the total published count.
func (s *Store) ListPublishedPosts(ctx context.Context, skip, limit int64) (_ []domain.Post, _ int64, err error) {
	sp, ctx := startSpan(ctx, "posts.list_published")
	defer func() { finish(sp, err) }()

	filter := bson.M{"isPublished": true}
	total, err := s.col(colPosts).CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	cur, err := s.col(colPosts).Find(ctx, filter,
		options.Find().SetSort(newestFirst).SetSkip(skip).SetLimit(limit))
	if err != nil {
		return nil, 0, err
	}
	posts, err := decodeAll[domain.Post](ctx, cur)
	return posts, total, err
}

func (s *Store) ListAllPosts(ctx context.Context) (_ []domain.Post, err error) {
	sp, ctx := startSpan(ctx, "posts.list_all")
	defer func() { finish(sp, err) }()

	cur, err := s.col(colPosts).Find(ctx, bson.M{}, options.Find().SetSort(newestFirst))
	if err != nil {
		return nil, err
	}
	return decodeAll[domain.Post](ctx, cur)
}

func (s *Store) FindPost(ctx context.Context, id primitive.ObjectID) (_ *domain.Post, err error) {
	sp, ctx := startSpan(ctx, "posts.find")
	defer func() { finish(sp, err) }()

	var p domain.Post
	err = s.col(colPosts).FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Store) CreatePost(ctx context.Context, p *domain.Post) (err error) {
	sp, ctx := startSpan(ctx, "posts.insert")
	defer func() { finish(sp, err) }()

	now := time.Now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	if p.TagIDs == nil {
		p.TagIDs = []primitive.ObjectID{}
	}
	res, err := s.col(colPosts).InsertOne(ctx, p)
	if err != nil {
		return err
	}
	p.ID = insertedID(res)
	return nil
}

// SavePost replaces the stored post and touches updatedAt. Returns false when the post is missing.
func (s *Store) SavePost(ctx context.Context, p *domain.Post) (_ bool, err error) {
	sp, ctx := startSpan(ctx, "posts.replace")
	defer func() { finish(sp, err) }()

	p.UpdatedAt = time.Now().UTC()
	if p.TagIDs == nil {
		p.TagIDs = []primitive.ObjectID{}
	}
	res, err := s.col(colPosts).ReplaceOne(ctx, bson.M{"_id": p.ID}, p)
	if err != nil {
		return false, err
	}
	return res.MatchedCount == 1, nil
}

func (s *Store) DeletePost(ctx context.Context, id primitive.ObjectID) (_ bool, err error) {
	sp, ctx := startSpan(ctx, "posts.delete")
	defer func() { finish(sp, err) }()

	res, err := s.col(colPosts).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, err
	}
	return res.DeletedCount == 1, nil
}
