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

// ListGalleries returns galleries newest first. Family-only galleries are
// included only when includeFamily is set.
func (s *Store) ListGalleries(ctx context.Context, includeFamily bool) (_ []domain.Gallery, err error) {
	sp, ctx := startSpan(ctx, "galleries.list")
	defer func() { finish(sp, err) }()

	filter := bson.M{}
	if !includeFamily {
		filter = bson.M{"isFamilyOnly": false}
	}
	cur, err := s.col(colGalleries).Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, err
	}
	return decodeAll[domain.Gallery](ctx, cur)
}

func (s *Store) FindGallery(ctx context.Context, id primitive.ObjectID) (*domain.Gallery, error) {
	return s.findGallery(ctx, bson.M{"_id": id})
}

func (s *Store) FindGalleryByName(ctx context.Context, name string) (*domain.Gallery, error) {
	return s.findGallery(ctx, bson.M{"name": name})
}

func (s *Store) findGallery(ctx context.Context, filter bson.M) (_ *domain.Gallery, err error) {
	sp, ctx := startSpan(ctx, "galleries.find")
	defer func() { finish(sp, err) }()

	var g domain.Gallery
	err = s.col(colGalleries).FindOne(ctx, filter).Decode(&g)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (s *Store) CreateGallery(ctx context.Context, g *domain.Gallery) (err error) {
	sp, ctx := startSpan(ctx, "galleries.insert")
	defer func() { finish(sp, err) }()

	if g.CreatedAt.IsZero() {
		g.CreatedAt = time.Now().UTC()
	}
	if g.TagIDs == nil {
		g.TagIDs = []primitive.ObjectID{}
	}
	res, err := s.col(colGalleries).InsertOne(ctx, g)
	if err != nil {
		return dupOr(err)
	}
	g.ID = insertedID(res)
	return nil
}

// UpdateGallery applies only the non-nil patch fields. Returns nil when the gallery is missing.
func (s *Store) UpdateGallery(ctx context.Context, id primitive.ObjectID, p domain.GalleryPatch) (_ *domain.Gallery, err error) {
	if p.Empty() {
		return s.FindGallery(ctx, id)
	}
	sp, ctx := startSpan(ctx, "galleries.update")
	defer func() { finish(sp, err) }()

	set := bson.M{}
	if p.Name != nil {
		set["name"] = *p.Name
	}
	if p.Description != nil {
		set["description"] = *p.Description
	}
	if p.Story != nil {
		set["story"] = *p.Story
	}
	if p.CoverImage != nil {
		set["coverImage"] = *p.CoverImage
	}
	if p.TagIDs != nil {
		set["tags"] = *p.TagIDs
	}
	if p.Year != nil {
		set["year"] = *p.Year
	}
	if p.Month != nil {
		set["month"] = *p.Month
	}

	var g domain.Gallery
	err = s.col(colGalleries).FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&g)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, dupOr(err)
	}
	return &g, nil
}

func (s *Store) DeleteGallery(ctx context.Context, id primitive.ObjectID) (_ bool, err error) {
	sp, ctx := startSpan(ctx, "galleries.delete")
	defer func() { finish(sp, err) }()

	res, err := s.col(colGalleries).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, err
	}
	return res.DeletedCount == 1, nil
}
