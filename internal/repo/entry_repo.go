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

// ListEntries orders by capture date then creation time, both ascending.
// Entries without a capture date come first, as the store sorts missing values lowest.
func (s *Store) ListEntries(ctx context.Context, galleryID primitive.ObjectID) (_ []domain.Entry, err error) {
	sp, ctx := startSpan(ctx, "entries.list")
	defer func() { finish(sp, err) }()

	cur, err := s.col(colEntries).Find(ctx,
		bson.M{"gallery": galleryID},
		options.Find().SetSort(bson.D{{Key: "dateTaken", Value: 1}, {Key: "createdAt", Value: 1}}),
	)
	if err != nil {
		return nil, err
	}
	return decodeAll[domain.Entry](ctx, cur)
}

func (s *Store) FindEntry(ctx context.Context, id primitive.ObjectID) (_ *domain.Entry, err error) {
	sp, ctx := startSpan(ctx, "entries.find")
	defer func() { finish(sp, err) }()

	var e domain.Entry
	err = s.col(colEntries).FindOne(ctx, bson.M{"_id": id}).Decode(&e)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (s *Store) CreateEntry(ctx context.Context, e *domain.Entry) (err error) {
	sp, ctx := startSpan(ctx, "entries.insert")
	defer func() { finish(sp, err) }()

	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	res, err := s.col(colEntries).InsertOne(ctx, e)
	if err != nil {
		return err
	}
	e.ID = insertedID(res)
	return nil
}

func (s *Store) DeleteEntry(ctx context.Context, id primitive.ObjectID) (_ bool, err error) {
	sp, ctx := startSpan(ctx, "entries.delete")
	defer func() { finish(sp, err) }()

	res, err := s.col(colEntries).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, err
	}
	return res.DeletedCount == 1, nil
}

func (s *Store) DeleteEntriesByGallery(ctx context.Context, galleryID primitive.ObjectID) (_ int64, err error) {
	sp, ctx := startSpan(ctx, "entries.delete_many")
	defer func() { finish(sp, err) }()

	res, err := s.col(colEntries).DeleteMany(ctx, bson.M{"gallery": galleryID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
