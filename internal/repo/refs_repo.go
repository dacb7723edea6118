package repo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ReferencedURLs collects every stored file URL that a record still points at:
// entry images, gallery covers and post covers.
func (s *Store) ReferencedURLs(ctx context.Context) (_ map[string]struct{}, err error) {
	sp, ctx := startSpan(ctx, "refs.collect")
	defer func() { finish(sp, err) }()

	out := make(map[string]struct{})
	sources := []struct{ col, field string }{
		{colEntries, "imageUrl"},
		{colGalleries, "coverImage"},
		{colPosts, "coverImage"},
	}
	for _, src := range sources {
		cur, err := s.col(src.col).Find(ctx,
			bson.M{src.field: bson.M{"$exists": true, "$ne": ""}},
			options.Find().SetProjection(bson.M{src.field: 1}),
		)
		if err != nil {
			return nil, err
		}
		for cur.Next(ctx) {
			var doc bson.M
			if err := cur.Decode(&doc); err != nil {
				cur.Close(ctx)
				return nil, err
			}
			if u, ok := doc[src.field].(string); ok {
				out[u] = struct{}{}
			}
		}
		if err := cur.Err(); err != nil {
			cur.Close(ctx)
			return nil, err
		}
		cur.Close(ctx)
	}
	return out, nil
}
