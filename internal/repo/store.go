package repo

import (
	"context"
	"errors"
	"time"

	"github.com/tazhibayda/family-gallery/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"gopkg.in/DataDog/dd-trace-go.v1/ddtrace"
	"gopkg.in/DataDog/dd-trace-go.v1/ddtrace/tracer"
)

// Collection names match the ones the previous deployment wrote, so existing data stays readable.
const (
	colAdmins    = "adminusers"
	colFamily    = "familyusers"
	colGalleries = "galleries"
	colEntries   = "entries"
	colTags      = "tags"
	colPosts     = "posts"
	colSessions  = "sessions"
)

var ErrDuplicate = domain.ErrDuplicate

type Store struct {
	Client *mongo.Client
	DB     *mongo.Database
}

func NewStore(ctx context.Context, uri, dbname string) (*Store, error) {
	cli, err := mongo.Connect(ctx, options.Client().
		ApplyURI(uri).
		SetRetryWrites(true).
		SetMaxPoolSize(50),
	)
	if err != nil {
		return nil, err
	}
	if err := cli.Ping(ctx, nil); err != nil {
		_ = cli.Disconnect(ctx)
		return nil, err
	}
	return &Store{Client: cli, DB: cli.Database(dbname)}, nil
}

func (s *Store) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.Client.Ping(ctx, nil)
}

func (s *Store) Close(ctx context.Context) error { return s.Client.Disconnect(ctx) }

func (s *Store) col(name string) *mongo.Collection { return s.DB.Collection(name) }

// EnsureIndexes creates the uniqueness constraints and the lookup/TTL indexes.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	unique := func(field string) mongo.IndexModel {
		return mongo.IndexModel{
			Keys:    bson.D{{Key: field, Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_" + field),
		}
	}
	plan := map[string][]mongo.IndexModel{
		colAdmins: {unique("username")},
		colFamily: {
			unique("googleId"),
			{
				// several provider accounts may come without an email
				Keys:    bson.D{{Key: "email", Value: 1}},
				Options: options.Index().SetUnique(true).SetName("uniq_email").SetPartialFilterExpression(bson.M{"email": bson.M{"$gt": ""}}),
			},
		},
		colGalleries: {
			unique("name"),
			{
				Keys:    bson.D{{Key: "isFamilyOnly", Value: 1}, {Key: "createdAt", Value: -1}},
				Options: options.Index().SetName("visibility_created_desc"),
			},
		},
		colEntries: {
			{
				Keys:    bson.D{{Key: "gallery", Value: 1}, {Key: "dateTaken", Value: 1}, {Key: "createdAt", Value: 1}},
				Options: options.Index().SetName("gallery_taken_created"),
			},
		},
		colTags: {unique("name"), unique("slug")},
		colPosts: {
			{
				Keys:    bson.D{{Key: "isPublished", Value: 1}, {Key: "createdAt", Value: -1}},
				Options: options.Index().SetName("published_created_desc"),
			},
		},
		colSessions: {
			{
				// TTL: the document is removed once expiresAt passes (expireAfterSeconds=0)
				Keys:    bson.D{{Key: "expiresAt", Value: 1}},
				Options: options.Index().SetExpireAfterSeconds(0).SetName("ttl_expire"),
			},
		},
	}
	for name, models := range plan {
		if _, err := s.col(name).Indexes().CreateMany(ctx, models); err != nil {
			return err
		}
	}
	return nil
}

func IsDup(err error) bool {
	var we mongo.WriteException
	if errors.As(err, &we) {
		for _, e := range we.WriteErrors {
			if e.Code == 11000 {
				return true
			}
		}
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && ce.Code == 11000 {
		return true
	}
	return false
}

func dupOr(err error) error {
	if IsDup(err) {
		return ErrDuplicate
	}
	return err
}

func startSpan(ctx context.Context, op string) (ddtrace.Span, context.Context) {
	return tracer.StartSpanFromContext(ctx, "mongo."+op, tracer.ServiceName("family-gallery-mongo"))
}

func finish(sp ddtrace.Span, err error) {
	if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
		sp.Finish(tracer.WithError(err))
		return
	}
	sp.Finish()
}

func decodeAll[T any](ctx context.Context, cur *mongo.Cursor) ([]T, error) {
	defer cur.Close(ctx)
	out := make([]T, 0)
	for cur.Next(ctx) {
		var v T
		if err := cur.Decode(&v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, cur.Err()
}

func insertedID(res *mongo.InsertOneResult) primitive.ObjectID {
	if res == nil {
		return primitive.NilObjectID
	}
	oid, _ := res.InsertedID.(primitive.ObjectID)
	return oid
}
