package repo

import (
	"context"
	"time"

	"github.com/tazhibayda/family-gallery/internal/session"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type sessionDoc struct {
	ID        string    `bson:"_id"`
	AdminID   string    `bson:"adminId"`
	ExpiresAt time.Time `bson:"expiresAt"`
}

// MongoSessions keeps admin sessions in a TTL-indexed collection.
type MongoSessions struct{ s *Store }

func (s *Store) Sessions() *MongoSessions { return &MongoSessions{s: s} }

func (m *MongoSessions) Save(ctx context.Context, id, adminID string, ttl time.Duration) (err error) {
	sp, ctx := startSpan(ctx, "sessions.save")
	defer func() { finish(sp, err) }()

	doc := sessionDoc{ID: id, AdminID: adminID, ExpiresAt: time.Now().Add(ttl).UTC()}
	_, err = m.s.col(colSessions).ReplaceOne(ctx, bson.M{"_id": id}, doc, options.Replace().SetUpsert(true))
	return err
}

// Load also checks expiresAt because the TTL monitor only runs about once a minute.
func (m *MongoSessions) Load(ctx context.Context, id string) (_ string, err error) {
	sp, ctx := startSpan(ctx, "sessions.load")
	defer func() { finish(sp, err) }()

	var doc sessionDoc
	err = m.s.col(colSessions).FindOne(ctx, bson.M{
		"_id":       id,
		"expiresAt": bson.M{"$gt": time.Now().UTC()},
	}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return "", session.ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return doc.AdminID, nil
}

func (m *MongoSessions) Delete(ctx context.Context, id string) (err error) {
	sp, ctx := startSpan(ctx, "sessions.delete")
	defer func() { finish(sp, err) }()

	_, err = m.s.col(colSessions).DeleteOne(ctx, bson.M{"_id": id})
	return err
}
