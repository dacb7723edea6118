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

func (s *Store) FindAdminByUsername(ctx context.Context, username string) (_ *domain.AdminUser, err error) {
	sp, ctx := startSpan(ctx, "adminusers.find")
	defer func() { finish(sp, err) }()

	var a domain.AdminUser
	err = s.col(colAdmins).FindOne(ctx, bson.M{"username": username}).Decode(&a)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *Store) FindAdminByID(ctx context.Context, id primitive.ObjectID) (_ *domain.AdminUser, err error) {
	sp, ctx := startSpan(ctx, "adminusers.find")
	defer func() { finish(sp, err) }()

	var a domain.AdminUser
	err = s.col(colAdmins).FindOne(ctx, bson.M{"_id": id}).Decode(&a)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// UpsertAdmin creates the admin or replaces the password hash of an existing one.
func (s *Store) UpsertAdmin(ctx context.Context, username, passwordHash string) (_ *domain.AdminUser, created bool, err error) {
	sp, ctx := startSpan(ctx, "adminusers.upsert")
	defer func() { finish(sp, err) }()

	res, err := s.col(colAdmins).UpdateOne(ctx,
		bson.M{"username": username},
		bson.M{
			"$set":         bson.M{"password": passwordHash},
			"$setOnInsert": bson.M{"createdAt": time.Now().UTC()},
		},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return nil, false, err
	}
	a, err := s.FindAdminByUsername(ctx, username)
	return a, res.UpsertedCount == 1, err
}
