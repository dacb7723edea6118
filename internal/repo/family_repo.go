package repo

import (
	"context"
	"strings"
	"time"

	"github.com/tazhibayda/family-gallery/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureFamilyUser inserts a pending family user for the external identity unless one exists.
// Existing records are returned untouched, so repeated calls are idempotent.
func (s *Store) EnsureFamilyUser(ctx context.Context, ext domain.ExternalIdentity) (_ *domain.FamilyUser, created bool, err error) {
	sp, ctx := startSpan(ctx, "familyusers.ensure")
	defer func() { finish(sp, err) }()

	name := strings.TrimSpace(ext.Name)
	if name == "" {
		name = "Unknown"
	}
	res, err := s.col(colFamily).UpdateOne(ctx,
		bson.M{"googleId": ext.ExternalID},
		bson.M{"$setOnInsert": bson.M{
			"email":     strings.ToLower(strings.TrimSpace(ext.Email)),
			"name":      name,
			"status":    domain.StatusPending,
			"createdAt": time.Now().UTC(),
		}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return nil, false, dupOr(err)
	}
	u, err := s.FindFamilyByExternalID(ctx, ext.ExternalID)
	if err != nil {
		return nil, false, err
	}
	return u, res.UpsertedCount == 1, nil
}

func (s *Store) FindFamilyByExternalID(ctx context.Context, externalID string) (_ *domain.FamilyUser, err error) {
	sp, ctx := startSpan(ctx, "familyusers.find")
	defer func() { finish(sp, err) }()

	var u domain.FamilyUser
	err = s.col(colFamily).FindOne(ctx, bson.M{"googleId": externalID}).Decode(&u)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *Store) ListFamilyUsers(ctx context.Context) (_ []domain.FamilyUser, err error) {
	sp, ctx := startSpan(ctx, "familyusers.list")
	defer func() { finish(sp, err) }()

	cur, err := s.col(colFamily).Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, err
	}
	return decodeAll[domain.FamilyUser](ctx, cur)
}

// SetFamilyStatus returns nil when no user has the id.
func (s *Store) SetFamilyStatus(ctx context.Context, id primitive.ObjectID, status domain.FamilyStatus) (_ *domain.FamilyUser, err error) {
	sp, ctx := startSpan(ctx, "familyusers.set_status")
	defer func() { finish(sp, err) }()

	var u domain.FamilyUser
	err = s.col(colFamily).FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"status": status}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&u)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}
