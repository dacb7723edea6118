package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type AdminUser struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Username     string             `bson:"username"      json:"username"`
	PasswordHash string             `bson:"password"      json:"-"`
	CreatedAt    time.Time          `bson:"createdAt"     json:"createdAt"`
}

type FamilyStatus string

const (
	StatusPending  FamilyStatus = "pending"
	StatusApproved FamilyStatus = "approved"
	StatusBlocked  FamilyStatus = "blocked"
)

func (s FamilyStatus) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusBlocked:
		return true
	}
	return false
}

type FamilyUser struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Email      string             `bson:"email"         json:"email"`
	Name       string             `bson:"name"          json:"name"`
	ExternalID string             `bson:"googleId"      json:"externalId"` // identity provider uid
	Status     FamilyStatus       `bson:"status"        json:"status"`
	CreatedAt  time.Time          `bson:"createdAt"     json:"createdAt"`
}

func (u *FamilyUser) Approved() bool { return u != nil && u.Status == StatusApproved }
