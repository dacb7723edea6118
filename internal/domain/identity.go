package domain

import "go.mongodb.org/mongo-driver/bson/primitive"

// ExternalIdentity is what the identity provider vouches for after token verification.
type ExternalIdentity struct {
	ExternalID string
	Email      string
	Name       string
}

// Viewer is the request-scoped identity resolved by the authorization gates.
// The zero value is an anonymous viewer.
type Viewer struct {
	AdminID primitive.ObjectID
	Family  *FamilyUser
}

func (v Viewer) IsAdmin() bool { return !v.AdminID.IsZero() }

func (v Viewer) IsApprovedFamily() bool { return v.Family.Approved() }
