package service

import (
	"context"

	"github.com/tazhibayda/family-gallery/internal/domain"
	"github.com/tazhibayda/family-gallery/internal/queue"
	"github.com/tazhibayda/family-gallery/internal/serr"
)

type FamilyService struct {
	users FamilyStore
	pub   queue.Publisher
}

func NewFamilyService(users FamilyStore, pub queue.Publisher) *FamilyService {
	return &FamilyService{users: users, pub: pub}
}

// Ensure returns the family user for a verified identity, creating a pending one on first sight.
func (s *FamilyService) Ensure(ctx context.Context, ext domain.ExternalIdentity) (*domain.FamilyUser, error) {
	if ext.ExternalID == "" {
		return nil, serr.New(serr.Unauthorized, "identity has no subject")
	}
	u, created, err := s.users.EnsureFamilyUser(ctx, ext)
	if err != nil {
		return nil, internalErr(err, "ensure family user")
	}
	if created {
		publish(ctx, s.pub, queue.KeyFamilyRegistered, queue.FamilyRegistered{
			FamilyUserID: u.ID, Email: u.Email, Name: u.Name,
		})
	}
	return u, nil
}

// Lookup is the read-only variant used by optional authentication; nil when unknown.
func (s *FamilyService) Lookup(ctx context.Context, externalID string) (*domain.FamilyUser, error) {
	u, err := s.users.FindFamilyByExternalID(ctx, externalID)
	if err != nil {
		return nil, internalErr(err, "find family user")
	}
	return u, nil
}

func (s *FamilyService) List(ctx context.Context) ([]domain.FamilyUser, error) {
	us, err := s.users.ListFamilyUsers(ctx)
	if err != nil {
		return nil, internalErr(err, "list family users")
	}
	return us, nil
}

func (s *FamilyService) SetStatus(ctx context.Context, id, status string) (*domain.FamilyUser, error) {
	oid, err := parseID(id, "user")
	if err != nil {
		return nil, err
	}
	st := domain.FamilyStatus(status)
	if !st.Valid() {
		return nil, serr.New(serr.Validation, "invalid status")
	}
	u, err := s.users.SetFamilyStatus(ctx, oid, st)
	if err != nil {
		return nil, internalErr(err, "update status")
	}
	if u == nil {
		return nil, serr.New(serr.NotFound, "user not found")
	}
	return u, nil
}
