package service

import (
	"context"
	"strings"

	"github.com/tazhibayda/family-gallery/internal/domain"
	"github.com/tazhibayda/family-gallery/internal/security"
	"github.com/tazhibayda/family-gallery/internal/serr"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type AdminService struct {
	admins AdminStore
}

func NewAdminService(admins AdminStore) *AdminService {
	return &AdminService{admins: admins}
}

// Login checks the credentials. Unknown user and wrong password look the same to the caller.
func (s *AdminService) Login(ctx context.Context, username, password string) (*domain.AdminUser, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, serr.New(serr.Validation, "username and password are required")
	}
	a, err := s.admins.FindAdminByUsername(ctx, username)
	if err != nil {
		return nil, internalErr(err, "find admin")
	}
	if a == nil || !security.CheckPassword(a.PasswordHash, password) {
		return nil, serr.New(serr.Unauthorized, "invalid credentials")
	}
	return a, nil
}

func (s *AdminService) Me(ctx context.Context, id string) (*domain.AdminUser, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, serr.New(serr.Unauthorized, "not authenticated")
	}
	a, err := s.admins.FindAdminByID(ctx, oid)
	if err != nil {
		return nil, internalErr(err, "find admin")
	}
	if a == nil {
		return nil, serr.New(serr.NotFound, "admin not found")
	}
	return a, nil
}

// Provision creates the admin or resets its password.
func (s *AdminService) Provision(ctx context.Context, username, password string) (*domain.AdminUser, bool, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, false, serr.New(serr.Validation, "username is required")
	}
	if len(password) < 8 {
		return nil, false, serr.New(serr.Validation, "password must be at least 8 characters")
	}
	hash, err := security.HashPassword(password)
	if err != nil {
		return nil, false, internalErr(err, "hash password")
	}
	a, created, err := s.admins.UpsertAdmin(ctx, username, hash)
	if err != nil {
		return nil, false, internalErr(err, "save admin")
	}
	return a, created, nil
}
