// Package identity verifies family-member ID tokens issued by Firebase Authentication
// (Google sign-in) and reports who they belong to.
package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/tazhibayda/family-gallery/internal/domain"
	"github.com/tazhibayda/family-gallery/internal/security"
)

var ErrInvalidToken = errors.New("invalid identity token")

// Verifier is pure: it never touches the database.
type Verifier interface {
	Verify(ctx context.Context, token string) (*domain.ExternalIdentity, error)
}

type claims struct {
	Email  string `json:"email"`
	Name   string `json:"name"`
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

type FirebaseVerifier struct {
	keys     *security.Fetcher
	issuer   string
	audience string
}

func NewFirebaseVerifier(keys *security.Fetcher, projectID string) *FirebaseVerifier {
	return &FirebaseVerifier{
		keys:     keys,
		issuer:   "https://securetoken.google.com/" + projectID,
		audience: projectID,
	}
}

func (v *FirebaseVerifier) Verify(ctx context.Context, token string) (*domain.ExternalIdentity, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrInvalidToken
	}
	c := &claims{}
	_, err := jwt.ParseWithClaims(token, c, v.keys.Keyfunc(ctx),
		jwt.WithValidMethods([]string{"RS256"}),
		jwt.WithIssuer(v.issuer),
		jwt.WithAudience(v.audience),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	uid := c.Subject
	if uid == "" {
		uid = c.UserID
	}
	if uid == "" {
		return nil, fmt.Errorf("%w: no subject", ErrInvalidToken)
	}
	return &domain.ExternalIdentity{ExternalID: uid, Email: c.Email, Name: c.Name}, nil
}
