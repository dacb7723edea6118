package identity

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tazhibayda/family-gallery/internal/security"
)

const project = "family-blog-test"

type fixture struct {
	key *rsa.PrivateKey
	v   *FirebaseVerifier
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	k, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"keys": []map[string]string{{
			"kty": "RSA", "kid": "k1", "alg": "RS256",
			"n": base64.RawURLEncoding.EncodeToString(k.PublicKey.N.Bytes()),
			"e": base64.RawURLEncoding.EncodeToString(big.NewInt(int64(k.PublicKey.E)).Bytes()),
		}}})
	}))
	t.Cleanup(srv.Close)
	return &fixture{key: k, v: NewFirebaseVerifier(security.NewFetcher(srv.URL, time.Minute), project)}
}

func (f *fixture) sign(t *testing.T, mutate func(*claims)) string {
	t.Helper()
	now := time.Now()
	c := &claims{
		Email: "ann@example.com",
		Name:  "Ann",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "https://securetoken.google.com/" + project,
			Audience:  jwt.ClaimStrings{project},
			Subject:   "uid-ann",
			IssuedAt:  jwt.NewNumericDate(now.Add(-time.Minute)),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
	}
	if mutate != nil {
		mutate(c)
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodRS256, c)
	tok.Header["kid"] = "k1"
	s, err := tok.SignedString(f.key)
	require.NoError(t, err)
	return s
}

func TestVerify_OK(t *testing.T) {
	f := newFixture(t)
	id, err := f.v.Verify(context.Background(), f.sign(t, nil))
	require.NoError(t, err)
	assert.Equal(t, "uid-ann", id.ExternalID)
	assert.Equal(t, "ann@example.com", id.Email)
	assert.Equal(t, "Ann", id.Name)
}

func TestVerify_Rejects(t *testing.T) {
	f := newFixture(t)
	cases := map[string]func(*claims){
		"wrong audience": func(c *claims) { c.Audience = jwt.ClaimStrings{"other"} },
		"wrong issuer":   func(c *claims) { c.Issuer = "https://accounts.google.com" },
		"expired":        func(c *claims) { c.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute)) },
		"no subject":     func(c *claims) { c.Subject = "" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := f.v.Verify(context.Background(), f.sign(t, mutate))
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}

	_, err := f.v.Verify(context.Background(), "")
	assert.ErrorIs(t, err, ErrInvalidToken)
	_, err = f.v.Verify(context.Background(), "not.a.jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
