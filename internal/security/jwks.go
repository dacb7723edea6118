package security

import (
	"context"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrUnknownKid = errors.New("kid not found in JWKS")

// Fetcher caches the RSA keys of a JWKS document and refreshes them on TTL expiry
// or when a token references an unknown kid.
type Fetcher struct {
	JWKSURL string
	TTL     time.Duration

	mu    sync.RWMutex
	keys  map[string]*rsa.PublicKey
	expAt time.Time

	http *http.Client
}

func NewFetcher(jwksURL string, ttl time.Duration) *Fetcher {
	return &Fetcher{
		JWKSURL: jwksURL,
		TTL:     ttl,
		keys:    make(map[string]*rsa.PublicKey),
		http:    &http.Client{Timeout: 5 * time.Second},
	}
}

type jwk struct {
	Kty string `json:"kty"`
	Kid string `json:"kid"`
	Alg string `json:"alg"`
	Use string `json:"use"`
	N   string `json:"n"` // base64url
	E   string `json:"e"` // base64url
}
type jwks struct {
	Keys []jwk `json:"keys"`
}

func (f *Fetcher) refresh(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.JWKSURL, nil)
	if err != nil {
		return err
	}
	resp, err := f.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("jwks: unexpected status %d", resp.StatusCode)
	}

	var doc jwks
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return err
	}
	tmp := make(map[string]*rsa.PublicKey, len(doc.Keys))
	for _, k := range doc.Keys {
		if k.Kty != "RSA" {
			continue
		}
		nb, err := base64.RawURLEncoding.DecodeString(k.N)
		if err != nil {
			continue
		}
		eb, err := base64.RawURLEncoding.DecodeString(k.E)
		if err != nil || len(eb) == 0 {
			continue
		}
		e := 0
		for _, b := range eb {
			e = e<<8 + int(b)
		}
		tmp[k.Kid] = &rsa.PublicKey{N: new(big.Int).SetBytes(nb), E: e}
	}
	f.mu.Lock()
	f.keys = tmp
	f.expAt = time.Now().Add(f.TTL)
	f.mu.Unlock()
	return nil
}

func (f *Fetcher) Key(ctx context.Context, kid string) (*rsa.PublicKey, error) {
	f.mu.RLock()
	if pk, ok := f.keys[kid]; ok && time.Now().Before(f.expAt) {
		f.mu.RUnlock()
		return pk, nil
	}
	f.mu.RUnlock()

	if err := f.refresh(ctx); err != nil {
		return nil, err
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	if pk, ok := f.keys[kid]; ok {
		return pk, nil
	}
	return nil, ErrUnknownKid
}

// Keyfunc resolves the verification key from the token's kid header.
func (f *Fetcher) Keyfunc(ctx context.Context) jwt.Keyfunc {
	return func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, errors.New("bad method")
		}
		kid, _ := t.Header["kid"].(string)
		if kid == "" {
			return nil, errors.New("no kid")
		}
		return f.Key(ctx, kid)
	}
}
