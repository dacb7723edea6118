// Package session implements the admin login session: an opaque id in a signed
// cookie, with the admin id kept server side.
package session

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/tazhibayda/family-gallery/internal/security"
)

const CookieName = "sid"

var ErrNotFound = errors.New("session not found")

// Store persists session id -> admin id with a server-side expiry.
type Store interface {
	Save(ctx context.Context, id, adminID string, ttl time.Duration) error
	Load(ctx context.Context, id string) (string, error)
	Delete(ctx context.Context, id string) error
}

type Options struct {
	TTL          time.Duration // server-side lifetime
	CookieMaxAge time.Duration // may be shorter than TTL
	Secure       bool
}

type Manager struct {
	store  Store
	signer *security.Signer
	opts   Options
}

func NewManager(store Store, secret string, opts Options) *Manager {
	return &Manager{store: store, signer: security.NewSigner(secret), opts: opts}
}

// Start creates a session for adminID and sets the cookie on w.
func (m *Manager) Start(ctx context.Context, w http.ResponseWriter, adminID string) error {
	id, err := security.NewSessionID()
	if err != nil {
		return err
	}
	if err := m.store.Save(ctx, id, adminID, m.opts.TTL); err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    m.signer.Sign(id),
		Path:     "/",
		MaxAge:   int(m.opts.CookieMaxAge.Seconds()),
		Expires:  time.Now().Add(m.opts.CookieMaxAge),
		HttpOnly: true,
		Secure:   m.opts.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Resolve returns the admin id bound to the request's session cookie.
// A missing, forged or expired cookie yields ErrNotFound.
func (m *Manager) Resolve(ctx context.Context, r *http.Request) (string, error) {
	id, ok := m.sessionID(r)
	if !ok {
		return "", ErrNotFound
	}
	return m.store.Load(ctx, id)
}

// Destroy drops the server-side session (if any) and expires the cookie.
func (m *Manager) Destroy(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var err error
	if id, ok := m.sessionID(r); ok {
		err = m.store.Delete(ctx, id)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.opts.Secure,
	})
	return err
}

func (m *Manager) sessionID(r *http.Request) (string, bool) {
	c, err := r.Cookie(CookieName)
	if err != nil || c.Value == "" {
		return "", false
	}
	return m.signer.Verify(c.Value)
}
