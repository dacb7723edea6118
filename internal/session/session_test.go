package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newManager(store Store) *Manager {
	return NewManager(store, "test-secret", Options{
		TTL:          14 * 24 * time.Hour,
		CookieMaxAge: 24 * time.Hour,
		Secure:       true,
	})
}

func requestWith(cookies []*http.Cookie) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range cookies {
		r.AddCookie(c)
	}
	return r
}

func TestManager_StartResolveDestroy(t *testing.T) {
	ctx := context.Background()
	m := newManager(NewMemoryStore())

	w := httptest.NewRecorder()
	require.NoError(t, m.Start(ctx, w, "admin-1"))

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	c := cookies[0]
	assert.Equal(t, CookieName, c.Name)
	assert.True(t, c.HttpOnly)
	assert.True(t, c.Secure)
	assert.Equal(t, 86400, c.MaxAge)

	id, err := m.Resolve(ctx, requestWith(cookies))
	require.NoError(t, err)
	assert.Equal(t, "admin-1", id)

	w = httptest.NewRecorder()
	require.NoError(t, m.Destroy(ctx, w, requestWith(cookies)))
	assert.Equal(t, -1, w.Result().Cookies()[0].MaxAge)

	_, err = m.Resolve(ctx, requestWith(cookies))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestManager_RejectsForgedCookie(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.Save(ctx, "known-id", "admin-1", time.Hour))
	m := newManager(store)

	_, err := m.Resolve(ctx, requestWith([]*http.Cookie{{Name: CookieName, Value: "known-id.bogus"}}))
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = m.Resolve(ctx, requestWith(nil))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_Expiry(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	now := time.Now()
	s.now = func() time.Time { return now }

	require.NoError(t, s.Save(ctx, "a", "admin", time.Minute))
	got, err := s.Load(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "admin", got)

	now = now.Add(2 * time.Minute)
	_, err = s.Load(ctx, "a")
	assert.ErrorIs(t, err, ErrNotFound)
}
