package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

type countingSource struct {
	n atomic.Int32
}

func (s *countingSource) Token() (*oauth2.Token, error) {
	s.n.Add(1)
	return &oauth2.Token{AccessToken: "id-token", TokenType: "Bearer", Expiry: time.Now().Add(time.Hour)}, nil
}

func TestClient_AttachesCachedToken(t *testing.T) {
	var auth []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = append(auth, r.Header.Get("Authorization"))
		switch r.URL.Path {
		case "/api/family/me":
			_, _ = w.Write([]byte(`{"email":"ann@example.com","status":"approved"}`))
		case "/api/galleries":
			_, _ = w.Write([]byte(`[{"name":"a"},{"name":"b"}]`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	src := &countingSource{}
	c, err := New(srv.URL+"/", src)
	require.NoError(t, err)

	u, err := c.FamilyMe(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, "approved", u.Status)

	gs, err := c.ListGalleries(context.Background())
	require.NoError(t, err)
	assert.Len(t, gs, 2)

	assert.Equal(t, []string{"Bearer id-token", "Bearer id-token"}, auth)
	assert.EqualValues(t, 1, src.n.Load())
}

func TestClient_TypedErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasPrefix(r.URL.Path, "/api/galleries/"):
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte(`{"message":"access denied"}`))
		case strings.HasPrefix(r.URL.Path, "/api/entries/"):
			w.WriteHeader(http.StatusNotFound)
		default:
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"message":"internal error"}`))
		}
	}))
	defer srv.Close()

	c, err := New(srv.URL, nil)
	require.NoError(t, err)

	_, err = c.Gallery(context.Background(), "Summer 2020")
	assert.ErrorIs(t, err, ErrForbidden)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "access denied", apiErr.Message)

	_, err = c.Entries(context.Background(), "x")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = c.Tags(context.Background())
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusInternalServerError, apiErr.Status)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestClient_PostsQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		assert.Equal(t, "5", r.URL.Query().Get("limit"))
		assert.Empty(t, r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"posts":[],"total":12,"page":2,"pages":3}`))
	}))
	defer srv.Close()

	c, err := New(srv.URL, nil)
	require.NoError(t, err)
	p, err := c.Posts(context.Background(), 2, 5)
	require.NoError(t, err)
	assert.Equal(t, 3, p.Pages)
	assert.EqualValues(t, 12, p.Total)
}

func TestClient_UploadEntries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "g1", r.FormValue("galleryId"))
		files := r.MultipartForm.File["images"]
		require.Len(t, files, 2)
		assert.Equal(t, "b.jpg", files[1].Filename)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"entries":[{"title":"t"}],"results":[{"id":"a.jpg","ok":true},{"id":"b.jpg","ok":false,"error":"only image files are allowed"}]}`))
	}))
	defer srv.Close()

	c, err := New(srv.URL, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "t"}))
	require.NoError(t, err)
	res, err := c.UploadEntries(context.Background(), EntryMeta{GalleryID: "g1"}, []File{
		{Name: "a.jpg", Body: strings.NewReader("jpeg")},
		{Name: "b.jpg", Body: strings.NewReader("text")},
	})
	require.NoError(t, err)
	assert.Len(t, res.Entries, 1)
	assert.False(t, res.Results[1].OK)
}
