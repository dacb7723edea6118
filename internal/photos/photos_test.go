package photos

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGoogleSource_Fetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		switch r.URL.Path {
		case "/img1=d":
			_, _ = w.Write([]byte("bytes"))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	src := &GoogleSource{Base: srv.Client()}
	ctx := context.Background()

	body, err := src.Fetch(ctx, MediaItem{ID: "1", BaseURL: srv.URL + "/img1"}, "tok")
	require.NoError(t, err)
	b, _ := io.ReadAll(body)
	body.Close()
	assert.Equal(t, "bytes", string(b))

	_, err = src.Fetch(ctx, MediaItem{ID: "2", BaseURL: srv.URL + "/img1"}, "wrong")
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusUnauthorized, se.Code)

	_, err = src.Fetch(ctx, MediaItem{ID: "3", BaseURL: srv.URL + "/gone"}, "tok")
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusNotFound, se.Code)

	_, err = src.Fetch(ctx, MediaItem{ID: "4"}, "tok")
	assert.ErrorIs(t, err, ErrMissingURL)
}

func TestMediaItem_Created(t *testing.T) {
	it := MediaItem{MediaMetadata: MediaMetadata{CreationTime: "2020-05-01T12:00:00Z"}}
	require.NotNil(t, it.Created())
	assert.Equal(t, 2020, it.Created().Year())

	assert.Nil(t, MediaItem{MediaMetadata: MediaMetadata{CreationTime: "yesterday"}}.Created())
	assert.Nil(t, MediaItem{}.Created())
}
