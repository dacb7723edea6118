// Package photos downloads media items from Google Photos on behalf of a signed-in user.
package photos

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/oauth2"
)

var ErrMissingURL = errors.New("missing source url")

type MediaMetadata struct {
	CreationTime string `json:"creationTime"`
}

// MediaItem is the descriptor the Photos picker hands to the browser.
type MediaItem struct {
	ID            string        `json:"id"`
	BaseURL       string        `json:"baseUrl"`
	Filename      string        `json:"filename"`
	Description   string        `json:"description"`
	MediaMetadata MediaMetadata `json:"mediaMetadata"`
}

// Created parses mediaMetadata.creationTime, nil when absent or malformed.
func (m MediaItem) Created() *time.Time {
	if m.MediaMetadata.CreationTime == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, m.MediaMetadata.CreationTime)
	if err != nil {
		return nil
	}
	return &t
}

type Source interface {
	Fetch(ctx context.Context, item MediaItem, accessToken string) (io.ReadCloser, error)
}

type StatusError struct {
	Code int
}

func (e *StatusError) Error() string { return fmt.Sprintf("download failed: status %d", e.Code) }

type GoogleSource struct {
	// Base is used as the underlying transport; nil means http.DefaultClient.
	Base *http.Client
}

// Fetch downloads the original bytes of item ("=d" suffix) with the caller's token.
// The caller closes the body.
func (g *GoogleSource) Fetch(ctx context.Context, item MediaItem, accessToken string) (io.ReadCloser, error) {
	if item.BaseURL == "" {
		return nil, ErrMissingURL
	}
	if g.Base != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, g.Base)
	}
	cl := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken, TokenType: "Bearer"}))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, item.BaseURL+"=d", nil)
	if err != nil {
		return nil, err
	}
	resp, err := cl.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
		return nil, &StatusError{Code: resp.StatusCode}
	}
	return resp.Body, nil
}
