// Package client is a typed client for the gallery API as a family member sees it.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/tazhibayda/family-gallery/internal/domain"
	"golang.org/x/oauth2"
)

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
)

// APIError is a non-2xx answer. It unwraps to one of the sentinel errors when the status has one.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: %d %s", e.Status, e.Message)
}

func (e *APIError) Unwrap() error {
	switch e.Status {
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusForbidden:
		return ErrForbidden
	case http.StatusNotFound:
		return ErrNotFound
	}
	return nil
}

type Client struct {
	base   *url.URL
	tokens oauth2.TokenSource
	hc     *http.Client
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option { return func(c *Client) { c.hc = hc } }

// New builds a client. tokens yields the family identity token; it is cached until expiry.
// A nil source sends anonymous requests.
func New(baseURL string, tokens oauth2.TokenSource, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	c := &Client{base: u, hc: &http.Client{Timeout: 30 * time.Second}}
	if tokens != nil {
		c.tokens = oauth2.ReuseTokenSource(nil, tokens)
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, q url.Values, body io.Reader) (*http.Request, error) {
	u := c.base.JoinPath(path)
	if q != nil {
		u.RawQuery = q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, err
	}
	if c.tokens != nil {
		tok, err := c.tokens.Token()
		if err != nil {
			return nil, fmt.Errorf("identity token: %w", err)
		}
		tok.SetAuthHeader(req)
	}
	return req, nil
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.hc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var m struct {
			Message string `json:"message"`
		}
		_ = json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&m)
		if m.Message == "" {
			m.Message = http.StatusText(resp.StatusCode)
		}
		return &APIError{Status: resp.StatusCode, Message: m.Message}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", req.URL.Path, err)
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, q url.Values, out any) error {
	req, err := c.newRequest(ctx, http.MethodGet, path, q, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) ListGalleries(ctx context.Context) ([]domain.Gallery, error) {
	var gs []domain.Gallery
	return gs, c.get(ctx, "/api/galleries", nil, &gs)
}

// Gallery fetches by id or by name.
func (c *Client) Gallery(ctx context.Context, idOrName string) (*domain.Gallery, error) {
	var g domain.Gallery
	if err := c.get(ctx, "/api/galleries/"+url.PathEscape(idOrName), nil, &g); err != nil {
		return nil, err
	}
	return &g, nil
}

func (c *Client) Entries(ctx context.Context, galleryID string) ([]domain.Entry, error) {
	var es []domain.Entry
	return es, c.get(ctx, "/api/entries/gallery/"+url.PathEscape(galleryID), nil, &es)
}

func (c *Client) FamilyMe(ctx context.Context) (*domain.FamilyUser, error) {
	var u domain.FamilyUser
	if err := c.get(ctx, "/api/family/me", nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) Posts(ctx context.Context, page, limit int) (*domain.PostPage, error) {
	q := url.Values{}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	var p domain.PostPage
	if err := c.get(ctx, "/api/posts", q, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) Tags(ctx context.Context) ([]domain.Tag, error) {
	var ts []domain.Tag
	return ts, c.get(ctx, "/api/tags", nil, &ts)
}

// File is one image for UploadEntries.
type File struct {
	Name string
	Body io.Reader
}

type ItemResult struct {
	ID    string `json:"id"`
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

type UploadResult struct {
	Entries []domain.Entry `json:"entries"`
	Results []ItemResult   `json:"results"`
}

type EntryMeta struct {
	GalleryID   string
	Title       string
	Description string
}

// UploadEntries sends files as one multipart batch. The request body is buffered in memory.
func (c *Client) UploadEntries(ctx context.Context, meta EntryMeta, files []File) (*UploadResult, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range map[string]string{"galleryId": meta.GalleryID, "title": meta.Title, "description": meta.Description} {
		if v == "" {
			continue
		}
		if err := mw.WriteField(k, v); err != nil {
			return nil, err
		}
	}
	for _, f := range files {
		fw, err := mw.CreateFormFile("images", f.Name)
		if err != nil {
			return nil, err
		}
		if _, err := io.Copy(fw, f.Body); err != nil {
			return nil, fmt.Errorf("read %s: %w", f.Name, err)
		}
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/api/entries", nil, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	var out UploadResult
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
