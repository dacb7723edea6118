package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/tazhibayda/family-gallery/internal/domain"
	apihttp "github.com/tazhibayda/family-gallery/internal/http"
	"github.com/tazhibayda/family-gallery/internal/identity"
	"github.com/tazhibayda/family-gallery/internal/service"
	"github.com/tazhibayda/family-gallery/internal/service/servicetest"
	"github.com/tazhibayda/family-gallery/internal/session"
)

const (
	adminUser = "admin"
	adminPass = "correct-horse"
)

// verifier accepts the tokens it was given.
type verifier map[string]domain.ExternalIdentity

func (v verifier) Verify(_ context.Context, token string) (*domain.ExternalIdentity, error) {
	ext, ok := v[token]
	if !ok {
		return nil, identity.ErrInvalidToken
	}
	return &ext, nil
}

type pinger struct{ err error }

func (p pinger) Ping(context.Context) error { return p.err }

type testEnv struct {
	T      *testing.T
	DB     *servicetest.MemDB
	Files  *servicetest.MemFiles
	Pub    *servicetest.RecPub
	Router *gin.Engine
	Admin  []*http.Cookie
}

func newTestEnv(t *testing.T, opts ...func(*apihttp.Handler, *apihttp.RouterConfig)) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := servicetest.NewMemDB()
	files := &servicetest.MemFiles{Taken: time.Date(2020, 5, 1, 12, 0, 0, 0, time.UTC)}
	pub := &servicetest.RecPub{}
	admins := service.NewAdminService(db)
	_, _, err := admins.Provision(context.Background(), adminUser, adminPass)
	require.NoError(t, err)

	h := &apihttp.Handler{
		Admins:    admins,
		Family:    service.NewFamilyService(db, pub),
		Galleries: service.NewGalleryService(db, db, db, files, pub),
		Entries:   service.NewEntryService(db, db, files, &servicetest.Source{}, pub, service.ImportOptions{Concurrency: 2, ItemTimeout: time.Second}),
		Posts:     service.NewPostService(db, db, files),
		Tags:      service.NewTagService(db),
		Sessions: session.NewManager(session.NewMemoryStore(), "test-secret", session.Options{
			TTL:          time.Hour,
			CookieMaxAge: time.Hour,
		}),
		Identity: verifier{
			"tok-ann": {ExternalID: "g-ann", Email: "ann@example.com", Name: "Ann"},
			"tok-bob": {ExternalID: "g-bob", Email: "bob@example.com", Name: "Bob"},
		},
		DB:        pinger{},
		MaxUpload: 1 << 20,
	}
	cfg := apihttp.RouterConfig{ServiceName: "test", CORSOrigins: []string{"http://localhost:5173"}, LoginRatePerMin: 100}
	for _, o := range opts {
		o(h, &cfg)
	}
	return &testEnv{T: t, DB: db, Files: files, Pub: pub, Router: apihttp.NewRouter(h, cfg)}
}

type reqOpt func(*http.Request)

func withBearer(tok string) reqOpt {
	return func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+tok) }
}

func withCookies(cs []*http.Cookie) reqOpt {
	return func(r *http.Request) {
		for _, c := range cs {
			r.AddCookie(c)
		}
	}
}

func (e *testEnv) do(r *http.Request, opts ...reqOpt) *httptest.ResponseRecorder {
	for _, o := range opts {
		o(r)
	}
	w := httptest.NewRecorder()
	e.Router.ServeHTTP(w, r)
	return w
}

func (e *testEnv) json(method, path string, body any, opts ...reqOpt) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(e.T, json.NewEncoder(&buf).Encode(body))
	}
	r := httptest.NewRequest(method, path, &buf)
	r.Header.Set("Content-Type", "application/json")
	return e.do(r, opts...)
}

type formFile struct {
	Field, Name, Body string
}

func (e *testEnv) multipart(method, path string, fields map[string][]string, files []formFile, opts ...reqOpt) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, vs := range fields {
		for _, v := range vs {
			require.NoError(e.T, mw.WriteField(k, v))
		}
	}
	for _, f := range files {
		fw, err := mw.CreateFormFile(f.Field, f.Name)
		require.NoError(e.T, err)
		_, err = fw.Write([]byte(f.Body))
		require.NoError(e.T, err)
	}
	require.NoError(e.T, mw.Close())
	r := httptest.NewRequest(method, path, &buf)
	r.Header.Set("Content-Type", mw.FormDataContentType())
	return e.do(r, opts...)
}

func loginRequest(t *testing.T, password string) *http.Request {
	t.Helper()
	body, err := json.Marshal(map[string]string{"username": adminUser, "password": password})
	require.NoError(t, err)
	r := httptest.NewRequest(http.MethodPost, "/api/admin/login", bytes.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	return r
}

// login signs the admin in and keeps the session cookie.
func (e *testEnv) login() []*http.Cookie {
	e.T.Helper()
	w := e.json(http.MethodPost, "/api/admin/login", map[string]string{"username": adminUser, "password": adminPass})
	require.Equal(e.T, http.StatusOK, w.Code, w.Body.String())
	e.Admin = w.Result().Cookies()
	require.NotEmpty(e.T, e.Admin)
	return e.Admin
}

// approve registers the family member behind tok and approves them.
func (e *testEnv) approve(tok string) {
	e.T.Helper()
	w := e.json(http.MethodGet, "/api/family/me", nil, withBearer(tok))
	require.Equal(e.T, http.StatusOK, w.Code, w.Body.String())
	var u domain.FamilyUser
	decode(e.T, w, &u)
	if e.Admin == nil {
		e.login()
	}
	w = e.json(http.MethodPut, "/api/admin/users/"+u.ID.Hex()+"/status", map[string]string{"status": "approved"}, withCookies(e.Admin))
	require.Equal(e.T, http.StatusOK, w.Code, w.Body.String())
}

func decode(t *testing.T, w *httptest.ResponseRecorder, dst any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), dst), w.Body.String())
}

func message(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var m struct {
		Message string `json:"message"`
	}
	decode(t, w, &m)
	return m.Message
}

var errDown = errors.New("server selection timeout")
