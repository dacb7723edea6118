// Package servicetest provides in-memory stand-ins for the stores, file store, event
// publisher and photo source, for tests of the service and HTTP layers.
package servicetest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/tazhibayda/family-gallery/internal/domain"
	"github.com/tazhibayda/family-gallery/internal/ingest"
	"github.com/tazhibayda/family-gallery/internal/photos"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemDB implements every store interface over maps.
type MemDB struct {
	mu        sync.Mutex
	admins    map[primitive.ObjectID]*domain.AdminUser
	family    map[primitive.ObjectID]*domain.FamilyUser
	galleries map[primitive.ObjectID]*domain.Gallery
	entries   map[primitive.ObjectID]*domain.Entry
	tags      map[primitive.ObjectID]*domain.Tag
	posts     map[primitive.ObjectID]*domain.Post
	clock     time.Time

	FailCreateEntry bool
}

func NewMemDB() *MemDB {
	return &MemDB{
		admins:    map[primitive.ObjectID]*domain.AdminUser{},
		family:    map[primitive.ObjectID]*domain.FamilyUser{},
		galleries: map[primitive.ObjectID]*domain.Gallery{},
		entries:   map[primitive.ObjectID]*domain.Entry{},
		tags:      map[primitive.ObjectID]*domain.Tag{},
		posts:     map[primitive.ObjectID]*domain.Post{},
		clock:     time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (m *MemDB) tick() time.Time {
	m.clock = m.clock.Add(time.Second)
	return m.clock
}

func (m *MemDB) FindAdminByUsername(_ context.Context, username string) (*domain.AdminUser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.admins {
		if a.Username == username {
			cp := *a
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *MemDB) FindAdminByID(_ context.Context, id primitive.ObjectID) (*domain.AdminUser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a, ok := m.admins[id]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, nil
}

func (m *MemDB) UpsertAdmin(ctx context.Context, username, hash string) (*domain.AdminUser, bool, error) {
	if a, _ := m.FindAdminByUsername(ctx, username); a != nil {
		m.mu.Lock()
		m.admins[a.ID].PasswordHash = hash
		m.mu.Unlock()
		a.PasswordHash = hash
		return a, false, nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	a := &domain.AdminUser{ID: primitive.NewObjectID(), Username: username, PasswordHash: hash, CreatedAt: m.tick()}
	m.admins[a.ID] = a
	cp := *a
	return &cp, true, nil
}

func (m *MemDB) EnsureFamilyUser(_ context.Context, ext domain.ExternalIdentity) (*domain.FamilyUser, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.family {
		if u.ExternalID == ext.ExternalID {
			cp := *u
			return &cp, false, nil
		}
	}
	u := &domain.FamilyUser{
		ID: primitive.NewObjectID(), ExternalID: ext.ExternalID, Email: strings.ToLower(ext.Email),
		Name: ext.Name, Status: domain.StatusPending, CreatedAt: m.tick(),
	}
	m.family[u.ID] = u
	cp := *u
	return &cp, true, nil
}

func (m *MemDB) FindFamilyByExternalID(_ context.Context, externalID string) (*domain.FamilyUser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.family {
		if u.ExternalID == externalID {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *MemDB) ListFamilyUsers(context.Context) ([]domain.FamilyUser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []domain.FamilyUser{}
	for _, u := range m.family {
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *MemDB) SetFamilyStatus(_ context.Context, id primitive.ObjectID, st domain.FamilyStatus) (*domain.FamilyUser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.family[id]
	if !ok {
		return nil, nil
	}
	u.Status = st
	cp := *u
	return &cp, nil
}

func (m *MemDB) ListGalleries(_ context.Context, includeFamily bool) ([]domain.Gallery, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []domain.Gallery{}
	for _, g := range m.galleries {
		if g.IsFamilyOnly && !includeFamily {
			continue
		}
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *MemDB) FindGallery(_ context.Context, id primitive.ObjectID) (*domain.Gallery, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if g, ok := m.galleries[id]; ok {
		cp := *g
		return &cp, nil
	}
	return nil, nil
}

func (m *MemDB) FindGalleryByName(_ context.Context, name string) (*domain.Gallery, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, g := range m.galleries {
		if g.Name == name {
			cp := *g
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *MemDB) CreateGallery(_ context.Context, g *domain.Gallery) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, o := range m.galleries {
		if o.Name == g.Name {
			return domain.ErrDuplicate
		}
	}
	g.ID = primitive.NewObjectID()
	g.CreatedAt = m.tick()
	cp := *g
	m.galleries[g.ID] = &cp
	return nil
}

func (m *MemDB) UpdateGallery(_ context.Context, id primitive.ObjectID, p domain.GalleryPatch) (*domain.Gallery, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.galleries[id]
	if !ok {
		return nil, nil
	}
	if p.Name != nil {
		g.Name = *p.Name
	}
	if p.Description != nil {
		g.Description = *p.Description
	}
	if p.Story != nil {
		g.Story = *p.Story
	}
	if p.CoverImage != nil {
		g.CoverImage = *p.CoverImage
	}
	if p.TagIDs != nil {
		g.TagIDs = *p.TagIDs
	}
	if p.Year != nil {
		g.Year = *p.Year
	}
	if p.Month != nil {
		g.Month = *p.Month
	}
	cp := *g
	return &cp, nil
}

func (m *MemDB) DeleteGallery(_ context.Context, id primitive.ObjectID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.galleries[id]
	delete(m.galleries, id)
	return ok, nil
}

func (m *MemDB) ListEntries(_ context.Context, gid primitive.ObjectID) ([]domain.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []domain.Entry{}
	for _, e := range m.entries {
		if e.GalleryID == gid {
			out = append(out, *e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		switch {
		case a.DateTaken == nil && b.DateTaken != nil:
			return true
		case a.DateTaken != nil && b.DateTaken == nil:
			return false
		case a.DateTaken != nil && !a.DateTaken.Equal(*b.DateTaken):
			return a.DateTaken.Before(*b.DateTaken)
		}
		return a.CreatedAt.Before(b.CreatedAt)
	})
	return out, nil
}

func (m *MemDB) FindEntry(_ context.Context, id primitive.ObjectID) (*domain.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e, ok := m.entries[id]; ok {
		cp := *e
		return &cp, nil
	}
	return nil, nil
}

func (m *MemDB) CreateEntry(_ context.Context, e *domain.Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailCreateEntry {
		return errors.New("write failed")
	}
	e.ID = primitive.NewObjectID()
	e.CreatedAt = m.tick()
	cp := *e
	m.entries[e.ID] = &cp
	return nil
}

func (m *MemDB) DeleteEntry(_ context.Context, id primitive.ObjectID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.entries[id]
	delete(m.entries, id)
	return ok, nil
}

func (m *MemDB) DeleteEntriesByGallery(_ context.Context, gid primitive.ObjectID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for id, e := range m.entries {
		if e.GalleryID == gid {
			delete(m.entries, id)
			n++
		}
	}
	return n, nil
}

func (m *MemDB) ListTags(context.Context) ([]domain.Tag, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []domain.Tag{}
	for _, t := range m.tags {
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *MemDB) FindTagsByIDs(_ context.Context, ids []primitive.ObjectID) ([]domain.Tag, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []domain.Tag{}
	for _, id := range ids {
		if t, ok := m.tags[id]; ok {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (m *MemDB) CreateTag(_ context.Context, t *domain.Tag) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, o := range m.tags {
		if o.Name == t.Name || o.Slug == t.Slug {
			return domain.ErrDuplicate
		}
	}
	t.ID = primitive.NewObjectID()
	cp := *t
	m.tags[t.ID] = &cp
	return nil
}

func (m *MemDB) DeleteTag(_ context.Context, id primitive.ObjectID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.tags[id]
	delete(m.tags, id)
	return ok, nil
}

func (m *MemDB) ListPublishedPosts(_ context.Context, skip, limit int64) ([]domain.Post, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	all := []domain.Post{}
	for _, p := range m.posts {
		if p.IsPublished {
			all = append(all, *p)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	total := int64(len(all))
	if skip > total {
		skip = total
	}
	end := skip + limit
	if end > total {
		end = total
	}
	return all[skip:end], total, nil
}

func (m *MemDB) ListAllPosts(context.Context) ([]domain.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []domain.Post{}
	for _, p := range m.posts {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *MemDB) FindPost(_ context.Context, id primitive.ObjectID) (*domain.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.posts[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, nil
}

func (m *MemDB) CreatePost(_ context.Context, p *domain.Post) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p.ID = primitive.NewObjectID()
	p.CreatedAt = m.tick()
	p.UpdatedAt = p.CreatedAt
	cp := *p
	m.posts[p.ID] = &cp
	return nil
}

func (m *MemDB) SavePost(_ context.Context, p *domain.Post) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.posts[p.ID]; !ok {
		return false, nil
	}
	p.UpdatedAt = m.tick()
	cp := *p
	m.posts[p.ID] = &cp
	return true, nil
}

func (m *MemDB) DeletePost(_ context.Context, id primitive.ObjectID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.posts[id]
	delete(m.posts, id)
	return ok, nil
}

// MemFiles records stores and removals. Payloads starting with "bad-exif" get no capture time,
// "text" payloads are rejected as non-images.
type MemFiles struct {
	mu        sync.Mutex
	n         int
	Stored    []string
	Discarded []string
	Taken     time.Time
}

func (f *MemFiles) Ingest(_ context.Context, dir, name string, r io.Reader) (*ingest.Stored, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if strings.HasPrefix(string(b), "text") {
		return nil, ingest.ErrNotImage
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.n++
	u := fmt.Sprintf("/uploads/%s/%d-%s", dir, f.n, name)
	f.Stored = append(f.Stored, u)
	st := &ingest.Stored{URL: u, ContentType: "image/jpeg"}
	if !strings.HasPrefix(string(b), "bad-exif") {
		t := f.Taken
		st.CaptureTime = &t
	}
	return st, nil
}

// Discard records every removal attempt.
func (f *MemFiles) Discard(_ context.Context, url string) {
	if url == "" {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Discarded = append(f.Discarded, url)
}

// RecPub records published routing keys; Fail makes every publish return an error.
type RecPub struct {
	mu   sync.Mutex
	Keys []string
	Fail bool
}

func (p *RecPub) Publish(_ context.Context, key string, _ any, _ string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Keys = append(p.Keys, key)
	if p.Fail {
		return errors.New("broker down")
	}
	return nil
}

func (p *RecPub) Close() error { return nil }

// Source serves a fixed payload for any item with a base URL unless Fail names it.
type Source struct {
	Fail map[string]error
}

func (s *Source) Fetch(ctx context.Context, item photos.MediaItem, token string) (io.ReadCloser, error) {
	if item.BaseURL == "" {
		return nil, photos.ErrMissingURL
	}
	if err := s.Fail[item.ID]; err != nil {
		return nil, err
	}
	return io.NopCloser(strings.NewReader("jpeg-bytes")), nil
}
