package repo_test

import (
	"context"
	"flag"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tazhibayda/family-gallery/internal/domain"
	"github.com/tazhibayda/family-gallery/internal/repo"
	"github.com/tazhibayda/family-gallery/internal/session"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var mongoURI string

func TestMain(m *testing.M) {
	flag.Parse()
	if testing.Short() {
		os.Exit(m.Run())
	}
	ctx := context.Background()
	mc, err := mongodb.RunContainer(ctx, testcontainers.WithImage("mongo:6"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "mongo container: %v\n", err)
		os.Exit(1)
	}
	mongoURI, err = mc.ConnectionString(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "mongo uri: %v\n", err)
		os.Exit(1)
	}
	code := m.Run()
	_ = mc.Terminate(ctx)
	os.Exit(code)
}

// newStore gives each test its own database with indexes in place.
func newStore(t *testing.T) *repo.Store {
	t.Helper()
	if testing.Short() {
		t.Skip("needs docker")
	}
	ctx := context.Background()
	store, err := repo.NewStore(ctx, mongoURI, "gallery_"+primitive.NewObjectID().Hex())
	require.NoError(t, err)
	require.NoError(t, store.EnsureIndexes(ctx))
	t.Cleanup(func() {
		_ = store.DB.Drop(context.Background())
		_ = store.Close(context.Background())
	})
	return store
}

func TestFamilyUser_EnsureIdempotent(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()
	ext := domain.ExternalIdentity{ExternalID: "g-1", Email: "Ann@Example.com", Name: "Ann"}

	u, created, err := store.EnsureFamilyUser(ctx, ext)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, domain.StatusPending, u.Status)
	assert.Equal(t, "ann@example.com", u.Email)

	_, err = store.SetFamilyStatus(ctx, u.ID, domain.StatusApproved)
	require.NoError(t, err)

	again, created, err := store.EnsureFamilyUser(ctx, ext)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, u.ID, again.ID)
	assert.Equal(t, domain.StatusApproved, again.Status)

	// accounts without an email do not collide with each other
	_, _, err = store.EnsureFamilyUser(ctx, domain.ExternalIdentity{ExternalID: "g-2"})
	require.NoError(t, err)
	_, _, err = store.EnsureFamilyUser(ctx, domain.ExternalIdentity{ExternalID: "g-3"})
	require.NoError(t, err)

	users, err := store.ListFamilyUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 3)

	missing, err := store.SetFamilyStatus(ctx, primitive.NewObjectID(), domain.StatusBlocked)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestGalleries_VisibilityAndCascade(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	pub := &domain.Gallery{Name: "Public", Year: 2020, Month: 1}
	priv := &domain.Gallery{Name: "Private", IsFamilyOnly: true, Year: 2020, Month: 2}
	require.NoError(t, store.CreateGallery(ctx, pub))
	require.NoError(t, store.CreateGallery(ctx, priv))
	assert.ErrorIs(t, store.CreateGallery(ctx, &domain.Gallery{Name: "Public"}), repo.ErrDuplicate)

	visible, err := store.ListGalleries(ctx, false)
	require.NoError(t, err)
	require.Len(t, visible, 1)
	assert.Equal(t, "Public", visible[0].Name)
	all, err := store.ListGalleries(ctx, true)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	byName, err := store.FindGalleryByName(ctx, "Private")
	require.NoError(t, err)
	assert.Equal(t, priv.ID, byName.ID)

	story := "new story"
	up, err := store.UpdateGallery(ctx, pub.ID, domain.GalleryPatch{Story: &story})
	require.NoError(t, err)
	assert.Equal(t, "new story", up.Story)
	assert.Equal(t, "Public", up.Name)

	for i := 0; i < 3; i++ {
		require.NoError(t, store.CreateEntry(ctx, &domain.Entry{GalleryID: priv.ID, ImageURL: fmt.Sprintf("/uploads/entries/%d.jpg", i)}))
	}
	n, err := store.DeleteEntriesByGallery(ctx, priv.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)
	ok, err := store.DeleteGallery(ctx, priv.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	gone, err := store.FindGallery(ctx, priv.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)
}

func TestEntries_Order(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()
	g := &domain.Gallery{Name: "Order"}
	require.NoError(t, store.CreateGallery(ctx, g))

	t1 := time.Date(2010, 1, 1, 0, 0, 0, 0, time.UTC)
	t0 := time.Date(2005, 1, 1, 0, 0, 0, 0, time.UTC)
	base := time.Now().UTC().Truncate(time.Millisecond)
	for i, e := range []*domain.Entry{
		{Title: "late", DateTaken: &t1},
		{Title: "undated"},
		{Title: "early", DateTaken: &t0},
	} {
		e.GalleryID = g.ID
		e.CreatedAt = base.Add(time.Duration(i) * time.Second)
		require.NoError(t, store.CreateEntry(ctx, e))
	}

	es, err := store.ListEntries(ctx, g.ID)
	require.NoError(t, err)
	require.Len(t, es, 3)
	assert.Equal(t, []string{"undated", "early", "late"}, []string{es[0].Title, es[1].Title, es[2].Title})
}

func TestPosts_Pagination(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()
	base := time.Now().UTC().Truncate(time.Millisecond)
	for i := 1; i <= 12; i++ {
		require.NoError(t, store.CreatePost(ctx, &domain.Post{
			Title: fmt.Sprintf("p%d", i), Content: "c", IsPublished: true,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}
	require.NoError(t, store.CreatePost(ctx, &domain.Post{Title: "draft", Content: "c"}))

	posts, total, err := store.ListPublishedPosts(ctx, 5, 5)
	require.NoError(t, err)
	assert.EqualValues(t, 12, total)
	require.Len(t, posts, 5)
	assert.Equal(t, "p7", posts[0].Title)

	all, err := store.ListAllPosts(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 13)
}

func TestTags(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	trip := &domain.Tag{Name: "Trip", Slug: "TRIP"}
	require.NoError(t, store.CreateTag(ctx, trip))
	assert.False(t, trip.ID.IsZero())
	assert.Equal(t, "trip", trip.Slug)
	assert.ErrorIs(t, store.CreateTag(ctx, &domain.Tag{Name: "Other", Slug: "trip"}), repo.ErrDuplicate)

	require.NoError(t, store.CreateTag(ctx, &domain.Tag{Name: "Birthday", Slug: "birthday"}))
	tags, err := store.ListTags(ctx)
	require.NoError(t, err)
	require.Len(t, tags, 2)
	assert.Equal(t, "Birthday", tags[0].Name)

	found, err := store.FindTagsByIDs(ctx, []primitive.ObjectID{trip.ID, primitive.NewObjectID()})
	require.NoError(t, err)
	assert.Len(t, found, 1)
}

func TestReferencedURLs(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()
	g := &domain.Gallery{Name: "Refs", CoverImage: "/uploads/galleries/c.jpg"}
	require.NoError(t, store.CreateGallery(ctx, g))
	require.NoError(t, store.CreateEntry(ctx, &domain.Entry{GalleryID: g.ID, ImageURL: "/uploads/entries/e.jpg"}))
	require.NoError(t, store.CreatePost(ctx, &domain.Post{Title: "t", Content: "c", CoverImage: "/uploads/posts/p.jpg"}))

	refs, err := store.ReferencedURLs(ctx)
	require.NoError(t, err)
	assert.Len(t, refs, 3)
	assert.Contains(t, refs, "/uploads/posts/p.jpg")
}

func TestMongoSessions(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()
	s := store.Sessions()

	require.NoError(t, s.Save(ctx, "live", "admin-1", time.Hour))
	require.NoError(t, s.Save(ctx, "stale", "admin-1", -time.Second))

	id, err := s.Load(ctx, "live")
	require.NoError(t, err)
	assert.Equal(t, "admin-1", id)

	_, err = s.Load(ctx, "stale")
	assert.ErrorIs(t, err, session.ErrNotFound)

	require.NoError(t, s.Delete(ctx, "live"))
	_, err = s.Load(ctx, "live")
	assert.ErrorIs(t, err, session.ErrNotFound)
}

func TestAdmins_Upsert(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	a, created, err := store.UpsertAdmin(ctx, "admin", "hash-1")
	require.NoError(t, err)
	assert.True(t, created)
	b, created, err := store.UpsertAdmin(ctx, "admin", "hash-2")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, a.ID, b.ID)

	got, err := store.FindAdminByUsername(ctx, "admin")
	require.NoError(t, err)
	assert.Equal(t, "hash-2", got.PasswordHash)
	none, err := store.FindAdminByUsername(ctx, "nobody")
	require.NoError(t, err)
	assert.Nil(t, none)
}
