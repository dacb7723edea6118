package sweep

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tazhibayda/family-gallery/internal/storage"
)

type refs map[string]struct{}

func (r refs) ReferencedURLs(context.Context) (map[string]struct{}, error) { return r, nil }

func TestSweeper_RemovesOldOrphansOnly(t *testing.T) {
	dir := t.TempDir()
	files, err := storage.NewLocal(dir, "/uploads")
	require.NoError(t, err)
	ctx := context.Background()

	keep, err := files.Save(ctx, "entries/keep.jpg", strings.NewReader("x"), "")
	require.NoError(t, err)
	orphan, err := files.Save(ctx, "entries/orphan.jpg", strings.NewReader("x"), "")
	require.NoError(t, err)
	fresh, err := files.Save(ctx, "posts/fresh.jpg", strings.NewReader("x"), "")
	require.NoError(t, err)

	old := time.Now().Add(-2 * time.Hour)
	for _, name := range []string{"entries/keep.jpg", "entries/orphan.jpg"} {
		require.NoError(t, os.Chtimes(filepath.Join(dir, name), old, old))
	}

	s := New(files, refs{keep: {}}, time.Hour)
	n, err := s.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	var left []string
	require.NoError(t, files.Walk(ctx, func(f storage.StoredFile) error {
		left = append(left, f.URL)
		return nil
	}))
	assert.ElementsMatch(t, []string{keep, fresh}, left)
	assert.NotContains(t, left, orphan)
}

func TestSchedule_RejectsBadSpec(t *testing.T) {
	s := New(nil, refs{}, time.Hour)
	_, err := s.Schedule("not a cron spec")
	assert.Error(t, err)

	c, err := s.Schedule("@every 1h")
	require.NoError(t, err)
	assert.Len(t, c.Entries(), 1)
}
