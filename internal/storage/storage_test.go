package storage

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocal_SaveRemove(t *testing.T) {
	dir := t.TempDir()
	l, err := NewLocal(dir, "/uploads")
	require.NoError(t, err)
	ctx := context.Background()

	u, err := l.Save(ctx, "entries/a.jpg", strings.NewReader("data"), "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, "/uploads/entries/a.jpg", u)

	b, err := os.ReadFile(filepath.Join(dir, "entries", "a.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "data", string(b))

	var seen []string
	require.NoError(t, l.Walk(ctx, func(f StoredFile) error {
		seen = append(seen, f.URL)
		return nil
	}))
	assert.Equal(t, []string{"/uploads/entries/a.jpg"}, seen)

	require.NoError(t, l.Remove(ctx, u))
	_, err = os.Stat(filepath.Join(dir, "entries", "a.jpg"))
	assert.True(t, os.IsNotExist(err))

	// already gone is fine
	assert.NoError(t, l.Remove(ctx, u))
}

func TestLocal_RejectsEscapes(t *testing.T) {
	l, err := NewLocal(t.TempDir(), "/uploads")
	require.NoError(t, err)
	ctx := context.Background()

	_, err = l.Save(ctx, "../evil", strings.NewReader("x"), "")
	assert.Error(t, err)
	assert.ErrorIs(t, l.Remove(ctx, "/uploads/../etc/passwd"), ErrForeignURL)
	assert.ErrorIs(t, l.Remove(ctx, "https://elsewhere/x.jpg"), ErrForeignURL)
}

type fakeS3 struct {
	puts    map[string][]byte
	deletes []string
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	b, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.puts[aws.ToString(in.Key)] = b
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.deletes = append(f.deletes, aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func TestS3_SaveRemove(t *testing.T) {
	api := &fakeS3{puts: map[string][]byte{}}
	s := &S3{api: api, bucket: "b", publicURL: "https://cdn.example/b"}
	ctx := context.Background()

	u, err := s.Save(ctx, "posts/x.png", bytes.NewReader([]byte("png")), "image/png")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example/b/posts/x.png", u)
	assert.Equal(t, []byte("png"), api.puts["posts/x.png"])

	require.NoError(t, s.Remove(ctx, u))
	assert.Equal(t, []string{"posts/x.png"}, api.deletes)
	assert.ErrorIs(t, s.Remove(ctx, "/uploads/posts/x.png"), ErrForeignURL)
}
