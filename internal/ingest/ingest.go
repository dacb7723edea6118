// Package ingest turns uploaded or downloaded payloads into stored image files.
package ingest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"github.com/rwcarlsen/goexif/exif"
	"github.com/tazhibayda/family-gallery/internal/log"
	"github.com/tazhibayda/family-gallery/internal/storage"
	"go.uber.org/zap"
)

var (
	ErrTooLarge = errors.New("file too large")
	ErrNotImage = errors.New("only image files are allowed")
)

// Storage prefixes per resource.
const (
	DirEntries   = "entries"
	DirGalleries = "galleries"
	DirPosts     = "posts"
)

type Stored struct {
	URL         string
	ContentType string
	// CaptureTime is the EXIF capture time, nil when the payload carries none.
	CaptureTime *time.Time
}

type Ingestor struct {
	files    storage.FileStore
	maxBytes int64
	now      func() time.Time
}

func New(files storage.FileStore, maxBytes int64) *Ingestor {
	return &Ingestor{files: files, maxBytes: maxBytes, now: time.Now}
}

// Ingest reads r through the size limit, checks it is an image, extracts the capture
// time and stores it under dir.
func (i *Ingestor) Ingest(ctx context.Context, dir, name string, r io.Reader) (*Stored, error) {
	buf, err := io.ReadAll(io.LimitReader(r, i.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read payload: %w", err)
	}
	if int64(len(buf)) > i.maxBytes {
		return nil, ErrTooLarge
	}
	ct := http.DetectContentType(buf)
	if !strings.HasPrefix(ct, "image/") {
		return nil, ErrNotImage
	}

	taken, err := CaptureTime(bytes.NewReader(buf))
	if err != nil {
		log.L().Debug("no exif capture time", zap.String("name", name), zap.Error(err))
	}

	u, err := i.files.Save(ctx, i.key(dir, name), bytes.NewReader(buf), ct)
	if err != nil {
		return nil, fmt.Errorf("store file: %w", err)
	}
	return &Stored{URL: u, ContentType: ct, CaptureTime: taken}, nil
}

// Discard removes a stored file and only logs on failure.
func (i *Ingestor) Discard(ctx context.Context, url string) {
	if url == "" {
		return
	}
	if err := i.files.Remove(ctx, url); err != nil {
		log.WithDD(ctx, log.L()).Warn("remove file", zap.String("url", url), zap.Error(err))
	}
}

func (i *Ingestor) key(dir, name string) string {
	return path.Join(dir, fmt.Sprintf("%d-%s-%s", i.now().UnixMilli(), uuid.NewString()[:8], SanitizeName(name)))
}

// CaptureTime returns DateTimeOriginal, falling back to DateTime.
func CaptureTime(r io.Reader) (*time.Time, error) {
	x, err := exif.Decode(r)
	if err != nil {
		return nil, err
	}
	t, err := x.DateTime()
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// SanitizeName keeps the base name of an uploaded file with whitespace turned into dashes.
func SanitizeName(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = path.Base(name)
	var b strings.Builder
	for _, r := range name {
		switch {
		case unicode.IsSpace(r):
			b.WriteByte('-')
		case r == '.' || r == '-' || r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	out := strings.Trim(b.String(), ".")
	if out == "" {
		return "file"
	}
	return out
}
