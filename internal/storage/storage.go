// Package storage keeps uploaded files and hands out the public URLs they are served from.
package storage

import (
	"context"
	"errors"
	"io"
	"strings"
)

var ErrForeignURL = errors.New("url does not belong to this store")

// FileStore persists a payload under key and returns its public URL.
// Remove accepts the URL returned by Save.
type FileStore interface {
	Save(ctx context.Context, key string, r io.Reader, contentType string) (string, error)
	Remove(ctx context.Context, url string) error
}

// keyFromURL strips prefix from url and rejects anything that would escape the store root.
func keyFromURL(prefix, url string) (string, error) {
	prefix = strings.TrimRight(prefix, "/") + "/"
	if !strings.HasPrefix(url, prefix) {
		return "", ErrForeignURL
	}
	key := strings.TrimPrefix(url, prefix)
	if key == "" || strings.HasPrefix(key, "/") {
		return "", ErrForeignURL
	}
	for _, part := range strings.Split(key, "/") {
		if part == ".." || part == "" {
			return "", ErrForeignURL
		}
	}
	return key, nil
}
