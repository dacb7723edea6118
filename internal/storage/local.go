package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"time"
)

// Local writes files below a directory that the HTTP server also serves statically.
type Local struct {
	root      string
	serveRoot *url.URL
}

func NewLocal(root, urlPrefix string) (*Local, error) {
	u, err := url.Parse(urlPrefix)
	if err != nil {
		return nil, fmt.Errorf("parse url prefix: %w", err)
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Local{root: root, serveRoot: u}, nil
}

func (l *Local) Root() string { return l.root }

func (l *Local) Save(ctx context.Context, key string, r io.Reader, _ string) (string, error) {
	if _, err := keyFromURL("/", "/"+key); err != nil {
		return "", fmt.Errorf("bad key %q", key)
	}
	p := filepath.Join(l.root, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return "", fmt.Errorf("create dir: %w", err)
	}
	f, err := os.Create(p)
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		_ = os.Remove(p)
		return "", fmt.Errorf("write file: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(p)
		return "", fmt.Errorf("close file: %w", err)
	}
	return l.serveRoot.JoinPath(key).String(), nil
}

func (l *Local) Remove(ctx context.Context, u string) error {
	key, err := keyFromURL(l.serveRoot.String(), u)
	if err != nil {
		return err
	}
	err = os.Remove(filepath.Join(l.root, filepath.FromSlash(key)))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// StoredFile describes one file found by Walk.
type StoredFile struct {
	URL     string
	ModTime time.Time
}

// Walk visits every regular file under the root.
func (l *Local) Walk(ctx context.Context, fn func(StoredFile) error) error {
	return filepath.WalkDir(l.root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(l.root, p)
		if err != nil {
			return err
		}
		return fn(StoredFile{URL: l.serveRoot.JoinPath(filepath.ToSlash(rel)).String(), ModTime: info.ModTime()})
	})
}
