package storage

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Skryldev/gdimage/core"
	apperrors "github.com/Skryldev/gdimage/errors"
)

// FilePath is a core.File on the local filesystem. It is already local, so
// Local and WithLocal work on the path itself.
type FilePath string

func (p FilePath) Path() string { return string(p) }

func (p FilePath) Extension() string { return extension(string(p)) }

func (p FilePath) Exists(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, apperrors.Wrap(apperrors.CategoryStorage, "file.exists", err)
	}
	st, err := os.Stat(string(p))
	if err == nil {
		return !st.IsDir(), nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, apperrors.Wrap(apperrors.CategoryStorage, "file.exists", err)
}

func (p FilePath) Local(ctx context.Context) (core.LocalFile, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperrors.Wrap(apperrors.CategoryStorage, "file.local", err)
	}
	return borrowed(p), nil
}

func (p FilePath) WithLocal(ctx context.Context, fn func(path string) error) error {
	if err := ctx.Err(); err != nil {
		return apperrors.Wrap(apperrors.CategoryStorage, "file.with_local", err)
	}
	if dir := filepath.Dir(string(p)); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return apperrors.Wrap(apperrors.CategoryStorage, "file.with_local.mkdir", err)
		}
	}
	return fn(string(p))
}

// borrowed is a LocalFile that is not ours to remove.
type borrowed string

func (b borrowed) Path() string { return string(b) }
func (b borrowed) Close() error { return nil }

// Object is a core.File held by a StorageAdapter. Reads and writes go through
// a temporary local copy that is always removed afterwards.
type Object struct {
	adapter core.StorageAdapter
	key     core.StorageKey
	tempDir string
	meta    map[string]string
}

// ObjectOption configures an Object.
type ObjectOption func(*Object)

// WithTempDir places temporary copies in dir instead of os.TempDir.
func WithTempDir(dir string) ObjectOption {
	return func(o *Object) { o.tempDir = dir }
}

// WithMetadata attaches meta to every write.
func WithMetadata(meta map[string]string) ObjectOption {
	return func(o *Object) { o.meta = meta }
}

// NewObject addresses key within adapter.
func NewObject(adapter core.StorageAdapter, key core.StorageKey, opts ...ObjectOption) *Object {
	o := &Object{adapter: adapter, key: key}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Key returns the storage key the object addresses.
func (o *Object) Key() core.StorageKey { return o.key }

func (o *Object) Path() string {
	if o.key.Bucket == "" {
		return o.key.Path
	}
	return o.key.Bucket + "/" + o.key.Path
}

func (o *Object) Extension() string { return extension(o.key.Path) }

func (o *Object) Exists(ctx context.Context) (bool, error) {
	return o.adapter.Exists(ctx, o.key)
}

// Local downloads the object into a temporary file. Close removes it.
func (o *Object) Local(ctx context.Context) (core.LocalFile, error) {
	tmp, err := o.download(ctx)
	if err != nil {
		return nil, err
	}
	return temporary(tmp), nil
}

// WithLocal downloads the object if it exists, runs fn on the temporary copy
// and uploads the result when fn succeeds.
func (o *Object) WithLocal(ctx context.Context, fn func(path string) error) error {
	exists, err := o.adapter.Exists(ctx, o.key)
	if err != nil {
		return err
	}
	var tmp string
	if exists {
		tmp, err = o.download(ctx)
	} else {
		tmp, err = o.createTemp()
	}
	if err != nil {
		return err
	}
	defer os.Remove(tmp)

	if err := fn(tmp); err != nil {
		return err
	}

	f, err := os.Open(tmp)
	if err != nil {
		return apperrors.Wrap(apperrors.CategoryStorage, "object.upload", err)
	}
	defer f.Close()
	return o.adapter.Put(ctx, o.key, f, o.meta)
}

func (o *Object) createTemp() (string, error) {
	f, err := os.CreateTemp(o.tempDir, "gdimage-*"+filepath.Ext(o.key.Path))
	if err != nil {
		return "", apperrors.Wrap(apperrors.CategoryStorage, "object.temp", err)
	}
	name := f.Name()
	if err := f.Close(); err != nil {
		os.Remove(name)
		return "", apperrors.Wrap(apperrors.CategoryStorage, "object.temp", err)
	}
	return name, nil
}

func (o *Object) download(ctx context.Context) (string, error) {
	rc, err := o.adapter.Get(ctx, o.key)
	if err != nil {
		return "", err
	}
	defer rc.Close()

	f, err := os.CreateTemp(o.tempDir, "gdimage-*"+filepath.Ext(o.key.Path))
	if err != nil {
		return "", apperrors.Wrap(apperrors.CategoryStorage, "object.download", err)
	}
	if _, err := io.Copy(f, rc); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", apperrors.Wrap(apperrors.CategoryStorage, "object.download", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", apperrors.Wrap(apperrors.CategoryStorage, "object.download", err)
	}
	return f.Name(), nil
}

// temporary is a LocalFile we created and must remove.
type temporary string

func (t temporary) Path() string { return string(t) }

func (t temporary) Close() error {
	if err := os.Remove(string(t)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func extension(p string) string {
	return strings.TrimPrefix(filepath.Ext(p), ".")
}
