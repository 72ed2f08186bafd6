package storage_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skryldev/gdimage/adapters/storage"
	"github.com/Skryldev/gdimage/config"
	"github.com/Skryldev/gdimage/core"
	apperrors "github.com/Skryldev/gdimage/errors"
)

// memS3 is an in-memory S3Client. fail makes every call return an error.
type memS3 struct {
	mu      sync.Mutex
	objects map[string][]byte
	fail    error
}

func newMemS3() *memS3 { return &memS3{objects: map[string][]byte{}} }

func (m *memS3) PutObject(_ context.Context, bucket, key string, body io.Reader, _ map[string]string) error {
	if m.fail != nil {
		return m.fail
	}
	b, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[bucket+"/"+key] = b
	return nil
}

func (m *memS3) GetObject(_ context.Context, bucket, key string) (io.ReadCloser, error) {
	if m.fail != nil {
		return nil, m.fail
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.objects[bucket+"/"+key]
	if !ok {
		return nil, errors.New("NoSuchKey")
	}
	return io.NopCloser(bytes.NewReader(b)), nil
}

func (m *memS3) DeleteObject(_ context.Context, bucket, key string) error {
	if m.fail != nil {
		return m.fail
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, bucket+"/"+key)
	return nil
}

func (m *memS3) HeadObject(_ context.Context, bucket, key string) (bool, error) {
	if m.fail != nil {
		return false, m.fail
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.objects[bucket+"/"+key]
	return ok, nil
}

func TestLocal_PutGetDelete(t *testing.T) {
	ctx := context.Background()
	l, err := storage.NewLocal(t.TempDir(), 0)
	require.NoError(t, err)

	key := core.StorageKey{Bucket: "thumbs", Path: "a/b.png"}
	require.NoError(t, l.Put(ctx, key, strings.NewReader("pixels"), map[string]string{"owner": "me"}))

	ok, err := l.Exists(ctx, key)
	require.NoError(t, err)
	assert.True(t, ok)

	rc, err := l.Get(ctx, key)
	require.NoError(t, err)
	b, _ := io.ReadAll(rc)
	rc.Close()
	assert.Equal(t, "pixels", string(b))

	meta, err := l.Meta(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"owner": "me"}, meta)

	require.NoError(t, l.Delete(ctx, key))
	ok, _ = l.Exists(ctx, key)
	assert.False(t, ok)

	_, err = l.Get(ctx, key)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	meta, err = l.Meta(ctx, key)
	assert.NoError(t, err)
	assert.Nil(t, meta)
}

func TestLocal_KeysStayInsideRoot(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	l, err := storage.NewLocal(filepath.Join(root, "store"), 0)
	require.NoError(t, err)

	key := core.StorageKey{Bucket: "../..", Path: "../escape.txt"}
	require.NoError(t, l.Put(ctx, key, strings.NewReader("x"), nil))

	_, err = os.Stat(filepath.Join(root, "escape.txt"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(root, "store", "escape.txt"))
	assert.NoError(t, err)
}

func TestS3_ClientErrorsAreTransient(t *testing.T) {
	ctx := context.Background()
	client := newMemS3()
	s, err := storage.NewS3(client, "default")
	require.NoError(t, err)

	key := core.StorageKey{Path: "x.jpg"}
	require.NoError(t, s.Put(ctx, key, strings.NewReader("data"), nil))
	ok, err := s.Exists(ctx, key)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Contains(t, client.objects, "default/x.jpg")

	client.fail = errors.New("connection reset")
	_, err = s.Get(ctx, key)
	assert.True(t, apperrors.IsRetryable(err))
	assert.True(t, apperrors.IsRetryable(s.Delete(ctx, key)))

	_, err = storage.NewS3(nil, "b")
	assert.ErrorIs(t, err, apperrors.ErrStorageUnavailable)
}

func TestNewAdapter(t *testing.T) {
	cfg := config.Default()
	cfg.Storage = config.StorageLocal
	cfg.Local.RootDir = t.TempDir()
	a, err := storage.NewAdapter(cfg, nil)
	require.NoError(t, err)
	assert.IsType(t, &storage.Local{}, a)

	cfg.Storage = config.StorageS3
	a, err = storage.NewAdapter(cfg, newMemS3())
	require.NoError(t, err)
	assert.IsType(t, &storage.S3{}, a)

	cfg.Storage = ""
	_, err = storage.NewAdapter(cfg, nil)
	assert.ErrorIs(t, err, apperrors.ErrStorageUnavailable)
}

func TestFilePath(t *testing.T) {
	ctx := context.Background()
	p := storage.FilePath(filepath.Join(t.TempDir(), "nested", "out.JPG"))
	assert.Equal(t, "JPG", p.Extension())

	ok, err := p.Exists(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, p.WithLocal(ctx, func(path string) error {
		assert.Equal(t, p.Path(), path)
		return os.WriteFile(path, []byte("jpeg"), 0o644)
	}))
	ok, _ = p.Exists(ctx)
	assert.True(t, ok)

	lf, err := p.Local(ctx)
	require.NoError(t, err)
	require.NoError(t, lf.Close())
	_, err = os.Stat(p.Path())
	assert.NoError(t, err, "closing a borrowed file must not remove it")
}

func TestObject_LocalCopyIsRemoved(t *testing.T) {
	ctx := context.Background()
	tmp := t.TempDir()
	client := newMemS3()
	s, _ := storage.NewS3(client, "bkt")
	require.NoError(t, s.Put(ctx, core.StorageKey{Path: "in.gif"}, strings.NewReader("GIF89a"), nil))

	obj := storage.NewObject(s, core.StorageKey{Bucket: "bkt", Path: "in.gif"}, storage.WithTempDir(tmp))
	assert.Equal(t, "bkt/in.gif", obj.Path())
	assert.Equal(t, "gif", obj.Extension())

	lf, err := obj.Local(ctx)
	require.NoError(t, err)
	b, err := os.ReadFile(lf.Path())
	require.NoError(t, err)
	assert.Equal(t, "GIF89a", string(b))
	require.NoError(t, lf.Close())

	entries, _ := os.ReadDir(tmp)
	assert.Empty(t, entries)
}

func TestObject_WithLocalUploads(t *testing.T) {
	ctx := context.Background()
	tmp := t.TempDir()
	l, _ := storage.NewLocal(t.TempDir(), 0)
	key := core.StorageKey{Bucket: "out", Path: "new.png"}
	obj := storage.NewObject(l, key, storage.WithTempDir(tmp), storage.WithMetadata(map[string]string{"k": "v"}))

	require.NoError(t, obj.WithLocal(ctx, func(path string) error {
		return os.WriteFile(path, []byte("png bytes"), 0o644)
	}))

	rc, err := l.Get(ctx, key)
	require.NoError(t, err)
	b, _ := io.ReadAll(rc)
	rc.Close()
	assert.Equal(t, "png bytes", string(b))
	meta, _ := l.Meta(ctx, key)
	assert.Equal(t, "v", meta["k"])

	boom := errors.New("boom")
	err = obj.WithLocal(ctx, func(string) error { return boom })
	assert.ErrorIs(t, err, boom)

	entries, _ := os.ReadDir(tmp)
	assert.Empty(t, entries)
}
