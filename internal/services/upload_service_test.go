package services

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront_backend/internal/repositories"
	"storefront_backend/internal/services/dto"
	"storefront_backend/internal/testutil"
)

// memStorage - хранилище в памяти
type memStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func newMemStorage() *memStorage {
	return &memStorage{objects: map[string][]byte{}}
}

func (m *memStorage) Save(_ context.Context, key string, reader io.Reader, _ string) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = data
	return nil
}

func (m *memStorage) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	return nil
}

func (m *memStorage) URL(key string) string { return "/uploads/" + key }

func (m *memStorage) Has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.objects[key]
	return ok
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(1, 1, color.RGBA{R: 200, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// fileHeader собирает multipart.FileHeader так же, как его получает gin
func fileHeader(t *testing.T, name string, data []byte) *multipart.FileHeader {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("image", name)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&body, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })
	return form.File["image"][0]
}

func TestUploadService_UploadImage(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	store := newMemStorage()
	cfg := GetDefaultUploadConfig()
	svc := NewUploadService(repositories.NewUploadRepository(), store, nil, cfg)
	admin := testutil.CreateAdmin(t, db, "admin@example.com", "admin123")

	resp, err := svc.UploadImage(ctx, db, admin.ID, &dto.ImageUploadRequest{
		Target: "product-image",
		File:   fileHeader(t, "Mala Photo (1).png", pngBytes(t)),
	})
	require.NoError(t, err)
	assert.Equal(t, "image/png", resp.ContentType)
	assert.True(t, strings.HasPrefix(resp.Key, "products/"), resp.Key)
	assert.True(t, strings.HasSuffix(resp.Key, "-mala-photo--1-.png"), resp.Key)
	assert.Equal(t, "/uploads/"+resp.Key, resp.URL)
	assert.True(t, store.Has(resp.Key))

	list, err := svc.List(ctx, db, &dto.UploadListQuery{Target: "product-image"})
	require.NoError(t, err)
	require.Len(t, list.Uploads, 1)
	assert.Equal(t, "Mala Photo (1).png", list.Uploads[0].OriginalName)

	require.NoError(t, svc.Delete(ctx, db, list.Uploads[0].ID))
	assert.False(t, store.Has(resp.Key))
	err = svc.Delete(ctx, db, list.Uploads[0].ID)
	requireAppError(t, err, http.StatusNotFound, "")
}

func TestUploadService_Rejects(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	store := newMemStorage()
	cfg := GetDefaultUploadConfig()
	cfg.MaxFileSize = 1024
	svc := NewUploadService(repositories.NewUploadRepository(), store, nil, cfg)

	t.Run("unknown target", func(t *testing.T) {
		_, err := svc.UploadImage(ctx, db, "admin", &dto.ImageUploadRequest{Target: "avatar", File: fileHeader(t, "a.png", pngBytes(t))})
		requireAppError(t, err, http.StatusNotFound, "Unknown upload target: avatar")
	})

	t.Run("content sniffed, not extension", func(t *testing.T) {
		_, err := svc.UploadImage(ctx, db, "admin", &dto.ImageUploadRequest{
			Target: "image",
			File:   fileHeader(t, "fake.png", []byte("#!/bin/sh\necho pwned\n")),
		})
		requireAppError(t, err, http.StatusBadRequest, "Only JPEG, PNG, GIF and WebP images are allowed")
	})

	t.Run("too large", func(t *testing.T) {
		big := append(pngBytes(t), bytes.Repeat([]byte{0}, 2048)...)
		_, err := svc.UploadImage(ctx, db, "admin", &dto.ImageUploadRequest{Target: "image", File: fileHeader(t, "big.png", big)})
		requireAppError(t, err, http.StatusBadRequest, "File too large")
	})

	t.Run("empty file", func(t *testing.T) {
		_, err := svc.UploadImage(ctx, db, "admin", &dto.ImageUploadRequest{Target: "image", File: fileHeader(t, "empty.png", nil)})
		requireAppError(t, err, http.StatusBadRequest, "Uploaded file is empty")
	})

	assert.Empty(t, store.objects)
}
