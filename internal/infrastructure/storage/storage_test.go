package storage

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	infraconfig "github.com/retailops/backend/internal/infrastructure/config"
)

func TestNewS3ImageStorage_Validation(t *testing.T) {
	_, err := NewS3ImageStorage(nil)
	assert.Error(t, err)

	_, err = NewS3ImageStorage(&infraconfig.StorageConfig{})
	assert.ErrorContains(t, err, "bucket")

	_, err = NewS3ImageStorage(&infraconfig.StorageConfig{Bucket: "images"})
	assert.ErrorContains(t, err, "access key")

	_, err = NewS3ImageStorage(&infraconfig.StorageConfig{Bucket: "images", AccessKey: "ak"})
	assert.ErrorContains(t, err, "secret key")
}

func TestS3ImageStorage_ObjectURL(t *testing.T) {
	tests := []struct {
		name    string
		storage *S3ImageStorage
		key     string
		want    string
	}{
		{
			name:    "public URL takes precedence",
			storage: &S3ImageStorage{bucket: "images", region: "us-east-1", publicURL: "https://cdn.example.com/"},
			key:     "products/p1.png",
			want:    "https://cdn.example.com/products/p1.png",
		},
		{
			name:    "custom endpoint uses path style",
			storage: &S3ImageStorage{bucket: "images", region: "us-east-1", endpoint: "https://minio.internal:9000"},
			key:     "products/p1.png",
			want:    "https://minio.internal:9000/images/products/p1.png",
		},
		{
			name:    "plain AWS uses virtual-hosted form",
			storage: &S3ImageStorage{bucket: "images", region: "eu-west-1"},
			key:     "products/p1.png",
			want:    "https://images.s3.eu-west-1.amazonaws.com/products/p1.png",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.storage.objectURL(tt.key))
		})
	}
}

func TestNormalizeEndpoint(t *testing.T) {
	assert.Equal(t, "", normalizeEndpoint(""))
	assert.Equal(t, "http://localhost:9000", normalizeEndpoint("http://localhost:9000"))
	assert.Equal(t, "https://minio.internal", normalizeEndpoint("minio.internal"))
}

func TestLocalImageStorage_PutAndGet(t *testing.T) {
	s := NewLocalImageStorage()

	url, err := s.Put(context.Background(), "products/p1.png", "image/png", strings.NewReader("fake-png"))
	require.NoError(t, err)
	assert.Equal(t, "https://storage.example.com/products/p1.png", url)

	contentType, data, ok := s.Get("products/p1.png")
	require.True(t, ok)
	assert.Equal(t, "image/png", contentType)
	assert.Equal(t, []byte("fake-png"), data)
}

func TestLocalImageStorage_Delete(t *testing.T) {
	s := NewLocalImageStorage()

	_, err := s.Put(context.Background(), "products/p1.png", "image/png", strings.NewReader("fake-png"))
	require.NoError(t, err)

	require.NoError(t, s.Delete(context.Background(), "products/p1.png"))
	_, _, ok := s.Get("products/p1.png")
	assert.False(t, ok)

	// Deleting again is fine.
	assert.NoError(t, s.Delete(context.Background(), "products/p1.png"))
}

func TestLocalImageStorage_EmptyKey(t *testing.T) {
	s := NewLocalImageStorage()

	_, err := s.Put(context.Background(), "", "image/png", strings.NewReader("x"))
	assert.Error(t, err)
	assert.Error(t, s.Delete(context.Background(), ""))
}
