package services

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"voxscribe/internal/config"
)

// StorageService handles file storage operations
type StorageService interface {
	PutObject(ctx context.Context, key string, data []byte, contentType string) (*FileUploadResult, error)
	GetFileURL(key string) string
	// KeyFromURL returns the object key behind a URL built by GetFileURL.
	KeyFromURL(url string) (string, bool)
	DeleteFile(ctx context.Context, key string) error
}

// FileUploadResult contains the result of a file upload
type FileUploadResult struct {
	URL        string    `json:"url"`
	Key        string    `json:"key"`
	Size       int64     `json:"size"`
	UploadedAt time.Time `json:"uploadedAt"`
}

// MinioStorageService implements StorageService using MinIO
type MinioStorageService struct {
	client  *minio.Client
	bucket  string
	baseURL string
}

// NewMinioStorageService connects to MinIO and creates the bucket when
// missing.
func NewMinioStorageService(ctx context.Context, cfg config.StorageConfig) (*MinioStorageService, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	baseURL := strings.TrimSuffix(cfg.PublicURL, "/")
	if baseURL == "" {
		protocol := "http"
		if cfg.UseSSL {
			protocol = "https"
		}
		baseURL = fmt.Sprintf("%s://%s/%s", protocol, cfg.Endpoint, cfg.Bucket)
	}

	return &MinioStorageService{
		client:  client,
		bucket:  cfg.Bucket,
		baseURL: baseURL,
	}, nil
}

// PutObject uploads data under key.
func (s *MinioStorageService) PutObject(ctx context.Context, key string, data []byte, contentType string) (*FileUploadResult, error) {
	_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType:  contentType,
		CacheControl: "max-age=3600",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload file to MinIO: %w", err)
	}

	return &FileUploadResult{
		URL:        s.GetFileURL(key),
		Key:        key,
		Size:       int64(len(data)),
		UploadedAt: time.Now(),
	}, nil
}

// GetFileURL returns the URL for accessing a file
func (s *MinioStorageService) GetFileURL(key string) string {
	return s.baseURL + "/" + key
}

// KeyFromURL implements StorageService.
func (s *MinioStorageService) KeyFromURL(url string) (string, bool) {
	return keyFromURL(s.baseURL, url)
}

// DeleteFile deletes a file from storage
func (s *MinioStorageService) DeleteFile(ctx context.Context, key string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

func keyFromURL(baseURL, url string) (string, bool) {
	key, ok := strings.CutPrefix(url, baseURL+"/")
	if !ok || key == "" {
		return "", false
	}
	return key, true
}

// MockStorageService keeps objects in memory. It is used when no object
// store is configured and in tests.
type MockStorageService struct {
	mu      sync.Mutex
	objects map[string][]byte
}

// NewMockStorageService creates a mock storage service
func NewMockStorageService() *MockStorageService {
	return &MockStorageService{objects: make(map[string][]byte)}
}

func (s *MockStorageService) PutObject(ctx context.Context, key string, data []byte, contentType string) (*FileUploadResult, error) {
	s.mu.Lock()
	s.objects[key] = append([]byte(nil), data...)
	s.mu.Unlock()

	return &FileUploadResult{
		URL:        s.GetFileURL(key),
		Key:        key,
		Size:       int64(len(data)),
		UploadedAt: time.Now(),
	}, nil
}

func (s *MockStorageService) GetFileURL(key string) string {
	return "/storage/" + key
}

func (s *MockStorageService) KeyFromURL(url string) (string, bool) {
	return keyFromURL("/storage", url)
}

func (s *MockStorageService) DeleteFile(ctx context.Context, key string) error {
	s.mu.Lock()
	delete(s.objects, key)
	s.mu.Unlock()
	return nil
}

// Has reports whether key is stored.
func (s *MockStorageService) Has(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.objects[key]
	return ok
}
