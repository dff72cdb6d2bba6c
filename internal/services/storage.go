package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"recruitdesk/cv-intake/internal/config"
)

// StoredFile identifies a saved CV. Key is internal, URL is what clients
// see as file_url.
type StoredFile struct {
	Key string
	URL string
}

type StorageService interface {
	Save(ctx context.Context, filename string, r io.Reader, size int64) (StoredFile, error)
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
	EnsureReady(ctx context.Context) error
}

// NewStorageService picks the driver named by cfg.Storage.Driver.
func NewStorageService(cfg *config.Config) (StorageService, error) {
	switch strings.ToLower(cfg.Storage.Driver) {
	case "", "local":
		return NewLocalStorage(cfg.Storage.UploadPath, cfg.Server.BaseURL+"/files"), nil
	case "s3":
		return NewS3Storage(cfg.Storage.S3)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

func newFileKey(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	return fmt.Sprintf("cv_%s%s", uuid.New().String(), ext)
}

type localStorage struct {
	uploadPath string
	publicURL  string
}

func NewLocalStorage(uploadPath, publicURL string) StorageService {
	return &localStorage{
		uploadPath: uploadPath,
		publicURL:  strings.TrimRight(publicURL, "/"),
	}
}

func (s *localStorage) EnsureReady(_ context.Context) error {
	if err := os.MkdirAll(s.uploadPath, 0755); err != nil {
		return fmt.Errorf("failed to create upload directory: %w", err)
	}
	return nil
}

func (s *localStorage) Save(_ context.Context, filename string, r io.Reader, _ int64) (StoredFile, error) {
	key := newFileKey(filename)

	dst, err := os.Create(s.path(key))
	if err != nil {
		return StoredFile{}, fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, r); err != nil {
		dst.Close()
		os.Remove(s.path(key))
		return StoredFile{}, fmt.Errorf("failed to save file: %w", err)
	}

	return StoredFile{Key: key, URL: s.publicURL + "/" + key}, nil
}

func (s *localStorage) Open(_ context.Context, key string) (io.ReadCloser, error) {
	f, err := os.Open(s.path(key))
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return f, nil
}

func (s *localStorage) Delete(_ context.Context, key string) error {
	if err := os.Remove(s.path(key)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// path keeps keys inside the upload directory.
func (s *localStorage) path(key string) string {
	return filepath.Join(s.uploadPath, filepath.Base(key))
}

type s3Storage struct {
	client    *minio.Client
	bucket    string
	publicURL string
}

func NewS3Storage(cfg config.S3Config) (StorageService, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create s3 client: %w", err)
	}

	publicURL := cfg.PublicURL
	if publicURL == "" {
		publicURL = client.EndpointURL().String() + "/" + cfg.Bucket
	}

	return &s3Storage{client: client, bucket: cfg.Bucket, publicURL: publicURL}, nil
}

func (s *s3Storage) EnsureReady(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket %s: %w", s.bucket, err)
	}
	if exists {
		return nil
	}
	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{Region: "us-east-1"}); err != nil {
		return fmt.Errorf("failed to create bucket %s: %w", s.bucket, err)
	}
	return nil
}

func (s *s3Storage) Save(ctx context.Context, filename string, r io.Reader, size int64) (StoredFile, error) {
	key := newFileKey(filename)

	_, err := s.client.PutObject(ctx, s.bucket, key, r, size, minio.PutObjectOptions{
		ContentType: "application/pdf",
		UserMetadata: map[string]string{
			"original-filename": filepath.Base(filename),
		},
	})
	if err != nil {
		return StoredFile{}, fmt.Errorf("failed to upload %s: %w", key, err)
	}

	return StoredFile{Key: key, URL: s.publicURL + "/" + key}, nil
}

func (s *s3Storage) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get %s: %w", key, err)
	}
	return obj, nil
}

func (s *s3Storage) Delete(ctx context.Context, key string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}
