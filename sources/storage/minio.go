package storage

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"mediroom/config"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// ObjectStore holds scenario attachments (images shared into a room). The
// chat core only ever hands out object keys; serving is the bucket's problem.
type ObjectStore struct {
	client *minio.Client
	bucket string
}

func NewObjectStore(cfg config.Config) (*ObjectStore, error) {
	client, err := minio.New(
		cfg.MinIOEndpoint,
		&minio.Options{
			Creds:  credentials.NewStaticV4(cfg.MinIOAccessKey, cfg.MinIOSecretKey, ""),
			Secure: false,
		},
	)
	if err != nil {
		return nil, err
	}
	exists, err := client.BucketExists(context.Background(), cfg.MinIOBucket)
	if err != nil {
		return nil, err
	}
	if !exists {
		if err := client.MakeBucket(context.Background(), cfg.MinIOBucket, minio.MakeBucketOptions{}); err != nil {
			return nil, err
		}
	}
	return &ObjectStore{client: client, bucket: cfg.MinIOBucket}, nil
}

// UploadAttachment stores one attachment under a fresh key and returns it.
func (s *ObjectStore) UploadAttachment(ctx context.Context, filename, contentType string, body io.Reader, size int64) (string, error) {
	key := filepath.Join("attachments", fmt.Sprintf("%s%s", uuid.New().String(), filepath.Ext(filename)))
	_, err := s.client.PutObject(ctx, s.bucket, key, body, size, minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", err
	}
	return key, nil
}

func (s *ObjectStore) GetAttachment(ctx context.Context, key string) (io.ReadCloser, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	return obj, nil
}
