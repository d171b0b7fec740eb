package s3

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// EvidenceStore archives captured spam message payloads to object storage so
// training data survives message deletion on the platform side.
type EvidenceStore struct {
	client *minio.Client
	bucket string

	ensureOnce sync.Once
	ensureErr  error
}

func NewClient(endpoint, accessKey, secretKey string, useSSL bool) (*minio.Client, error) {
	if strings.TrimSpace(endpoint) == "" {
		return nil, fmt.Errorf("s3 endpoint is empty")
	}
	return minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
}

func NewEvidenceStore(client *minio.Client, bucket string) *EvidenceStore {
	return &EvidenceStore{
		client: client,
		bucket: strings.TrimSpace(bucket),
	}
}

func (s *EvidenceStore) EnsureBucket(ctx context.Context) error {
	if s.client == nil {
		return fmt.Errorf("s3 client is nil")
	}
	if s.bucket == "" {
		return fmt.Errorf("s3 bucket is empty")
	}

	s.ensureOnce.Do(func() {
		exists, err := s.client.BucketExists(ctx, s.bucket)
		if err != nil {
			s.ensureErr = err
			return
		}
		if exists {
			return
		}
		s.ensureErr = s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{})
	})

	if s.ensureErr != nil {
		return fmt.Errorf("ensure s3 bucket %q: %w", s.bucket, s.ensureErr)
	}

	return nil
}

func (s *EvidenceStore) PutEvidence(ctx context.Context, key string, payload []byte) error {
	if s.client == nil {
		return fmt.Errorf("s3 client is nil")
	}
	if key == "" || len(payload) == 0 {
		return fmt.Errorf("evidence key and payload are required")
	}

	if err := s.EnsureBucket(ctx); err != nil {
		return err
	}

	_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(payload), int64(len(payload)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return fmt.Errorf("put evidence object: %w", err)
	}

	return nil
}
