package storage

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ObjectStore is the blob-storage contract the services depend on. Put
// returns an opaque locator; Delete is best-effort and callers treat its
// failure as non-fatal.
type ObjectStore interface {
	Put(ctx context.Context, prefix string, data []byte, format string) (string, error)
	Delete(ctx context.Context, locator string) error
}

type s3Store struct {
	client *s3.Client
	bucket string
	logger zerolog.Logger
}

// NewS3Store creates an ObjectStore backed by an S3-compatible bucket.
func NewS3Store(client *s3.Client, bucket string, logger zerolog.Logger) ObjectStore {
	return &s3Store{
		client: client,
		bucket: bucket,
		logger: logger.With().Str("component", "S3Store").Logger(),
	}
}

// Put uploads the payload under a fresh uuid key and returns the key as the
// locator stored in the database.
func (s *s3Store) Put(ctx context.Context, prefix string, data []byte, format string) (string, error) {
	key := fmt.Sprintf("%s/%s.%s", prefix, uuid.NewString(), format)
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("image/" + format),
	})
	if err != nil {
		return "", fmt.Errorf("put object %s: %w", key, err)
	}
	return key, nil
}

func (s *s3Store) Delete(ctx context.Context, locator string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(locator),
	})
	if err != nil {
		return fmt.Errorf("delete object %s: %w", locator, err)
	}
	return nil
}
