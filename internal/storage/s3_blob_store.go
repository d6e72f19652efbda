package storage

import (
	"context"
	"fmt"
	"io"
	"path"

	"receipt-analyzer/internal/models"
	appconfig "receipt-analyzer/pkg/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"go.uber.org/zap"
)

// putObjectAPI is the slice of the S3 client the blob store needs.
type putObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3BlobStore keeps uploaded receipts in an S3-compatible bucket (AWS, MinIO, R2).
// Objects are written with a public-read ACL.
type S3BlobStore struct {
	client putObjectAPI
	bucket string
	prefix string
	logger *zap.Logger
}

func NewS3BlobStore(ctx context.Context, cfg *appconfig.ObjectStoreConfig, projectID string, logger *zap.Logger) (*S3BlobStore, error) {
	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(cfg.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load object store config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
		o.Retryer = aws.NopRetryer{}
		o.RequestChecksumCalculation = aws.RequestChecksumCalculationWhenRequired
	})

	logger.Info("Object store configured",
		zap.String("endpoint", cfg.Endpoint),
		zap.String("bucket", cfg.Bucket),
	)

	return newS3BlobStore(client, cfg.Bucket, projectID, logger), nil
}

func newS3BlobStore(client putObjectAPI, bucket, prefix string, logger *zap.Logger) *S3BlobStore {
	return &S3BlobStore{
		client: client,
		bucket: bucket,
		prefix: prefix,
		logger: logger,
	}
}

// Put uploads body under the given id and returns the key the object is stored at.
func (s *S3BlobStore) Put(ctx context.Context, id string, body io.Reader, size int64, contentType string) (*models.StoredBlob, error) {
	key := s.key(id)
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(contentType),
		ACL:           types.ObjectCannedACLPublicRead,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to put object %s: %w", key, err)
	}

	s.logger.Info("Receipt stored",
		zap.String("bucket", s.bucket),
		zap.String("key", key),
		zap.Int64("size", size),
	)

	return &models.StoredBlob{ID: key, Bucket: s.bucket, Size: size}, nil
}

func (s *S3BlobStore) key(id string) string {
	if s.prefix == "" {
		return id
	}
	return path.Join(s.prefix, id)
}
