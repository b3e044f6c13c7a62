// Package s3store uploads diagnostic screenshots to S3.
package s3store

import (
	"bytes"
	"context"
	"fmt"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/user/maps-scraper/internal/entity"
	"github.com/user/maps-scraper/internal/repository"
)

// API is the subset of *s3.Client the sink uses.
type API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type DiagnosticsSink struct {
	client API
	bucket string
	prefix string
}

var _ repository.DiagnosticsSink = (*DiagnosticsSink)(nil)

// NewClient builds a path-style S3 client, which works against MinIO and localstack too.
func NewClient(cfg aws.Config) *s3.Client {
	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.UsePathStyle = true
	})
}

func NewDiagnosticsSink(client API, bucket, prefix string) *DiagnosticsSink {
	return &DiagnosticsSink{client: client, bucket: bucket, prefix: prefix}
}

func (s *DiagnosticsSink) Save(ctx context.Context, snap entity.Snapshot) (string, error) {
	key := path.Join(s.prefix, snap.FileName())
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(snap.PNG),
		ContentType: aws.String("image/png"),
	})
	if err != nil {
		return "", fmt.Errorf("upload screenshot: %w", err)
	}
	return fmt.Sprintf("s3://%s/%s", s.bucket, key), nil
}
