// Package s3kv stores every key as one object in an S3 bucket.
package s3kv

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/de-tools/material-atlas/pkg/store/kv"
)

// Client is the part of the S3 API the substrate needs.
type Client interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type store struct {
	client Client
	bucket string
	prefix string
}

// Factory builds an S3 client from the default AWS credential chain.
func Factory(ctx context.Context, settings kv.Settings) (kv.Substrate, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if settings.Region != "" {
		opts = append(opts, awsconfig.WithRegion(settings.Region))
	}
	if settings.ProfileName != "" {
		opts = append(opts, awsconfig.WithSharedConfigProfile(settings.ProfileName))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return New(s3.NewFromConfig(cfg), settings.Bucket, settings.Prefix)
}

func New(client Client, bucket, prefix string) (kv.Substrate, error) {
	if client == nil {
		return nil, fmt.Errorf("s3 client is nil")
	}
	if bucket == "" {
		return nil, fmt.Errorf("s3 bucket is required")
	}
	return &store{client: client, bucket: bucket, prefix: prefix}, nil
}

func (s *store) objectKey(key string) string {
	return path.Join(s.prefix, key+".json")
}

func (s *store) Get(ctx context.Context, key string) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.objectKey(key)),
	})
	if err != nil {
		var noSuchKey *types.NoSuchKey
		if errors.As(err, &noSuchKey) {
			return nil, kv.ErrKeyNotFound
		}
		return nil, fmt.Errorf("failed to get s3://%s/%s: %w", s.bucket, s.objectKey(key), err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read s3://%s/%s: %w", s.bucket, s.objectKey(key), err)
	}
	return data, nil
}

func (s *store) Put(ctx context.Context, key string, value []byte) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.objectKey(key)),
		Body:        bytes.NewReader(value),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("failed to put s3://%s/%s: %w", s.bucket, s.objectKey(key), err)
	}
	return nil
}

func (s *store) Close() error {
	return nil
}
