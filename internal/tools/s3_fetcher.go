package tools

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Object is a downloaded blob.
type Object struct {
	Data        []byte
	ContentType string
}

// ObjectFetcher downloads resumes uploaded out of band.
type ObjectFetcher interface {
	Fetch(ctx context.Context, key string) (Object, error)
}

// GetObjectAPI is the subset of the S3 client S3Fetcher needs.
type GetObjectAPI interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Options configures an S3 (or S3-compatible, e.g. R2/MinIO) bucket.
type S3Options struct {
	Bucket    string
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
}

// S3Fetcher reads objects from a single bucket.
type S3Fetcher struct {
	client GetObjectAPI
	bucket string
}

// NewS3Fetcher builds an S3 client from opts. Static credentials are used
// when both keys are set, otherwise the default AWS credential chain.
func NewS3Fetcher(ctx context.Context, opts S3Options) (*S3Fetcher, error) {
	loadOpts := []func(*config.LoadOptions) error{}
	if opts.Region != "" {
		loadOpts = append(loadOpts, config.WithRegion(opts.Region))
	}
	if opts.AccessKey != "" && opts.SecretKey != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, ""),
		))
	}

	awsConfig, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsConfig, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true
		}
	})
	return NewS3FetcherWithClient(client, opts.Bucket), nil
}

// NewS3FetcherWithClient wraps an existing client.
func NewS3FetcherWithClient(client GetObjectAPI, bucket string) *S3Fetcher {
	return &S3Fetcher{client: client, bucket: bucket}
}

// Fetch downloads key from the bucket.
func (f *S3Fetcher) Fetch(ctx context.Context, key string) (Object, error) {
	out, err := f.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(f.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return Object{}, fmt.Errorf("failed to get object %s: %w", key, err)
	}
	defer out.Body.Close()

	data, err := readAll(out.Body)
	if err != nil {
		return Object{}, err
	}
	return Object{Data: data, ContentType: aws.ToString(out.ContentType)}, nil
}
