// Package photostore backs up proof-of-funds photos to S3-compatible
// object storage (MinIO in the default deployment). Backup is optional:
// with no endpoint configured the store reports itself disabled and fund
// items keep their local path only.
package photostore

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// Seams for tests: the AWS SDK clients are constructed through these
// variables so tests can substitute fakes without a live endpoint.
var (
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
		return c.PutObject(ctx, in, optFns...)
	}

	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

// Options configures the object store connection.
type Options struct {
	Endpoint  string
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
}

// Store uploads fund photos and issues download links.
type Store struct {
	opts Options
}

// New builds a Store. Call Enabled before using it.
func New(opts Options) *Store {
	return &Store{opts: opts}
}

// Enabled reports whether backup is configured.
func (s *Store) Enabled() bool {
	return s.opts.Endpoint != "" && s.opts.Bucket != ""
}

// randomKey scatters uploads by date so bucket listings stay navigable.
func randomKey() string {
	d := time.Now()
	return fmt.Sprintf("funds/%d/%d/%d/%v", d.Year(), d.Month(), d.Day(), uuid.New())
}

func (s *Store) client() (*s3.Client, error) {
	cfg, err := config.LoadDefaultConfig(context.Background(),
		config.WithRegion(s.opts.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.opts.AccessKey,
			s.opts.SecretKey,
			"",
		)))
	if err != nil {
		return nil, err
	}

	return newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.opts.Endpoint)
		o.UsePathStyle = true
	}), nil
}

// Upload copies the local photo file into the bucket and returns the
// generated object key.
func (s *Store) Upload(ctx context.Context, localPath string) (string, error) {
	f, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("failed to open photo: %w", err)
	}
	defer f.Close()

	client, err := s.client()
	if err != nil {
		return "", err
	}

	key := randomKey()
	_, err = putObject(client, ctx, &s3.PutObjectInput{
		Bucket: &s.opts.Bucket,
		Key:    &key,
		Body:   f,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload photo: %w", err)
	}
	return key, nil
}

// PresignedGetURL returns a time-limited download link for a backed-up
// photo.
func (s *Store) PresignedGetURL(ctx context.Context, key string) (string, error) {
	client, err := s.client()
	if err != nil {
		return "", err
	}

	req, err := presignGetObject(newS3PresignClient(client), ctx, &s3.GetObjectInput{
		Bucket: &s.opts.Bucket,
		Key:    &key,
	}, s3.WithPresignExpires(15*time.Minute))
	if err != nil {
		return "", err
	}
	return req.URL, nil
}
