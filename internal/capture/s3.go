package capture

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"lsinv/internal/config"
	"lsinv/internal/inv"
)

// S3Store is an S3-backed implementation of the CaptureStore interface,
// for shipping captures off sandboxed hosts through a shared bucket.
// Captures are stored under <prefix><key>.listing.
type S3Store struct {
	name     string
	bucket   string
	prefix   string
	client   *s3.Client
	uploader *manager.Uploader
}

// NewS3Store creates a capture store backed by the configured S3 bucket.
// Credentials come from the config when set, otherwise from the default
// AWS credential chain (environment, shared config, instance role).
func NewS3Store(cfg config.CaptureConfig) (*S3Store, error) {
	if cfg.S3Bucket == "" {
		return nil, fmt.Errorf("s3 capture store requires s3_bucket to be set")
	}

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.S3Region),
	}
	if cfg.S3AccessKey != "" && cfg.S3SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.S3AccessKey, cfg.S3SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg)
	return &S3Store{
		name:     cfg.Name,
		bucket:   cfg.S3Bucket,
		prefix:   cfg.S3Prefix,
		client:   client,
		uploader: manager.NewUploader(client),
	}, nil
}

// objectKey maps a capture key to its object key in the bucket.
func (s *S3Store) objectKey(key string) string {
	return s.prefix + key + captureExt
}

// Put uploads a capture under the given key, overwriting any previous one.
func (s *S3Store) Put(key string, r io.Reader, size int64) error {
	if key == "" {
		return fmt.Errorf("capture store %s: invalid capture key: %q", s.name, key)
	}

	_, err := s.uploader.Upload(context.Background(), &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(s.objectKey(key)),
		Body:          r,
		ContentLength: aws.Int64(size),
	})
	if err != nil {
		return fmt.Errorf("capture store %s: uploading capture %q: %w", s.name, key, err)
	}
	return nil
}

// Get downloads a capture by key and writes it to w.
func (s *S3Store) Get(key string, w io.Writer) error {
	out, err := s.client.GetObject(context.Background(), &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.objectKey(key)),
	})
	if err != nil {
		return fmt.Errorf("capture store %s: fetching capture %q: %w", s.name, key, err)
	}
	defer out.Body.Close()

	if _, err := io.Copy(w, out.Body); err != nil {
		return fmt.Errorf("reading capture %q: %w", key, err)
	}
	return nil
}

// List returns the stored capture keys with the given prefix, sorted ascending.
func (s *S3Store) List(prefix string) ([]string, error) {
	var keys []string

	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(s.prefix + prefix),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(context.Background())
		if err != nil {
			return nil, fmt.Errorf("capture store %s: listing captures: %w", s.name, err)
		}
		for _, obj := range page.Contents {
			name := strings.TrimPrefix(aws.ToString(obj.Key), s.prefix)
			if !strings.HasSuffix(name, captureExt) {
				continue
			}
			keys = append(keys, strings.TrimSuffix(name, captureExt))
		}
	}

	sort.Strings(keys)
	return keys, nil
}

// ValidateSetup verifies that the bucket is accessible.
func (s *S3Store) ValidateSetup() error {
	_, err := s.client.HeadBucket(context.Background(), &s3.HeadBucketInput{
		Bucket: aws.String(s.bucket),
	})
	if err != nil {
		return fmt.Errorf("capture store %s: bucket %s not accessible: %w", s.name, s.bucket, err)
	}
	return nil
}

// Compile-time check that S3Store implements inv.CaptureStore interface
var _ inv.CaptureStore = (*S3Store)(nil)
