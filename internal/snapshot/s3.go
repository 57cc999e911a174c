package snapshot

import (
	"bytes"
	"context"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.opentelemetry.io/otel/attribute"

	"github.com/vango-dev/cellbind/internal/config"
	"github.com/vango-dev/cellbind/internal/errors"
	"github.com/vango-dev/cellbind/internal/telemetry"
)

// S3API is the part of *s3.Client the store uses.
type S3API interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	ListObjectsV2(ctx context.Context, in *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
}

var _ S3API = (*s3.Client)(nil)

// S3Store keeps snapshots as objects under a key prefix.
//
// Example usage:
//
//	client := snapshot.NewS3Client(cfg.Snapshot.S3)
//	store := snapshot.NewS3Store(client, cfg.Snapshot.S3.Bucket, cfg.Snapshot.S3.Prefix)
type S3Store struct {
	client S3API
	bucket string
	prefix string
}

// NewS3Store creates a store for bucket. prefix is prepended to every key.
func NewS3Store(client S3API, bucket, prefix string) *S3Store {
	return &S3Store{client: client, bucket: bucket, prefix: prefix}
}

// NewS3Client builds a client from config. Credentials come from the
// standard AWS_ACCESS_KEY_ID, AWS_SECRET_ACCESS_KEY and AWS_SESSION_TOKEN
// environment variables.
func NewS3Client(cfg config.S3Config) *s3.Client {
	opts := s3.Options{
		Region:       cfg.Region,
		UsePathStyle: cfg.UsePathStyle,
		Credentials:  aws.NewCredentialsCache(aws.CredentialsProviderFunc(envCredentials)),
	}
	if cfg.Endpoint != "" {
		opts.BaseEndpoint = aws.String(cfg.Endpoint)
	}
	return s3.New(opts)
}

func envCredentials(context.Context) (aws.Credentials, error) {
	creds := aws.Credentials{
		AccessKeyID:     os.Getenv("AWS_ACCESS_KEY_ID"),
		SecretAccessKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
		SessionToken:    os.Getenv("AWS_SESSION_TOKEN"),
		Source:          "environment",
	}
	if creds.AccessKeyID == "" || creds.SecretAccessKey == "" {
		return aws.Credentials{}, errors.New("E130").
			WithDetail("AWS_ACCESS_KEY_ID and AWS_SECRET_ACCESS_KEY must be set")
	}
	return creds, nil
}

func (s *S3Store) key(id string) string {
	return s.prefix + id + Ext
}

// Put implements Store.
func (s *S3Store) Put(ctx context.Context, snap *Snapshot) (err error) {
	ctx, span := telemetry.StartSpan(ctx, "snapshot.s3.put",
		attribute.String("snapshot.id", snap.ID),
		attribute.String("s3.bucket", s.bucket))
	defer func() { telemetry.EndSpan(span, err) }()

	data, err := Encode(snap)
	if err != nil {
		return err
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.key(snap.ID)),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/msgpack"),
		Metadata: map[string]string{
			"created-at":      snap.CreatedAt.Format(time.RFC3339),
			"cleanup-entries": strconv.Itoa(snap.CleanupEntries),
		},
	})
	if err != nil {
		return errors.New("E130").WithDetail("s3 upload failed").Wrap(err)
	}
	return nil
}

// Get implements Store.
func (s *S3Store) Get(ctx context.Context, id string) (snap *Snapshot, err error) {
	ctx, span := telemetry.StartSpan(ctx, "snapshot.s3.get",
		attribute.String("snapshot.id", id),
		attribute.String("s3.bucket", s.bucket))
	defer func() { telemetry.EndSpan(span, err) }()

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(id)),
	})
	if err != nil {
		return nil, errors.New("E130").WithDetailf("s3 get %s", id).Wrap(err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, errors.New("E130").WithDetailf("s3 read %s", id).Wrap(err)
	}
	return Decode(data)
}

// List implements Store.
func (s *S3Store) List(ctx context.Context) ([]string, error) {
	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(s.prefix),
	})

	var ids []string
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, errors.New("E130").WithDetail("s3 list failed").Wrap(err)
		}
		for _, obj := range page.Contents {
			name := strings.TrimPrefix(aws.ToString(obj.Key), s.prefix)
			if id, ok := strings.CutSuffix(name, Ext); ok && !strings.Contains(id, "/") {
				ids = append(ids, id)
			}
		}
	}
	sort.Strings(ids)
	return ids, nil
}

// Open returns the store cfg selects: S3 when a bucket is configured, the
// snapshot directory otherwise.
func Open(cfg *config.Config) (Store, error) {
	if cfg.UseS3() {
		s3cfg := cfg.Snapshot.S3
		return NewS3Store(NewS3Client(s3cfg), s3cfg.Bucket, s3cfg.Prefix), nil
	}
	return NewDiskStore(cfg.SnapshotPath())
}
