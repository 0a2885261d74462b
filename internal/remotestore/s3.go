/*
Copyright 2025.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package remotestore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"golang.org/x/sync/semaphore"
)

const (
	// DefaultConcurrencyLimit matches the import job concurrency; the
	// concern is bandwidth to the bucket, managed separately from any
	// other S3 client in the process.
	DefaultConcurrencyLimit = 128
	// DefaultMaxKeysPerPage is the listing page size.
	DefaultMaxKeysPerPage = 1000
	// DefaultRequestTimeout bounds a single request. Downloads are
	// reasonably sized: ranged reads for relation blocks and full reads
	// for segments bounded by the database page size.
	DefaultRequestTimeout = time.Minute
)

// S3Config configures an S3-backed ObjectStore.
type S3Config struct {
	// Region is the AWS region.
	Region string
	// Bucket is the bucket name.
	Bucket string
	// KeyPrefix is the location of the imported data directory within
	// the bucket; it is prepended to every key.
	KeyPrefix string
	// Endpoint optionally overrides the S3 endpoint (MinIO / localstack).
	// When empty the SDK infers it from the environment.
	Endpoint string
	// AccessKeyID and SecretAccessKey are optional static credentials;
	// the default provider chain is used when unset.
	AccessKeyID     string
	SecretAccessKey string
	// UsePathStyle forces path-style addressing (required for MinIO).
	UsePathStyle bool
	// ConcurrencyLimit caps in-flight requests (default 128).
	ConcurrencyLimit int64
	// MaxKeysPerPage is the listing page size (default 1000).
	MaxKeysPerPage int32
	// RequestTimeout bounds each request (default 1m). A request that
	// exceeds it fails transiently.
	RequestTimeout time.Duration
}

// S3Store reads from an S3 bucket. Instances are safe for concurrent
// use; all tunables are fixed at construction.
type S3Store struct {
	client  *s3.Client
	bucket  string
	prefix  string
	sem     *semaphore.Weighted
	maxKeys int32
	timeout time.Duration
}

// NewS3Store creates an S3-backed ObjectStore.
func NewS3Store(ctx context.Context, cfg S3Config) (*S3Store, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("remotestore: bucket is required")
	}
	if cfg.Region == "" {
		return nil, errors.New("remotestore: region is required")
	}

	opts := []func(*config.LoadOptions) error{
		config.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("remotestore: load AWS config: %w", err)
	}

	var s3Opts []func(*s3.Options)
	if cfg.Endpoint != "" {
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		})
	}
	if cfg.UsePathStyle {
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.UsePathStyle = true
		})
	}

	limit := cfg.ConcurrencyLimit
	if limit <= 0 {
		limit = DefaultConcurrencyLimit
	}
	maxKeys := cfg.MaxKeysPerPage
	if maxKeys <= 0 {
		maxKeys = DefaultMaxKeysPerPage
	}
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}

	return &S3Store{
		client:  s3.NewFromConfig(awsCfg, s3Opts...),
		bucket:  cfg.Bucket,
		prefix:  strings.Trim(cfg.KeyPrefix, "/"),
		sem:     semaphore.NewWeighted(limit),
		maxKeys: maxKeys,
		timeout: timeout,
	}, nil
}

// do runs one request under the concurrency ceiling and the per-request
// timeout. A timeout of our own making is reported as a transient
// failure, never as the caller's cancellation.
func (s *S3Store) do(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := s.sem.Acquire(ctx, 1); err != nil {
		return err
	}
	defer s.sem.Release(1)

	rctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	err := fn(rctx)
	if err != nil && rctx.Err() != nil && ctx.Err() == nil {
		// %v, not %w: the deadline sentinel must not leak into the
		// permanent class.
		return fmt.Errorf("remotestore: request timed out after %s: %v", s.timeout, err)
	}
	return err
}

func (s *S3Store) fullKey(key string) string {
	if s.prefix == "" {
		return key
	}
	return s.prefix + "/" + key
}

// relativeKey strips the configured prefix from a key returned by the
// backend.
func (s *S3Store) relativeKey(key string) (string, bool) {
	if s.prefix == "" {
		return key, key != ""
	}
	rel, ok := strings.CutPrefix(key, s.prefix+"/")
	return rel, ok && rel != ""
}

func (s *S3Store) List(ctx context.Context, prefix string) (Listing, error) {
	full := s.fullKey(prefix)
	var out Listing
	var token *string
	for {
		var page *s3.ListObjectsV2Output
		err := s.do(ctx, func(ctx context.Context) error {
			var err error
			page, err = s.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
				Bucket:            aws.String(s.bucket),
				Prefix:            aws.String(full),
				Delimiter:         aws.String("/"),
				MaxKeys:           aws.Int32(s.maxKeys),
				ContinuationToken: token,
			})
			return err
		})
		if err != nil {
			return Listing{}, classifyS3Error("list", err)
		}

		for _, obj := range page.Contents {
			if obj.Key == nil {
				continue
			}
			rel, ok := s.relativeKey(*obj.Key)
			if !ok {
				continue
			}
			key, err := NewPath(rel)
			if err != nil {
				return Listing{}, Permanent(fmt.Errorf("remotestore: listed key: %w", err))
			}
			out.Objects = append(out.Objects, ObjectEntry{Key: key, Size: aws.ToInt64(obj.Size)})
		}
		for _, cp := range page.CommonPrefixes {
			if cp.Prefix == nil {
				continue
			}
			rel, ok := s.relativeKey(strings.TrimSuffix(*cp.Prefix, "/"))
			if !ok {
				continue
			}
			p, err := NewPath(rel)
			if err != nil {
				return Listing{}, Permanent(fmt.Errorf("remotestore: listed prefix: %w", err))
			}
			out.Prefixes = append(out.Prefixes, p)
		}

		if page.IsTruncated == nil || !*page.IsTruncated {
			break
		}
		token = page.NextContinuationToken
	}
	return out, nil
}

func (s *S3Store) Get(ctx context.Context, key Path) ([]byte, error) {
	var buf []byte
	err := s.do(ctx, func(ctx context.Context) error {
		output, err := s.client.GetObject(ctx, &s3.GetObjectInput{
			Bucket: aws.String(s.bucket),
			Key:    aws.String(s.fullKey(key.String())),
		})
		if err != nil {
			return err
		}
		defer func() { _ = output.Body.Close() }()
		buf, err = io.ReadAll(output.Body)
		return err
	})
	if err != nil {
		return nil, classifyS3Error("get", err)
	}
	return buf, nil
}

func (s *S3Store) GetRange(ctx context.Context, key Path, start, end uint64) ([]byte, error) {
	want := end - start
	if want == 0 {
		return []byte{}, nil
	}
	var buf []byte
	err := s.do(ctx, func(ctx context.Context) error {
		output, err := s.client.GetObject(ctx, &s3.GetObjectInput{
			Bucket: aws.String(s.bucket),
			Key:    aws.String(s.fullKey(key.String())),
			// HTTP ranges are inclusive on both ends.
			Range: aws.String(fmt.Sprintf("bytes=%d-%d", start, end-1)),
		})
		if err != nil {
			return err
		}
		defer func() { _ = output.Body.Close() }()
		buf, err = io.ReadAll(output.Body)
		return err
	})
	if err != nil {
		return nil, classifyS3Error("get range", err)
	}
	if uint64(len(buf)) != want {
		return nil, Permanent(fmt.Errorf(
			"remotestore: object %s holds %d bytes of range [%#x,%#x), want %d",
			key, len(buf), start, end, want))
	}
	return buf, nil
}

// classifyS3Error maps SDK failures into the retry taxonomy: absence to
// ErrNotFound, request errors the bucket will keep rejecting to
// Permanent, everything else left transient.
func classifyS3Error(op string, err error) error {
	var noSuchKey *types.NoSuchKey
	var notFound *types.NotFound
	if errors.As(err, &noSuchKey) || errors.As(err, &notFound) {
		return ErrNotFound
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound":
			return ErrNotFound
		case "AccessDenied", "InvalidRange", "InvalidArgument", "NoSuchBucket", "PermanentRedirect":
			return Permanent(fmt.Errorf("s3 %s: %w", op, err))
		}
	}
	return fmt.Errorf("s3 %s: %w", op, err)
}

var _ ObjectStore = (*S3Store)(nil)
