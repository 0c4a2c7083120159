package blobstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3Config configures the S3 backend.
type S3Config struct {
	Region string
	Bucket string
	// Prefix is prepended to every storage path, e.g. "immersive".
	Prefix string
	// PublicURL is the URL prefix objects are served from (CDN or bucket
	// website endpoint). If empty, the standard S3 URL is used.
	PublicURL string
}

// S3 stores objects in an S3 bucket.
type S3 struct {
	client    *s3.Client
	uploader  *manager.Uploader
	bucket    string
	prefix    string
	publicURL string
	region    string
}

// NewS3 creates an S3 store using the default AWS credential chain.
func NewS3(ctx context.Context, cfg S3Config) (*S3, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("blobstore: s3 bucket is required")
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("blobstore: load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg)
	return &S3{
		client:    client,
		uploader:  manager.NewUploader(client),
		bucket:    cfg.Bucket,
		prefix:    strings.Trim(cfg.Prefix, "/"),
		publicURL: strings.TrimSuffix(cfg.PublicURL, "/"),
		region:    cfg.Region,
	}, nil
}

// key joins the configured prefix with a storage path.
func (s *S3) key(path string) string {
	path = strings.TrimPrefix(path, "/")
	if s.prefix == "" {
		return path
	}
	return s.prefix + "/" + path
}

// Put uploads the object. The uploader handles multipart uploads for
// large files.
func (s *S3) Put(ctx context.Context, path string, r io.Reader, opts *PutOptions) error {
	input := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(path)),
		Body:   r,
	}
	if opts != nil {
		if opts.ContentType != "" {
			input.ContentType = aws.String(opts.ContentType)
		}
		if opts.CacheControl != "" {
			input.CacheControl = aws.String(opts.CacheControl)
		}
	}

	if _, err := s.uploader.Upload(ctx, input); err != nil {
		return fmt.Errorf("blobstore: s3 upload: %w", err)
	}
	return nil
}

// Get opens the object for reading.
func (s *S3) Get(ctx context.Context, path string) (io.ReadCloser, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(path)),
	})
	if err != nil {
		return nil, fmt.Errorf("blobstore: s3 get: %w", err)
	}
	return out.Body, nil
}

// Delete removes the object. S3 treats deleting a missing key as success.
func (s *S3) Delete(ctx context.Context, path string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(path)),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil
		}
		return fmt.Errorf("blobstore: s3 delete: %w", err)
	}
	return nil
}

// List returns every object under prefix, paging through the bucket.
func (s *S3) List(ctx context.Context, prefix string) ([]ObjectInfo, error) {
	fullPrefix := s.key(prefix)
	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(fullPrefix),
	})

	var objects []ObjectInfo
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("blobstore: s3 list: %w", err)
		}
		for _, obj := range page.Contents {
			key := aws.ToString(obj.Key)
			path := key
			if s.prefix != "" {
				path = strings.TrimPrefix(key, s.prefix+"/")
			}
			objects = append(objects, ObjectInfo{
				Path: path,
				Size: aws.ToInt64(obj.Size),
			})
		}
	}
	return objects, nil
}

// URL returns the public URL for the object.
func (s *S3) URL(path string) string {
	if s.publicURL != "" {
		return s.publicURL + "/" + strings.TrimPrefix(path, "/")
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, s.key(path))
}
