package blob

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"

	"github.com/gabriel-vasile/mimetype"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/and161185/regolith/internal/errs"
)

// S3Config describes the bucket used by the object-store backend.
type S3Config struct {
	Endpoint  string
	Bucket    string
	Prefix    string
	AccessKey string
	SecretKey string
	Region    string
	UseSSL    bool
}

type objectAPI interface {
	GetObject(ctx context.Context, bucket, object string, opts minio.GetObjectOptions) (*minio.Object, error)
	PutObject(ctx context.Context, bucket, object string, r io.Reader, size int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
}

// S3 stores blobs as objects in a single bucket, optionally below a prefix.
type S3 struct {
	client objectAPI
	bucket string
	prefix string
}

// NewS3 constructs a store from cfg.
func NewS3(cfg S3Config) (*S3, error) {
	if cfg.Endpoint == "" || cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 endpoint and bucket are required: %w", errs.ErrValidation)
	}
	cl, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("s3 client: %w", err)
	}
	return &S3{client: cl, bucket: cfg.Bucket, prefix: cfg.Prefix}, nil
}

// Fetch downloads the object for key.
func (s *S3) Fetch(ctx context.Context, key string) ([]byte, error) {
	name, err := s.object(key)
	if err != nil {
		return nil, err
	}
	obj, err := s.client.GetObject(ctx, s.bucket, name, minio.GetObjectOptions{})
	if err != nil {
		return nil, classify(key, err)
	}
	defer obj.Close()

	// GetObject is lazy: the request is only issued on first read.
	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, classify(key, err)
	}
	return data, nil
}

// Put uploads data under key.
func (s *S3) Put(ctx context.Context, key string, data []byte) (string, error) {
	name, err := s.object(key)
	if err != nil {
		return "", err
	}
	opts := minio.PutObjectOptions{ContentType: mimetype.Detect(data).String()}
	if _, err := s.client.PutObject(ctx, s.bucket, name, bytes.NewReader(data), int64(len(data)), opts); err != nil {
		return "", classify(key, err)
	}
	return key, nil
}

func (s *S3) object(key string) (string, error) {
	k, err := cleanKey(key)
	if err != nil {
		return "", err
	}
	if s.prefix == "" {
		return k, nil
	}
	return path.Join(s.prefix, k), nil
}

// classify maps a missing object to ErrNotFound and everything else to
// ErrBackendUnavailable, keeping the cause in the chain.
func classify(key string, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	resp := minio.ToErrorResponse(err)
	if resp.Code == "NoSuchKey" || (resp.StatusCode == http.StatusNotFound && resp.Code != "NoSuchBucket") {
		return fmt.Errorf("blob %q: %w", key, errs.ErrNotFound)
	}
	return fmt.Errorf("blob %q: %w: %w", key, errs.ErrBackendUnavailable, err)
}
