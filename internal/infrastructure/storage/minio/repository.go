package minio

import (
	"bytes"
	"context"
	"io"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"

	"github.com/turtacn/netmodel/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/netmodel/pkg/errors"
)

// Scheme prefixes object paths accepted by ParseObjectURL.
const Scheme = "minio://"

var (
	ErrObjectNotFound = errors.New(errors.ErrCodeNotFound, "object not found")
	ErrInvalidRequest = errors.New(errors.ErrCodeValidation, "invalid request")
)

// ObjectStorageRepository moves whole files in and out of the object store.
type ObjectStorageRepository interface {
	Upload(ctx context.Context, req *UploadRequest) (*UploadResult, error)
	Download(ctx context.Context, bucket, objectKey string) (*DownloadResult, error)
	Exists(ctx context.Context, bucket, objectKey string) (bool, error)
	// Get and Put address objects by minio://bucket/key path.
	Get(ctx context.Context, path string) ([]byte, error)
	Put(ctx context.Context, path string, data []byte, contentType string, metadata map[string]string) error
}

type UploadRequest struct {
	Bucket      string
	ObjectKey   string
	Data        []byte
	ContentType string
	Metadata    map[string]string
}

type UploadResult struct {
	Bucket     string
	ObjectKey  string
	ETag       string
	Size       int64
	UploadedAt time.Time
}

type DownloadResult struct {
	Data         []byte
	ContentType  string
	Size         int64
	Metadata     map[string]string
	LastModified time.Time
}

// IsObjectURL reports whether path uses the minio:// scheme.
func IsObjectURL(path string) bool {
	return strings.HasPrefix(path, Scheme)
}

// ParseObjectURL splits "minio://bucket/key" into its bucket and key. An
// empty bucket ("minio:///key") selects defaultBucket.
func ParseObjectURL(path, defaultBucket string) (bucket, key string, err error) {
	if !IsObjectURL(path) {
		return "", "", ErrInvalidRequest.WithDetail("not a " + Scheme + " path: " + path)
	}
	rest := strings.TrimPrefix(path, Scheme)
	i := strings.IndexByte(rest, '/')
	if i < 0 || i == len(rest)-1 {
		return "", "", ErrInvalidRequest.WithDetail("object key missing: " + path)
	}
	bucket, key = rest[:i], rest[i+1:]
	if bucket == "" {
		bucket = defaultBucket
	}
	if bucket == "" {
		return "", "", ErrInvalidRequest.WithDetail("bucket missing: " + path)
	}
	return bucket, key, nil
}

type minioRepository struct {
	client *MinIOClient
	logger logging.Logger
}

// NewMinIORepository builds an ObjectStorageRepository over client.
func NewMinIORepository(client *MinIOClient, logger logging.Logger) ObjectStorageRepository {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &minioRepository{client: client, logger: logger}
}

func (r *minioRepository) Upload(ctx context.Context, req *UploadRequest) (*UploadResult, error) {
	if req == nil || req.Bucket == "" || req.ObjectKey == "" {
		return nil, ErrInvalidRequest.WithDetail("bucket and object key are required")
	}
	if err := r.client.EnsureBucket(ctx, req.Bucket); err != nil {
		return nil, err
	}

	contentType := req.ContentType
	if contentType == "" {
		contentType = "text/plain; charset=utf-8"
	}
	info, err := r.client.GetClient().PutObject(ctx, req.Bucket, req.ObjectKey,
		bytes.NewReader(req.Data), int64(len(req.Data)), minio.PutObjectOptions{
			ContentType:  contentType,
			UserMetadata: req.Metadata,
		})
	if err != nil {
		r.logger.Error("Upload failed", logging.String("bucket", req.Bucket), logging.String("key", req.ObjectKey), logging.Err(err))
		return nil, errors.Wrap(err, errors.ErrCodeStorage, "upload failed").WithDetail(req.Bucket + "/" + req.ObjectKey)
	}

	r.logger.Debug("Uploaded object", logging.String("bucket", req.Bucket), logging.String("key", req.ObjectKey), logging.Int("size", len(req.Data)))
	return &UploadResult{
		Bucket:     req.Bucket,
		ObjectKey:  req.ObjectKey,
		ETag:       info.ETag,
		Size:       info.Size,
		UploadedAt: time.Now().UTC(),
	}, nil
}

func (r *minioRepository) Download(ctx context.Context, bucket, objectKey string) (*DownloadResult, error) {
	api := r.client.GetClient()

	stat, err := api.StatObject(ctx, bucket, objectKey, minio.StatObjectOptions{})
	if err != nil {
		if isNotFound(err) {
			return nil, ErrObjectNotFound.WithDetail(bucket + "/" + objectKey)
		}
		return nil, errors.Wrap(err, errors.ErrCodeStorage, "stat failed").WithDetail(bucket + "/" + objectKey)
	}

	body, err := api.GetObject(ctx, bucket, objectKey, minio.GetObjectOptions{})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeStorage, "download failed").WithDetail(bucket + "/" + objectKey)
	}
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeStorage, "download failed").WithDetail(bucket + "/" + objectKey)
	}

	return &DownloadResult{
		Data:         data,
		ContentType:  stat.ContentType,
		Size:         int64(len(data)),
		Metadata:     stat.UserMetadata,
		LastModified: stat.LastModified,
	}, nil
}

func (r *minioRepository) Exists(ctx context.Context, bucket, objectKey string) (bool, error) {
	_, err := r.client.GetClient().StatObject(ctx, bucket, objectKey, minio.StatObjectOptions{})
	if err == nil {
		return true, nil
	}
	if isNotFound(err) {
		return false, nil
	}
	return false, errors.Wrap(err, errors.ErrCodeStorage, "stat failed").WithDetail(bucket + "/" + objectKey)
}

func (r *minioRepository) Get(ctx context.Context, path string) ([]byte, error) {
	bucket, key, err := ParseObjectURL(path, r.client.DefaultBucket())
	if err != nil {
		return nil, err
	}
	res, err := r.Download(ctx, bucket, key)
	if err != nil {
		return nil, err
	}
	return res.Data, nil
}

func (r *minioRepository) Put(ctx context.Context, path string, data []byte, contentType string, metadata map[string]string) error {
	bucket, key, err := ParseObjectURL(path, r.client.DefaultBucket())
	if err != nil {
		return err
	}
	_, err = r.Upload(ctx, &UploadRequest{
		Bucket:      bucket,
		ObjectKey:   key,
		Data:        data,
		ContentType: contentType,
		Metadata:    metadata,
	})
	return err
}

func isNotFound(err error) bool {
	resp := minio.ToErrorResponse(err)
	return resp.Code == "NoSuchKey" || resp.Code == "NoSuchBucket"
}
