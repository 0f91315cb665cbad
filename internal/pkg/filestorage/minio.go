package filestorage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"path"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/yigit/campusportal/internal/pkg/logger"
)

// MinioConfig configures an S3 compatible bucket
type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// MinioStorage stores blobs as objects in a MinIO or S3 bucket
type MinioStorage struct {
	client  *minio.Client
	bucket  string
	baseURL string
}

// NewMinioStorage connects to the object store and makes sure the bucket exists
func NewMinioStorage(ctx context.Context, cfg MinioConfig, baseURL string) (*MinioStorage, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket %s: %w", cfg.Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket %s: %w", cfg.Bucket, err)
		}
		logger.Info().Str("bucket", cfg.Bucket).Msg("Created storage bucket")
	}

	return &MinioStorage{
		client:  client,
		bucket:  cfg.Bucket,
		baseURL: baseURL,
	}, nil
}

// Save uploads the file as an object under subPath
func (ms *MinioStorage) Save(ctx context.Context, fileHeader *multipart.FileHeader, subPath string) (*StoredFile, error) {
	if fileHeader == nil {
		return nil, errors.New("no file uploaded")
	}

	src, err := fileHeader.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	key, ok := cleanKey(path.Join(subPath, uuid.New().String()+filepath.Ext(fileHeader.Filename)))
	if !ok {
		return nil, fmt.Errorf("invalid storage path %q", subPath)
	}

	contentType := uploadContentType(fileHeader)
	info, err := ms.client.PutObject(ctx, ms.bucket, key, src, fileHeader.Size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		logger.Error().Err(err).Str("bucket", ms.bucket).Str("key", key).Msg("Failed to upload object")
		return nil, fmt.Errorf("failed to upload object: %w", err)
	}

	logger.Info().Str("filename", fileHeader.Filename).Str("saved_as", key).Msg("File saved successfully")
	return &StoredFile{
		Path:         key,
		URL:          joinURL(ms.baseURL, key),
		OriginalName: fileHeader.Filename,
		Size:         info.Size,
		ContentType:  contentType,
	}, nil
}

// Delete removes the object. S3 treats deleting a missing key as success.
func (ms *MinioStorage) Delete(ctx context.Context, filePath string) error {
	key, ok := cleanKey(filePath)
	if !ok {
		return fmt.Errorf("invalid file path: %s", filePath)
	}
	if err := ms.client.RemoveObject(ctx, ms.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}

// Open streams the object
func (ms *MinioStorage) Open(ctx context.Context, filePath string) (io.ReadCloser, *BlobInfo, error) {
	key, ok := cleanKey(filePath)
	if !ok {
		return nil, nil, ErrBlobNotFound
	}

	obj, err := ms.client.GetObject(ctx, ms.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, nil, err
	}
	stat, err := obj.Stat()
	if err != nil {
		obj.Close()
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, nil, ErrBlobNotFound
		}
		return nil, nil, err
	}
	return obj, &BlobInfo{Size: stat.Size, ContentType: stat.ContentType}, nil
}
