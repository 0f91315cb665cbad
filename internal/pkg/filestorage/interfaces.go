package filestorage

import (
	"context"
	"errors"
	"io"
	"mime/multipart"
	"path"
	"strings"
)

// ErrBlobNotFound is returned by Open when the blob does not exist
var ErrBlobNotFound = errors.New("blob not found")

// StoredFile describes a blob written by Save
type StoredFile struct {
	// Path is the storage key relative to the storage root, e.g. "files/<uuid>.pdf"
	Path string
	// URL is where clients download the blob
	URL string
	// OriginalName is the client supplied filename
	OriginalName string
	// Size in bytes as uploaded
	Size        int64
	ContentType string
}

// BlobInfo describes a blob returned by Open
type BlobInfo struct {
	Size        int64
	ContentType string
}

// FileStorage stores uploaded blobs
type FileStorage interface {
	// Save writes the upload under subPath with a unique name
	Save(ctx context.Context, fileHeader *multipart.FileHeader, subPath string) (*StoredFile, error)

	// Delete removes a blob. Deleting a missing blob is not an error.
	Delete(ctx context.Context, filePath string) error

	// Open streams a stored blob
	Open(ctx context.Context, filePath string) (io.ReadCloser, *BlobInfo, error)
}

// cleanKey normalizes a storage key and rejects keys escaping the root.
func cleanKey(key string) (string, bool) {
	key = strings.TrimPrefix(path.Clean("/"+strings.ReplaceAll(key, "\\", "/")), "/")
	if key == "" || key == "." {
		return "", false
	}
	return key, true
}

// joinURL builds the public URL of a storage key
func joinURL(baseURL, key string) string {
	return strings.TrimRight(baseURL, "/") + "/" + key
}

// uploadContentType returns the declared content type of an upload
func uploadContentType(fileHeader *multipart.FileHeader) string {
	if ct := fileHeader.Header.Get("Content-Type"); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
