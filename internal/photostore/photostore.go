// Package photostore stores and retrieves menu photos in Google Cloud
// Storage. Scans reference photos by gs:// URI; the worker fetches bytes
// back through the same package.
package photostore

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
)

// DefaultBucket holds uploaded menu photos, keyed by scan id.
const DefaultBucket = "taplist-menu-photos"

const uploadTimeout = 2 * time.Minute

// PhotoStore is the concrete GCS-backed store. It assumes Application
// Default Credentials are configured.
type PhotoStore struct {
	bucket string
}

// New creates a store over the given bucket; an empty bucket name selects
// DefaultBucket.
func New(bucket string) *PhotoStore {
	if bucket == "" {
		bucket = DefaultBucket
	}
	return &PhotoStore{bucket: bucket}
}

// UploadPhoto writes photo bytes under a scan-scoped object name and returns
// the gs:// URI the scan row should record.
func (s *PhotoStore) UploadPhoto(ctx context.Context, scanID, filename string, data []byte) (string, error) {
	objectName := ObjectNameForScan(scanID, filename)

	client, err := storage.NewClient(ctx)
	if err != nil {
		return "", fmt.Errorf("UploadPhoto: creating storage client: %w", err)
	}
	defer client.Close()

	ctx, cancel := context.WithTimeout(ctx, uploadTimeout)
	defer cancel()

	w := client.Bucket(s.bucket).Object(objectName).NewWriter(ctx)
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("UploadPhoto: writing object: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("UploadPhoto: finalizing upload: %w", err)
	}

	return fmt.Sprintf("gs://%s/%s", s.bucket, objectName), nil
}

// FetchFromGCS downloads the photo bytes from the given GCS URI.
func (s *PhotoStore) FetchFromGCS(ctx context.Context, gcsURI string) ([]byte, error) {
	bucketName, objectPath, err := splitGCSURI(gcsURI)
	if err != nil {
		return nil, err
	}

	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("FetchFromGCS: creating storage client: %w", err)
	}
	defer client.Close()

	rc, err := client.Bucket(bucketName).Object(objectPath).NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("FetchFromGCS: reading object %s/%s: %w", bucketName, objectPath, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("FetchFromGCS: reading bytes: %w", err)
	}

	return data, nil
}

// ObjectNameForScan builds the stable object name for a scan's photo. The
// original extension survives; the basename is the scan id plus a short
// random suffix so re-uploads never collide.
func ObjectNameForScan(scanID, filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	if ext == "" {
		ext = ".jpg"
	}
	return fmt.Sprintf("scans/%s/%s%s", scanID, uuid.NewString()[:8], ext)
}

// ExtractFilenameFromURI extracts the object basename from a GCS URI.
// e.g., "gs://bucket/scans/abc/xyz.jpg" → "xyz.jpg"
func ExtractFilenameFromURI(uri string) string {
	trimmed := strings.TrimPrefix(uri, "gs://")
	parts := strings.SplitN(trimmed, "/", 2)
	if len(parts) < 2 {
		return trimmed
	}
	return path.Base(parts[1])
}

func splitGCSURI(gcsURI string) (bucket, object string, err error) {
	if !strings.HasPrefix(gcsURI, "gs://") {
		return "", "", fmt.Errorf("invalid GCS URI: %s", gcsURI)
	}
	trimmed := strings.TrimPrefix(gcsURI, "gs://")
	parts := strings.SplitN(trimmed, "/", 2)
	if len(parts) != 2 || parts[1] == "" {
		return "", "", fmt.Errorf("invalid GCS URI (no object path): %s", gcsURI)
	}
	return parts[0], parts[1], nil
}
