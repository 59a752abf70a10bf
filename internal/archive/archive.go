// Package archive keeps the original receipt images around for auditing
// and for debugging extraction misses.
package archive

import (
	"context"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
)

// Archive stores a raw receipt image and returns where it went.
type Archive interface {
	SaveImage(ctx context.Context, sender string, data []byte) (string, error)
}

// GCSArchive writes images to a Google Cloud Storage bucket under
// receipts/<sender>/<year>/<month>/<uuid>.jpg.
type GCSArchive struct {
	bucket string
}

// NewGCSArchive creates an archive over the given bucket.
func NewGCSArchive(bucket string) *GCSArchive {
	return &GCSArchive{bucket: bucket}
}

// SaveImage uploads the image bytes and returns the resulting GCS URI.
func (a *GCSArchive) SaveImage(ctx context.Context, sender string, data []byte) (string, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return "", fmt.Errorf("SaveImage: create storage client: %w", err)
	}
	defer client.Close()

	objectName := fmt.Sprintf("receipts/%s/%s/%s.jpg",
		sanitizeSender(sender),
		time.Now().Format("2006/01"),
		uuid.NewString(),
	)

	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	w := client.Bucket(a.bucket).Object(objectName).NewWriter(ctx)
	w.ContentType = "image/jpeg"
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("SaveImage: write object %q: %w", objectName, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("SaveImage: finalize upload of %q: %w", objectName, err)
	}

	return fmt.Sprintf("gs://%s/%s", a.bucket, objectName), nil
}

// sanitizeSender reduces a sender identity (often "whatsapp:+62812...")
// to characters safe in an object path.
func sanitizeSender(sender string) string {
	var b strings.Builder
	for _, r := range sender {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteRune('-')
		}
	}
	s := strings.Trim(b.String(), "-")
	if s == "" {
		return "unknown"
	}
	return s
}

var _ Archive = (*GCSArchive)(nil)
