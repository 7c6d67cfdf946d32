package storage

import "context"

// Presigner generates time-bounded capability URLs authorizing one HTTP
// operation against a specific storage key. The service itself never touches
// file bytes; clients talk to storage directly with these URLs.
type Presigner interface {
	// PresignUpload authorizes a single PUT of the object at key. The upload
	// content type is pinned to application/octet-stream rather than the
	// client-declared one so a mismatched upload header cannot invalidate the
	// signature.
	PresignUpload(ctx context.Context, key string, size int64) (string, error)

	// PresignDownload authorizes a single GET of the object at key, presenting
	// it under the stored filename and content type regardless of how the
	// bytes were uploaded.
	PresignDownload(ctx context.Context, key, filename, contentType string) (string, error)
}
