// media/types.go
package media

import (
	"errors"
	"fmt"
	"mime/multipart"
)

type AssetType string

const (
	AssetTypeGallery   AssetType = "gallery"
	AssetTypePortfolio AssetType = "portfolio"
	AssetTypeThumbnail AssetType = "thumbnail"
	AssetTypeUnknown   AssetType = "unknown"
)

// Validation failures are rejected before any file is written. Handlers map
// these to 400 responses.
var (
	ErrFileTooLarge       = errors.New("file exceeds maximum upload size")
	ErrFileTypeNotAllowed = errors.New("file type not allowed")
	ErrTooManyFiles       = errors.New("too many files in upload batch")
)

var allowedContentTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/webp": true,
	"image/gif":  true,
}

// ValidateUpload checks a single multipart file against the size ceiling and
// the image content-type allowlist.
func ValidateUpload(header *multipart.FileHeader, maxSize int64) error {
	if header.Size > maxSize {
		return fmt.Errorf("%w: %q is %d bytes (max %d MB)",
			ErrFileTooLarge, header.Filename, header.Size, maxSize/1024/1024)
	}
	contentType := header.Header.Get("Content-Type")
	if !allowedContentTypes[contentType] {
		return fmt.Errorf("%w: %q has type %q", ErrFileTypeNotAllowed, header.Filename, contentType)
	}
	return nil
}

// ValidateBatch checks the whole selection against the batch-count ceiling
// and every file against ValidateUpload. All failures are collapsed into one
// combined error so the caller reports a single message.
func ValidateBatch(headers []*multipart.FileHeader, maxSize int64, maxFiles int) error {
	var problems []error
	if len(headers) > maxFiles {
		problems = append(problems, fmt.Errorf("%w: %d selected (max %d)", ErrTooManyFiles, len(headers), maxFiles))
	}
	for _, h := range headers {
		if err := ValidateUpload(h, maxSize); err != nil {
			problems = append(problems, err)
		}
	}
	return errors.Join(problems...)
}
