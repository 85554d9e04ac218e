package media

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp" // decode registration; thumbnails are re-encoded as JPEG

	"github.com/silvergrain/portfoliobackend/models"
)

var supportedImageExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true,
}

// IsRasterImage checks if the filename has a common raster image extension
func IsRasterImage(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return supportedImageExtensions[ext]
}

// squareTolerance is the relative width/height difference under which an
// image is classified square rather than portrait or landscape.
const squareTolerance = 0.05

// DetectAspectRatio classifies an image as portrait, landscape, or square
// from its pixel dimensions. It only reads the header, not the full image.
func DetectAspectRatio(r io.Reader) (string, error) {
	cfg, _, err := image.DecodeConfig(r)
	if err != nil {
		return "", fmt.Errorf("failed to decode image dimensions: %w", err)
	}
	return ClassifyAspectRatio(cfg.Width, cfg.Height), nil
}

// ClassifyAspectRatio maps pixel dimensions to one of the three stored
// aspect classes.
func ClassifyAspectRatio(width, height int) string {
	if width <= 0 || height <= 0 {
		return models.AspectPortrait
	}
	larger := width
	if height > larger {
		larger = height
	}
	diff := width - height
	if diff < 0 {
		diff = -diff
	}
	if float64(diff)/float64(larger) <= squareTolerance {
		return models.AspectSquare
	}
	if width > height {
		return models.AspectLandscape
	}
	return models.AspectPortrait
}

// GenerateThumbnail renders a JPEG thumbnail of a stored original, bounded
// by maxSize on the longest side, and saves it under the thumbnail asset
// type. Returns the thumbnail's store-relative path.
func GenerateThumbnail(store Store, originalRelPath string, maxSize int) (string, error) {
	fullPath, err := store.GetFullPath(originalRelPath)
	if err != nil {
		return "", err
	}

	img, err := imaging.Open(fullPath)
	if err != nil {
		return "", fmt.Errorf("failed to open image %s: %w", originalRelPath, err)
	}

	thumb := imaging.Fit(img, maxSize, maxSize, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, thumb, imaging.JPEG, imaging.JPEGQuality(80)); err != nil {
		return "", fmt.Errorf("failed to encode thumbnail for %s: %w", originalRelPath, err)
	}

	return store.Save(AssetTypeThumbnail, "", ".jpg", &buf)
}
