// Package media publishes the site's images to storage and generates the
// thumbnails shown on project cards and post listings.
package media

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"
)

const (
	// ThumbnailMaxWidth and ThumbnailMaxHeight bound card thumbnails.
	ThumbnailMaxWidth  = 640
	ThumbnailMaxHeight = 400

	// ThumbnailJPEGQuality is the JPEG quality for thumbnails (0-100).
	ThumbnailJPEGQuality = 85
)

// ThumbnailProcessor handles thumbnail generation from images.
type ThumbnailProcessor interface {
	// GenerateThumbnail returns a JPEG thumbnail that fits within
	// maxWidth x maxHeight, plus the original width and height.
	GenerateThumbnail(data io.Reader, maxWidth, maxHeight int) ([]byte, int, int, error)
}

// imagingProcessor implements ThumbnailProcessor using the imaging library.
type imagingProcessor struct{}

// NewImagingProcessor creates a thumbnail processor backed by imaging.
func NewImagingProcessor() ThumbnailProcessor {
	return imagingProcessor{}
}

func (imagingProcessor) GenerateThumbnail(data io.Reader, maxWidth, maxHeight int) ([]byte, int, int, error) {
	img, _, err := image.Decode(data)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()

	// Fit never upscales; small images are re-encoded at their own size.
	thumbnail := imaging.Fit(img, maxWidth, maxHeight, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, thumbnail, imaging.JPEG, imaging.JPEGQuality(ThumbnailJPEGQuality)); err != nil {
		return nil, 0, 0, fmt.Errorf("failed to encode thumbnail: %w", err)
	}

	return buf.Bytes(), bounds.Dx(), bounds.Dy(), nil
}
