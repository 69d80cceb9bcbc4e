package mutation

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"

	"recipehub/internal/model"
)

// PrepareImage validates the featured image and, when it exceeds the upload
// limit, downscales and re-encodes it as JPEG so oversized photos do not
// bounce off the backend. Images already within the limit pass through
// untouched.
func PrepareImage(data []byte, filename string) ([]byte, string, error) {
	contentType := sniffType(data)
	if !isAllowedImageType(contentType) {
		return nil, "", fmt.Errorf("%s: %w", contentType, model.ErrInvalidImageType)
	}

	if len(data) <= model.MaxImageSizeBytes {
		return data, filename, nil
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("decode featured image: %w", err)
	}

	resized := imaging.Fit(img, model.MaxImageDimension, model.MaxImageDimension, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, resized, imaging.JPEG, imaging.JPEGQuality(85)); err != nil {
		return nil, "", fmt.Errorf("encode featured image: %w", err)
	}

	return buf.Bytes(), uuid.NewString() + ".jpg", nil
}

func sniffType(data []byte) string {
	contentType := http.DetectContentType(data[:min(len(data), 512)])
	if idx := strings.Index(contentType, ";"); idx != -1 {
		contentType = strings.TrimSpace(contentType[:idx])
	}
	return contentType
}

func isAllowedImageType(contentType string) bool {
	switch contentType {
	case "image/jpeg", "image/png":
		return true
	default:
		return false
	}
}
