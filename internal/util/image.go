package util

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

// MaxImageSizeBytes caps decoded image payloads at 5 MiB.
const MaxImageSizeBytes = 5 * 1024 * 1024

var allowedImageFormats = map[string]bool{
	"jpg":  true,
	"jpeg": true,
	"png":  true,
}

var (
	ErrInvalidImageData      = errors.New("invalid image data")
	ErrImageFormatNotAllowed = errors.New("image format not allowed, use jpg, jpeg or png")
	ErrImageTooLarge         = errors.New("image exceeds maximum size")
)

// DecodeImageDataURI parses a "data:image/<fmt>;base64,<payload>" string and
// returns the raw bytes and the normalized format.
func DecodeImageDataURI(dataURI string) ([]byte, string, error) {
	meta, payload, ok := strings.Cut(dataURI, ";base64,")
	if !ok {
		return nil, "", ErrInvalidImageData
	}
	format := strings.ToLower(meta[strings.LastIndex(meta, "/")+1:])
	if format == "" || !strings.HasPrefix(meta, "data:image/") {
		return nil, "", ErrInvalidImageData
	}
	if !allowedImageFormats[format] {
		return nil, "", ErrImageFormatNotAllowed
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrInvalidImageData, err)
	}
	if len(data) > MaxImageSizeBytes {
		return nil, "", ErrImageTooLarge
	}
	if format == "jpeg" {
		format = "jpg"
	}
	return data, format, nil
}
