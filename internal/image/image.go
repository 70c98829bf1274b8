// Package image decodes, encodes and stores rendered images.
package image

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

const (
	// MaxImageSize is the maximum accepted decoded image size (20MB)
	MaxImageSize = 20 * 1024 * 1024

	dataURIPrefix = "data:"
	base64Marker  = ";base64,"
)

// ErrNotDataURI is returned when a string is not a base64 data URI.
var ErrNotDataURI = errors.New("not a base64 data URI")

// ImageInfo holds a decoded image
type ImageInfo struct {
	MediaType string
	Data      []byte
	Size      int
}

// ToDataURI encodes data as a base64 data URI of the given MIME type
func ToDataURI(mediaType string, data []byte) string {
	return dataURIPrefix + mediaType + base64Marker + base64.StdEncoding.EncodeToString(data)
}

// ParseDataURI decodes a base64 data URI such as "data:image/png;base64,...".
func ParseDataURI(uri string) (*ImageInfo, error) {
	rest, ok := strings.CutPrefix(uri, dataURIPrefix)
	if !ok {
		return nil, ErrNotDataURI
	}
	mediaType, payload, ok := strings.Cut(rest, base64Marker)
	if !ok {
		return nil, ErrNotDataURI
	}

	if base64.StdEncoding.DecodedLen(len(payload)) > MaxImageSize {
		return nil, fmt.Errorf("image too large: %d encoded bytes (max %d decoded)", len(payload), MaxImageSize)
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("invalid image payload: %w", err)
	}

	if mediaType == "" {
		mediaType = http.DetectContentType(data)
	}
	if !strings.HasPrefix(mediaType, "image/") {
		return nil, fmt.Errorf("unsupported media type: %s", mediaType)
	}

	return &ImageInfo{
		MediaType: mediaType,
		Data:      data,
		Size:      len(data),
	}, nil
}

// Extension returns the file extension for the image's media type,
// preferring the content actually present in Data.
func (i *ImageInfo) Extension() string {
	detected := http.DetectContentType(i.Data)
	for _, mt := range []string{detected, i.MediaType} {
		switch mt {
		case "image/png":
			return ".png"
		case "image/jpeg":
			return ".jpg"
		case "image/webp":
			return ".webp"
		case "image/gif":
			return ".gif"
		}
	}
	return ".png"
}

// Save writes the image to dir/name with the matching extension and
// returns the full path. Existing files are reused.
func (i *ImageInfo) Save(dir, name string) (string, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", fmt.Errorf("failed to create image directory: %w", err)
	}
	path := filepath.Join(dir, name+i.Extension())
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}
	if err := os.WriteFile(path, i.Data, 0600); err != nil {
		return "", fmt.Errorf("failed to write image: %w", err)
	}
	return path, nil
}

// ToBase64 returns the image data as a base64 encoded string
func (i *ImageInfo) ToBase64() string {
	return base64.StdEncoding.EncodeToString(i.Data)
}

// FormatBytes formats byte size as human-readable string
func FormatBytes(bytes int) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := unit, 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
