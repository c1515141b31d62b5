package symptoms

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// DefaultMaxImageBytes caps the decoded size of an uploaded image.
const DefaultMaxImageBytes = 5 * 1024 * 1024

// Image is a decoded inline image.
type Image struct {
	// Format is the short subtype: png, jpeg, gif or webp.
	Format string
	Data   []byte
}

// MIMEType returns the image's media type.
func (i Image) MIMEType() string {
	return "image/" + i.Format
}

var imageFormats = map[string]string{
	"png":  "png",
	"jpeg": "jpeg",
	"jpg":  "jpeg",
	"gif":  "gif",
	"webp": "webp",
}

// ParseImageDataURL decodes a data:image/<fmt>;base64,<payload> URL.
func ParseImageDataURL(dataURL string, maxBytes int) (Image, error) {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxImageBytes
	}
	dataURL = strings.TrimSpace(dataURL)
	if !strings.HasPrefix(dataURL, "data:image/") {
		return Image{}, fmt.Errorf("%w: expected a data:image URL", ErrInvalidImage)
	}
	header, payload, ok := strings.Cut(strings.TrimPrefix(dataURL, "data:image/"), ",")
	if !ok {
		return Image{}, fmt.Errorf("%w: missing payload", ErrInvalidImage)
	}
	subtype, encoding, ok := strings.Cut(header, ";")
	if !ok || encoding != "base64" {
		return Image{}, fmt.Errorf("%w: payload must be base64", ErrInvalidImage)
	}
	format, ok := imageFormats[strings.ToLower(subtype)]
	if !ok {
		return Image{}, fmt.Errorf("%w: unsupported format %q", ErrInvalidImage, subtype)
	}
	if base64.StdEncoding.DecodedLen(len(payload)) > maxBytes+2 {
		return Image{}, ErrImageTooLarge
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return Image{}, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	if len(data) == 0 {
		return Image{}, fmt.Errorf("%w: empty payload", ErrInvalidImage)
	}
	if len(data) > maxBytes {
		return Image{}, ErrImageTooLarge
	}
	return Image{Format: format, Data: data}, nil
}
