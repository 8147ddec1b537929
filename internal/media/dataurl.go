package media

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

// ErrNotDataURL is returned when decoding text that is not a data URL
var ErrNotDataURL = errors.New("not a data URL")

// DefaultType is used for data URLs whose media type is unknown
const DefaultType = "application/octet-stream"

// Encoder turns resource content into an inline URL
type Encoder interface {
	Encode(data []byte, mediaType string) string
}

// Base64Encoder produces RFC 2397 data URLs with base64 payload
type Base64Encoder struct{}

// Encode implements Encoder
func (Base64Encoder) Encode(data []byte, mediaType string) string {
	if mediaType == "" {
		mediaType = DefaultType
	}
	var sb strings.Builder
	sb.Grow(len("data:;base64,") + len(mediaType) + base64.StdEncoding.EncodedLen(len(data)))
	sb.WriteString("data:")
	sb.WriteString(mediaType)
	sb.WriteString(";base64,")
	sb.WriteString(base64.StdEncoding.EncodeToString(data))
	return sb.String()
}

// IsDataURL reports whether url uses the data scheme
func IsDataURL(url string) bool {
	return len(url) >= 5 && strings.EqualFold(url[:5], "data:")
}

// DecodeDataURL returns the media type and content of a base64 data URL
func DecodeDataURL(url string) (string, []byte, error) {
	if !IsDataURL(url) {
		return "", nil, ErrNotDataURL
	}
	meta, payload, ok := strings.Cut(url[5:], ",")
	if !ok {
		return "", nil, fmt.Errorf("missing payload separator: %w", ErrNotDataURL)
	}
	mediaType, isBase64 := strings.CutSuffix(meta, ";base64")
	if !isBase64 {
		return "", nil, fmt.Errorf("only base64 data URLs are supported: %w", ErrNotDataURL)
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("failed to decode data URL payload: %w", err)
	}
	if mediaType == "" {
		mediaType = "text/plain"
	}
	return mediaType, data, nil
}
