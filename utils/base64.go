package utils

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// NormalizeBase64Image strips an optional data-URL prefix
// ("data:image/png;base64,...") and embedded whitespace, returning the bare
// base64 payload. It rejects payloads that do not decode.
func NormalizeBase64Image(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("empty image payload")
	}
	if strings.HasPrefix(s, "data:") {
		idx := strings.Index(s, ",")
		if idx < 0 {
			return "", fmt.Errorf("malformed data URL: missing comma separator")
		}
		s = s[idx+1:]
	}
	// JSON clients sometimes wrap long payloads
	s = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\n', '\r', '\t':
			return -1
		}
		return r
	}, s)
	if _, err := decodeBase64(s); err != nil {
		return "", err
	}
	return s, nil
}

// DecodeBase64Image decodes a base64 image payload, accepting either a raw
// base64 string or a full data URL.
func DecodeBase64Image(s string) ([]byte, error) {
	cleaned, err := NormalizeBase64Image(s)
	if err != nil {
		return nil, err
	}
	return decodeBase64(cleaned)
}

// EncodeImageDataURL wraps encoded image bytes in a data URL for JSON
// transport, e.g. EncodeImageDataURL("image/png", raw).
func EncodeImageDataURL(mimeType string, raw []byte) string {
	return fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(raw))
}

func decodeBase64(s string) ([]byte, error) {
	raw, err := base64.StdEncoding.DecodeString(s)
	if err == nil {
		return raw, nil
	}
	// some clients emit the URL-safe alphabet or drop padding
	if raw, err2 := base64.RawStdEncoding.DecodeString(s); err2 == nil {
		return raw, nil
	}
	if raw, err2 := base64.URLEncoding.DecodeString(s); err2 == nil {
		return raw, nil
	}
	if raw, err2 := base64.RawURLEncoding.DecodeString(s); err2 == nil {
		return raw, nil
	}
	return nil, fmt.Errorf("failed to decode base64 image: %w", err)
}
