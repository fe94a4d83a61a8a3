package utils

import (
	"FairShare/models"
	"encoding/base64"
	"errors"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// DefaultImageMIME is used when neither a hint nor the bytes say otherwise.
const DefaultImageMIME = "image/jpeg"

var ErrInvalidImageData = errors.New("invalid image data")

// DecodeBase64Image accepts raw base64 (standard or URL-safe, padded or not)
// or a data URI and returns the decoded image.
func DecodeBase64Image(s string) (models.ImageInput, error) {
	s = strings.TrimSpace(s)
	var hint string
	if strings.HasPrefix(s, "data:") {
		idx := strings.IndexByte(s, ',')
		if idx < 0 {
			return models.ImageInput{}, ErrInvalidImageData
		}
		meta := s[len("data:"):idx]
		if semi := strings.IndexByte(meta, ';'); semi >= 0 {
			meta = meta[:semi]
		}
		hint = meta
		s = s[idx+1:]
	}
	// whitespace from wrapped base64
	s = strings.Join(strings.Fields(s), "")
	if s == "" {
		return models.ImageInput{}, ErrInvalidImageData
	}

	data, err := decodeAnyBase64(s)
	if err != nil || len(data) == 0 {
		return models.ImageInput{}, ErrInvalidImageData
	}
	return models.ImageInput{Data: data, MIMEType: PickImageMIME(hint, data)}, nil
}

func decodeAnyBase64(s string) ([]byte, error) {
	var firstErr error
	for _, enc := range []*base64.Encoding{
		base64.StdEncoding,
		base64.URLEncoding,
		base64.RawStdEncoding,
		base64.RawURLEncoding,
	} {
		b, err := enc.DecodeString(s)
		if err == nil {
			return b, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return nil, firstErr
}

// PickImageMIME prefers an image/* hint, then a sniffed image/* type,
// then DefaultImageMIME. Non-image hints are ignored.
func PickImageMIME(hint string, data []byte) string {
	if h := strings.ToLower(strings.TrimSpace(hint)); strings.HasPrefix(h, "image/") {
		return h
	}
	if len(data) > 0 {
		if mt := mimetype.Detect(data); strings.HasPrefix(mt.String(), "image/") {
			return mt.String()
		}
	}
	return DefaultImageMIME
}
