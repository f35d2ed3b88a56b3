package media

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"

	"golang.org/x/image/draw"

	_ "image/gif" // Register GIF decoder
	_ "image/png" // Register PNG decoder

	_ "golang.org/x/image/webp" // Register WebP decoder
)

// Image format constants.
const (
	FormatJPEG = "jpeg"
	FormatJPG  = "jpg"
	FormatPNG  = "png"
	FormatGIF  = "gif"
	FormatWebP = "webp"
)

// MIME type constants.
const (
	MIMETypeJPEG = "image/jpeg"
	MIMETypePNG  = "image/png"
	MIMETypeGIF  = "image/gif"
	MIMETypeWebP = "image/webp"
)

// Encoding quality bounds.
const (
	DefaultQuality = 85
	MinQuality     = 10
	MaxQuality     = 100
)

// ErrMalformedImage indicates inbound bytes were not a decodable still image.
var ErrMalformedImage = errors.New("malformed image data")

// Decode parses encoded still-image bytes (JPEG, PNG, GIF, or WebP) into a
// raw RGB frame. Failures wrap ErrMalformedImage; the caller is expected to
// surface them as a recoverable per-message error, not a connection fault.
func Decode(data []byte) (*Frame, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty input", ErrMalformedImage)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedImage, err)
	}
	return FromImage(img), nil
}

// Encode serializes a frame as JPEG at the given quality. Quality values
// outside [MinQuality, MaxQuality] fall back to DefaultQuality.
func Encode(f *Frame, quality int) ([]byte, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	if quality < MinQuality || quality > MaxQuality {
		quality = DefaultQuality
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, f.ToImage(), &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("failed to encode frame: %w", err)
	}
	return buf.Bytes(), nil
}

// Resample scales the frame to the target dimensions using bilinear
// interpolation. Returns the frame unchanged when dimensions already match.
func Resample(f *Frame, width, height int) *Frame {
	if f.Width == width && f.Height == height {
		return f
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.BiLinear.Scale(dst, dst.Bounds(), f.ToImage(), image.Rect(0, 0, f.Width, f.Height), draw.Over, nil)
	return FromImage(dst)
}

// FormatToMIMEType converts a format string to its MIME type.
func FormatToMIMEType(format string) string {
	switch format {
	case FormatJPEG, FormatJPG:
		return MIMETypeJPEG
	case FormatPNG:
		return MIMETypePNG
	case FormatGIF:
		return MIMETypeGIF
	case FormatWebP:
		return MIMETypeWebP
	default:
		return MIMETypeJPEG
	}
}

// MIMETypeToExtension returns the file extension for a MIME type, without the
// leading dot. Unknown types default to jpg.
func MIMETypeToExtension(mimeType string) string {
	switch mimeType {
	case MIMETypePNG:
		return FormatPNG
	case MIMETypeGIF:
		return FormatGIF
	case MIMETypeWebP:
		return FormatWebP
	default:
		return FormatJPG
	}
}
