package waifu2x

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif" // registered for DecodeImage
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	_ "golang.org/x/image/webp" // decode-only format
)

// ErrUnsupportedFormat is returned when an output path's extension names no
// known encoder.
var ErrUnsupportedFormat = errors.New("waifu2x: unsupported image format")

// DecodeImage loads an image from path, auto-detecting the format from its
// content. PNG, JPEG, GIF, WebP, BMP and TIFF sources are recognized.
func DecodeImage(path string) (image.Image, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("waifu2x: open image: %w", err)
	}
	defer func() { _ = f.Close() }()

	img, format, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("waifu2x: decode image: %w", err)
	}
	Logger().Debug("waifu2x: decoded image", "path", path, "format", format,
		"w", img.Bounds().Dx(), "h", img.Bounds().Dy())
	return img, nil
}

// EncodeImage writes img to path in the format named by the path's extension.
// PNG, JPEG, BMP and TIFF outputs are supported.
func EncodeImage(path string, img image.Image) error {
	f, err := os.Create(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("waifu2x: create image: %w", err)
	}
	defer func() { _ = f.Close() }()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		err = png.Encode(f, img)
	case ".jpg", ".jpeg":
		err = jpeg.Encode(f, img, &jpeg.Options{Quality: 95})
	case ".bmp":
		err = bmp.Encode(f, img)
	case ".tif", ".tiff":
		err = tiff.Encode(f, img, nil)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
	if err != nil {
		return fmt.Errorf("waifu2x: encode image: %w", err)
	}
	return nil
}

// LossyFormat reports whether the path's extension names a lossy-compressed
// format. It is the usual predicate wired into Config.LossySource for
// ModeAuto: lossy sources get the denoise pass, lossless ones skip it.
func LossyFormat(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg", ".webp":
		return true
	default:
		return false
	}
}
