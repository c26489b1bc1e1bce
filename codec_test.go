package waifu2x

import (
	"errors"
	"image"
	"path/filepath"
	"testing"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	dir := t.TempDir()
	src := grayRamp(16, 12)

	for _, ext := range []string{".png", ".bmp", ".tif"} {
		path := filepath.Join(dir, "img"+ext)
		if err := EncodeImage(path, src); err != nil {
			t.Fatalf("EncodeImage(%s): %v", ext, err)
		}

		back, err := DecodeImage(path)
		if err != nil {
			t.Fatalf("DecodeImage(%s): %v", ext, err)
		}
		if back.Bounds().Dx() != 16 || back.Bounds().Dy() != 12 {
			t.Fatalf("%s: decoded bounds = %v, want 16x12", ext, back.Bounds())
		}
		for y := 0; y < 12; y++ {
			for x := 0; x < 16; x++ {
				if got, want := grayAt(back, x, y), int(src.GrayAt(x, y).Y); got != want {
					t.Fatalf("%s: pixel (%d,%d) = %d, want %d", ext, x, y, got, want)
				}
			}
		}
	}
}

func TestEncodeImageUnsupportedFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "img.xyz")
	err := EncodeImage(path, image.NewGray(image.Rect(0, 0, 1, 1)))
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("EncodeImage = %v, want ErrUnsupportedFormat", err)
	}
}

func TestDecodeImageMissingFile(t *testing.T) {
	if _, err := DecodeImage(filepath.Join(t.TempDir(), "absent.png")); err == nil {
		t.Error("DecodeImage succeeded on a missing file")
	}
}

func TestLossyFormat(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"photo.jpg", true},
		{"photo.JPEG", true},
		{"anim.webp", true},
		{"art.png", false},
		{"scan.tiff", false},
		{"noext", false},
	}
	for _, tt := range tests {
		if got := LossyFormat(tt.path); got != tt.want {
			t.Errorf("LossyFormat(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}
