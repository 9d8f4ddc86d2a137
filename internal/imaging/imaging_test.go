package imaging

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"
)

func solid(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func encodeJPEG(w, h int) []byte {
	var buf bytes.Buffer
	jpeg.Encode(&buf, solid(w, h, color.RGBA{255, 0, 0, 255}), &jpeg.Options{Quality: 90})
	return buf.Bytes()
}

func encodePNG(w, h int) []byte {
	var buf bytes.Buffer
	png.Encode(&buf, solid(w, h, color.RGBA{0, 0, 255, 255}))
	return buf.Bytes()
}

var small = PhotoOptions{MaxDimension: 64, Quality: 80, MaxBytes: 1 << 20}

func TestProcessPNGBecomesJPEG(t *testing.T) {
	photo, err := ShipPhoto.Process(bytes.NewReader(encodePNG(100, 80)))
	if err != nil {
		t.Fatalf("Process PNG: %v", err)
	}
	if photo.MIME != "image/jpeg" {
		t.Errorf("expected image/jpeg, got %s", photo.MIME)
	}
	if photo.Width != 100 || photo.Height != 80 {
		t.Errorf("small photo should keep its size, got %dx%d", photo.Width, photo.Height)
	}
	if _, err := jpeg.Decode(bytes.NewReader(photo.Data)); err != nil {
		t.Errorf("output is not a JPEG: %v", err)
	}
}

func TestProcessDownscaleKeepsAspect(t *testing.T) {
	photo, err := small.Process(bytes.NewReader(encodeJPEG(256, 128)))
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if photo.Width != 64 || photo.Height != 32 {
		t.Errorf("expected 64x32, got %dx%d", photo.Width, photo.Height)
	}

	photo, err = small.Process(bytes.NewReader(encodeJPEG(100, 400)))
	if err != nil {
		t.Fatalf("Process portrait: %v", err)
	}
	if photo.Width != 16 || photo.Height != 64 {
		t.Errorf("expected 16x64, got %dx%d", photo.Width, photo.Height)
	}
}

func TestProcessTooLarge(t *testing.T) {
	tiny := PhotoOptions{MaxDimension: 64, Quality: 80, MaxBytes: 10}
	_, err := tiny.Process(bytes.NewReader(encodeJPEG(32, 32)))
	if !errors.Is(err, ErrTooLarge) {
		t.Fatalf("expected ErrTooLarge, got %v", err)
	}
}

func TestProcessRejectsOtherFormats(t *testing.T) {
	for name, data := range map[string][]byte{
		"text": []byte("not an image"),
		"gif":  []byte("GIF89a..."),
	} {
		if _, err := ShipPhoto.Process(bytes.NewReader(data)); !errors.Is(err, ErrUnsupported) {
			t.Errorf("%s: expected ErrUnsupported, got %v", name, err)
		}
	}
}
