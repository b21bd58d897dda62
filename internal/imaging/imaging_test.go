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

func createTestJPEG(w, h int) []byte {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{255, 0, 0, 255})
		}
	}
	var buf bytes.Buffer
	jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90})
	return buf.Bytes()
}

func createTestPNG(w, h int) []byte {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	var buf bytes.Buffer
	png.Encode(&buf, img)
	return buf.Bytes()
}

func TestProcessPhotoJPEG(t *testing.T) {
	photo, err := ProcessPhoto(bytes.NewReader(createTestJPEG(100, 80)))
	if err != nil {
		t.Fatalf("ProcessPhoto JPEG: %v", err)
	}
	if photo.MIME != "image/jpeg" {
		t.Errorf("expected image/jpeg, got %s", photo.MIME)
	}
	if photo.Width != 100 || photo.Height != 80 {
		t.Errorf("expected 100x80, got %dx%d", photo.Width, photo.Height)
	}
}

func TestProcessPhotoPNGBecomesJPEG(t *testing.T) {
	photo, err := ProcessPhoto(bytes.NewReader(createTestPNG(100, 100)))
	if err != nil {
		t.Fatalf("ProcessPhoto PNG: %v", err)
	}
	if photo.MIME != "image/jpeg" {
		t.Errorf("expected image/jpeg (always outputs JPEG), got %s", photo.MIME)
	}
}

func TestProcessPhotoDownscale(t *testing.T) {
	photo, err := ProcessPhoto(bytes.NewReader(createTestJPEG(2048, 1024)))
	if err != nil {
		t.Fatalf("ProcessPhoto large image: %v", err)
	}

	img, _, err := image.Decode(bytes.NewReader(photo.Data))
	if err != nil {
		t.Fatalf("decoding result: %v", err)
	}
	if img.Bounds().Dx() != PhotoMaxDimension || img.Bounds().Dy() != PhotoMaxDimension/2 {
		t.Errorf("expected %dx%d, got %v", PhotoMaxDimension, PhotoMaxDimension/2, img.Bounds())
	}
}

func TestThumbnail(t *testing.T) {
	photo, err := Thumbnail(createTestJPEG(300, 600))
	if err != nil {
		t.Fatalf("Thumbnail: %v", err)
	}
	if photo.Height != ThumbnailMaxDimension || photo.Width != ThumbnailMaxDimension/2 {
		t.Errorf("expected %dx%d, got %dx%d", ThumbnailMaxDimension/2, ThumbnailMaxDimension, photo.Width, photo.Height)
	}
}

func TestProcessPhotoRejectsOtherFormats(t *testing.T) {
	for name, data := range map[string][]byte{
		"text": []byte("not an image"),
		"gif":  []byte("GIF89a..."),
	} {
		_, err := ProcessPhoto(bytes.NewReader(data))
		if !errors.Is(err, ErrUnsupportedFormat) {
			t.Errorf("%s: expected ErrUnsupportedFormat, got %v", name, err)
		}
	}
}
