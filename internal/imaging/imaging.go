// Package imaging normalizes uploaded product photos.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"io"
	"net/http"

	"golang.org/x/image/draw"
)

const (
	// PhotoMaxDimension bounds the stored product photo.
	PhotoMaxDimension = 1024
	// ThumbnailMaxDimension bounds list thumbnails.
	ThumbnailMaxDimension = 256
	// JPEGQuality is the compression quality for JPEG output.
	JPEGQuality = 85
	// MaxUploadBytes is the largest accepted upload.
	MaxUploadBytes = 5 << 20
)

// ErrUnsupportedFormat is returned for anything but JPEG and PNG input.
var ErrUnsupportedFormat = errors.New("unsupported image format")

// allowedMIME lists the accepted input MIME types, detected from content.
var allowedMIME = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
}

// Photo is a normalized JPEG image.
type Photo struct {
	Data   []byte
	MIME   string
	Width  int
	Height int
}

// ProcessPhoto validates an upload by sniffing its bytes, downscales it to
// PhotoMaxDimension and re-encodes it as JPEG.
func ProcessPhoto(r io.Reader) (*Photo, error) {
	img, err := decode(r)
	if err != nil {
		return nil, err
	}
	return encode(fit(img, PhotoMaxDimension))
}

// Thumbnail produces a ThumbnailMaxDimension-bounded JPEG of stored photo data.
func Thumbnail(data []byte) (*Photo, error) {
	img, err := decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return encode(fit(img, ThumbnailMaxDimension))
}

func decode(r io.Reader) (image.Image, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxUploadBytes+1))
	if err != nil {
		return nil, fmt.Errorf("reading image data: %w", err)
	}
	if len(data) > MaxUploadBytes {
		return nil, fmt.Errorf("image larger than %d bytes", MaxUploadBytes)
	}

	detected := http.DetectContentType(data)
	if !allowedMIME[detected] {
		return nil, fmt.Errorf("%w: %s (only JPEG and PNG accepted)", ErrUnsupportedFormat, detected)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}
	return img, nil
}

func encode(img image.Image) (*Photo, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: JPEGQuality}); err != nil {
		return nil, fmt.Errorf("encoding JPEG: %w", err)
	}
	b := img.Bounds()
	return &Photo{Data: buf.Bytes(), MIME: "image/jpeg", Width: b.Dx(), Height: b.Dy()}, nil
}

// fit resizes img so neither dimension exceeds maxDim, preserving the aspect
// ratio. Smaller images are returned unchanged.
func fit(img image.Image, maxDim int) image.Image {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= maxDim && h <= maxDim {
		return img
	}

	newW, newH := maxDim, maxDim
	if w > h {
		newH = max(1, h*maxDim/w)
	} else {
		newW = max(1, w*maxDim/h)
	}

	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}
