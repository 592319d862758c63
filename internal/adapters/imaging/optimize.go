// Package imaging normalizes uploads before they are stored.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

const (
	MaxWidth  = 800
	MaxHeight = 800
	Quality   = 80

	// MaxPixels caps width*height before the pixel buffer is allocated.
	MaxPixels = 40_000_000
)

// ErrTooManyPixels the header declares a canvas larger than MaxPixels.
var ErrTooManyPixels = errors.New("image dimensions exceed the pixel limit")

// Optimize decodes r, scales it to fit inside MaxWidth x MaxHeight keeping the aspect ratio,
// and re-encodes it as JPEG. The header is checked against MaxPixels before the full decode.
func Optimize(r io.Reader) ([]byte, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("decode image header: %w", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || int64(cfg.Width)*int64(cfg.Height) > MaxPixels {
		return nil, fmt.Errorf("%dx%d: %w", cfg.Width, cfg.Height, ErrTooManyPixels)
	}

	src, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	w, h := fit(src.Bounds().Dx(), src.Bounds().Dy())
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: Quality}); err != nil {
		return nil, fmt.Errorf("encode image: %w", err)
	}
	return buf.Bytes(), nil
}

func fit(w, h int) (int, int) {
	if w <= 0 || h <= 0 {
		return MaxWidth, MaxHeight
	}
	// scale by whichever side hits the box first
	if w*MaxHeight >= h*MaxWidth {
		return MaxWidth, max(1, h*MaxWidth/w)
	}
	return max(1, w*MaxHeight/h), MaxHeight
}
