// Package imageio probes raster image dimensions for the document's
// image elements. It registers the stdlib codecs plus the x/image
// extras (BMP, TIFF, WebP) and reads only the header, never the full
// pixel data.
package imageio

import (
	"bytes"
	"context"
	"fmt"
	"image"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Decoder implements doc.ImageDecoder over the registered codecs.
// The zero value is ready to use.
type Decoder struct{}

// Dimensions returns the pixel width and height of the encoded image.
func (Decoder) Dimensions(ctx context.Context, data []byte) (w, h int, err error) {
	if err := ctx.Err(); err != nil {
		return 0, 0, err
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0, fmt.Errorf("decode image config: %w", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return 0, 0, fmt.Errorf("%s image has degenerate dimensions %dx%d", format, cfg.Width, cfg.Height)
	}
	return cfg.Width, cfg.Height, nil
}

// Format sniffs the image format name ("png", "jpeg", ...) without
// decoding pixels.
func Format(data []byte) (string, error) {
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("sniff image format: %w", err)
	}
	return format, nil
}
