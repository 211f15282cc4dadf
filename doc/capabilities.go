package doc

import (
	"context"
	"fmt"

	"github.com/gogpu/board"
)

// FileStore is the host-provided file capability: the engine never
// touches the filesystem directly, it hands bytes to whatever dialog or
// storage plumbing the application supplies.
type FileStore interface {
	ReadFile(ctx context.Context, path string) ([]byte, error)
	WriteFile(ctx context.Context, path string, data []byte) error
}

// ImageDecoder is the host-provided image probe: raw bytes in, raster
// dimensions out. board/imageio supplies a stdlib+x/image implementation.
type ImageDecoder interface {
	Dimensions(ctx context.Context, data []byte) (w, h int, err error)
}

// SaveTo serializes the document and writes it through the host's file
// capability.
func (d *Document) SaveTo(ctx context.Context, fs FileStore, path string) error {
	data, err := d.Save()
	if err != nil {
		return err
	}
	if err := fs.WriteFile(ctx, path, data); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// LoadFrom reads a document through the host's file capability.
func LoadFrom(ctx context.Context, fs FileStore, path string, opts ...Option) (*Document, *LoadReport, error) {
	data, err := fs.ReadFile(ctx, path)
	if err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", path, err)
	}
	return Load(data, opts...)
}

// AddImage probes raw image bytes through the host's decode capability
// and adds an image element at the given absolute point, sized to the
// image's natural dimensions.
func (d *Document) AddImage(ctx context.Context, dec ImageDecoder, data []byte, source string, at board.Point) (board.ElementID, error) {
	w, h, err := dec.Dimensions(ctx, data)
	if err != nil {
		return "", fmt.Errorf("decode image: %w", err)
	}
	return d.AddElement(board.Element{
		Kind:   board.KindImage,
		X:      at.X,
		Y:      at.Y,
		Width:  float64(w),
		Height: float64(h),
		Image:  &board.ImagePayload{Source: source, NaturalWidth: w, NaturalHeight: h},
	})
}
