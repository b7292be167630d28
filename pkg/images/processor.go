package images

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"

	"hybrid-image-service/internal/models"

	"github.com/nfnt/resize"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// DefaultJPEGQuality is the quality factor used for merge output.
const DefaultJPEGQuality = 85

// Decode sniffs the format of data and decodes it into a PixelGrid.
// Images with more than maxPixels pixels are rejected before the full
// decode; maxPixels <= 0 disables the check.
func Decode(data []byte, maxPixels int) (*PixelGrid, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty buffer", models.ErrDecode)
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrDecode, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("%w: %s image has size %dx%d", models.ErrDecode, format, cfg.Width, cfg.Height)
	}
	if maxPixels > 0 && int64(cfg.Width)*int64(cfg.Height) > int64(maxPixels) {
		return nil, fmt.Errorf("%w: %dx%d exceeds %d pixels", models.ErrTooLarge, cfg.Width, cfg.Height, maxPixels)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrDecode, err)
	}

	g := FromImage(img)
	if g == nil {
		return nil, fmt.Errorf("%w: %s image decoded to an empty raster", models.ErrDecode, format)
	}
	return g, nil
}

// Normalize resizes a to b's dimensions with bilinear interpolation. b is the
// canonical size and is returned untouched.
func Normalize(a, b *PixelGrid) (*PixelGrid, *PixelGrid, error) {
	if !b.Valid() {
		return nil, nil, fmt.Errorf("%w: target image has degenerate size", models.ErrInternal)
	}
	if !a.Valid() {
		return nil, nil, fmt.Errorf("%w: source image has degenerate size", models.ErrInternal)
	}
	if a.SameSize(b) {
		return a, b, nil
	}

	resized := FromImage(resize.Resize(uint(b.Width), uint(b.Height), a.Image(), resize.Bilinear))
	if resized == nil || !resized.SameSize(b) {
		return nil, nil, fmt.Errorf("%w: resize to %dx%d failed", models.ErrInternal, b.Width, b.Height)
	}
	return resized, b, nil
}

// EncodeJPEG encodes g as a baseline JPEG at the given quality.
func EncodeJPEG(g *PixelGrid, quality int) ([]byte, error) {
	if !g.Valid() {
		return nil, fmt.Errorf("%w: cannot encode empty image", models.ErrInternal)
	}
	buf := new(bytes.Buffer)
	if err := jpeg.Encode(buf, g.Image(), &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("%w: jpeg encode: %v", models.ErrInternal, err)
	}
	return buf.Bytes(), nil
}
