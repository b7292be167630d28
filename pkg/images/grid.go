package images

import (
	"image"
	"image/color"
)

// PixelGrid is a dense 3-channel, 8-bit image stored row-major in R,G,B
// order with a stride of 3*Width.
type PixelGrid struct {
	Width  int
	Height int
	Pix    []uint8
}

// NewPixelGrid allocates a zeroed grid. It returns nil for non-positive sizes.
func NewPixelGrid(width, height int) *PixelGrid {
	if width <= 0 || height <= 0 {
		return nil
	}
	return &PixelGrid{
		Width:  width,
		Height: height,
		Pix:    make([]uint8, 3*width*height),
	}
}

// Valid reports whether g has positive dimensions and a buffer that matches them.
func (g *PixelGrid) Valid() bool {
	return g != nil && g.Width > 0 && g.Height > 0 && len(g.Pix) == 3*g.Width*g.Height
}

// SameSize reports whether g and o share width and height.
func (g *PixelGrid) SameSize(o *PixelGrid) bool {
	return g.Width == o.Width && g.Height == o.Height
}

// RGB returns the channels of the pixel at (x, y).
func (g *PixelGrid) RGB(x, y int) (r, gr, b uint8) {
	i := 3 * (y*g.Width + x)
	return g.Pix[i], g.Pix[i+1], g.Pix[i+2]
}

// SetRGB sets the channels of the pixel at (x, y).
func (g *PixelGrid) SetRGB(x, y int, r, gr, b uint8) {
	i := 3 * (y*g.Width + x)
	g.Pix[i], g.Pix[i+1], g.Pix[i+2] = r, gr, b
}

// FromImage copies img into a new grid. Alpha is discarded: the
// non-premultiplied colour of every pixel is kept as-is, and grayscale
// sources are expanded to three equal channels.
func FromImage(img image.Image) *PixelGrid {
	b := img.Bounds()
	g := NewPixelGrid(b.Dx(), b.Dy())
	if g == nil {
		return nil
	}

	switch src := img.(type) {
	case *image.NRGBA:
		for y := 0; y < g.Height; y++ {
			row := src.Pix[src.PixOffset(b.Min.X, y+b.Min.Y):]
			for x := 0; x < g.Width; x++ {
				g.SetRGB(x, y, row[4*x], row[4*x+1], row[4*x+2])
			}
		}
	case *image.YCbCr:
		for y := 0; y < g.Height; y++ {
			for x := 0; x < g.Width; x++ {
				yi := src.YOffset(x+b.Min.X, y+b.Min.Y)
				ci := src.COffset(x+b.Min.X, y+b.Min.Y)
				r, gr, bl := color.YCbCrToRGB(src.Y[yi], src.Cb[ci], src.Cr[ci])
				g.SetRGB(x, y, r, gr, bl)
			}
		}
	default:
		for y := 0; y < g.Height; y++ {
			for x := 0; x < g.Width; x++ {
				c := color.NRGBAModel.Convert(img.At(x+b.Min.X, y+b.Min.Y)).(color.NRGBA)
				g.SetRGB(x, y, c.R, c.G, c.B)
			}
		}
	}
	return g
}

// Image returns an opaque RGBA view of g suitable for the standard encoders.
func (g *PixelGrid) Image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, g.Width, g.Height))
	for i, j := 0, 0; i < len(g.Pix); i, j = i+3, j+4 {
		img.Pix[j] = g.Pix[i]
		img.Pix[j+1] = g.Pix[i+1]
		img.Pix[j+2] = g.Pix[i+2]
		img.Pix[j+3] = 0xff
	}
	return img
}
