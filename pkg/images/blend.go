package images

import (
	"fmt"
	"math"

	"hybrid-image-service/internal/models"
)

// saturate rounds v half-to-even and clamps it into the 8-bit range.
func saturate(v float64) uint8 {
	switch {
	case math.IsNaN(v), v <= 0:
		return 0
	case v >= 255:
		return 255
	}
	return uint8(math.RoundToEven(v))
}

// AddWeighted computes clamp(a*alpha + b*beta + gamma) per channel.
func AddWeighted(a *PixelGrid, alpha float64, b *PixelGrid, beta, gamma float64) (*PixelGrid, error) {
	if !a.Valid() || !b.Valid() {
		return nil, fmt.Errorf("%w: cannot blend empty image", models.ErrInternal)
	}
	if !a.SameSize(b) {
		return nil, fmt.Errorf("%w: blend size mismatch %dx%d vs %dx%d",
			models.ErrInternal, a.Width, a.Height, b.Width, b.Height)
	}

	dst := NewPixelGrid(a.Width, a.Height)
	for i := range dst.Pix {
		dst.Pix[i] = saturate(float64(a.Pix[i])*alpha + float64(b.Pix[i])*beta + gamma)
	}
	return dst, nil
}
