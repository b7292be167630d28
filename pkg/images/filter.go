package images

import (
	"context"
	"fmt"
	"math"

	"hybrid-image-service/internal/models"

	"gonum.org/v1/gonum/floats"
)

// Fixed kernels used for small odd sizes when no sigma is supplied.
var smallGaussianKernels = map[int][]float64{
	1: {1},
	3: {0.25, 0.5, 0.25},
	5: {0.0625, 0.25, 0.375, 0.25, 0.0625},
	7: {0.03125, 0.109375, 0.21875, 0.28125, 0.21875, 0.109375, 0.03125},
}

// GaussianSigma derives the standard deviation for a kernel of size k.
func GaussianSigma(k int) float64 {
	return 0.3*(float64(k-1)*0.5-1) + 0.8
}

// GaussianKernel returns the normalised 1-D Gaussian kernel of odd size k
// with sigma derived from k.
func GaussianKernel(k int) ([]float64, error) {
	if k <= 0 || k%2 == 0 {
		return nil, fmt.Errorf("%w: kernel size %d must be odd and positive", models.ErrInternal, k)
	}
	if fixed, ok := smallGaussianKernels[k]; ok {
		return append([]float64(nil), fixed...), nil
	}

	sigma := GaussianSigma(k)
	scale := -0.5 / (sigma * sigma)
	kernel := make([]float64, k)
	for i := range kernel {
		d := float64(i) - float64(k-1)*0.5
		kernel[i] = math.Exp(scale * d * d)
	}
	floats.Scale(1/floats.Sum(kernel), kernel)
	return kernel, nil
}

// reflect101 maps i into [0, n) mirroring around the edge pixels without
// repeating them (gfedcb|abcdefgh|gfedcba).
func reflect101(i, n int) int {
	if n == 1 {
		return 0
	}
	period := 2 * (n - 1)
	i %= period
	if i < 0 {
		i += period
	}
	if i >= n {
		i = period - i
	}
	return i
}

// GaussianBlur smooths g with a separable k×k Gaussian kernel.
func GaussianBlur(g *PixelGrid, k int) (*PixelGrid, error) {
	return GaussianBlurContext(context.Background(), g, k)
}

// GaussianBlurContext is GaussianBlur that stops between rows once ctx is done.
func GaussianBlurContext(ctx context.Context, g *PixelGrid, k int) (*PixelGrid, error) {
	if !g.Valid() {
		return nil, fmt.Errorf("%w: cannot blur empty image", models.ErrInternal)
	}
	kernel, err := GaussianKernel(k)
	if err != nil {
		return nil, err
	}
	r := k / 2
	w, h := g.Width, g.Height

	// Horizontal pass into a float buffer, so rounding happens once.
	cols := make([]int, w*k)
	for x := 0; x < w; x++ {
		for j := 0; j < k; j++ {
			cols[x*k+j] = reflect101(x+j-r, w)
		}
	}
	tmp := make([]float32, len(g.Pix))
	for y := 0; y < h; y++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		row := g.Pix[3*y*w : 3*(y+1)*w]
		out := tmp[3*y*w : 3*(y+1)*w]
		for x := 0; x < w; x++ {
			var sr, sg, sb float64
			for j, xi := range cols[x*k : (x+1)*k] {
				kv := kernel[j]
				sr += kv * float64(row[3*xi])
				sg += kv * float64(row[3*xi+1])
				sb += kv * float64(row[3*xi+2])
			}
			out[3*x], out[3*x+1], out[3*x+2] = float32(sr), float32(sg), float32(sb)
		}
	}

	rows := make([]int, h*k)
	for y := 0; y < h; y++ {
		for j := 0; j < k; j++ {
			rows[y*k+j] = reflect101(y+j-r, h)
		}
	}
	dst := NewPixelGrid(w, h)
	stride := 3 * w
	for y := 0; y < h; y++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out := dst.Pix[y*stride : (y+1)*stride]
		for i := 0; i < stride; i++ {
			var s float64
			for j, yi := range rows[y*k : (y+1)*k] {
				s += kernel[j] * float64(tmp[yi*stride+i])
			}
			out[i] = saturate(s)
		}
	}
	return dst, nil
}
