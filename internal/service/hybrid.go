package service

import (
	"context"
	"fmt"
	"log/slog"

	"hybrid-image-service/internal/models"
	"hybrid-image-service/pkg/images"

	"golang.org/x/sync/errgroup"
)

// Kernel sizing and unsharp-mask constants. These are kept as-is so output
// stays comparable with previously generated images.
const (
	minLowKernel  = 15
	lowKernelDiv  = 20
	minHighKernel = 7
	highKernelDiv = 50
	sharpenWeight = 1.5
	blurredWeight = -0.5
)

// BlendRequest holds the encoded inputs and weights of one merge.
type BlendRequest struct {
	A         []byte
	B         []byte
	AlphaLow  float64
	AlphaHigh float64
}

// HybridService builds hybrid images from two encoded inputs.
type HybridService struct {
	maxPixels int
	quality   int
	logger    *slog.Logger
}

// Option configures a HybridService.
type Option func(*HybridService)

// WithMaxPixels rejects inputs larger than n pixels. Zero disables the limit.
func WithMaxPixels(n int) Option {
	return func(s *HybridService) { s.maxPixels = n }
}

// WithJPEGQuality overrides the output JPEG quality.
func WithJPEGQuality(q int) Option {
	return func(s *HybridService) { s.quality = q }
}

// WithLogger sets the logger used for stage diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(s *HybridService) { s.logger = l }
}

// NewHybridService creates a new instance of HybridService.
func NewHybridService(opts ...Option) *HybridService {
	s := &HybridService{
		quality: images.DefaultJPEGQuality,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// KernelSizes returns the odd low-band and high-band blur kernel sizes for
// an image of the given dimensions.
func KernelSizes(width, height int) (low, high int, err error) {
	if width <= 0 || height <= 0 {
		return 0, 0, fmt.Errorf("%w: kernel sizing for %dx%d", models.ErrInternal, width, height)
	}
	m := min(width, height)
	return oddUp(max(minLowKernel, m/lowKernelDiv)), oddUp(max(minHighKernel, m/highKernelDiv)), nil
}

func oddUp(k int) int {
	if k%2 == 0 {
		return k + 1
	}
	return k
}

// Bands returns the low-frequency band of a and the approximate
// high-frequency band of b. Both grids must already share dimensions.
func Bands(ctx context.Context, a, b *images.PixelGrid) (low, high *images.PixelGrid, err error) {
	if !a.Valid() || !b.Valid() || !a.SameSize(b) {
		return nil, nil, fmt.Errorf("%w: blend inputs must be non-empty and equally sized", models.ErrInternal)
	}
	kLow, kHigh, err := KernelSizes(b.Width, b.Height)
	if err != nil {
		return nil, nil, err
	}

	var blurB *images.PixelGrid
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		low, err = images.GaussianBlurContext(gctx, a, kLow)
		return err
	})
	g.Go(func() error {
		var err error
		blurB, err = images.GaussianBlurContext(gctx, b, kHigh)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	high, err = images.AddWeighted(b, sharpenWeight, blurB, blurredWeight, 0)
	if err != nil {
		return nil, nil, err
	}
	return low, high, nil
}

// Blend combines the low band of a with the high band of b using the given
// weights.
func Blend(ctx context.Context, a, b *images.PixelGrid, alphaLow, alphaHigh float64) (*images.PixelGrid, error) {
	low, high, err := Bands(ctx, a, b)
	if err != nil {
		return nil, err
	}
	return images.AddWeighted(low, alphaLow, high, alphaHigh, 0)
}

// Merge decodes both inputs, resizes A to B, blends and encodes the result
// as JPEG.
func (s *HybridService) Merge(ctx context.Context, req BlendRequest) ([]byte, error) {
	a, err := images.Decode(req.A, s.maxPixels)
	if err != nil {
		return nil, fmt.Errorf("imageA: %w", err)
	}
	b, err := images.Decode(req.B, s.maxPixels)
	if err != nil {
		return nil, fmt.Errorf("imageB: %w", err)
	}

	srcW, srcH := a.Width, a.Height
	a, b, err = images.Normalize(a, b)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.logger.DebugContext(ctx, "normalized inputs",
		"a_width", srcW, "a_height", srcH,
		"width", b.Width, "height", b.Height)

	c, err := Blend(ctx, a, b, req.AlphaLow, req.AlphaHigh)
	if err != nil {
		return nil, err
	}
	return images.EncodeJPEG(c, s.quality)
}
