package service

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"math/rand"
	"testing"

	"hybrid-image-service/internal/models"
	"hybrid-image-service/pkg/images"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solidJPEG(t *testing.T, w, h int, v uint8) []byte {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = v
	}
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, &jpeg.Options{Quality: 95}))
	return buf.Bytes()
}

func noisePNG(t *testing.T, w, h int, seed int64) []byte {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8(rng.Intn(256)),
				G: uint8(rng.Intn(256)),
				B: uint8(rng.Intn(256)),
				A: 255,
			})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func decodeJPEG(t *testing.T, data []byte) image.Image {
	t.Helper()
	img, err := jpeg.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	return img
}

func TestKernelSizes(t *testing.T) {
	tests := []struct {
		w, h      int
		low, high int
	}{
		{1, 1, 15, 7},
		{100, 100, 15, 7},
		{400, 300, 15, 7},
		{320, 1000, 17, 7},
		{640, 480, 25, 9},
		{1000, 1000, 51, 21},
		{1200, 1200, 61, 25},
		{4000, 3000, 151, 61},
	}
	for _, tt := range tests {
		low, high, err := KernelSizes(tt.w, tt.h)
		require.NoError(t, err)
		assert.Equal(t, tt.low, low, "low %dx%d", tt.w, tt.h)
		assert.Equal(t, tt.high, high, "high %dx%d", tt.w, tt.h)
	}
}

func TestKernelSizesOddAndFloored(t *testing.T) {
	for w := 1; w <= 5000; w += 37 {
		for _, h := range []int{1, 299, 300, 1000, 4321} {
			low, high, err := KernelSizes(w, h)
			require.NoError(t, err)
			assert.Equal(t, 1, low%2, "low %dx%d", w, h)
			assert.Equal(t, 1, high%2, "high %dx%d", w, h)
			assert.GreaterOrEqual(t, low, 15)
			assert.GreaterOrEqual(t, high, 7)
		}
	}
}

func TestKernelSizesDegenerate(t *testing.T) {
	for _, d := range [][2]int{{0, 10}, {10, 0}, {-1, -1}} {
		_, _, err := KernelSizes(d[0], d[1])
		require.Error(t, err)
		assert.True(t, errors.Is(err, models.ErrInternal))
	}
}

func TestMergeSolidGray(t *testing.T) {
	s := NewHybridService()
	out, err := s.Merge(context.Background(), BlendRequest{
		A:         solidJPEG(t, 64, 48, 128),
		B:         solidJPEG(t, 64, 48, 128),
		AlphaLow:  models.DefaultAlphaLow,
		AlphaHigh: models.DefaultAlphaHigh,
	})
	require.NoError(t, err)

	img := decodeJPEG(t, out)
	assert.Equal(t, image.Rect(0, 0, 64, 48), img.Bounds())
	g := images.FromImage(img)
	for _, v := range g.Pix {
		assert.InDelta(t, 128, float64(v), 2)
	}
}

func TestMergeResizesAToB(t *testing.T) {
	s := NewHybridService()
	out, err := s.Merge(context.Background(), BlendRequest{
		A:         noisePNG(t, 100, 100, 1),
		B:         noisePNG(t, 400, 300, 2),
		AlphaLow:  0.7,
		AlphaHigh: 0.3,
	})
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 400, 300), decodeJPEG(t, out).Bounds())
}

func TestMergeDeterministic(t *testing.T) {
	s := NewHybridService()
	req := BlendRequest{
		A:         noisePNG(t, 50, 40, 3),
		B:         noisePNG(t, 60, 45, 4),
		AlphaLow:  0.6,
		AlphaHigh: 0.4,
	}
	first, err := s.Merge(context.Background(), req)
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		again, err := s.Merge(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestBlendRangeWithExtremeWeights(t *testing.T) {
	a, err := images.Decode(noisePNG(t, 40, 30, 5), 0)
	require.NoError(t, err)
	b, err := images.Decode(noisePNG(t, 40, 30, 6), 0)
	require.NoError(t, err)

	for _, w := range [][2]float64{{5.0, 0.3}, {0.7, -4}, {-2, 8}, {0, 0}} {
		c, err := Blend(context.Background(), a, b, w[0], w[1])
		require.NoError(t, err)
		assert.Equal(t, 40, c.Width)
		assert.Equal(t, 30, c.Height)
		assert.Len(t, c.Pix, 3*40*30)
	}

	c, err := Blend(context.Background(), a, b, 5.0, 0)
	require.NoError(t, err)
	low, _, err := Bands(context.Background(), a, b)
	require.NoError(t, err)
	for i, v := range low.Pix {
		if v >= 51 {
			assert.Equal(t, uint8(255), c.Pix[i])
		}
	}
}

func TestBandsMatchManualPipeline(t *testing.T) {
	a, err := images.Decode(noisePNG(t, 30, 20, 7), 0)
	require.NoError(t, err)
	b, err := images.Decode(noisePNG(t, 30, 20, 8), 0)
	require.NoError(t, err)

	low, high, err := Bands(context.Background(), a, b)
	require.NoError(t, err)

	wantLow, err := images.GaussianBlur(a, 15)
	require.NoError(t, err)
	blurB, err := images.GaussianBlur(b, 7)
	require.NoError(t, err)
	wantHigh, err := images.AddWeighted(b, 1.5, blurB, -0.5, 0)
	require.NoError(t, err)

	assert.Equal(t, wantLow.Pix, low.Pix)
	assert.Equal(t, wantHigh.Pix, high.Pix)
}

func TestMergeErrors(t *testing.T) {
	s := NewHybridService(WithMaxPixels(1000))
	valid := solidJPEG(t, 20, 20, 90)

	tests := []struct {
		name string
		req  BlendRequest
		want error
	}{
		{"empty a", BlendRequest{B: valid}, models.ErrDecode},
		{"garbage b", BlendRequest{A: valid, B: []byte("<html></html>")}, models.ErrDecode},
		{"too large", BlendRequest{A: valid, B: solidJPEG(t, 40, 40, 1)}, models.ErrTooLarge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Merge(context.Background(), tt.req)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestMergeCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewHybridService().Merge(ctx, BlendRequest{
		A: solidJPEG(t, 20, 20, 1),
		B: solidJPEG(t, 20, 20, 2),
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBandsCancelled(t *testing.T) {
	a, err := images.Decode(noisePNG(t, 40, 40, 3), 0)
	require.NoError(t, err)
	b, err := images.Decode(noisePNG(t, 40, 40, 4), 0)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	low, high, err := Bands(ctx, a, b)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, low)
	assert.Nil(t, high)
}

func TestBlendRejectsMismatchedInputs(t *testing.T) {
	_, err := Blend(context.Background(), images.NewPixelGrid(2, 2), images.NewPixelGrid(3, 3), 1, 1)
	assert.ErrorIs(t, err, models.ErrInternal)
}
