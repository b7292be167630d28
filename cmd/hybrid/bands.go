package main

import (
	"bytes"
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"hybrid-image-service/pkg/images"
)

// loadImage reads and decodes an image file of any supported format.
func loadImage(filePath string) (*images.PixelGrid, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}
	return images.Decode(data, 0)
}

// gridToPNG encodes g losslessly so the bands can be inspected exactly.
func gridToPNG(g *images.PixelGrid) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, g.Image()); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// saveBands writes <a>_low.png and <b>_high.png into dir.
func saveBands(dir, pathA, pathB string, low, high *images.PixelGrid) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create debug directory: %w", err)
	}

	for _, band := range []struct {
		src    string
		suffix string
		grid   *images.PixelGrid
	}{
		{pathA, "_low.png", low},
		{pathB, "_high.png", high},
	} {
		data, err := gridToPNG(band.grid)
		if err != nil {
			return fmt.Errorf("failed to encode band: %w", err)
		}
		base := strings.TrimSuffix(filepath.Base(band.src), filepath.Ext(band.src))
		out := filepath.Join(dir, base+band.suffix)
		if err := os.WriteFile(out, data, 0644); err != nil {
			return fmt.Errorf("failed to write band to file: %w", err)
		}
		fmt.Printf("Band saved to: %s\n", out)
	}
	return nil
}
