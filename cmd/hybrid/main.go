package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"hybrid-image-service/internal/models"
	"hybrid-image-service/internal/service"
	"hybrid-image-service/pkg/images"
)

func main() {
	var (
		pathA     = flag.String("a", "", "Image providing the low-frequency band")
		pathB     = flag.String("b", "", "Image providing the high-frequency band and output size")
		output    = flag.String("o", "output.jpg", "Output JPEG path")
		alphaLow  = flag.Float64("alpha-low", models.DefaultAlphaLow, "Weight of the low-frequency band")
		alphaHigh = flag.Float64("alpha-high", models.DefaultAlphaHigh, "Weight of the high-frequency band")
		quality   = flag.Int("quality", images.DefaultJPEGQuality, "JPEG quality")
		debugDir  = flag.String("debug", "", "Directory to write the intermediate bands to")
	)
	flag.Parse()

	if *pathA == "" || *pathB == "" {
		flag.Usage()
		os.Exit(2)
	}

	a, err := loadImage(*pathA)
	if err != nil {
		log.Fatalf("Failed to load image: %s", err)
	}
	b, err := loadImage(*pathB)
	if err != nil {
		log.Fatalf("Failed to load image: %s", err)
	}

	a, b, err = images.Normalize(a, b)
	if err != nil {
		log.Fatalf("Failed to resize image: %s", err)
	}

	ctx := context.Background()
	low, high, err := service.Bands(ctx, a, b)
	if err != nil {
		log.Fatalf("Failed to extract bands: %s", err)
	}
	if *debugDir != "" {
		if err := saveBands(*debugDir, *pathA, *pathB, low, high); err != nil {
			log.Printf("Warning: Failed to save bands: %s", err)
		}
	}

	c, err := images.AddWeighted(low, *alphaLow, high, *alphaHigh, 0)
	if err != nil {
		log.Fatalf("Failed to blend bands: %s", err)
	}
	data, err := images.EncodeJPEG(c, *quality)
	if err != nil {
		log.Fatalf("Failed to encode output: %s", err)
	}
	if err := os.WriteFile(*output, data, 0644); err != nil {
		log.Fatalf("Failed to write output: %s", err)
	}

	fmt.Printf("Hybrid image (%dx%d) saved to %s\n", c.Width, c.Height, *output)
}
