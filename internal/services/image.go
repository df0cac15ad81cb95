package services

import (
	"bytes"
	"fmt"
	"image"
	"strings"

	// Registered decoders: everything ValidateImage accepts.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"golang.org/x/image/draw"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

const colorModeRGB = "RGB"

// DefaultMaxImagePixels matches Pillow's decompression bomb threshold.
const DefaultMaxImagePixels = 89478485

// DecodedImage is a validated upload, normalized to opaque RGB.
type DecodedImage struct {
	// Image has every alpha value set to 0xff.
	Image      *image.NRGBA
	Format     string
	Width      int
	Height     int
	SourceMode string
	ColorMode  string
}

// Info is the diagnostic summary returned to clients.
func (d *DecodedImage) Info() string {
	return fmt.Sprintf("Format: %s, Size: (%d, %d)", d.Format, d.Width, d.Height)
}

// ValidateImage checks the declared content type, then decodes raw in full.
// The header pass (DecodeConfig) sniffs the format and the declared size; the
// second pass decodes every pixel so truncated or corrupt data is rejected
// rather than trusted. Images above maxPixels are refused before any pixel
// buffer is allocated. A non-positive maxPixels means DefaultMaxImagePixels.
func ValidateImage(raw []byte, contentType string, maxPixels int) (*DecodedImage, error) {
	if !strings.HasPrefix(contentType, "image/") {
		return nil, ErrUnsupportedMediaType()
	}
	if len(raw) == 0 {
		return nil, ErrEmptyPayload()
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return nil, ErrMalformedImage(fmt.Errorf("failed to decode image: %w", err))
	}
	if err := checkDimensions(cfg.Width, cfg.Height, maxPixels); err != nil {
		return nil, ErrMalformedImage(fmt.Errorf("failed to decode image: %w", err))
	}

	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, ErrMalformedImage(fmt.Errorf("failed to decode image: %w", err))
	}

	sourceMode := colorMode(img)
	rgb, err := toRGB(img)
	if err != nil {
		return nil, ErrMalformedImage(fmt.Errorf("failed to convert %s image to %s: %w", sourceMode, colorModeRGB, err))
	}

	return &DecodedImage{
		Image:      rgb,
		Format:     strings.ToUpper(format),
		Width:      cfg.Width,
		Height:     cfg.Height,
		SourceMode: sourceMode,
		ColorMode:  colorModeRGB,
	}, nil
}

func checkDimensions(width, height, maxPixels int) error {
	if maxPixels <= 0 {
		maxPixels = DefaultMaxImagePixels
	}
	if width <= 0 || height <= 0 {
		return fmt.Errorf("invalid image size: %dx%d", width, height)
	}
	if int64(width)*int64(height) > int64(maxPixels) {
		return fmt.Errorf("image size %dx%d exceeds the %d pixel limit", width, height, maxPixels)
	}
	return nil
}

// colorMode names the decoded pixel layout the way Pillow does.
func colorMode(img image.Image) string {
	switch img.(type) {
	case *image.Gray:
		return "L"
	case *image.Gray16:
		return "I;16"
	case *image.Paletted:
		return "P"
	case *image.CMYK:
		return "CMYK"
	case *image.YCbCr:
		return colorModeRGB
	case *image.NYCbCrA:
		return "RGBA"
	case *image.Alpha, *image.Alpha16:
		return "A"
	}
	// Go has no 3-channel image type; an RGBA image with no transparency is RGB.
	if o, ok := img.(interface{ Opaque() bool }); ok && o.Opaque() {
		return colorModeRGB
	}
	return "RGBA"
}

// toRGB copies img into an NRGBA buffer anchored at the origin and discards alpha.
func toRGB(img image.Image) (*image.NRGBA, error) {
	b := img.Bounds()
	if b.Empty() {
		return nil, fmt.Errorf("invalid image size: %dx%d", b.Dx(), b.Dy())
	}

	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	for i := 3; i < len(dst.Pix); i += 4 {
		dst.Pix[i] = 0xff
	}
	return dst, nil
}
