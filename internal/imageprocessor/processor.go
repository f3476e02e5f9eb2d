package imageprocessor

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

var ErrUnsupportedImage = errors.New("unsupported image")

type ImageSize struct {
	Name   string
	Width  int
	Height int
}

var (
	SizeThumbnail = ImageSize{Name: "thumbnail", Width: 300, Height: 300}
	SizeMedium    = ImageSize{Name: "medium", Width: 1200, Height: 1200}

	// PortfolioSizes - варианты, которые сохраняются для каждой картинки портфолио
	PortfolioSizes = []ImageSize{SizeMedium, SizeThumbnail}
)

// Variant - готовый к сохранению вариант картинки
type Variant struct {
	Size        ImageSize
	Data        []byte
	ContentType string
	Ext         string
	Width       int
	Height      int
}

type Processor struct {
	quality int // JPEG quality (1-100)
}

func NewProcessor(quality int) *Processor {
	if quality <= 0 || quality > 100 {
		quality = 85
	}
	return &Processor{quality: quality}
}

// Variants декодирует картинку один раз и строит все размеры.
// PNG остается PNG, остальное (jpeg, webp) кодируется в JPEG.
func (p *Processor) Variants(reader io.Reader, sizes ...ImageSize) ([]Variant, error) {
	img, format, err := image.Decode(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedImage, err)
	}

	variants := make([]Variant, 0, len(sizes))
	for _, size := range sizes {
		resized := p.resize(img, size.Width, size.Height)

		var buf bytes.Buffer
		v := Variant{Size: size, Width: resized.Bounds().Dx(), Height: resized.Bounds().Dy()}
		if format == "png" {
			if err := png.Encode(&buf, resized); err != nil {
				return nil, fmt.Errorf("failed to encode PNG: %w", err)
			}
			v.ContentType, v.Ext = "image/png", ".png"
		} else {
			if err := jpeg.Encode(&buf, resized, &jpeg.Options{Quality: p.quality}); err != nil {
				return nil, fmt.Errorf("failed to encode JPEG: %w", err)
			}
			v.ContentType, v.Ext = "image/jpeg", ".jpg"
		}
		v.Data = buf.Bytes()
		variants = append(variants, v)
	}
	return variants, nil
}

// resize вписывает картинку в maxWidth x maxHeight с сохранением пропорций.
// Маленькие картинки не растягиваются.
func (p *Processor) resize(img image.Image, maxWidth, maxHeight int) image.Image {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width <= maxWidth && height <= maxHeight {
		return img
	}

	ratio := float64(width) / float64(height)
	newWidth, newHeight := maxWidth, maxHeight
	if float64(maxWidth)/float64(maxHeight) > ratio {
		newWidth = int(float64(maxHeight) * ratio)
	} else {
		newHeight = int(float64(maxWidth) / ratio)
	}
	if newWidth < 1 {
		newWidth = 1
	}
	if newHeight < 1 {
		newHeight = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, newWidth, newHeight))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}
