package imageprocessor

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"

	"golang.org/x/image/draw"
)

// Processor уменьшает слишком большие загруженные изображения
type Processor struct {
	quality      int // JPEG quality (1-100)
	maxDimension int
}

func NewProcessor(quality, maxDimension int) *Processor {
	if quality <= 0 || quality > 100 {
		quality = 85
	}
	if maxDimension <= 0 {
		maxDimension = 1600
	}
	return &Processor{quality: quality, maxDimension: maxDimension}
}

// Downscale вписывает JPEG/PNG в maxDimension x maxDimension с сохранением пропорций.
// Для остальных форматов и небольших картинок возвращает исходные байты и false.
func (p *Processor) Downscale(data []byte, contentType string) ([]byte, bool, error) {
	if contentType != "image/jpeg" && contentType != "image/png" {
		return data, false, nil
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, false, fmt.Errorf("failed to decode image: %w", err)
	}
	if cfg.Width <= p.maxDimension && cfg.Height <= p.maxDimension {
		return data, false, nil
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, false, fmt.Errorf("failed to decode image: %w", err)
	}

	resized := p.resize(img)

	var buf bytes.Buffer
	switch format {
	case "jpeg":
		err = jpeg.Encode(&buf, resized, &jpeg.Options{Quality: p.quality})
	case "png":
		err = png.Encode(&buf, resized)
	default:
		return data, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to encode %s: %w", format, err)
	}
	return buf.Bytes(), true, nil
}

func (p *Processor) resize(img image.Image) image.Image {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	newWidth, newHeight := p.maxDimension, p.maxDimension
	if width >= height {
		newHeight = max(1, height*p.maxDimension/width)
	} else {
		newWidth = max(1, width*p.maxDimension/height)
	}

	dst := image.NewRGBA(image.Rect(0, 0, newWidth, newHeight))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}
