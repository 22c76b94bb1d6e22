package imageutil

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif" // registered for logo decoding
	"image/jpeg"
	"image/png"
	"io"

	"golang.org/x/image/draw"
)

// DefaultMaxDimension bounds uploaded logos so a huge source image cannot
// blow up preview rendering.
const DefaultMaxDimension = 512

// Decode parses raw image bytes in any registered format.
func Decode(data []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return img, nil
}

// NormalizeLogo decodes an uploaded logo, downscales it to
// DefaultMaxDimension if needed and re-encodes it as PNG. The result is
// what gets held in session memory.
func NormalizeLogo(data []byte) ([]byte, error) {
	img, err := Decode(data)
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	if bounds.Dx() > DefaultMaxDimension || bounds.Dy() > DefaultMaxDimension {
		img = FitWithin(img, DefaultMaxDimension, DefaultMaxDimension)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode logo: %w", err)
	}
	return buf.Bytes(), nil
}

// FitWithin scales an image to fit inside maxWidth x maxHeight while
// maintaining aspect ratio. Images already inside the box are returned as
// a copy at their original size. Uses high-quality CatmullRom resampling.
func FitWithin(img image.Image, maxWidth, maxHeight int) *image.RGBA {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	newWidth, newHeight := width, height
	if width > maxWidth || height > maxHeight {
		scaleW := float64(maxWidth) / float64(width)
		scaleH := float64(maxHeight) / float64(height)
		scale := scaleW
		if scaleH < scale {
			scale = scaleH
		}
		newWidth = int(float64(width) * scale)
		newHeight = int(float64(height) * scale)
		if newWidth < 1 {
			newWidth = 1
		}
		if newHeight < 1 {
			newHeight = 1
		}
	}

	dst := image.NewRGBA(image.Rect(0, 0, newWidth, newHeight))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}

// Upscale enlarges an image by an integer factor with CatmullRom
// resampling. Used by the export pipeline for print-quality resolution.
func Upscale(img image.Image, factor int) *image.RGBA {
	if factor < 1 {
		factor = 1
	}
	bounds := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, bounds.Dx()*factor, bounds.Dy()*factor))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}

// EncodePNG writes an image as PNG.
func EncodePNG(w io.Writer, img image.Image) error {
	return png.Encode(w, img)
}

// EncodeJPEG writes an image as JPEG at the given quality.
func EncodeJPEG(w io.Writer, img image.Image, quality int) error {
	return jpeg.Encode(w, img, &jpeg.Options{Quality: quality})
}
