// Package pdf assembles the exportable documents. The primary path embeds a
// rasterized preview bitmap into a single A4 page; the print path lays the
// document out as vector text for the print context.
package pdf

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

// A4 page geometry in millimeters.
const (
	pageWidth  = 210.0
	pageHeight = 297.0
	margin     = 15.0
)

// BuildRasterDocument embeds a PNG-encoded bitmap of the rendered preview
// as the sole content of a single-page A4 document. The bitmap is scaled to
// fit the content area preserving aspect ratio and centered when the aspect
// ratios differ.
func BuildRasterDocument(pngData []byte, pixelWidth, pixelHeight int) ([]byte, error) {
	if pixelWidth <= 0 || pixelHeight <= 0 {
		return nil, fmt.Errorf("build raster document: invalid bitmap size %dx%d", pixelWidth, pixelHeight)
	}

	contentWidth := pageWidth - margin*2
	contentHeight := pageHeight - margin*2

	aspect := float64(pixelWidth) / float64(pixelHeight)
	drawWidth := contentWidth
	drawHeight := drawWidth / aspect
	if drawHeight > contentHeight {
		drawHeight = contentHeight
		drawWidth = drawHeight * aspect
	}
	x := margin + (contentWidth-drawWidth)/2
	y := margin + (contentHeight-drawHeight)/2

	doc := gofpdf.New("P", "mm", "A4", "")
	doc.AddPage()

	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	doc.RegisterImageOptionsReader("preview", opts, bytes.NewReader(pngData))
	doc.ImageOptions("preview", x, y, drawWidth, drawHeight, false, opts, 0, "")

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("build raster document: %w", err)
	}
	return buf.Bytes(), nil
}
