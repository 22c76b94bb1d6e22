// Package render draws the read-only invoice preview. The rendered surface
// is what the user sees and what the export pipeline rasterizes, so layout
// is fixed to a desktop-width presentation regardless of who asks for it.
package render

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"strconv"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/inconsolata"
	"golang.org/x/image/math/fixed"

	"github.com/makeupcoders/invoicegenius-api/internal/domain"
	"github.com/makeupcoders/invoicegenius-api/internal/imageutil"
)

// DesktopWidth is the fixed capture width in pixels, chosen so the page
// fits an A4 sheet at typical CSS pixel density.
const DesktopWidth = 794

// MinHeight keeps short documents at a full-page proportion.
const MinHeight = 1123

const (
	pagePadding = 48
	lineHeight  = 20
	rowHeight   = 34
)

var (
	colorInk      = color.RGBA{R: 0x1e, G: 0x29, B: 0x3b, A: 0xff} // near-black text
	colorMuted    = color.RGBA{R: 0x64, G: 0x74, B: 0x8b, A: 0xff} // secondary text
	colorFaint    = color.RGBA{R: 0x94, G: 0xa3, B: 0xb8, A: 0xff} // labels, banner
	colorRule     = color.RGBA{R: 0xe2, G: 0xe8, B: 0xf0, A: 0xff} // divider lines
	colorRuleSoft = color.RGBA{R: 0xf1, G: 0xf5, B: 0xf9, A: 0xff} // row separators
	colorAccent   = color.RGBA{R: 0x4f, G: 0x46, B: 0xe5, A: 0xff} // grand total
	colorLogoBox  = color.RGBA{R: 0xf1, G: 0xf5, B: 0xf9, A: 0xff}
)

var (
	faceRegular = inconsolata.Regular8x16
	faceBold    = inconsolata.Bold8x16
)

// Preview renders the invoice document plus its computed totals into a
// bitmap at the fixed desktop width. It never fails on an empty or partial
// document; every aggregate value is renderable.
func Preview(inv domain.Invoice, totals domain.Totals) *image.RGBA {
	height := estimateHeight(inv)
	canvas := image.NewRGBA(image.Rect(0, 0, DesktopWidth, height))
	draw.Draw(canvas, canvas.Bounds(), image.White, image.Point{}, draw.Src)

	p := &painter{canvas: canvas}

	y := pagePadding
	y = p.drawHeader(inv, y)
	y = p.drawBillTo(inv, y)
	y = p.drawItemsTable(inv, y)
	y = p.drawTotals(inv, totals, y)
	p.drawNotes(inv, y)

	return canvas
}

// estimateHeight sizes the canvas before painting: fixed sections plus one
// row per item and one line per note line, never below MinHeight.
func estimateHeight(inv domain.Invoice) int {
	height := pagePadding * 2
	height += 200 // header block
	height += 120 // bill-to block
	height += rowHeight + 8
	if len(inv.Items) == 0 {
		height += rowHeight * 2
	} else {
		height += rowHeight * len(inv.Items)
	}
	height += 170 // totals panel
	if inv.Notes != "" {
		height += 60 + lineHeight*len(wrapText(inv.Notes, 84))
	}
	if height < MinHeight {
		height = MinHeight
	}
	return height
}

type painter struct {
	canvas *image.RGBA
}

func (p *painter) drawHeader(inv domain.Invoice, y int) int {
	left := pagePadding
	right := DesktopWidth - pagePadding

	logoBottom := y
	if len(inv.Logo) > 0 {
		if img, err := imageutil.Decode(inv.Logo); err == nil {
			scaled := imageutil.FitWithin(img, 250, 128)
			draw.Draw(p.canvas, scaled.Bounds().Add(image.Pt(left, y)), scaled, image.Point{}, draw.Over)
			logoBottom = y + scaled.Bounds().Dy()
		}
	} else {
		p.fillRect(left, y, left+80, y+80, colorLogoBox)
		p.text(left+14, y+44, "No Logo", faceRegular, colorFaint)
		logoBottom = y + 80
	}

	senderY := logoBottom + 26
	name := inv.Sender.Name
	if name == "" {
		name = "Your Company"
	}
	p.text(left, senderY, name, faceBold, colorInk)
	senderY += lineHeight

	address := inv.Sender.Address
	if address == "" {
		address = "123 Business Rd\nCity, State, Zip"
	}
	for _, line := range strings.Split(address, "\n") {
		p.text(left, senderY, line, faceRegular, colorMuted)
		senderY += lineHeight
	}
	if inv.Sender.Email != "" {
		p.text(left, senderY, inv.Sender.Email, faceRegular, colorMuted)
		senderY += lineHeight
	}

	// Right column: document banner and meta.
	metaY := y + 16
	p.textRight(right, metaY, "I N V O I C E", faceBold, colorFaint)
	metaY += lineHeight * 2
	p.textRight(right, metaY, "# "+inv.InvoiceNumber, faceBold, colorMuted)
	metaY += lineHeight
	p.textRight(right, metaY, "Issued: "+formatDate(inv.IssueDate), faceRegular, colorMuted)
	metaY += lineHeight
	p.textRight(right, metaY, "Due: "+formatDate(inv.DueDate), faceRegular, colorMuted)
	metaY += lineHeight

	if senderY < metaY {
		senderY = metaY
	}
	return senderY + 36
}

func (p *painter) drawBillTo(inv domain.Invoice, y int) int {
	left := pagePadding

	p.text(left, y, "BILL TO", faceBold, colorFaint)
	y += lineHeight + 4

	name := inv.Client.Name
	if name == "" {
		name = "Client Name"
	}
	p.text(left, y, name, faceBold, colorInk)
	y += lineHeight

	address := inv.Client.Address
	if address == "" {
		address = "Client Address"
	}
	for _, line := range strings.Split(address, "\n") {
		p.text(left, y, line, faceRegular, colorMuted)
		y += lineHeight
	}
	if inv.Client.Email != "" {
		p.text(left, y, inv.Client.Email, faceRegular, colorMuted)
		y += lineHeight
	}

	return y + 36
}

// Table columns follow the editor's 50/15/15/20 split of the content width.
func tableColumns() (descX, qtyX, rateX, amountX int) {
	contentWidth := DesktopWidth - pagePadding*2
	descX = pagePadding
	qtyX = pagePadding + contentWidth*65/100
	rateX = pagePadding + contentWidth*80/100
	amountX = DesktopWidth - pagePadding
	return
}

func (p *painter) drawItemsTable(inv domain.Invoice, y int) int {
	descX, qtyX, rateX, amountX := tableColumns()

	p.text(descX, y, "Description", faceBold, colorMuted)
	p.textRight(qtyX, y, "Qty", faceBold, colorMuted)
	p.textRight(rateX, y, "Rate", faceBold, colorMuted)
	p.textRight(amountX, y, "Amount", faceBold, colorMuted)
	y += 10
	p.hline(pagePadding, DesktopWidth-pagePadding, y, 2, colorRule)
	y += rowHeight - 10

	if len(inv.Items) == 0 {
		p.textCenter(DesktopWidth/2, y+8, "No items added yet.", faceRegular, colorFaint)
		return y + rowHeight + 24
	}

	for _, item := range inv.Items {
		p.text(descX, y, item.Description, faceRegular, colorInk)
		p.textRight(qtyX, y, formatQuantity(item.Quantity), faceRegular, colorInk)
		p.textRight(rateX, y, formatMoney(inv.Currency, item.Rate), faceRegular, colorInk)
		p.textRight(amountX, y, formatMoney(inv.Currency, item.Amount), faceBold, colorInk)
		y += 12
		p.hline(pagePadding, DesktopWidth-pagePadding, y, 1, colorRuleSoft)
		y += rowHeight - 12
	}

	return y + 12
}

func (p *painter) drawTotals(inv domain.Invoice, totals domain.Totals, y int) int {
	panelLeft := DesktopWidth - pagePadding - 256
	right := DesktopWidth - pagePadding

	p.text(panelLeft, y, "Subtotal", faceRegular, colorMuted)
	p.textRight(right, y, formatMoney(inv.Currency, totals.Subtotal), faceRegular, colorMuted)
	y += lineHeight + 6

	// The discount row only appears when a discount is set.
	if inv.DiscountRate > 0 {
		p.text(panelLeft, y, fmt.Sprintf("Discount (%s%%)", formatQuantity(inv.DiscountRate)), faceRegular, colorMuted)
		p.textRight(right, y, "-"+formatMoney(inv.Currency, totals.DiscountAmount), faceRegular, colorMuted)
		y += lineHeight + 6
	}

	p.text(panelLeft, y, fmt.Sprintf("Tax (%s%%)", formatQuantity(inv.TaxRate)), faceRegular, colorMuted)
	p.textRight(right, y, formatMoney(inv.Currency, totals.TaxAmount), faceRegular, colorMuted)
	y += lineHeight + 10

	p.hline(panelLeft, right, y, 1, colorRule)
	y += 22

	p.text(panelLeft, y, "Total", faceBold, colorInk)
	p.textRight(right, y, formatMoney(inv.Currency, totals.Total), faceBold, colorAccent)

	return y + 48
}

func (p *painter) drawNotes(inv domain.Invoice, y int) {
	if inv.Notes == "" {
		return
	}

	p.hline(pagePadding, DesktopWidth-pagePadding, y, 1, colorRuleSoft)
	y += 30
	p.text(pagePadding, y, "NOTES", faceBold, colorFaint)
	y += lineHeight + 4

	for _, line := range wrapText(inv.Notes, 84) {
		p.text(pagePadding, y, line, faceRegular, colorMuted)
		y += lineHeight
	}
}

// --- drawing primitives ---

func (p *painter) text(x, y int, s string, face font.Face, c color.Color) {
	d := font.Drawer{
		Dst:  p.canvas,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(s)
}

func (p *painter) textRight(x, y int, s string, face font.Face, c color.Color) {
	w := font.MeasureString(face, s).Ceil()
	p.text(x-w, y, s, face, c)
}

func (p *painter) textCenter(x, y int, s string, face font.Face, c color.Color) {
	w := font.MeasureString(face, s).Ceil()
	p.text(x-w/2, y, s, face, c)
}

func (p *painter) hline(x0, x1, y, thickness int, c color.Color) {
	p.fillRect(x0, y, x1, y+thickness, c)
}

func (p *painter) fillRect(x0, y0, x1, y1 int, c color.Color) {
	draw.Draw(p.canvas, image.Rect(x0, y0, x1, y1), image.NewUniform(c), image.Point{}, draw.Src)
}

// --- formatting helpers ---

// formatMoney renders an amount with two fixed decimals. Non-ASCII currency
// symbols fall back to the ISO code because the embedded bitmap face only
// carries Latin glyphs.
func formatMoney(c domain.Currency, v float64) string {
	return c.DisplayPrefix() + strconv.FormatFloat(v, 'f', 2, 64)
}

func formatQuantity(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatDate(d domain.DateOnly) string {
	if d.IsZero() {
		return "-"
	}
	return d.Format("2006-01-02")
}

func wrapText(s string, width int) []string {
	var lines []string
	for _, paragraph := range strings.Split(s, "\n") {
		words := strings.Fields(paragraph)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}
		current := words[0]
		for _, word := range words[1:] {
			if len(current)+1+len(word) > width {
				lines = append(lines, current)
				current = word
				continue
			}
			current += " " + word
		}
		lines = append(lines, current)
	}
	return lines
}

// EncodePNG serializes a rendered surface for HTTP delivery or export.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := imageutil.EncodePNG(&buf, img); err != nil {
		return nil, fmt.Errorf("encode preview: %w", err)
	}
	return buf.Bytes(), nil
}
