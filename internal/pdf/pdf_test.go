package pdf

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/makeupcoders/invoicegenius-api/internal/domain"
)

func testBitmap(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.White)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestBuildRasterDocument(t *testing.T) {
	data := testBitmap(t, 794, 1123)

	out, err := BuildRasterDocument(data, 794, 1123)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")), "output should be a PDF document")
}

func TestBuildRasterDocumentWideBitmap(t *testing.T) {
	// A wider-than-tall bitmap still fits inside the content area.
	data := testBitmap(t, 1000, 200)

	out, err := BuildRasterDocument(data, 1000, 200)
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}

func TestBuildRasterDocumentInvalidSize(t *testing.T) {
	_, err := BuildRasterDocument(nil, 0, 0)
	assert.Error(t, err)
}

func TestBuildPrintDocument(t *testing.T) {
	inv := domain.NewDraftInvoice(time.Now())
	inv.DiscountRate = 10
	inv.TaxRate = 5

	out, err := BuildPrintDocument(inv, inv.Totals())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestBuildPrintDocumentEmptyInvoice(t *testing.T) {
	inv := domain.NewDraftInvoice(time.Now())
	empty, err := inv.RemoveItem(0)
	require.NoError(t, err)

	out, err := BuildPrintDocument(empty, empty.Totals())
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}
