package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/makeupcoders/invoicegenius-api/internal/domain"
	"github.com/makeupcoders/invoicegenius-api/internal/model"
	"github.com/makeupcoders/invoicegenius-api/internal/service"
	"github.com/makeupcoders/invoicegenius-api/internal/session"
)

// stubExtractor returns canned items or an error without calling out.
type stubExtractor struct {
	items []domain.GeneratedItem
	err   error
}

func (s *stubExtractor) ExtractLineItems(ctx context.Context, text string) ([]domain.GeneratedItem, error) {
	return s.items, s.err
}

type fixture struct {
	router   *gin.Engine
	sessions *session.Store
}

func newFixture(t *testing.T, extractor service.LineItemExtractor) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	sessions := session.NewStore(time.Hour)
	t.Cleanup(sessions.Close)

	router := gin.New()
	NewEditorHandler(service.NewEditorService(sessions)).RegisterRoutes(router)
	NewAssistHandler(service.NewAssistService(sessions, extractor)).RegisterRoutes(router)
	NewExportHandler(service.NewExportService(sessions)).RegisterRoutes(router)
	NewCurrencyHandler().RegisterRoutes(router)

	return &fixture{router: router, sessions: sessions}
}

func (f *fixture) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func (f *fixture) openSession(t *testing.T) model.SessionResponse {
	t.Helper()
	w := f.do(t, http.MethodPost, "/v1/sessions", nil)
	require.Equal(t, http.StatusCreated, w.Code)

	var resp model.SessionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.SessionID)
	return resp
}

func decodeSession(t *testing.T, w *httptest.ResponseRecorder) model.SessionResponse {
	t.Helper()
	var resp model.SessionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestCreateSessionSeedsDraft(t *testing.T) {
	f := newFixture(t, &stubExtractor{})

	resp := f.openSession(t)
	assert.Equal(t, "INV-001", resp.Invoice.InvoiceNumber)
	require.Len(t, resp.Invoice.Items, 1)
	assert.Equal(t, 85000.0, resp.Totals.Subtotal)
	assert.Equal(t, 85000.0, resp.Totals.Total)
}

func TestGetSessionNotFound(t *testing.T) {
	f := newFixture(t, &stubExtractor{})

	w := f.do(t, http.MethodGet, "/v1/sessions/unknown", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestReplaceInvoiceWholesale(t *testing.T) {
	f := newFixture(t, &stubExtractor{})
	sess := f.openSession(t)

	doc := sess.Invoice
	doc.InvoiceNumber = "INV-077"
	doc.Currency = "€"
	doc.TaxRate = 5
	doc.DiscountRate = 10

	w := f.do(t, http.MethodPut, "/v1/sessions/"+sess.SessionID+"/invoice", doc)
	require.Equal(t, http.StatusOK, w.Code)

	resp := decodeSession(t, w)
	assert.Equal(t, "INV-077", resp.Invoice.InvoiceNumber)
	assert.Equal(t, "€", resp.Invoice.Currency)
	// 85000 - 10% = 76500, + 5% tax = 80325
	assert.InDelta(t, 80325.0, resp.Totals.Total, 0.0001)
}

func TestReplaceInvoiceCoercesMalformedNumbers(t *testing.T) {
	f := newFixture(t, &stubExtractor{})
	sess := f.openSession(t)

	body := `{
		"invoice_number": "INV-002",
		"currency": "$",
		"tax_rate": "abc",
		"items": [{"description": "Work", "quantity": "oops", "rate": 100}]
	}`
	req := httptest.NewRequest(http.MethodPut, "/v1/sessions/"+sess.SessionID+"/invoice", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	resp := decodeSession(t, w)
	assert.Equal(t, model.Number(0), resp.Invoice.TaxRate)
	assert.Equal(t, model.Number(0), resp.Invoice.Items[0].Quantity)
	assert.Equal(t, 0.0, resp.Totals.Subtotal)
}

func TestReplaceInvoiceUnsupportedCurrency(t *testing.T) {
	f := newFixture(t, &stubExtractor{})
	sess := f.openSession(t)

	doc := sess.Invoice
	doc.Currency = "¥"

	w := f.do(t, http.MethodPut, "/v1/sessions/"+sess.SessionID+"/invoice", doc)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestItemLifecycle(t *testing.T) {
	f := newFixture(t, &stubExtractor{})
	sess := f.openSession(t)
	base := "/v1/sessions/" + sess.SessionID + "/invoice/items"

	w := f.do(t, http.MethodPost, base, nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeSession(t, w)
	require.Len(t, resp.Invoice.Items, 2)
	assert.Equal(t, model.Number(1), resp.Invoice.Items[1].Quantity)

	patch := map[string]interface{}{"description": "Consulting", "rate": 120}
	w = f.do(t, http.MethodPatch, base+"/1", patch)
	require.Equal(t, http.StatusOK, w.Code)
	resp = decodeSession(t, w)
	assert.Equal(t, "Consulting", resp.Invoice.Items[1].Description)
	assert.Equal(t, model.Number(120), resp.Invoice.Items[1].Amount)

	w = f.do(t, http.MethodDelete, base+"/0", nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp = decodeSession(t, w)
	require.Len(t, resp.Invoice.Items, 1)
	assert.Equal(t, "Consulting", resp.Invoice.Items[0].Description)
}

func TestUpdateItemBadIndex(t *testing.T) {
	f := newFixture(t, &stubExtractor{})
	sess := f.openSession(t)
	base := "/v1/sessions/" + sess.SessionID + "/invoice/items"

	w := f.do(t, http.MethodPatch, base+"/9", map[string]interface{}{"rate": 1})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = f.do(t, http.MethodPatch, base+"/notanumber", map[string]interface{}{"rate": 1})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAssistAppendsItems(t *testing.T) {
	f := newFixture(t, &stubExtractor{items: []domain.GeneratedItem{
		{Description: "Design work", Quantity: 3, Rate: 200},
	}})
	sess := f.openSession(t)

	w := f.do(t, http.MethodPost, "/v1/sessions/"+sess.SessionID+"/assist",
		model.AssistRequest{Text: "three days of design at 200"})
	require.Equal(t, http.StatusOK, w.Code)

	resp := decodeSession(t, w)
	require.Len(t, resp.Invoice.Items, 2)
	assert.Equal(t, "Design work", resp.Invoice.Items[1].Description)
	assert.Equal(t, model.Number(600), resp.Invoice.Items[1].Amount)
}

func TestAssistFailureKeepsDraft(t *testing.T) {
	f := newFixture(t, &stubExtractor{err: errors.New("upstream timeout")})
	sess := f.openSession(t)

	w := f.do(t, http.MethodPost, "/v1/sessions/"+sess.SessionID+"/assist",
		model.AssistRequest{Text: "some work"})
	require.Equal(t, http.StatusInternalServerError, w.Code)

	var errResp model.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &errResp))
	assert.Equal(t, ErrGenerationRetry, errResp.Message)

	w = f.do(t, http.MethodGet, "/v1/sessions/"+sess.SessionID, nil)
	resp := decodeSession(t, w)
	assert.Len(t, resp.Invoice.Items, 1)
}

func TestAssistMissingText(t *testing.T) {
	f := newFixture(t, &stubExtractor{})
	sess := f.openSession(t)

	w := f.do(t, http.MethodPost, "/v1/sessions/"+sess.SessionID+"/assist", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAssistBusyConflict(t *testing.T) {
	f := newFixture(t, &stubExtractor{})
	sess := f.openSession(t)

	// Simulate a generation already in flight.
	live, err := f.sessions.Get(sess.SessionID)
	require.NoError(t, err)
	require.NoError(t, live.Begin(session.ActionGenerate))

	w := f.do(t, http.MethodPost, "/v1/sessions/"+sess.SessionID+"/assist",
		model.AssistRequest{Text: "more work"})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestExportPDFDownload(t *testing.T) {
	f := newFixture(t, &stubExtractor{})
	sess := f.openSession(t)

	w := f.do(t, http.MethodGet, "/v1/sessions/"+sess.SessionID+"/export/pdf", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "invoice-INV-001.pdf")
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF")))
}

func TestExportBusyConflict(t *testing.T) {
	f := newFixture(t, &stubExtractor{})
	sess := f.openSession(t)

	live, err := f.sessions.Get(sess.SessionID)
	require.NoError(t, err)
	require.NoError(t, live.Begin(session.ActionExport))

	w := f.do(t, http.MethodGet, "/v1/sessions/"+sess.SessionID+"/export/pdf", nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	live.End(session.ActionExport)
	w = f.do(t, http.MethodGet, "/v1/sessions/"+sess.SessionID+"/export/pdf", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestExportPrintDownload(t *testing.T) {
	f := newFixture(t, &stubExtractor{})
	sess := f.openSession(t)

	w := f.do(t, http.MethodGet, "/v1/sessions/"+sess.SessionID+"/export/print", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF")))
}

func TestRenderPreviewPNG(t *testing.T) {
	f := newFixture(t, &stubExtractor{})
	sess := f.openSession(t)

	w := f.do(t, http.MethodGet, "/v1/sessions/"+sess.SessionID+"/preview.png", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))

	_, err := png.Decode(bytes.NewReader(w.Body.Bytes()))
	assert.NoError(t, err)
}

func TestLogoUploadAndRemove(t *testing.T) {
	f := newFixture(t, &stubExtractor{})
	sess := f.openSession(t)

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", "logo.png")
	require.NoError(t, err)

	img := image.NewRGBA(image.Rect(0, 0, 16, 16))
	for x := 0; x < 16; x++ {
		for y := 0; y < 16; y++ {
			img.Set(x, y, color.RGBA{R: 30, G: 41, B: 59, A: 255})
		}
	}
	require.NoError(t, png.Encode(part, img))
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/v1/sessions/"+sess.SessionID+"/logo", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	resp := decodeSession(t, w)
	assert.True(t, resp.Invoice.HasLogo)

	w = f.do(t, http.MethodDelete, "/v1/sessions/"+sess.SessionID+"/logo", nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = f.do(t, http.MethodGet, "/v1/sessions/"+sess.SessionID, nil)
	resp = decodeSession(t, w)
	assert.False(t, resp.Invoice.HasLogo)
}

func TestLogoUploadRejectsGarbage(t *testing.T) {
	f := newFixture(t, &stubExtractor{})
	sess := f.openSession(t)

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", "logo.png")
	require.NoError(t, err)
	_, err = part.Write([]byte("definitely not an image"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/v1/sessions/"+sess.SessionID+"/logo", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeleteSession(t *testing.T) {
	f := newFixture(t, &stubExtractor{})
	sess := f.openSession(t)

	w := f.do(t, http.MethodDelete, "/v1/sessions/"+sess.SessionID, nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = f.do(t, http.MethodGet, "/v1/sessions/"+sess.SessionID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListCurrencies(t *testing.T) {
	f := newFixture(t, &stubExtractor{})

	w := f.do(t, http.MethodGet, "/v1/currencies", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp model.CurrencyListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp.Currencies, "৳")
	assert.Contains(t, resp.Currencies, "$")
	assert.Contains(t, resp.Currencies, "€")
}
