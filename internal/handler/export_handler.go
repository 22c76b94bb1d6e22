package handler

import (
	"errors"
	"fmt"
	"log"

	"github.com/gin-gonic/gin"

	"github.com/makeupcoders/invoicegenius-api/internal/service"
	"github.com/makeupcoders/invoicegenius-api/internal/session"
)

// ExportHandler handles HTTP requests for preview rendering and PDF export
type ExportHandler struct {
	exporter service.ExportService
}

// NewExportHandler creates a new export handler
func NewExportHandler(exporter service.ExportService) *ExportHandler {
	return &ExportHandler{exporter: exporter}
}

// RegisterRoutes registers the handler's routes with the given router
func (h *ExportHandler) RegisterRoutes(router *gin.Engine) {
	router.GET("/v1/sessions/:id/preview.png", h.RenderPreview)
	router.GET("/v1/sessions/:id/export/pdf", h.ExportPDF)
	router.GET("/v1/sessions/:id/export/print", h.ExportPrint)
}

// RenderPreview returns the draft rendered as a PNG at desktop width
// @Summary Render the live preview
// @Description Render the session's draft as a PNG image at desktop page width
// @Tags export
// @Produce png
// @Param id path string true "Session ID"
// @Success 200 {file} binary "Preview image"
// @Failure 404 {object} model.ErrorResponse "Session not found"
// @Router /v1/sessions/{id}/preview.png [get]
func (h *ExportHandler) RenderPreview(c *gin.Context) {
	data, err := h.exporter.RenderPreview(c.Param("id"))
	if err != nil {
		h.respondExportError(c, err)
		return
	}
	c.Data(StatusOK, "image/png", data)
}

// ExportPDF downloads the draft as a raster PDF
// @Summary Download the invoice PDF
// @Description Capture the draft at desktop width and download it as a single-page A4 PDF
// @Tags export
// @Produce application/pdf
// @Param id path string true "Session ID"
// @Success 200 {file} binary "Invoice PDF"
// @Failure 404 {object} model.ErrorResponse "Session not found"
// @Failure 409 {object} model.ErrorResponse "An export is already in progress"
// @Failure 500 {object} model.ErrorResponse "Export failed"
// @Router /v1/sessions/{id}/export/pdf [get]
func (h *ExportHandler) ExportPDF(c *gin.Context) {
	result, err := h.exporter.ExportPDF(c.Param("id"))
	if err != nil {
		h.respondExportError(c, err)
		return
	}
	h.sendDocument(c, result)
}

// ExportPrint downloads the draft as a vector print layout
// @Summary Download the print layout
// @Description Lay the draft out as a vector A4 PDF suitable for direct printing
// @Tags export
// @Produce application/pdf
// @Param id path string true "Session ID"
// @Success 200 {file} binary "Print-ready PDF"
// @Failure 404 {object} model.ErrorResponse "Session not found"
// @Failure 409 {object} model.ErrorResponse "An export is already in progress"
// @Failure 500 {object} model.ErrorResponse "Export failed"
// @Router /v1/sessions/{id}/export/print [get]
func (h *ExportHandler) ExportPrint(c *gin.Context) {
	result, err := h.exporter.ExportPrint(c.Param("id"))
	if err != nil {
		h.respondExportError(c, err)
		return
	}
	h.sendDocument(c, result)
}

func (h *ExportHandler) sendDocument(c *gin.Context, result *service.ExportResult) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.FileName))
	c.Data(StatusOK, "application/pdf", result.Data)
}

func (h *ExportHandler) respondExportError(c *gin.Context, err error) {
	var busy *session.BusyError
	switch {
	case errors.Is(err, session.ErrNotFound):
		respondNotFound(c, ErrSessionNotFound)
	case errors.As(err, &busy):
		respondConflict(c, busy.Error())
	default:
		// The capture pipeline failed; the session is intact and the
		// client may retry.
		log.Printf("Export failed: %v", err)
		respondInternalServerError(c, ErrExportRetry)
	}
}
