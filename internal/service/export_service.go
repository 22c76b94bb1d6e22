package service

import (
	"fmt"

	"github.com/makeupcoders/invoicegenius-api/internal/domain"
	"github.com/makeupcoders/invoicegenius-api/internal/imageutil"
	"github.com/makeupcoders/invoicegenius-api/internal/pdf"
	"github.com/makeupcoders/invoicegenius-api/internal/render"
	"github.com/makeupcoders/invoicegenius-api/internal/session"
)

// Factor applied to the rendered bitmap before PDF embedding. Matches the
// preview renderer's output scaled for print density.
const exportScale = 2

// ExportServiceError represents an error in the export service
type ExportServiceError struct {
	Op  string
	Err error
}

func (e *ExportServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return e.Op
}

func (e *ExportServiceError) Unwrap() error {
	return e.Err
}

// ExportResult carries a finished document and its download metadata.
type ExportResult struct {
	Data     []byte
	FileName string
}

// ExportService defines the interface for PDF generation
type ExportService interface {
	// ExportPDF rasterizes the draft at desktop width and embeds the
	// bitmap in a single-page A4 document.
	ExportPDF(sessionID string) (*ExportResult, error)

	// ExportPrint lays the draft out as a vector A4 document suitable
	// for direct printing.
	ExportPrint(sessionID string) (*ExportResult, error)

	// RenderPreview returns the current draft as a PNG at desktop width.
	RenderPreview(sessionID string) ([]byte, error)
}

// ExportServiceImpl implements the ExportService interface
type ExportServiceImpl struct {
	sessions *session.Store
}

// NewExportService creates a new ExportService
func NewExportService(sessions *session.Store) ExportService {
	return &ExportServiceImpl{sessions: sessions}
}

// ExportPDF captures the draft as a high-resolution bitmap and wraps it in
// an A4 page. One export per session at a time; a second trigger while one
// is in flight returns a BusyError.
func (s *ExportServiceImpl) ExportPDF(sessionID string) (*ExportResult, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, &ExportServiceError{
			Op:  "get_session",
			Err: err,
		}
	}

	if err := sess.Begin(session.ActionExport); err != nil {
		return nil, err
	}
	defer sess.End(session.ActionExport)

	inv := sess.Invoice()
	data, err := buildRasterPDF(inv)
	if err != nil {
		return nil, err
	}

	return &ExportResult{
		Data:     data,
		FileName: inv.ExportFileName(),
	}, nil
}

func buildRasterPDF(inv domain.Invoice) (data []byte, err error) {
	// A failure anywhere in the capture pipeline must not take the
	// session down with it; the caller reports a retryable error.
	defer func() {
		if r := recover(); r != nil {
			data = nil
			err = &ExportServiceError{
				Op:  "capture_preview",
				Err: fmt.Errorf("render panic: %v", r),
			}
		}
	}()

	preview := render.Preview(inv, inv.Totals())
	scaled := imageutil.Upscale(preview, exportScale)

	pngData, err := render.EncodePNG(scaled)
	if err != nil {
		return nil, &ExportServiceError{
			Op:  "encode_preview",
			Err: err,
		}
	}

	doc, err := pdf.BuildRasterDocument(pngData, scaled.Bounds().Dx(), scaled.Bounds().Dy())
	if err != nil {
		return nil, &ExportServiceError{
			Op:  "build_pdf",
			Err: err,
		}
	}
	return doc, nil
}

// ExportPrint builds the vector layout. It shares the export gate with
// ExportPDF so a session produces one document at a time.
func (s *ExportServiceImpl) ExportPrint(sessionID string) (*ExportResult, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, &ExportServiceError{
			Op:  "get_session",
			Err: err,
		}
	}

	if err := sess.Begin(session.ActionExport); err != nil {
		return nil, err
	}
	defer sess.End(session.ActionExport)

	inv := sess.Invoice()
	doc, err := pdf.BuildPrintDocument(inv, inv.Totals())
	if err != nil {
		return nil, &ExportServiceError{
			Op:  "build_print_pdf",
			Err: err,
		}
	}

	return &ExportResult{
		Data:     doc,
		FileName: inv.ExportFileName(),
	}, nil
}

// RenderPreview produces the live preview image for the current draft.
func (s *ExportServiceImpl) RenderPreview(sessionID string) ([]byte, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, &ExportServiceError{
			Op:  "get_session",
			Err: err,
		}
	}

	inv := sess.Invoice()
	pngData, err := render.EncodePNG(render.Preview(inv, inv.Totals()))
	if err != nil {
		return nil, &ExportServiceError{
			Op:  "render_preview",
			Err: err,
		}
	}
	return pngData, nil
}
