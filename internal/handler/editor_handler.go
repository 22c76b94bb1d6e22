package handler

import (
	"log"

	"github.com/gin-gonic/gin"

	"github.com/makeupcoders/invoicegenius-api/internal/model"
	"github.com/makeupcoders/invoicegenius-api/internal/service"
)

// EditorHandler handles HTTP requests for invoice editing sessions
type EditorHandler struct {
	editor      service.EditorService
	maxFileSize int64
}

// NewEditorHandler creates a new invoice editing handler
func NewEditorHandler(editor service.EditorService) *EditorHandler {
	return &EditorHandler{
		editor:      editor,
		maxFileSize: 5 * 1024 * 1024, // 5MB logo limit
	}
}

// RegisterRoutes registers the handler's routes with the given router
func (h *EditorHandler) RegisterRoutes(router *gin.Engine) {
	router.POST("/v1/sessions", h.CreateSession)
	router.GET("/v1/sessions/:id", h.GetSession)
	router.DELETE("/v1/sessions/:id", h.DeleteSession)

	router.GET("/v1/sessions/:id/invoice", h.GetSession)
	router.PUT("/v1/sessions/:id/invoice", h.ReplaceInvoice)
	router.POST("/v1/sessions/:id/invoice/items", h.AddItem)
	router.PATCH("/v1/sessions/:id/invoice/items/:index", h.UpdateItem)
	router.DELETE("/v1/sessions/:id/invoice/items/:index", h.RemoveItem)

	router.POST("/v1/sessions/:id/logo", h.UploadLogo)
	router.DELETE("/v1/sessions/:id/logo", h.RemoveLogo)
}

// CreateSession opens a new editing session
// @Summary Open an editing session
// @Description Create a new session seeded with a sample draft invoice
// @Tags sessions
// @Produce json
// @Success 201 {object} model.SessionResponse "New session with its draft"
// @Router /v1/sessions [post]
func (h *EditorHandler) CreateSession(c *gin.Context) {
	sess := h.editor.OpenSession()
	log.Printf("Opened session %s", sess.ID)
	respondCreated(c, sessionEnvelope(sess.ID, sess.Invoice()))
}

// GetSession returns the session's current invoice and totals
// @Summary Get session state
// @Description Get the session's current invoice snapshot and computed totals
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} model.SessionResponse "Current session state"
// @Failure 404 {object} model.ErrorResponse "Session not found"
// @Router /v1/sessions/{id} [get]
func (h *EditorHandler) GetSession(c *gin.Context) {
	sess, err := h.editor.GetSession(c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, sessionEnvelope(sess.ID, sess.Invoice()))
}

// DeleteSession discards a session and its draft
// @Summary Close a session
// @Description Discard the session and its draft invoice
// @Tags sessions
// @Param id path string true "Session ID"
// @Success 204 "Session closed"
// @Router /v1/sessions/{id} [delete]
func (h *EditorHandler) DeleteSession(c *gin.Context) {
	h.editor.CloseSession(c.Param("id"))
	respondNoContent(c)
}

// ReplaceInvoice swaps the session's draft for the submitted document
// @Summary Replace the invoice
// @Description Replace the session's draft invoice wholesale with the submitted document
// @Tags invoice
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param invoice body model.InvoiceDTO true "Full invoice document"
// @Success 200 {object} model.SessionResponse "Updated session state"
// @Failure 400 {object} model.ErrorResponse "Malformed document"
// @Failure 404 {object} model.ErrorResponse "Session not found"
// @Router /v1/sessions/{id}/invoice [put]
func (h *EditorHandler) ReplaceInvoice(c *gin.Context) {
	var dto model.InvoiceDTO
	if err := bindJSON(c, &dto); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	inv, err := dto.ToDomain()
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	next, err := h.editor.ReplaceInvoice(c.Param("id"), inv)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, sessionEnvelope(c.Param("id"), next))
}

// AddItem appends an empty line item to the draft
// @Summary Add a line item
// @Description Append an empty line item to the session's draft
// @Tags invoice
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} model.SessionResponse "Updated session state"
// @Failure 404 {object} model.ErrorResponse "Session not found"
// @Router /v1/sessions/{id}/invoice/items [post]
func (h *EditorHandler) AddItem(c *gin.Context) {
	next, _, err := h.editor.AddItem(c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, sessionEnvelope(c.Param("id"), next))
}

// UpdateItem applies a partial edit to one line item
// @Summary Update a line item
// @Description Apply a partial edit to one line item; absent fields are unchanged
// @Tags invoice
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param index path int true "Line item index"
// @Param patch body model.ItemPatchRequest true "Fields to change"
// @Success 200 {object} model.SessionResponse "Updated session state"
// @Failure 400 {object} model.ErrorResponse "Malformed index or patch"
// @Failure 404 {object} model.ErrorResponse "Session not found"
// @Failure 422 {object} model.ErrorResponse "Item index out of range"
// @Router /v1/sessions/{id}/invoice/items/{index} [patch]
func (h *EditorHandler) UpdateItem(c *gin.Context) {
	index, err := getItemIndex(c)
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	var patch model.ItemPatchRequest
	if err := bindJSON(c, &patch); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	next, err := h.editor.UpdateItem(c.Param("id"), index, patch.ToDomain())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, sessionEnvelope(c.Param("id"), next))
}

// RemoveItem deletes one line item from the draft
// @Summary Remove a line item
// @Description Delete one line item from the session's draft
// @Tags invoice
// @Produce json
// @Param id path string true "Session ID"
// @Param index path int true "Line item index"
// @Success 200 {object} model.SessionResponse "Updated session state"
// @Failure 400 {object} model.ErrorResponse "Malformed index"
// @Failure 404 {object} model.ErrorResponse "Session not found"
// @Failure 422 {object} model.ErrorResponse "Item index out of range"
// @Router /v1/sessions/{id}/invoice/items/{index} [delete]
func (h *EditorHandler) RemoveItem(c *gin.Context) {
	index, err := getItemIndex(c)
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	next, err := h.editor.RemoveItem(c.Param("id"), index)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, sessionEnvelope(c.Param("id"), next))
}

// UploadLogo attaches a logo image to the draft
// @Summary Upload a logo
// @Description Attach a logo image to the session's draft; PNG, JPEG and GIF are accepted
// @Tags invoice
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Session ID"
// @Param file formData file true "Logo image file"
// @Success 200 {object} model.SessionResponse "Updated session state"
// @Failure 400 {object} model.ErrorResponse "Bad file"
// @Failure 404 {object} model.ErrorResponse "Session not found"
// @Router /v1/sessions/{id}/logo [post]
func (h *EditorHandler) UploadLogo(c *gin.Context) {
	if err := c.Request.ParseMultipartForm(h.maxFileSize); err != nil {
		respondBadRequest(c, "Failed to parse form data: "+err.Error())
		return
	}

	file, header, err := getFormFile(c, "file")
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	defer file.Close()

	if header.Size > h.maxFileSize {
		respondBadRequest(c, "File size exceeds limit")
		return
	}

	fileData := make([]byte, header.Size)
	if _, err := file.Read(fileData); err != nil {
		respondInternalServerError(c, "Failed to read file data: "+err.Error())
		return
	}

	if err := h.editor.SetLogo(c.Param("id"), fileData); err != nil {
		respondServiceError(c, err)
		return
	}

	sess, err := h.editor.GetSession(c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, sessionEnvelope(sess.ID, sess.Invoice()))
}

// RemoveLogo detaches the logo from the draft
// @Summary Remove the logo
// @Description Detach the logo from the session's draft
// @Tags invoice
// @Param id path string true "Session ID"
// @Success 204 "Logo removed"
// @Failure 404 {object} model.ErrorResponse "Session not found"
// @Router /v1/sessions/{id}/logo [delete]
func (h *EditorHandler) RemoveLogo(c *gin.Context) {
	if err := h.editor.RemoveLogo(c.Param("id")); err != nil {
		respondServiceError(c, err)
		return
	}
	respondNoContent(c)
}
