package handler

import (
	"errors"
	"fmt"
	"mime/multipart"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/makeupcoders/invoicegenius-api/internal/domain"
	"github.com/makeupcoders/invoicegenius-api/internal/model"
	"github.com/makeupcoders/invoicegenius-api/internal/service"
	"github.com/makeupcoders/invoicegenius-api/internal/session"
)

// getItemIndex retrieves and validates the line item index path parameter
func getItemIndex(c *gin.Context) (int, error) {
	value := c.Param("index")
	index, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid index: must be an integer")
	}
	return index, nil
}

// getFormFile retrieves a file from multipart form data
func getFormFile(c *gin.Context, fieldName string) (multipart.File, *multipart.FileHeader, error) {
	file, header, err := c.Request.FormFile(fieldName)
	if err != nil {
		return nil, nil, fmt.Errorf("no %s provided", fieldName)
	}
	return file, header, nil
}

// bindJSON binds JSON request body to a struct
func bindJSON(c *gin.Context, obj interface{}) error {
	if err := c.ShouldBindJSON(obj); err != nil {
		return fmt.Errorf("invalid JSON format: %v", err)
	}
	return nil
}

// sessionEnvelope builds the standard session response from a snapshot
func sessionEnvelope(sessionID string, inv domain.Invoice) model.SessionResponse {
	var dto model.InvoiceDTO
	dto.FromDomain(inv)
	return model.SessionResponse{
		SessionID: sessionID,
		Invoice:   dto,
		Totals:    model.TotalsFromDomain(inv.Totals()),
	}
}

// respondServiceError maps service-layer errors to HTTP responses
func respondServiceError(c *gin.Context, err error) {
	var busy *session.BusyError
	switch {
	case errors.Is(err, session.ErrNotFound):
		respondNotFound(c, ErrSessionNotFound)
	case errors.Is(err, domain.ErrItemIndex):
		respondUnprocessableEntity(c, ErrItemNotFound)
	case errors.As(err, &busy):
		respondConflict(c, busy.Error())
	case isBadInput(err):
		respondBadRequest(c, err.Error())
	default:
		respondInternalServerError(c, ErrInternalServer)
	}
}

// isBadInput reports whether the error stems from client-supplied data
func isBadInput(err error) bool {
	var editorErr *service.EditorServiceError
	if errors.As(err, &editorErr) && editorErr.Op == "normalize_logo" {
		return true
	}
	var assistErr *service.AssistServiceError
	if errors.As(err, &assistErr) && assistErr.Op == "validate_text" {
		return true
	}
	return false
}
