package handler

import (
	"errors"
	"log"

	"github.com/gin-gonic/gin"

	"github.com/makeupcoders/invoicegenius-api/internal/model"
	"github.com/makeupcoders/invoicegenius-api/internal/service"
	"github.com/makeupcoders/invoicegenius-api/internal/session"
)

// AssistHandler handles HTTP requests for the AI fill feature
type AssistHandler struct {
	assist service.AssistService
}

// NewAssistHandler creates a new assist handler
func NewAssistHandler(assist service.AssistService) *AssistHandler {
	return &AssistHandler{assist: assist}
}

// RegisterRoutes registers the handler's routes with the given router
func (h *AssistHandler) RegisterRoutes(router *gin.Engine) {
	router.POST("/v1/sessions/:id/assist", h.GenerateItems)
}

// GenerateItems turns freeform text into line items on the draft
// @Summary Generate line items from text
// @Description Describe the work in plain language and append the extracted line items to the draft. Example: "I worked 5 hours on the website design at $80/hr and 3 hours fixing bugs at $60/hr."
// @Tags assist
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body model.AssistRequest true "Freeform description of billable work"
// @Success 200 {object} model.SessionResponse "Draft with the generated items appended"
// @Failure 400 {object} model.ErrorResponse "Missing or empty text"
// @Failure 404 {object} model.ErrorResponse "Session not found"
// @Failure 409 {object} model.ErrorResponse "A generation is already in progress"
// @Failure 500 {object} model.ErrorResponse "Generation failed"
// @Router /v1/sessions/{id}/assist [post]
func (h *AssistHandler) GenerateItems(c *gin.Context) {
	var request model.AssistRequest
	if err := bindJSON(c, &request); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	next, err := h.assist.GenerateItems(c.Request.Context(), c.Param("id"), request.Text)
	if err != nil {
		var busy *session.BusyError
		var svcErr *service.AssistServiceError
		switch {
		case errors.Is(err, session.ErrNotFound):
			respondNotFound(c, ErrSessionNotFound)
		case errors.As(err, &busy):
			respondConflict(c, busy.Error())
		case errors.As(err, &svcErr) && svcErr.Op == "validate_text":
			respondBadRequest(c, svcErr.Error())
		default:
			// The model call or its parsing failed; the draft is untouched
			// and the client may simply retry.
			log.Printf("Item generation failed: %v", err)
			respondInternalServerError(c, ErrGenerationRetry)
		}
		return
	}

	respondOK(c, sessionEnvelope(c.Param("id"), next))
}
