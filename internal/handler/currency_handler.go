package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/makeupcoders/invoicegenius-api/internal/domain"
	"github.com/makeupcoders/invoicegenius-api/internal/model"
)

// CurrencyHandler handles currency-related endpoints
type CurrencyHandler struct{}

// NewCurrencyHandler creates a new currency handler
func NewCurrencyHandler() *CurrencyHandler {
	return &CurrencyHandler{}
}

// RegisterRoutes registers the handler's routes with the given router
func (h *CurrencyHandler) RegisterRoutes(router *gin.Engine) {
	router.GET("/v1/currencies", h.GetSupportedCurrencies)
}

// GetSupportedCurrencies returns the currency symbols an invoice may use
// @Summary Get supported currencies
// @Description Get the list of currency symbols an invoice may be priced in
// @Tags currency
// @Produce json
// @Success 200 {object} model.CurrencyListResponse "List of currency symbols"
// @Router /v1/currencies [get]
func (h *CurrencyHandler) GetSupportedCurrencies(c *gin.Context) {
	currencies := domain.Currencies()
	symbols := make([]string, 0, len(currencies))
	for _, cur := range currencies {
		symbols = append(symbols, string(cur))
	}

	respondOK(c, model.CurrencyListResponse{Currencies: symbols})
}
