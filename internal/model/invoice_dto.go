package model

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/makeupcoders/invoicegenius-api/internal/domain"
)

// Number is a float64 that tolerates malformed JSON input. Quoted numbers
// are parsed; anything non-numeric is silently coerced to zero, mirroring
// the editor's behavior of never rejecting a numeric field.
type Number float64

// UnmarshalJSON implements json.Unmarshaler with coercion to zero.
func (n *Number) UnmarshalJSON(b []byte) error {
	var raw float64
	if err := json.Unmarshal(b, &raw); err == nil {
		*n = Number(raw)
		return nil
	}

	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		if v, err := strconv.ParseFloat(s, 64); err == nil {
			*n = Number(v)
			return nil
		}
	}

	*n = 0
	return nil
}

// LineItemDTO represents a single line item for data transfer.
type LineItemDTO struct {
	ID          string `json:"id,omitempty"`
	Description string `json:"description"`
	Quantity    Number `json:"quantity"`
	Rate        Number `json:"rate"`
	Amount      Number `json:"amount"`
}

// PartyDTO represents the sender or client block of an invoice.
type PartyDTO struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Address string `json:"address"`
}

// InvoiceDTO represents the full invoice document for data transfer.
type InvoiceDTO struct {
	InvoiceNumber string        `json:"invoice_number"`
	IssueDate     string        `json:"issue_date"` // Format: YYYY-MM-DD
	DueDate       string        `json:"due_date"`   // Format: YYYY-MM-DD
	Sender        PartyDTO      `json:"sender"`
	Client        PartyDTO      `json:"client"`
	Items         []LineItemDTO `json:"items"`
	Currency      string        `json:"currency"`
	TaxRate       Number        `json:"tax_rate"`
	DiscountRate  Number        `json:"discount_rate"`
	Notes         string        `json:"notes"`
	HasLogo       bool          `json:"has_logo"`
}

// TotalsDTO represents the derived monetary values of an invoice.
type TotalsDTO struct {
	Subtotal       float64 `json:"subtotal"`
	DiscountAmount float64 `json:"discount_amount"`
	TaxableAmount  float64 `json:"taxable_amount"`
	TaxAmount      float64 `json:"tax_amount"`
	Total          float64 `json:"total"`
}

// SessionResponse is the standard envelope for session-scoped endpoints:
// the current aggregate snapshot plus its computed totals.
type SessionResponse struct {
	SessionID string     `json:"session_id"`
	Invoice   InvoiceDTO `json:"invoice"`
	Totals    TotalsDTO  `json:"totals"`
}

// ItemPatchRequest is a partial edit to a single line item. Absent fields
// are left unchanged.
type ItemPatchRequest struct {
	Description *string `json:"description"`
	Quantity    *Number `json:"quantity"`
	Rate        *Number `json:"rate"`
}

// ToDomain converts the patch request to a domain patch.
func (r *ItemPatchRequest) ToDomain() domain.ItemPatch {
	patch := domain.ItemPatch{Description: r.Description}
	if r.Quantity != nil {
		q := float64(*r.Quantity)
		patch.Quantity = &q
	}
	if r.Rate != nil {
		rate := float64(*r.Rate)
		patch.Rate = &rate
	}
	return patch
}

// AssistRequest carries the freeform text for the magic fill feature.
type AssistRequest struct {
	Text string `json:"text" binding:"required"`
}

// CurrencyListResponse lists the supported currency symbols.
type CurrencyListResponse struct {
	Currencies []string `json:"currencies"`
}

// FromDomain populates the DTO from a domain invoice.
func (dto *InvoiceDTO) FromDomain(inv domain.Invoice) {
	dto.InvoiceNumber = inv.InvoiceNumber
	dto.IssueDate = formatDate(inv.IssueDate)
	dto.DueDate = formatDate(inv.DueDate)
	dto.Sender = PartyDTO{Name: inv.Sender.Name, Email: inv.Sender.Email, Address: inv.Sender.Address}
	dto.Client = PartyDTO{Name: inv.Client.Name, Email: inv.Client.Email, Address: inv.Client.Address}
	dto.Currency = string(inv.Currency)
	dto.TaxRate = Number(inv.TaxRate)
	dto.DiscountRate = Number(inv.DiscountRate)
	dto.Notes = inv.Notes
	dto.HasLogo = len(inv.Logo) > 0

	dto.Items = make([]LineItemDTO, len(inv.Items))
	for i, item := range inv.Items {
		dto.Items[i] = LineItemDTO{
			ID:          item.ID,
			Description: item.Description,
			Quantity:    Number(item.Quantity),
			Rate:        Number(item.Rate),
			Amount:      Number(item.Amount),
		}
	}
}

// ToDomain converts the DTO to a domain invoice. Line item amounts are
// always recomputed from quantity and rate; the wire value is ignored.
// The logo is not part of the wire format and is left empty.
func (dto *InvoiceDTO) ToDomain() (domain.Invoice, error) {
	issueDate, err := parseDate(dto.IssueDate)
	if err != nil {
		return domain.Invoice{}, fmt.Errorf("issue_date: %w", err)
	}
	dueDate, err := parseDate(dto.DueDate)
	if err != nil {
		return domain.Invoice{}, fmt.Errorf("due_date: %w", err)
	}

	currency := domain.Currency(dto.Currency)
	if dto.Currency != "" && !currency.Valid() {
		return domain.Invoice{}, fmt.Errorf("unsupported currency %q", dto.Currency)
	}
	if dto.Currency == "" {
		currency = domain.CurrencyBDT
	}

	inv := domain.Invoice{
		InvoiceNumber: dto.InvoiceNumber,
		IssueDate:     issueDate,
		DueDate:       dueDate,
		Sender:        domain.Party{Name: dto.Sender.Name, Email: dto.Sender.Email, Address: dto.Sender.Address},
		Client:        domain.Party{Name: dto.Client.Name, Email: dto.Client.Email, Address: dto.Client.Address},
		Currency:      currency,
		TaxRate:       float64(dto.TaxRate),
		DiscountRate:  float64(dto.DiscountRate),
		Notes:         dto.Notes,
	}

	inv.Items = make([]domain.LineItem, len(dto.Items))
	for i, item := range dto.Items {
		id := item.ID
		if id == "" {
			id = domain.NewLineItem().ID
		}
		qty := float64(item.Quantity)
		rate := float64(item.Rate)
		inv.Items[i] = domain.LineItem{
			ID:          id,
			Description: item.Description,
			Quantity:    qty,
			Rate:        rate,
			Amount:      qty * rate,
		}
	}

	return inv, nil
}

// TotalsFromDomain converts domain totals to a DTO.
func TotalsFromDomain(t domain.Totals) TotalsDTO {
	return TotalsDTO{
		Subtotal:       t.Subtotal,
		DiscountAmount: t.DiscountAmount,
		TaxableAmount:  t.TaxableAmount,
		TaxAmount:      t.TaxAmount,
		Total:          t.Total,
	}
}

func formatDate(d domain.DateOnly) string {
	if d.IsZero() {
		return ""
	}
	return d.Format("2006-01-02")
}

func parseDate(s string) (domain.DateOnly, error) {
	if s == "" {
		return domain.DateOnly{}, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return domain.DateOnly{}, fmt.Errorf("invalid date format: expected YYYY-MM-DD")
	}
	return domain.DateOnly{Time: t}, nil
}
