package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrItemIndex is returned when a line item operation references an index
// that does not exist in the invoice.
var ErrItemIndex = errors.New("line item index out of range")

// DateOnly is a custom type for handling date-only strings from JSON
type DateOnly struct {
	time.Time
}

// UnmarshalJSON implements custom unmarshaling for date-only strings
func (d *DateOnly) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}

	// Handle null/empty dates
	if s == "" || s == "null" {
		d.Time = time.Time{}
		return nil
	}

	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

// MarshalJSON implements custom marshaling for date-only strings
func (d DateOnly) MarshalJSON() ([]byte, error) {
	if d.Time.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.Time.Format("2006-01-02"))
}

// Currency is a display symbol from the fixed set offered by the editor.
type Currency string

// Supported currency symbols
const (
	CurrencyBDT Currency = "৳"
	CurrencyUSD Currency = "$"
	CurrencyEUR Currency = "€"
	CurrencyGBP Currency = "£"
	CurrencyINR Currency = "₹"
)

// Currencies returns the fixed set of supported currency symbols in
// presentation order.
func Currencies() []Currency {
	return []Currency{CurrencyBDT, CurrencyUSD, CurrencyEUR, CurrencyGBP, CurrencyINR}
}

// DisplayPrefix returns the prefix used when rendering amounts. Symbols
// outside the Latin glyph coverage of the embedded fonts fall back to the
// ISO currency code.
func (c Currency) DisplayPrefix() string {
	switch c {
	case CurrencyUSD:
		return "$"
	case CurrencyBDT:
		return "BDT "
	case CurrencyEUR:
		return "EUR "
	case CurrencyGBP:
		return "GBP "
	case CurrencyINR:
		return "INR "
	}
	return string(c)
}

// Valid reports whether c is one of the supported symbols.
func (c Currency) Valid() bool {
	switch c {
	case CurrencyBDT, CurrencyUSD, CurrencyEUR, CurrencyGBP, CurrencyINR:
		return true
	}
	return false
}

// LineItem represents a single billable row in an invoice.
// Amount is derived from Quantity and Rate and is never edited directly.
type LineItem struct {
	ID          string  `json:"id"`
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	Rate        float64 `json:"rate"`
	Amount      float64 `json:"amount"`
}

// NewLineItem creates an empty line item with a fresh identifier,
// quantity 1, rate 0 and amount 0.
func NewLineItem() LineItem {
	return LineItem{
		ID:       uuid.NewString(),
		Quantity: 1,
	}
}

// Party is one side of the invoice (sender or client).
type Party struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Address string `json:"address"`
}

// Invoice is the complete invoice document value at a point in time.
// Every field has a default so the document is always renderable; edits
// produce a new snapshot rather than mutating in place.
type Invoice struct {
	InvoiceNumber string   `json:"invoice_number"`
	IssueDate     DateOnly `json:"issue_date"`
	DueDate       DateOnly `json:"due_date"`

	Sender Party `json:"sender"`
	Client Party `json:"client"`

	// Logo is the raw image selected by the user, held in memory for the
	// session only. Excluded from JSON; the API exposes it through the
	// dedicated logo endpoints.
	Logo []byte `json:"-"`

	Items        []LineItem `json:"items"`
	Currency     Currency   `json:"currency"`
	TaxRate      float64    `json:"tax_rate"`
	DiscountRate float64    `json:"discount_rate"`
	Notes        string     `json:"notes"`
}

// NewDraftInvoice returns the sample document every session starts from.
func NewDraftInvoice(now time.Time) Invoice {
	item := NewLineItem()
	item.Description = "Web Design Service"
	item.Quantity = 10
	item.Rate = 8500
	item.Amount = item.Quantity * item.Rate

	return Invoice{
		InvoiceNumber: "INV-001",
		IssueDate:     DateOnly{now},
		DueDate:       DateOnly{now.Add(7 * 24 * time.Hour)},
		Items:         []LineItem{item},
		Currency:      CurrencyBDT,
		Notes:         "Thank you for your business. Please pay within 30 days.",
	}
}

// Clone returns a deep copy of the invoice so callers can derive a new
// snapshot without sharing the line item slice or logo bytes.
func (i Invoice) Clone() Invoice {
	out := i
	out.Items = make([]LineItem, len(i.Items))
	copy(out.Items, i.Items)
	if i.Logo != nil {
		out.Logo = make([]byte, len(i.Logo))
		copy(out.Logo, i.Logo)
	}
	return out
}

// ItemPatch describes a partial edit to a single line item. Nil fields are
// left unchanged.
type ItemPatch struct {
	Description *string
	Quantity    *float64
	Rate        *float64
}

// UpdateItem returns a new snapshot with the item at index replaced by the
// patched value. Amount is recomputed from the post-update quantity and rate
// whenever either of them changed.
func (i Invoice) UpdateItem(index int, patch ItemPatch) (Invoice, error) {
	if index < 0 || index >= len(i.Items) {
		return Invoice{}, fmt.Errorf("update item %d: %w", index, ErrItemIndex)
	}

	out := i.Clone()
	item := out.Items[index]
	if patch.Description != nil {
		item.Description = *patch.Description
	}
	if patch.Quantity != nil {
		item.Quantity = *patch.Quantity
	}
	if patch.Rate != nil {
		item.Rate = *patch.Rate
	}
	if patch.Quantity != nil || patch.Rate != nil {
		item.Amount = item.Quantity * item.Rate
	}
	out.Items[index] = item
	return out, nil
}

// AddItem returns a new snapshot with a fresh empty item appended, along
// with the item itself.
func (i Invoice) AddItem() (Invoice, LineItem) {
	out := i.Clone()
	item := NewLineItem()
	out.Items = append(out.Items, item)
	return out, item
}

// RemoveItem returns a new snapshot with the item at index removed. Removing
// the last remaining item is allowed; an empty invoice is a valid document.
func (i Invoice) RemoveItem(index int) (Invoice, error) {
	if index < 0 || index >= len(i.Items) {
		return Invoice{}, fmt.Errorf("remove item %d: %w", index, ErrItemIndex)
	}

	out := i.Clone()
	out.Items = append(out.Items[:index], out.Items[index+1:]...)
	return out, nil
}

// GeneratedItem is a partial line item produced by the AI assist adapter.
// Identifier and amount are assigned by AppendGeneratedItems.
type GeneratedItem struct {
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	Rate        float64 `json:"rate"`
}

// AppendGeneratedItems returns a new snapshot with the generated batch
// appended in order. Each item gets a fresh identifier and a computed
// amount. Existing items are never replaced or reordered.
func (i Invoice) AppendGeneratedItems(partials []GeneratedItem) Invoice {
	out := i.Clone()
	for _, p := range partials {
		out.Items = append(out.Items, LineItem{
			ID:          uuid.NewString(),
			Description: p.Description,
			Quantity:    p.Quantity,
			Rate:        p.Rate,
			Amount:      p.Quantity * p.Rate,
		})
	}
	return out
}

// ExportFileName returns the download name for the exported PDF, falling
// back to "draft" when the invoice number is blank.
func (i Invoice) ExportFileName() string {
	number := strings.TrimSpace(i.InvoiceNumber)
	if number == "" {
		number = "draft"
	}
	return "invoice-" + number + ".pdf"
}
