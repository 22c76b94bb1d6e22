package domain

// Totals holds the derived monetary values of an invoice. All values are
// raw arithmetic results; fixed 2-decimal formatting happens only at
// presentation time.
type Totals struct {
	Subtotal       float64 `json:"subtotal"`
	DiscountAmount float64 `json:"discount_amount"`
	TaxableAmount  float64 `json:"taxable_amount"`
	TaxAmount      float64 `json:"tax_amount"`
	Total          float64 `json:"total"`
}

// ComputeTotals derives subtotal, discount, taxable amount, tax and grand
// total from a line item sequence. It is a pure function of its inputs and
// applies no rounding. Negative rates and quantities propagate
// arithmetically.
func ComputeTotals(items []LineItem, discountRate, taxRate float64) Totals {
	var subtotal float64
	for _, item := range items {
		subtotal += item.Amount
	}

	discountAmount := subtotal * discountRate / 100
	taxableAmount := subtotal - discountAmount
	taxAmount := taxableAmount * taxRate / 100

	return Totals{
		Subtotal:       subtotal,
		DiscountAmount: discountAmount,
		TaxableAmount:  taxableAmount,
		TaxAmount:      taxAmount,
		Total:          taxableAmount + taxAmount,
	}
}

// Totals recomputes the invoice's derived values from its current state.
func (i Invoice) Totals() Totals {
	return ComputeTotals(i.Items, i.DiscountRate, i.TaxRate)
}
