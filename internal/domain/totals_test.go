package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeTotalsEmpty(t *testing.T) {
	totals := ComputeTotals(nil, 0, 0)

	assert.Equal(t, 0.0, totals.Subtotal)
	assert.Equal(t, 0.0, totals.Total)
}

func TestComputeTotalsSingleItem(t *testing.T) {
	items := []LineItem{
		{Description: "Web Design Service", Quantity: 10, Rate: 8500, Amount: 85000},
	}

	totals := ComputeTotals(items, 0, 0)

	assert.Equal(t, 85000.0, totals.Subtotal)
	assert.Equal(t, 0.0, totals.DiscountAmount)
	assert.Equal(t, 85000.0, totals.TaxableAmount)
	assert.Equal(t, 0.0, totals.TaxAmount)
	assert.Equal(t, 85000.0, totals.Total)
}

func TestComputeTotalsDiscountAndTax(t *testing.T) {
	items := []LineItem{
		{Quantity: 2, Rate: 100, Amount: 200},
		{Quantity: 1, Rate: 50, Amount: 50},
	}

	totals := ComputeTotals(items, 10, 5)

	assert.Equal(t, 250.0, totals.Subtotal)
	assert.Equal(t, 25.0, totals.DiscountAmount)
	assert.Equal(t, 225.0, totals.TaxableAmount)
	assert.InDelta(t, 11.25, totals.TaxAmount, 1e-9)
	assert.InDelta(t, 236.25, totals.Total, 1e-9)
}

func TestComputeTotalsSubtotalIsSumOfAmounts(t *testing.T) {
	cases := []struct {
		name     string
		items    []LineItem
		expected float64
	}{
		{"no items", nil, 0},
		{"one item", []LineItem{{Amount: 12.5}}, 12.5},
		{"several items", []LineItem{{Amount: 1}, {Amount: 2}, {Amount: 3.5}}, 6.5},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			totals := ComputeTotals(tc.items, 0, 0)
			assert.Equal(t, tc.expected, totals.Subtotal)
		})
	}
}

func TestComputeTotalsNegativeValuesPropagate(t *testing.T) {
	// Negative quantities and rates are accepted and flow through the
	// arithmetic unchanged.
	items := []LineItem{
		{Quantity: -2, Rate: 100, Amount: -200},
	}

	totals := ComputeTotals(items, 10, 5)

	assert.Equal(t, -200.0, totals.Subtotal)
	assert.Equal(t, -20.0, totals.DiscountAmount)
	assert.Equal(t, -180.0, totals.TaxableAmount)
	assert.InDelta(t, -9.0, totals.TaxAmount, 1e-9)
	assert.InDelta(t, -189.0, totals.Total, 1e-9)
}

func TestInvoiceTotalsUsesCurrentState(t *testing.T) {
	inv := Invoice{
		Items:        []LineItem{{Quantity: 2, Rate: 100, Amount: 200}},
		DiscountRate: 50,
		TaxRate:      10,
	}

	totals := inv.Totals()

	assert.Equal(t, 200.0, totals.Subtotal)
	assert.Equal(t, 100.0, totals.DiscountAmount)
	assert.InDelta(t, 110.0, totals.Total, 1e-9)
}
