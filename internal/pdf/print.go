package pdf

import (
	"fmt"
	"strconv"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/makeupcoders/invoicegenius-api/internal/domain"
)

var (
	printColorInk    = &props.Color{Red: 30, Green: 41, Blue: 59}
	printColorMuted  = &props.Color{Red: 100, Green: 116, Blue: 139}
	printColorAccent = &props.Color{Red: 79, Green: 70, Blue: 229}
)

// BuildPrintDocument lays the invoice out as a vector A4 document for the
// print context: document content only, no editor chrome.
func BuildPrintDocument(inv domain.Invoice, totals domain.Totals) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		Build()

	m := maroto.New(cfg)

	m.AddRows(printHeaderRow(inv))
	m.AddRows(line.NewRow(1, props.Line{Color: printColorMuted, Thickness: 0.3}))
	m.AddRows(printBillToRow(inv))
	m.AddRows(line.NewRow(1, props.Line{Color: printColorMuted, Thickness: 0.3}))

	m.AddRows(printTableHeaderRow())
	if len(inv.Items) == 0 {
		m.AddRows(row.New(10).Add(col.New(12).Add(
			text.New("No items added yet.", props.Text{
				Size: 9, Align: align.Center, Color: printColorMuted, Top: 3,
			}),
		)))
	} else {
		for _, r := range printItemRows(inv) {
			m.AddRows(r)
		}
	}

	m.AddRows(line.NewRow(1, props.Line{Color: printColorMuted, Thickness: 0.3}))
	m.AddRows(printTotalsRow(inv, totals))

	if inv.Notes != "" {
		m.AddRows(line.NewRow(3))
		m.AddRows(printNotesRow(inv))
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("build print document: %w", err)
	}
	return doc.GetBytes(), nil
}

func printHeaderRow(inv domain.Invoice) core.Row {
	sender := inv.Sender.Name
	if sender == "" {
		sender = "Your Company"
	}

	return row.New(20).Add(
		col.New(7).Add(
			text.New(sender, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: printColorInk, Top: 1,
			}),
			text.New(inv.Sender.Email, props.Text{
				Size: 8, Top: 9, Color: printColorMuted,
			}),
			text.New(inv.Sender.Address, props.Text{
				Size: 8, Top: 13, Color: printColorMuted,
			}),
		),
		col.New(5).Add(
			text.New("INVOICE", props.Text{
				Style: fontstyle.Bold, Size: 11, Align: align.Right,
				Color: printColorMuted, Top: 1,
			}),
			text.New("# "+inv.InvoiceNumber, props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Top: 7,
			}),
			text.New("Issued: "+printDate(inv.IssueDate)+"   Due: "+printDate(inv.DueDate), props.Text{
				Size: 8, Align: align.Right, Top: 13, Color: printColorMuted,
			}),
		),
	)
}

func printBillToRow(inv domain.Invoice) core.Row {
	client := inv.Client.Name
	if client == "" {
		client = "Client Name"
	}

	return row.New(16).Add(
		col.New(12).Add(
			text.New("BILL TO", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: printColorMuted, Top: 1,
			}),
			text.New(client, props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6, Color: printColorInk,
			}),
			text.New(fmt.Sprintf("%s   %s", inv.Client.Address, inv.Client.Email), props.Text{
				Size: 8, Top: 12, Color: printColorMuted,
			}),
		),
	)
}

func printTableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: printColorInk, Top: 2,
		}))
	}
	return row.New(8).Add(
		h("Description", 6, align.Left),
		h("Qty", 2, align.Right),
		h("Rate", 2, align.Right),
		h("Amount", 2, align.Right),
	)
}

func printItemRows(inv domain.Invoice) []core.Row {
	rows := make([]core.Row, 0, len(inv.Items))
	for _, item := range inv.Items {
		rows = append(rows, row.New(7).Add(
			col.New(6).Add(text.New(item.Description, props.Text{
				Size: 8, Align: align.Left, Top: 1,
			})),
			col.New(2).Add(text.New(printQuantity(item.Quantity), props.Text{
				Size: 8, Align: align.Right, Top: 1,
			})),
			col.New(2).Add(text.New(printMoney(inv.Currency, item.Rate), props.Text{
				Size: 8, Align: align.Right, Top: 1,
			})),
			col.New(2).Add(text.New(printMoney(inv.Currency, item.Amount), props.Text{
				Size: 8, Align: align.Right, Top: 1,
			})),
		))
	}
	return rows
}

func printTotalsRow(inv domain.Invoice, totals domain.Totals) core.Row {
	var labels, values []core.Component
	top := 1.0

	addLine := func(name, amount string) {
		labels = append(labels, text.New(name, props.Text{
			Size: 9, Align: align.Right, Right: 2, Color: printColorMuted, Top: top,
		}))
		values = append(values, text.New(amount, props.Text{
			Size: 9, Align: align.Right, Color: printColorMuted, Top: top,
		}))
		top += 5
	}

	addLine("Subtotal:", printMoney(inv.Currency, totals.Subtotal))
	if inv.DiscountRate > 0 {
		addLine(fmt.Sprintf("Discount (%s%%):", printQuantity(inv.DiscountRate)),
			"-"+printMoney(inv.Currency, totals.DiscountAmount))
	}
	addLine(fmt.Sprintf("Tax (%s%%):", printQuantity(inv.TaxRate)),
		printMoney(inv.Currency, totals.TaxAmount))

	top += 2
	labels = append(labels, text.New("TOTAL:", props.Text{
		Style: fontstyle.Bold, Size: 11, Align: align.Right, Right: 2, Color: printColorAccent, Top: top,
	}))
	values = append(values, text.New(printMoney(inv.Currency, totals.Total), props.Text{
		Style: fontstyle.Bold, Size: 11, Align: align.Right, Color: printColorAccent, Top: top,
	}))

	return row.New(top + 8).Add(
		col.New(6),
		col.New(3).Add(labels...),
		col.New(3).Add(values...),
	)
}

func printNotesRow(inv domain.Invoice) core.Row {
	return row.New(14).Add(
		col.New(12).Add(
			text.New("NOTES", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: printColorMuted, Top: 1,
			}),
			text.New(inv.Notes, props.Text{
				Size: 8, Top: 6, Color: printColorMuted,
			}),
		),
	)
}

func printMoney(c domain.Currency, v float64) string {
	return c.DisplayPrefix() + strconv.FormatFloat(v, 'f', 2, 64)
}

func printQuantity(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func printDate(d domain.DateOnly) string {
	if d.IsZero() {
		return "-"
	}
	return d.Format("2006-01-02")
}
