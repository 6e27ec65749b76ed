// Package report turns merged account records into the printed valuation table.
package report

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"

	"github.com/vadiminshakov/splvaluer/internal/domain"
)

// Column headers.
const (
	ColAccount = "Account"
	ColCards   = "Cards /$"
	ColSPS     = "SPS /$"
	ColDEC     = "DEC /$"
	ColTotal   = "Total /$"

	totalLabel = "Total"
	dash       = "-"
)

var amountFormatter = money.NewFormatter(2, ".", "", "", "1")

// Row one line of the report, every amount rounded to cents.
type Row struct {
	Account string
	Cards   *money.Money
	SPS     *money.Money
	DEC     *money.Money
	Total   *money.Money
}

// Report per-account rows followed by a separator and the totals row.
type Report struct {
	Rows   []Row
	Totals Row
}

// Build rounds every record to cents and sums the rounded cells column-wise.
// A row total is the rounded sum of the unrounded fields, so the totals row
// can differ by a cent from the sum of its own columns.
func Build(records []domain.AccountRecord) Report {
	r := Report{
		Rows: make([]Row, 0, len(records)),
		Totals: Row{
			Account: totalLabel,
			Cards:   money.New(0, money.USD),
			SPS:     money.New(0, money.USD),
			DEC:     money.New(0, money.USD),
			Total:   money.New(0, money.USD),
		},
	}

	for _, rec := range records {
		row := Row{
			Account: rec.Account,
			Cards:   usd(rec.Cards),
			SPS:     usd(rec.SPS),
			DEC:     usd(rec.DEC),
			Total:   usd(rec.Total()),
		}
		r.Rows = append(r.Rows, row)

		r.Totals.Cards = add(r.Totals.Cards, row.Cards)
		r.Totals.SPS = add(r.Totals.SPS, row.SPS)
		r.Totals.DEC = add(r.Totals.DEC, row.DEC)
		r.Totals.Total = add(r.Totals.Total, row.Total)
	}

	return r
}

// usd rounds an amount to cents.
func usd(v decimal.Decimal) *money.Money {
	return money.New(v.Round(2).Shift(2).IntPart(), money.USD)
}

// add sums two USD amounts; both are built by usd so currencies always match.
func add(a, b *money.Money) *money.Money {
	sum, err := a.Add(b)
	if err != nil {
		panic(err)
	}
	return sum
}

// FormatAmount renders an amount with two decimals and no grouping.
func FormatAmount(m *money.Money) string {
	return amountFormatter.Format(m.Amount())
}

// cell renders a per-account amount, zero shows as a dash.
func cell(m *money.Money) string {
	if m.IsZero() {
		return dash
	}
	return FormatAmount(m)
}

func (r Row) cells() []string {
	return []string{r.Account, cell(r.Cards), cell(r.SPS), cell(r.DEC), cell(r.Total)}
}

func (r Row) totalCells() []string {
	return []string{r.Account, FormatAmount(r.Cards), FormatAmount(r.SPS), FormatAmount(r.DEC), FormatAmount(r.Total)}
}

func headers() []string {
	return []string{ColAccount, ColCards, ColSPS, ColDEC, ColTotal}
}
