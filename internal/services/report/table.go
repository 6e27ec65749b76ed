package report

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/shopspring/decimal"

	"github.com/vadiminshakov/splvaluer/internal/domain"
)

var (
	cellStyle    = lipgloss.NewStyle().Padding(0, 1)
	accountStyle = cellStyle.Align(lipgloss.Center)
	amountStyle  = cellStyle.Align(lipgloss.Right)

	separator = []string{"---------", "---------", "--------", "--------", "---------"}

	// notFound marks a collection value that never showed up.
	notFound = "?"
)

// Table renders the report with box-drawing borders. The account column is
// centered, amounts are right-aligned.
func Table(r Report) string {
	rows := make([][]string, 0, len(r.Rows)+2)
	for _, row := range r.Rows {
		rows = append(rows, row.cells())
	}
	rows = append(rows, separator, r.Totals.totalCells())

	return newTable().
		Headers(headers()...).
		Rows(rows...).
		String()
}

// Markdown renders the report as a markdown table.
func Markdown(r Report) string {
	var b strings.Builder

	b.WriteString("| " + strings.Join(headers(), " | ") + " |\n")
	b.WriteString("|:---:|---:|---:|---:|---:|\n")
	for _, row := range r.Rows {
		b.WriteString("| " + strings.Join(row.cells(), " | ") + " |\n")
	}
	b.WriteString("| " + strings.Join(separator, " | ") + " |\n")
	totals := r.Totals.totalCells()
	for i := range totals {
		totals[i] = "**" + totals[i] + "**"
	}
	b.WriteString("| " + strings.Join(totals, " | ") + " |\n")

	return b.String()
}

// Snapshots renders stored valuations, oldest first. A collection value that
// was never read shows as "?".
func Snapshots(records []domain.ValuationSnapshotRecord) string {
	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		s := rec.Snapshot
		rows = append(rows, []string{
			s.Account,
			fmt.Sprintf("%d", rec.Index),
			s.Timestamp.Format("2006-01-02 15:04"),
			cardsCell(s),
			fixed(s.SPS),
			fixed(s.DEC),
			fixed(s.Total),
		})
	}

	return newTable().
		Headers(ColAccount, "#", "Time", ColCards, ColSPS, ColDEC, ColTotal).
		Rows(rows...).
		String()
}

func newTable() *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		StyleFunc(func(row, col int) lipgloss.Style {
			if col == 0 {
				return accountStyle
			}
			return amountStyle
		})
}

func cardsCell(s domain.ValuationSnapshot) string {
	if !s.CardsFound {
		return notFound
	}
	return fixed(s.Cards)
}

// fixed formats a stored decimal string to cents, as is when unparsable.
func fixed(s string) string {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return s
	}
	return cell(usd(d))
}
