package report

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
	borderCol = lipgloss.Color("#243141")
	accentFg  = lipgloss.Color("#7C3AED")
	dimFg     = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#6B7280"}
	warnFg    = lipgloss.Color("#F39C12")
	errFg     = lipgloss.Color("#E74C3C")

	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(accentFg).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	numStyle    = cellStyle.Align(lipgloss.Right)
	totalStyle  = numStyle.Bold(true)
	titleStyle  = lipgloss.NewStyle().Bold(true)
	warnStyle   = lipgloss.NewStyle().Foreground(warnFg)
	errStyle    = lipgloss.NewStyle().Foreground(errFg)
	noteStyle   = lipgloss.NewStyle().Foreground(dimFg)
)

func money(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) }

// Table renders the rows as a bordered table followed by the warning,
// skipped and failed sections that are non-empty.
func (r *Report) Table() string {
	headers := []string{"File", "Part", "Qty", "Length (mm)", "Area (m²)", "Holes"}
	if r.Priced {
		headers = append(headers, "Cutting", "Material", "Total")
	}

	rows := make([][]string, 0, len(r.Rows)+1)
	for _, row := range r.Rows {
		cells := []string{
			row.File,
			row.PartID,
			strconv.Itoa(row.Quantity),
			fmt.Sprintf("%.2f", row.LengthMM),
			fmt.Sprintf("%.4f", row.AreaM2),
			strconv.Itoa(row.Holes),
		}
		if r.Priced {
			cells = append(cells, money(row.CuttingCost), money(row.MaterialCost), money(row.Total))
		}
		rows = append(rows, cells)
	}
	totalRow := -1
	if r.Priced {
		total := make([]string, len(headers))
		total[len(total)-2] = "Grand total"
		total[len(total)-1] = money(r.GrandTotal)
		totalRow = len(rows)
		rows = append(rows, total)
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(borderCol)).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case row == totalRow:
				return totalStyle
			case col >= 2:
				return numStyle
			}
			return cellStyle
		}).
		Headers(headers...).
		Rows(rows...)

	var b strings.Builder
	b.WriteString(t.String())
	b.WriteString("\n")

	if len(r.Warnings) > 0 {
		b.WriteString("\n" + titleStyle.Render(fmt.Sprintf("Warnings (%d)", len(r.Warnings))) + "\n")
		for _, w := range r.Warnings {
			b.WriteString(warnStyle.Render(fmt.Sprintf("  %s: %s: %s", w.File, w.Kind, w.Message)) + "\n")
		}
	}
	if len(r.Skipped) > 0 {
		b.WriteString("\n" + titleStyle.Render("Skipped") + "\n")
		for _, s := range r.Skipped {
			b.WriteString(noteStyle.Render(fmt.Sprintf("  %s: %s", s.File, s.Reason)) + "\n")
		}
	}
	if len(r.Failed) > 0 {
		b.WriteString("\n" + titleStyle.Render("Failed") + "\n")
		for _, f := range r.Failed {
			b.WriteString(errStyle.Render(fmt.Sprintf("  %s: %s", f.File, f.Reason)) + "\n")
		}
	}
	return b.String()
}
