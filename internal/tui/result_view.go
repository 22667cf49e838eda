// internal/tui/result_view.go
//
// Renders the final estimate card: headline allowance, the ARV/CHV pair,
// calculation provenance, and the comparables that drove it.

package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/renovalab/renovest/internal/engine"
)

var (
	titleStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("#5B8DEF")).Bold(true)
	hintStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
	pausedStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#F7B801")).Bold(true)
	errorStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")).Bold(true)
	focusedLabelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#5B8DEF")).Bold(true)
	allowanceStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#4CAF50")).Bold(true)
	detailTextStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#A0AEC0"))
	cardStyle         = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("#5B8DEF")).
				Padding(1, 2)
)

func renderResultCard(res engine.Result, width int) string {
	lines := []string{
		titleStyle.Render("⌂ RENOVEST"),
		"",
		res.PropertyAddress,
		"",
		allowanceStyle.Render(fmt.Sprintf("Renovation allowance  %s", formatMoney(res.RenovationAllowance))),
		fmt.Sprintf("After-repair value    %s", formatMoney(res.ARV)),
		fmt.Sprintf("Current home value    %s", formatMoney(res.CHV)),
	}

	if d := res.CalculationDetails; d.CalculationMethod != "" {
		lines = append(lines, "",
			detailTextStyle.Render(fmt.Sprintf("method: %s", d.CalculationMethod)),
			detailTextStyle.Render(d.CHVFormula),
			detailTextStyle.Render(d.ARVFormula),
			detailTextStyle.Render(d.RenovationFormula),
		)
	}

	if n := len(res.Comparables.AsIs); n > 0 {
		lines = append(lines, "", detailTextStyle.Render(fmt.Sprintf("based on %d comparable propert%s", n, pluralY(n))))
	}

	card := cardStyle.Render(strings.Join(lines, "\n"))
	footer := hintStyle.Render("enter for a new estimate · q to quit")
	body := card + "\n" + footer
	if width > 20 {
		return lipgloss.NewStyle().MaxWidth(width).Render(body)
	}
	return body
}

// formatMoney renders a dollar amount with thousands separators.
func formatMoney(v float64) string {
	neg := v < 0
	if neg {
		v = -v
	}
	digits := fmt.Sprintf("%.0f", v)
	var b strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(d)
	}
	if neg {
		return "-$" + b.String()
	}
	return "$" + b.String()
}

func pluralY(n int) string {
	if n == 1 {
		return "y"
	}
	return "ies"
}
