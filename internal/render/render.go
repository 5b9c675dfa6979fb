// Package render draws calculation results as terminal tables.
package render

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"faraid-engine/internal/i18n"
	"faraid-engine/internal/model"
)

var (
	accent  = lipgloss.Color("#8BC34A")
	warning = lipgloss.Color("#FFC107")
	danger  = lipgloss.Color("#e53935")
	muted   = lipgloss.Color("#6b7280")

	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(accent)
	headerStyle  = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle    = lipgloss.NewStyle().Padding(0, 1)
	numberStyle  = cellStyle.Align(lipgloss.Right)
	excludeStyle = cellStyle.Foreground(muted)
	warnStyle    = lipgloss.NewStyle().Foreground(warning)
	critStyle    = lipgloss.NewStyle().Bold(true).Foreground(danger)
)

// Distribution writes the estate summary, the share table and any warnings.
func Distribution(w io.Writer, res *model.DistributionResult, loc *i18n.Locale) error {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Estate") + "\n")
	for _, line := range []struct {
		label string
		value string
	}{
		{"Gross value", loc.Amount(res.GrossValue)},
		{"Debts", loc.Amount(res.Debts)},
		{"Funeral cost", loc.Amount(res.FuneralCost)},
		{"Bequest", loc.Amount(res.BequestApplied)},
		{"Net distributable", loc.Amount(res.NetDistributableValue)},
	} {
		fmt.Fprintf(&b, "  %-18s %s\n", line.label, line.value)
	}
	b.WriteString("\n")

	excluded := map[int]bool{}
	rows := make([][]string, 0, len(res.Shares))
	for i, sh := range res.Shares {
		label := sh.Label
		if label == "" {
			label = loc.Category(sh.Category)
		}
		basis := loc.Basis(sh.Basis)
		if len(sh.BlockedBy) > 0 {
			by := make([]string, len(sh.BlockedBy))
			for j, c := range sh.BlockedBy {
				by[j] = loc.Category(c)
			}
			basis += " (" + strings.Join(by, ", ") + ")"
		}
		if sh.Basis == model.BasisExcluded {
			excluded[i] = true
		}
		rows = append(rows, []string{
			label,
			strconv.Itoa(sh.Count),
			basis,
			sh.Fraction,
			sh.Percentage,
			loc.Amount(sh.Amount),
			loc.Amount(sh.AmountEach),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(muted)).
		Headers("Heir", "Count", "Basis", "Share", "%", "Amount", "Each").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case excluded[row]:
				return excludeStyle
			case col >= 3:
				return numberStyle
			}
			return cellStyle
		})
	b.WriteString(t.String() + "\n")

	fmt.Fprintf(&b, "Base %d", res.Summary.BaseDenominator)
	if res.Summary.UnclaimedFraction != "0/1" {
		fmt.Fprintf(&b, ", unclaimed %s", res.Summary.UnclaimedFraction)
	}
	b.WriteString("\n")

	for _, code := range res.Warnings {
		b.WriteString(warnStyle.Render("! "+loc.Warning(code)) + "\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// Messages writes the critical messages of a failed calculation.
func Messages(w io.Writer, msgs []model.CalculationMessage) error {
	var b strings.Builder
	for _, m := range msgs {
		if m.Level != model.LevelCritical {
			continue
		}
		b.WriteString(critStyle.Render(m.Code) + " " + m.Message + "\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// Categories writes the relative categories with their caps and classes.
func Categories(w io.Writer, views []i18n.CategoryView) error {
	rows := make([][]string, len(views))
	for i, v := range views {
		limit := "-"
		if v.Max > 0 {
			limit = strconv.Itoa(v.Max)
		}
		rows[i] = []string{v.Key, v.Label, v.Sex, v.Class, limit}
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(muted)).
		Headers("Key", "Label", "Sex", "Class", "Max").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})

	_, err := io.WriteString(w, t.String()+"\n")
	return err
}
