// Package components holds the reusable panels composed by the dashboard.
package components

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

// QuoteEntry is one ranked provider quote.
type QuoteEntry struct {
	Provider  string
	Pair      string
	Price     decimal.Decimal
	ToAmount  decimal.Decimal
	ImpactPct decimal.Decimal
	Score     decimal.Decimal
}

// QuotesPanel renders the ranked quotes from the latest execution request.
type QuotesPanel struct {
	pair      string
	chain     string
	entries   []QuoteEntry
	split     bool
	reason    string
	fetchedAt time.Time
	width     int

	headerStyle lipgloss.Style
	bestStyle   lipgloss.Style
	rowStyle    lipgloss.Style
	mutedStyle  lipgloss.Style
}

// NewQuotesPanel creates an empty quotes panel.
func NewQuotesPanel() *QuotesPanel {
	return &QuotesPanel{
		width:       60,
		headerStyle: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED")),
		bestStyle:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#10B981")),
		rowStyle:    lipgloss.NewStyle(),
		mutedStyle:  lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280")),
	}
}

// SetWidth adjusts the rendered width.
func (p *QuotesPanel) SetWidth(w int) { p.width = w }

// SetBatch replaces the displayed quotes with a new ranked batch.
func (p *QuotesPanel) SetBatch(pair, chain string, entries []QuoteEntry, split bool, reason string, at time.Time) {
	p.pair = pair
	p.chain = chain
	p.entries = entries
	p.split = split
	p.reason = reason
	p.fetchedAt = at
}

// View renders the panel body.
func (p *QuotesPanel) View() string {
	var b strings.Builder

	title := "Ranked Quotes"
	if p.pair != "" {
		title = fmt.Sprintf("Ranked Quotes  %s @ %s", p.pair, p.chain)
	}
	b.WriteString(p.headerStyle.Render(title))
	b.WriteString("\n")

	if len(p.entries) == 0 {
		b.WriteString(p.mutedStyle.Render("Waiting for quotes..."))
		return b.String()
	}

	b.WriteString(p.headerStyle.Render(fmt.Sprintf("%-3s %-14s %12s %14s %8s %7s",
		"#", "PROVIDER", "PRICE", "OUT", "IMPACT", "SCORE")))
	b.WriteString("\n")

	for i, e := range p.entries {
		line := fmt.Sprintf("%-3d %-14s %12s %14s %7s%% %7s",
			i+1,
			e.Provider,
			e.Price.StringFixed(6),
			e.ToAmount.StringFixed(4),
			e.ImpactPct.StringFixed(2),
			e.Score.StringFixed(1),
		)
		if i == 0 {
			b.WriteString(p.bestStyle.Render(line))
		} else {
			b.WriteString(p.rowStyle.Render(line))
		}
		b.WriteString("\n")
	}

	strategy := "single provider"
	if p.split {
		strategy = "split order"
	}
	b.WriteString(p.mutedStyle.Render(fmt.Sprintf("strategy: %s (%s)  as of %s",
		strategy, p.reason, p.fetchedAt.Format("15:04:05"))))

	return b.String()
}
