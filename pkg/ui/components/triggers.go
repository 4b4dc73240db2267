package components

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

const maxTriggerRows = 10

// TriggerEntry is one fired monitor condition.
type TriggerEntry struct {
	MonitorID     string
	Pair          string
	Type          string
	ObservedValue decimal.Decimal
	FiredAt       time.Time
}

// TriggersPanel renders the rolling feed of fired monitors, newest first.
type TriggersPanel struct {
	entries []TriggerEntry
	width   int

	headerStyle lipgloss.Style
	priceStyle  lipgloss.Style
	arbStyle    lipgloss.Style
	mutedStyle  lipgloss.Style
}

// NewTriggersPanel creates an empty trigger feed.
func NewTriggersPanel() *TriggersPanel {
	return &TriggersPanel{
		width:       60,
		headerStyle: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED")),
		priceStyle:  lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B")),
		arbStyle:    lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981")),
		mutedStyle:  lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280")),
	}
}

// SetWidth adjusts the rendered width.
func (p *TriggersPanel) SetWidth(w int) { p.width = w }

// Push prepends an entry, keeping the feed bounded.
func (p *TriggersPanel) Push(e TriggerEntry) {
	p.entries = append([]TriggerEntry{e}, p.entries...)
	if len(p.entries) > maxTriggerRows {
		p.entries = p.entries[:maxTriggerRows]
	}
}

// Count reports how many triggers are currently shown.
func (p *TriggersPanel) Count() int { return len(p.entries) }

// View renders the panel body.
func (p *TriggersPanel) View() string {
	var b strings.Builder

	b.WriteString(p.headerStyle.Render("Monitor Triggers"))
	b.WriteString("\n")

	if len(p.entries) == 0 {
		b.WriteString(p.mutedStyle.Render("No triggers fired yet"))
		return b.String()
	}

	for _, e := range p.entries {
		style := p.priceStyle
		if e.Type == "arbitrage" {
			style = p.arbStyle
		}
		line := fmt.Sprintf("%s %-10s %-11s %8s%%",
			e.FiredAt.Format("15:04:05"),
			e.Pair,
			e.Type,
			e.ObservedValue.StringFixed(2),
		)
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}

	return strings.TrimRight(b.String(), "\n")
}
