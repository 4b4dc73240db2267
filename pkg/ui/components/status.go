package components

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// StatusBar renders uptime, module state and the most recent error.
type StatusBar struct {
	startedAt time.Time
	modules   []string
	ready     bool
	lastErr   error
	width     int

	okStyle    lipgloss.Style
	errStyle   lipgloss.Style
	mutedStyle lipgloss.Style
}

// NewStatusBar creates a status bar anchored at the current time.
func NewStatusBar() *StatusBar {
	return &StatusBar{
		startedAt:  time.Now(),
		width:      80,
		okStyle:    lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981")).Bold(true),
		errStyle:   lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444")),
		mutedStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280")),
	}
}

// SetWidth adjusts the rendered width.
func (s *StatusBar) SetWidth(w int) { s.width = w }

// ModuleStarted records a started module by name.
func (s *StatusBar) ModuleStarted(name string) {
	s.modules = append(s.modules, name)
}

// SetReady marks all modules as running.
func (s *StatusBar) SetReady() { s.ready = true }

// SetError records the most recent non-fatal error.
func (s *StatusBar) SetError(err error) { s.lastErr = err }

// View renders the bar.
func (s *StatusBar) View() string {
	uptime := time.Since(s.startedAt).Round(time.Second)

	state := s.mutedStyle.Render(fmt.Sprintf("starting (%d modules up)", len(s.modules)))
	if s.ready {
		state = s.okStyle.Render("running")
	}

	parts := []string{
		state,
		s.mutedStyle.Render("uptime " + uptime.String()),
		s.mutedStyle.Render("modules " + strings.Join(s.modules, ", ")),
	}
	if s.lastErr != nil {
		parts = append(parts, s.errStyle.Render("err: "+s.lastErr.Error()))
	}

	return strings.Join(parts, "  |  ")
}
