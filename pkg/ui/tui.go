package ui

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/novaledger/dexflow/pkg/ui/components"
)

// Phase tracks which screen the TUI is showing.
type Phase int

const (
	PhaseStartup Phase = iota
	PhaseDashboard
)

// Package-level handle so infra adapters can push messages into the TUI.
var (
	// Program is set by main after tea.NewProgram.
	Program *tea.Program

	// OnStartModules is invoked once, in the background, when the TUI boots.
	OnStartModules func() error
)

// Send delivers a message to the running program. Safe to call before the
// program starts; the message is dropped.
func Send(msg tea.Msg) {
	if Program != nil {
		Program.Send(msg)
	}
}

// Model is the root Bubble Tea model for the dashboard.
type Model struct {
	phase  Phase
	keys   KeyMap
	width  int
	height int

	quotes   *components.QuotesPanel
	triggers *components.TriggersPanel
	status   *components.StatusBar

	startErr error
}

// New creates the root model.
func New() Model {
	return Model{
		phase:    PhaseStartup,
		keys:     DefaultKeyMap(),
		quotes:   components.NewQuotesPanel(),
		triggers: components.NewTriggersPanel(),
		status:   components.NewStatusBar(),
	}
}

// Init kicks off the refresh ticker and module startup.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		tickCmd(),
		func() tea.Msg { return StartModulesMsg{} },
	)
}

// Update handles incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.quotes.SetWidth(msg.Width - 4)
		m.triggers.SetWidth(msg.Width - 4)
		m.status.SetWidth(msg.Width)

	case TickMsg:
		return m, tickCmd()

	case StartModulesMsg:
		return m, startModulesCmd()

	case ModuleStartedMsg:
		if msg.Err != nil {
			m.startErr = msg.Err
			m.status.SetError(msg.Err)
			return m, nil
		}
		m.status.ModuleStarted(msg.Name)

	case ModulesReadyMsg:
		m.phase = PhaseDashboard
		m.status.SetReady()

	case QuoteBatchMsg:
		entries := make([]components.QuoteEntry, 0, len(msg.Rows))
		for _, r := range msg.Rows {
			entries = append(entries, components.QuoteEntry{
				Provider:  r.Provider,
				Pair:      r.Pair,
				Price:     r.Price,
				ToAmount:  r.ToAmount,
				ImpactPct: r.ImpactPct,
				Score:     r.Score,
			})
		}
		m.quotes.SetBatch(msg.Pair, msg.Chain, entries, msg.Split, msg.Reason, msg.FetchedAt)

	case TriggerMsg:
		m.triggers.Push(components.TriggerEntry{
			MonitorID:     msg.MonitorID,
			Pair:          msg.Pair,
			Type:          msg.Type,
			ObservedValue: msg.ObservedValue,
			FiredAt:       msg.FiredAt,
		})

	case ErrorMsg:
		m.status.SetError(msg.Err)
	}

	return m, nil
}

// View renders the current phase.
func (m Model) View() string {
	switch m.phase {
	case PhaseStartup:
		return m.viewStartup()
	default:
		return m.viewDashboard()
	}
}

func (m Model) viewStartup() string {
	body := TitleStyle.Render(" dexflow ") + "\n\n" +
		m.status.View() + "\n\n" +
		HelpStyle.Render("starting modules... press q to quit")
	if m.startErr != nil {
		body += "\n" + StatusInactive.Render("startup failed: "+m.startErr.Error())
	}
	return BoxStyle.Render(body)
}

func (m Model) viewDashboard() string {
	header := TitleStyle.Render(" dexflow ") + "  " +
		HeaderStyle.Render("DEX Liquidity Aggregator")

	left := BoxStyle.Render(m.quotes.View())
	right := BoxStyle.Render(m.triggers.View())
	panels := lipgloss.JoinHorizontal(lipgloss.Top, left, right)

	footer := m.status.View() + "\n" +
		HelpStyle.Render("q quit | tab switch panel | r refresh")

	return lipgloss.JoinVertical(lipgloss.Left, header, panels, footer)
}

func tickCmd() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func startModulesCmd() tea.Cmd {
	return func() tea.Msg {
		if OnStartModules == nil {
			return ModulesReadyMsg{}
		}
		if err := OnStartModules(); err != nil {
			return ModuleStartedMsg{Name: "startup", Err: err}
		}
		return ModulesReadyMsg{}
	}
}
