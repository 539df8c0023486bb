// Package tui renders the live watch view for one repository's workflow
// runs. The model consumes run events from a broker subscription and poll
// updates from the watcher; it never calls the API itself.
package tui

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"flywheel-agent/src/broker"
	"flywheel-agent/src/events"
	"flywheel-agent/src/watch"
)

// Options wires a Model to its event sources. Workflow, Branch and
// Interval only inform the header; the watcher owns the actual scoping.
type Options struct {
	Owner    string
	Repo     string
	Workflow string
	Branch   string
	Interval time.Duration
	Events   <-chan broker.Message
	Updates  <-chan watch.PollUpdate
	Poke     func()
	Styles   *StyleConfig
}

type (
	runEventMsg   events.RunEvent
	pollUpdateMsg watch.PollUpdate
	streamDoneMsg struct{}
)

// Model is the Bubble Tea model for the watch screen.
type Model struct {
	opts    Options
	styles  *StyleConfig
	spinner spinner.Model
	view    View

	runs          map[int64]events.RunEvent
	showCompleted bool
	loaded        bool
	lastPoll      time.Time
	lastErr       error
	width         int
	height        int
	ready         bool
}

// New creates a watch model for the given sources.
func New(opts Options) Model {
	styles := opts.Styles
	if styles == nil {
		styles = DefaultStyles()
	}

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = lipgloss.NewStyle().Foreground(styles.Active)

	return Model{
		opts:          opts,
		styles:        styles,
		spinner:       sp,
		view:          NewView(styles),
		runs:          make(map[int64]events.RunEvent),
		showCompleted: true,
	}
}

// Init starts the spinner and the two event pumps. Required by tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, waitForEvent(m.opts.Events), waitForUpdate(m.opts.Updates))
}

// waitForEvent blocks until the broker delivers the next decodable run
// event. A closed subscription ends the pump.
func waitForEvent(ch <-chan broker.Message) tea.Cmd {
	return func() tea.Msg {
		for msg := range ch {
			event, err := events.Decode(msg.Value)
			if err != nil {
				continue
			}
			return runEventMsg(event)
		}
		return streamDoneMsg{}
	}
}

// waitForUpdate blocks until the watcher reports its next poll outcome.
func waitForUpdate(ch <-chan watch.PollUpdate) tea.Cmd {
	return func() tea.Msg {
		update, ok := <-ch
		if !ok {
			return streamDoneMsg{}
		}
		return pollUpdateMsg(update)
	}
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.resize()
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "r":
			if m.opts.Poke != nil {
				m.opts.Poke()
			}
			return m, nil
		case "o":
			m.showCompleted = !m.showCompleted
			m.refreshItems()
			return m, nil
		}

	case spinner.TickMsg:
		if m.loaded {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case runEventMsg:
		event := events.RunEvent(msg)
		m.runs[event.RunID] = event
		m.refreshItems()
		return m, waitForEvent(m.opts.Events)

	case pollUpdateMsg:
		m.loaded = true
		m.lastPoll = msg.At
		m.lastErr = msg.Err
		return m, waitForUpdate(m.opts.Updates)

	case streamDoneMsg:
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.view, cmd = m.view.Update(msg)
	return m, cmd
}

// refreshItems rebuilds the visible rows from the run map, newest first.
func (m *Model) refreshItems() {
	items := make([]Item, 0, len(m.runs))
	for _, event := range m.runs {
		if !m.showCompleted && event.Status == "completed" {
			continue
		}
		items = append(items, Item{Run: event})
	}
	sort.Slice(items, func(a, b int) bool {
		return items[a].Run.RunID > items[b].Run.RunID
	})
	m.view.SetItems(items)
}

// resize recomputes the list viewport from the terminal dimensions.
func (m *Model) resize() {
	headerHeight := lipgloss.Height(m.renderHeader())
	// header + column titles (1) + help line (1)
	available := m.height - headerHeight - 1 - 1
	if available < 3 {
		available = 3
	}
	m.view.SetSize(m.width, available)
}

// View renders the complete watch layout.
func (m Model) View() string {
	if !m.ready {
		return "\n  Initializing..."
	}

	header := m.renderHeader()

	if !m.loaded && len(m.runs) == 0 {
		waiting := fmt.Sprintf("%s Waiting for the first poll of %s/%s...",
			m.spinner.View(), m.opts.Owner, m.opts.Repo)
		centered := lipgloss.NewStyle().
			Width(m.width).
			Align(lipgloss.Center).
			PaddingTop(2).
			Render(waiting)
		return lipgloss.JoinVertical(lipgloss.Left, header, centered)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		m.view.HeaderRow(),
		m.view.Render(),
		m.renderHelp(),
	)
}

// renderHeader renders the repo title, the watch scope and the latest
// poll outcome as the top bar.
func (m Model) renderHeader() string {
	title := m.styles.TitleStyle().Render(fmt.Sprintf("⚡ %s/%s", m.opts.Owner, m.opts.Repo))

	var scope strings.Builder
	if m.opts.Workflow != "" {
		fmt.Fprintf(&scope, "workflow: %s  ", m.opts.Workflow)
	}
	if m.opts.Branch != "" {
		fmt.Fprintf(&scope, "branch: %s  ", m.opts.Branch)
	}
	if m.opts.Interval > 0 {
		fmt.Fprintf(&scope, "every %s", m.opts.Interval)
	}
	scopeStyle := lipgloss.NewStyle().Foreground(m.styles.TextSecondary).Padding(0, 1)

	left := lipgloss.JoinHorizontal(lipgloss.Left,
		title, scopeStyle.Render(scope.String()), m.renderPollStatus())

	return lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderForeground(m.styles.BorderColor).
		Width(m.width).
		Render(left)
}

// renderPollStatus renders the last poll outcome for the header.
func (m Model) renderPollStatus() string {
	style := lipgloss.NewStyle().Foreground(m.styles.TextSecondary).Padding(0, 1)

	if !m.loaded {
		return style.Render("waiting for first poll")
	}
	if m.lastErr != nil {
		return style.Foreground(m.styles.Failure).
			Render(fmt.Sprintf("poll failed at %s: %v", m.lastPoll.Format("15:04:05"), m.lastErr))
	}
	return style.Render(fmt.Sprintf("last poll %s", m.lastPoll.Format("15:04:05")))
}

// renderHelp renders the key legend at the bottom.
func (m Model) renderHelp() string {
	keyStyle := lipgloss.NewStyle().Foreground(m.styles.PrimaryBlue).Bold(true)
	sepStyle := lipgloss.NewStyle().Foreground(m.styles.TextSecondary)

	parts := []string{
		keyStyle.Render("j/k") + ": nav",
		keyStyle.Render("r") + ": poll now",
		keyStyle.Render("o") + ": toggle completed",
		keyStyle.Render("q") + ": quit",
	}
	return m.styles.HelpStyle().Render(strings.Join(parts, sepStyle.Render(" • ")))
}
