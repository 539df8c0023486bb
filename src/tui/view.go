package tui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	// listRenderingOverhead accounts for padding added by bubbles/list
	// around each row.
	listRenderingOverhead = 2

	workflowColWidth = 18
	branchColWidth   = 14
	actorColWidth    = 12
	ageColWidth      = 4

	colSep = " │ "
)

// Delegate renders run items as table rows.
type Delegate struct {
	NumberWidth int
	styles      *StyleConfig
	now         func() time.Time
}

// NewDelegate creates a run table delegate. A nil style config gets the
// default palette.
func NewDelegate(styles *StyleConfig) Delegate {
	if styles == nil {
		styles = DefaultStyles()
	}
	return Delegate{
		NumberWidth: 3,
		styles:      styles,
		now:         time.Now,
	}
}

// SetColumnWidths sizes the run number column for the largest value on
// screen. The extra character holds the leading #.
func (d *Delegate) SetColumnWidths(maxNumber int) {
	d.NumberWidth = len(fmt.Sprintf("%d", maxNumber)) + 1
	if d.NumberWidth < 3 {
		d.NumberWidth = 3
	}
}

// Height returns the height of a list item
func (d Delegate) Height() int {
	return 1
}

// Spacing returns spacing between items
func (d Delegate) Spacing() int {
	return 0
}

// Update handles item updates
func (d Delegate) Update(msg tea.Msg, m *list.Model) tea.Cmd {
	return nil
}

// titleWidth returns the width left for the title column at the given
// list width.
func (d Delegate) titleWidth(listWidth int) int {
	fixed := 1 + d.NumberWidth + workflowColWidth + branchColWidth + actorColWidth + ageColWidth + 6*VisualWidth(colSep)
	return listWidth - fixed - listRenderingOverhead
}

// HeaderRow renders the column titles aligned with the table rows.
func (d Delegate) HeaderRow(listWidth int) string {
	cells := []string{
		" ",
		fmt.Sprintf("%*s", d.NumberWidth, "#"),
		TruncateAndPad("Workflow", workflowColWidth, false),
		TruncateAndPad("Branch", branchColWidth, false),
		TruncateAndPad("Actor", actorColWidth, false),
	}
	if width := d.titleWidth(listWidth); width > 0 {
		cells = append(cells, TruncateAndPad("Title", width, false))
	} else {
		cells = append(cells, "")
	}
	cells = append(cells, fmt.Sprintf("%*s", ageColWidth, "Age"))

	style := lipgloss.NewStyle().Bold(true).Foreground(d.styles.TextPrimary)
	return style.Render(strings.Join(cells, colSep))
}

// Render renders a single run row.
func (d Delegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	entry, ok := item.(Item)
	if !ok {
		return
	}

	isSelected := index == m.Index()
	run := entry.Run

	glyphStyle := lipgloss.NewStyle().Foreground(d.styles.RunColor(run.Status, run.Conclusion))
	if isSelected {
		glyphStyle = glyphStyle.Bold(true)
	}
	glyph := glyphStyle.Render(statusGlyph(run.Status, run.Conclusion))

	cells := []string{
		fmt.Sprintf("%*s", d.NumberWidth, fmt.Sprintf("#%d", run.RunNumber)),
		TruncateAndPad(CleanText(run.WorkflowName), workflowColWidth, true),
		TruncateAndPad(CleanText(run.HeadBranch), branchColWidth, true),
		TruncateAndPad(CleanText(run.Actor), actorColWidth, true),
	}
	if width := d.titleWidth(m.Width()); width > 0 {
		cells = append(cells, TruncateAndPad(CleanText(run.DisplayTitle), width, true))
	} else {
		cells = append(cells, "")
	}
	cells = append(cells, fmt.Sprintf("%*s", ageColWidth, entry.Age(d.now())))

	style := lipgloss.NewStyle().Foreground(d.styles.TextSecondary)
	if isSelected {
		style = style.Bold(true).Foreground(d.styles.PrimaryBlue).Background(d.styles.SelectedColor)
	}

	fmt.Fprint(w, glyph+style.Render(colSep+strings.Join(cells, colSep)))
}

// View manages the list of run items.
type View struct {
	list     list.Model
	items    []Item
	delegate *Delegate
}

// NewView creates a run list view
func NewView(styles *StyleConfig) View {
	delegate := NewDelegate(styles)
	l := list.New([]list.Item{}, &delegate, 0, 0)
	l.SetShowStatusBar(false)
	l.SetShowTitle(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)

	return View{
		list:     l,
		items:    []Item{},
		delegate: &delegate,
	}
}

// Update handles run list updates
func (v View) Update(msg tea.Msg) (View, tea.Cmd) {
	var cmd tea.Cmd
	v.list, cmd = v.list.Update(msg)
	return v, cmd
}

// SetSize sets the list dimensions
func (v *View) SetSize(width, height int) {
	v.list.SetSize(width, height)
}

// SetItems sets the list items
func (v *View) SetItems(items []Item) {
	v.items = items

	maxNumber := 0
	for _, item := range items {
		if item.Run.RunNumber > maxNumber {
			maxNumber = item.Run.RunNumber
		}
	}
	v.delegate.SetColumnWidths(maxNumber)

	listItems := make([]list.Item, len(items))
	for i, item := range items {
		listItems[i] = item
	}
	v.list.SetItems(listItems)
}

// GetSelectedItem returns the currently selected run item
func (v View) GetSelectedItem() (Item, bool) {
	if len(v.list.Items()) == 0 {
		return Item{}, false
	}
	return v.list.SelectedItem().(Item), true
}

// HeaderRow renders the table column titles for the current list width.
func (v View) HeaderRow() string {
	return v.delegate.HeaderRow(v.list.Width())
}

// Render returns the string representation of the view
func (v View) Render() string {
	return v.list.View()
}
