package checklist

import (
	"fmt"
	"image/color"
	"strings"

	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/compliz/internal/assessment"
	"github.com/abhisek/compliz/internal/screen"
	"github.com/abhisek/compliz/internal/tree"
	"github.com/abhisek/compliz/internal/ui/layout"
	"github.com/abhisek/compliz/internal/ui/theme"
)

// Model shows an accumulated checklist grouped by timeline phase,
// scrollable when it outgrows the terminal.
type Model struct {
	tree    *tree.Tree
	entries []assessment.Entry

	vp     viewport.Model
	width  int
	height int
	sized  bool
}

// New creates the checklist screen for the given entries.
func New(t *tree.Tree, entries []assessment.Entry) *Model {
	return &Model{
		tree:    t,
		entries: entries,
		vp:      viewport.New(),
	}
}

func (m *Model) Init() tea.Cmd {
	return nil
}

func (m *Model) Title() string {
	return "Your Checklist"
}

// KeyHints implements screen.KeyHintProvider.
func (m *Model) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Scroll"},
		{Key: "Esc", Description: "Back"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (m *Model) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	m.vp, cmd = m.vp.Update(msg)
	return m, cmd
}

func (m *Model) View(width, height int) string {
	if !m.sized || width != m.width || height != m.height {
		m.width = width
		m.height = height
		m.sized = true
		m.vp.SetWidth(width)
		m.vp.SetHeight(height)
		m.vp.SetContent(m.render(width))
	}
	return m.vp.View()
}

// render lays out the entries grouped by phase, declared phase order
// first and untagged items last.
func (m *Model) render(width int) string {
	var b strings.Builder

	title := theme.Title.Width(width).Render(m.tree.Title())
	b.WriteString(title + "\n")
	if lu := m.tree.LastUpdated(); lu != "" {
		b.WriteString(theme.Subtitle.Width(width).Render(lu) + "\n")
	}
	b.WriteString("\n")

	if len(m.entries) == 0 {
		b.WriteString(theme.Hint.Render("  No checklist items were determined for this study."))
		return b.String()
	}

	byPhase := make(map[int][]assessment.Entry)
	for _, e := range m.entries {
		byPhase[e.Item.Phase] = append(byPhase[e.Item.Phase], e)
	}

	for _, p := range m.tree.Phases() {
		group := byPhase[p.ID]
		if len(group) == 0 {
			continue
		}
		heading := fmt.Sprintf("  Phase %d · %s", p.ID, p.Name)
		if p.Parallel {
			heading += "  (can run in parallel)"
		}
		b.WriteString(theme.PhaseHeading.Render(heading) + "\n")
		if p.Note != "" {
			b.WriteString(theme.Hint.Render("  "+p.Note) + "\n")
		}
		b.WriteString("\n")
		for _, e := range group {
			b.WriteString(renderEntry(e, width))
		}
		b.WriteString("\n")
	}

	if group := byPhase[0]; len(group) > 0 {
		b.WriteString(theme.PhaseHeading.Render("  General") + "\n\n")
		for _, e := range group {
			b.WriteString(renderEntry(e, width))
		}
	}

	return b.String()
}

func renderEntry(e assessment.Entry, width int) string {
	var b strings.Builder

	p := e.Priority()
	tag := lipgloss.NewStyle().
		Foreground(priorityColor(p)).
		Bold(true).
		Render("[" + p.Label() + "]")

	text := lipgloss.NewStyle().Foreground(theme.Text).Render(e.Item.Text)
	b.WriteString("  " + tag + " " + text + "\n")

	meta := metaLine(e.Item)
	if meta != "" {
		b.WriteString(theme.Hint.Render("      "+meta) + "\n")
	}
	for _, d := range e.Item.Details {
		b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Render("      • "+d) + "\n")
	}
	if e.Item.Note != "" {
		b.WriteString(theme.Hint.Render("      "+e.Item.Note) + "\n")
	}
	return b.String()
}

func metaLine(it tree.ItemTemplate) string {
	var parts []string
	if it.Contact != "" {
		parts = append(parts, "Contact: "+it.Contact)
	}
	if it.Timeline != "" {
		parts = append(parts, "When: "+it.Timeline)
	}
	if it.Duration != "" {
		parts = append(parts, "Takes: "+it.Duration)
	}
	if it.Track != "" {
		parts = append(parts, "Track: "+it.Track)
	}
	if it.Link != "" {
		parts = append(parts, it.Link)
	}
	return strings.Join(parts, "  ·  ")
}

func priorityColor(p tree.Priority) color.Color {
	switch p {
	case tree.PriorityCritical:
		return theme.PriorityCritical
	case tree.PriorityRequired:
		return theme.PriorityRequired
	case tree.PriorityRecommended:
		return theme.PriorityRecommended
	case tree.PriorityOptional:
		return theme.PriorityOptional
	default:
		return theme.PriorityInfo
	}
}
