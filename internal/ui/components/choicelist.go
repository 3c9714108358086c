package components

import (
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/compliz/internal/ui/theme"
)

// ChoiceList is a pick-one selector over a fixed option list.
type ChoiceList struct {
	Options []string
	Cursor  int
	Chosen  int
}

// NewChoiceList creates a selector with nothing chosen.
func NewChoiceList(options []string) ChoiceList {
	return ChoiceList{Options: options, Chosen: -1}
}

// Choice returns the chosen label, or "" when nothing is chosen yet.
func (c ChoiceList) Choice() string {
	if c.Chosen < 0 || c.Chosen >= len(c.Options) {
		return ""
	}
	return c.Options[c.Chosen]
}

// SetChoice preselects the option with the given label.
func (c *ChoiceList) SetChoice(label string) {
	for i, opt := range c.Options {
		if opt == label {
			c.Cursor = i
			c.Chosen = i
			return
		}
	}
}

// Update handles keyboard navigation. Enter marks the option under the
// cursor as chosen.
func (c ChoiceList) Update(msg tea.Msg) (ChoiceList, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return c, nil
	}

	switch kmsg.String() {
	case "up", "k":
		if c.Cursor > 0 {
			c.Cursor--
		}
	case "down", "j":
		if c.Cursor < len(c.Options)-1 {
			c.Cursor++
		}
	case "enter", "space":
		c.Chosen = c.Cursor
	}

	return c, nil
}

// View renders the option list.
func (c ChoiceList) View() string {
	var s string
	for i, opt := range c.Options {
		cursor := "  "
		if i == c.Cursor {
			cursor = "▸ "
		}
		marker := "( )"
		if i == c.Chosen {
			marker = "(•)"
		}

		line := cursor + marker + " " + opt
		switch {
		case i == c.Cursor:
			s += theme.Selected.Render(line) + "\n"
		case i == c.Chosen:
			s += theme.Checked.Render(line) + "\n"
		default:
			s += lipgloss.NewStyle().Foreground(theme.Text).Render(line) + "\n"
		}
	}
	return s
}
