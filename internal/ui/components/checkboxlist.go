package components

import (
	"slices"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/compliz/internal/ui/theme"
)

// CheckboxList is a pick-many selector. Selections are kept in the order
// the user made them, which downstream routing depends on. Exclusive, if
// set, names an option that cannot be combined with any other: ticking
// it clears the rest, and ticking anything else clears it.
type CheckboxList struct {
	Options   []string
	Exclusive string
	Cursor    int

	selected []string
}

// NewCheckboxList creates a selector with nothing ticked.
func NewCheckboxList(options []string) CheckboxList {
	return CheckboxList{Options: options}
}

// Selected returns the ticked labels in selection order.
func (c CheckboxList) Selected() []string {
	return slices.Clone(c.selected)
}

// SetSelected replaces the ticked set, keeping the given order. Labels
// not in the option list are dropped.
func (c *CheckboxList) SetSelected(labels []string) {
	c.selected = nil
	for _, l := range labels {
		if slices.Contains(c.Options, l) {
			c.selected = append(c.selected, l)
		}
	}
}

// Update handles keyboard navigation. Space toggles the option under the
// cursor.
func (c CheckboxList) Update(msg tea.Msg) (CheckboxList, tea.Cmd) {
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
	case "space":
		c.toggle(c.Options[c.Cursor])
	}

	return c, nil
}

func (c *CheckboxList) toggle(label string) {
	if i := slices.Index(c.selected, label); i >= 0 {
		c.selected = slices.Delete(c.selected, i, i+1)
		return
	}
	if c.Exclusive != "" {
		if label == c.Exclusive {
			c.selected = nil
		} else {
			if i := slices.Index(c.selected, c.Exclusive); i >= 0 {
				c.selected = slices.Delete(c.selected, i, i+1)
			}
		}
	}
	c.selected = append(c.selected, label)
}

// View renders the option list.
func (c CheckboxList) View() string {
	var s string
	for i, opt := range c.Options {
		cursor := "  "
		if i == c.Cursor {
			cursor = "▸ "
		}
		marker := "[ ]"
		ticked := slices.Contains(c.selected, opt)
		if ticked {
			marker = "[x]"
		}

		line := cursor + marker + " " + opt
		switch {
		case i == c.Cursor:
			s += theme.Selected.Render(line) + "\n"
		case ticked:
			s += theme.Checked.Render(line) + "\n"
		default:
			s += lipgloss.NewStyle().Foreground(theme.Text).Render(line) + "\n"
		}
	}
	return s
}
