package assess

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/compliz/internal/assessment"
	"github.com/abhisek/compliz/internal/router"
	"github.com/abhisek/compliz/internal/screen"
	"github.com/abhisek/compliz/internal/screens/checklist"
	"github.com/abhisek/compliz/internal/store"
	"github.com/abhisek/compliz/internal/tree"
	"github.com/abhisek/compliz/internal/ui/components"
	"github.com/abhisek/compliz/internal/ui/layout"
	"github.com/abhisek/compliz/internal/ui/theme"
)

// savedMsg reports the outcome of a background autosave.
type savedMsg struct {
	err error
}

// Model walks the user through the decision tree one question at a
// time. Every transition autosaves the whole session, so quitting
// mid-assessment loses nothing.
type Model struct {
	tree *tree.Tree
	repo store.AssessmentRepo
	sess *assessment.Session

	// One of these is live depending on the current question's type;
	// info and summary questions have neither.
	choice   components.ChoiceList
	checkbox components.CheckboxList

	saveErr error
}

// New creates the screen positioned on the session's current question.
func New(sess *assessment.Session, repo store.AssessmentRepo) *Model {
	m := &Model{
		tree: sess.Tree(),
		repo: repo,
		sess: sess,
	}
	m.syncInput()
	return m
}

func (m *Model) Init() tea.Cmd {
	return nil
}

func (m *Model) Title() string {
	return "Assessment"
}

// Progress implements screen.ProgressProvider.
func (m *Model) Progress() (answered, total int) {
	return m.sess.Progress()
}

// KeyHints implements screen.KeyHintProvider.
func (m *Model) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{}
	if q := m.sess.CurrentQuestion(); q != nil && q.Type == tree.TypeCheckbox {
		hints = append(hints, layout.KeyHint{Key: "Space", Description: "Toggle"})
	}
	hints = append(hints,
		layout.KeyHint{Key: "Enter", Description: "Continue"},
		layout.KeyHint{Key: "←", Description: "Back"},
		layout.KeyHint{Key: "Esc", Description: "Home"},
		layout.KeyHint{Key: "Ctrl+C", Description: "Quit"},
	)
	return hints
}

// syncInput rebuilds the input component for the current question,
// preloading any previously stored answer so revisits show what was
// picked before.
func (m *Model) syncInput() {
	q := m.sess.CurrentQuestion()
	if q == nil {
		return
	}

	switch q.Type {
	case tree.TypeBoolean, tree.TypeSingleChoice:
		m.choice = components.NewChoiceList(q.Options)
		if ans, ok := m.sess.AnswerFor(q.ID); ok && !ans.IsEmpty() {
			m.choice.SetChoice(ans.First())
		}
	case tree.TypeCheckbox:
		m.checkbox = components.NewCheckboxList(q.Options)
		m.checkbox.Exclusive = q.NoneOption
		if ans, ok := m.sess.AnswerFor(q.ID); ok {
			m.checkbox.SetSelected(ans.Labels)
		}
	}
}

// saveCmd snapshots the session now and persists it off the event loop.
func (m *Model) saveCmd() tea.Cmd {
	st := m.sess.State()
	repo := m.repo
	return func() tea.Msg {
		return savedMsg{err: repo.SaveState(context.Background(), st)}
	}
}

func (m *Model) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case savedMsg:
		m.saveErr = msg.err
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			return m.submit()
		case "left", "backspace":
			if m.sess.Retreat() {
				m.syncInput()
				return m, m.saveCmd()
			}
			return m, nil
		}
	}

	q := m.sess.CurrentQuestion()
	if q == nil {
		return m, nil
	}
	var cmd tea.Cmd
	switch q.Type {
	case tree.TypeBoolean, tree.TypeSingleChoice:
		m.choice, cmd = m.choice.Update(msg)
	case tree.TypeCheckbox:
		m.checkbox, cmd = m.checkbox.Update(msg)
	}
	return m, cmd
}

// submit records the current input as the question's answer and moves
// forward. Completing the assessment swaps this screen for the
// checklist.
func (m *Model) submit() (screen.Screen, tea.Cmd) {
	q := m.sess.CurrentQuestion()
	if q == nil {
		return m, nil
	}

	switch q.Type {
	case tree.TypeBoolean, tree.TypeSingleChoice:
		label := m.choice.Choice()
		if label == "" {
			return m, nil
		}
		if err := m.sess.Answer(q.ID, assessment.Single(label)); err != nil {
			return m, nil
		}
	case tree.TypeCheckbox:
		if err := m.sess.Answer(q.ID, assessment.MultiSelect(m.checkbox.Selected()...)); err != nil {
			return m, nil
		}
	}

	m.sess.Advance()
	save := m.saveCmd()

	if m.sess.IsComplete() {
		next := checklist.New(m.tree, m.sess.Checklist())
		return m, tea.Batch(save, func() tea.Msg {
			return router.ReplaceScreenMsg{Screen: next}
		})
	}

	m.syncInput()
	return m, save
}

func (m *Model) View(width, height int) string {
	q := m.sess.CurrentQuestion()
	if q == nil {
		return theme.Hint.Render("  Assessment complete.")
	}

	var b strings.Builder
	b.WriteString("\n")

	text := lipgloss.NewStyle().
		Foreground(theme.Text).
		Bold(true).
		Width(width - 4).
		Render(q.Text)
	b.WriteString(indent(text, 2) + "\n\n")

	if q.Help != "" {
		help := theme.Hint.Width(width - 4).Render(q.Help)
		b.WriteString(indent(help, 2) + "\n\n")
	}

	switch q.Type {
	case tree.TypeBoolean, tree.TypeSingleChoice:
		b.WriteString(m.choice.View())
	case tree.TypeCheckbox:
		b.WriteString(m.checkbox.View())
	default:
		b.WriteString(theme.Hint.Render("  Press Enter to continue."))
		b.WriteString("\n")
	}

	if answered, total := m.sess.Progress(); total > 0 {
		bar := components.NewProgressBar("", float64(answered)/float64(total), true, width-8)
		b.WriteString("\n  " + bar.View() + "\n")
	}

	if pending := m.sess.Pending(); len(pending) > 0 {
		b.WriteString("\n" + theme.Hint.Render(
			fmt.Sprintf("  %d branch(es) still to visit", len(pending))) + "\n")
	}

	if m.saveErr != nil {
		b.WriteString("\n" + lipgloss.NewStyle().
			Foreground(theme.Error).
			Render("  Autosave failed: "+m.saveErr.Error()) + "\n")
	}

	return b.String()
}

func indent(s string, n int) string {
	pad := strings.Repeat(" ", n)
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = pad + l
	}
	return strings.Join(lines, "\n")
}
