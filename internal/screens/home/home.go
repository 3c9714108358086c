package home

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/compliz/internal/assessment"
	"github.com/abhisek/compliz/internal/router"
	"github.com/abhisek/compliz/internal/screen"
	"github.com/abhisek/compliz/internal/screens/assess"
	"github.com/abhisek/compliz/internal/screens/checklist"
	"github.com/abhisek/compliz/internal/store"
	"github.com/abhisek/compliz/internal/tree"
	"github.com/abhisek/compliz/internal/ui/components"
	"github.com/abhisek/compliz/internal/ui/theme"
)

// loadedMsg carries the saved sessions found on startup. A corrupt row
// is reported through notice and otherwise treated as absent.
type loadedMsg struct {
	resumable *assessment.Session
	completed []assessment.Entry
	notice    string
}

// Model is the entry menu.
type Model struct {
	tree *tree.Tree
	repo store.AssessmentRepo

	menu      components.Menu
	resumable *assessment.Session
	completed []assessment.Entry
	notice    string
}

// New creates the home screen. Saved-session lookup happens in Init.
func New(t *tree.Tree, repo store.AssessmentRepo) *Model {
	m := &Model{tree: t, repo: repo}
	m.rebuildMenu()
	return m
}

func (m *Model) Init() tea.Cmd {
	t, repo := m.tree, m.repo
	return func() tea.Msg {
		var msg loadedMsg
		ctx := context.Background()

		active, err := repo.LoadActive(ctx)
		if errors.Is(err, store.ErrCorrupt) {
			msg.notice = "A saved assessment could not be read and was set aside."
		}
		if active != nil {
			sess, err := assessment.Restore(t, *active)
			if err != nil {
				msg.notice = "A saved assessment no longer matches the decision tree and was set aside."
			} else {
				msg.resumable = sess
			}
		}

		done, err := repo.LoadCompleted(ctx)
		if err == nil && done != nil {
			msg.completed = done.Checklist
		}
		return msg
	}
}

func (m *Model) Title() string {
	return "Home"
}

func (m *Model) rebuildMenu() {
	push := func(s screen.Screen) func() tea.Cmd {
		return func() tea.Cmd {
			return func() tea.Msg { return router.PushScreenMsg{Screen: s} }
		}
	}

	items := []components.MenuItem{
		{
			Label: "Start a new assessment",
			Action: func() tea.Cmd {
				prev := m.resumable
				sess := assessment.New(m.tree)
				repo := m.repo
				return func() tea.Msg {
					// Starting over supersedes the unfinished assessment.
					if prev != nil {
						_ = repo.Delete(context.Background(), prev.ID())
					}
					return router.PushScreenMsg{Screen: assess.New(sess, repo)}
				}
			},
		},
		{
			Label:    "Resume saved assessment",
			Disabled: m.resumable == nil,
			Action: func() tea.Cmd {
				if m.resumable == nil {
					return nil
				}
				return push(assess.New(m.resumable, m.repo))()
			},
		},
		{
			Label:    "View last checklist",
			Disabled: m.completed == nil,
			Action: func() tea.Cmd {
				if m.completed == nil {
					return nil
				}
				return push(checklist.New(m.tree, m.completed))()
			},
		},
		{
			Label:  "Exit",
			Action: func() tea.Cmd { return tea.Quit },
		},
	}
	m.menu = components.NewMenu(items)
}

func (m *Model) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		m.resumable = msg.resumable
		m.completed = msg.completed
		m.notice = msg.notice
		m.rebuildMenu()
		return m, nil
	}

	var cmd tea.Cmd
	m.menu, cmd = m.menu.Update(msg)
	return m, cmd
}

func (m *Model) View(width, height int) string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(theme.Title.Width(width).Render(m.tree.Title()) + "\n")

	sub := "Answer a few questions to build your study's regulatory checklist."
	if lu := m.tree.LastUpdated(); lu != "" {
		sub += "  " + lu + "."
	}
	b.WriteString(theme.Subtitle.Width(width).Render(sub) + "\n\n")

	if m.resumable != nil {
		answered, total := m.resumable.Progress()
		b.WriteString(theme.Hint.Width(width).Align(lipgloss.Center).Render(
			fmt.Sprintf("An assessment is in progress (%d of %d questions answered).", answered, total)) + "\n\n")
	}

	b.WriteString(m.menu.View())

	if m.notice != "" {
		b.WriteString("\n" + theme.Hint.Width(width).Render("  "+m.notice) + "\n")
	}
	return b.String()
}
