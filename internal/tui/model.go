// Package tui runs a survey session as an interactive terminal program.
package tui

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/harrison/persona/internal/models"
	"github.com/harrison/persona/internal/session"
)

// ErrCancelled is returned by Run when the user quits before submitting
var ErrCancelled = errors.New("survey cancelled")

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	progressStyle = lipgloss.NewStyle().Faint(true)
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	chosenStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	statusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
)

// Model is the bubbletea model for one session
type Model struct {
	sess      *session.Session
	keys      KeyMap
	help      help.Model
	cursor    int
	status    string
	submitted bool
	quitting  bool
}

// New wraps s, which must not have been started if it is to be shuffled
func New(s *session.Session) Model {
	m := Model{
		sess: s,
		keys: DefaultKeyMap(),
		help: help.New(),
	}
	m.syncCursor(s.Current())
	return m
}

// Submitted reports whether the session was submitted successfully
func (m Model) Submitted() bool { return m.submitted }

// Cursor returns the highlighted choice index
func (m Model) Cursor() int { return m.cursor }

// Status returns the current status line
func (m Model) Status() string { return m.status }

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		q := m.sess.Current()
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Submit):
			return m.submit()

		case q == nil:
			return m, nil

		case key.Matches(msg, m.keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, m.keys.Down):
			if m.cursor < len(q.Choices)-1 {
				m.cursor++
			}
		case key.Matches(msg, m.keys.Pick):
			n, _ := strconv.Atoi(msg.String())
			if n > len(q.Choices) {
				m.status = fmt.Sprintf("There is no choice %d", n)
				return m, nil
			}
			m.cursor = n - 1
			m.choose()
		case key.Matches(msg, m.keys.Select):
			m.choose()
		case key.Matches(msg, m.keys.Prev):
			if prev := m.sess.Previous(); prev != nil {
				m.syncCursor(prev)
				m.status = ""
			}
		case key.Matches(msg, m.keys.Next):
			if next := m.sess.Next(); next != nil {
				m.syncCursor(next)
				m.status = ""
			}
		}
	}
	return m, nil
}

// choose records the highlighted choice and moves on to the next question
func (m *Model) choose() {
	if err := m.sess.Select(m.cursor); err != nil {
		m.status = err.Error()
		return
	}
	if next := m.sess.Next(); next != nil {
		m.syncCursor(next)
		m.status = ""
		return
	}
	if missing := m.sess.Unanswered(); len(missing) > 0 {
		m.status = "Still unanswered: " + joinInts(missing)
		return
	}
	m.status = "All questions answered, press s to submit"
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	_, err := m.sess.Submit()
	var incomplete *session.IncompleteError
	switch {
	case errors.As(err, &incomplete):
		m.status = "Answer question(s) " + joinInts(incomplete.Missing) + " before submitting"
		m.jumpTo(incomplete.Missing[0] - 1)
		return m, nil
	case err != nil:
		m.status = err.Error()
		return m, nil
	}
	m.submitted = true
	return m, tea.Quit
}

// jumpTo moves the session cursor to the 0-based question index
func (m *Model) jumpTo(index int) {
	for m.sess.Index() > index {
		if m.sess.Previous() == nil {
			break
		}
	}
	for m.sess.Index() < index {
		if m.sess.Next() == nil {
			break
		}
	}
	m.syncCursor(m.sess.Current())
}

// syncCursor highlights the recorded answer of q, or the first choice
func (m *Model) syncCursor(q *models.Question) {
	m.cursor = 0
	if q == nil {
		return
	}
	if c, ok := m.sess.Answer(q); ok {
		for i, choice := range q.Choices {
			if choice == c {
				m.cursor = i
				return
			}
		}
	}
}

func (m Model) View() string {
	if m.quitting || m.submitted {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(m.sess.Survey().Title))
	b.WriteString("\n")

	q := m.sess.Current()
	if q == nil {
		b.WriteString("\nThis survey has no questions.\n\n")
		b.WriteString(m.help.View(m.keys))
		return b.String()
	}

	b.WriteString(progressStyle.Render(fmt.Sprintf("Question %d of %d, %d answered",
		m.sess.Index()+1, m.sess.Len(), m.sess.Answered())))
	b.WriteString("\n\n")
	b.WriteString(q.Text)
	b.WriteString("\n\n")

	answer, _ := m.sess.Answer(q)
	for i, c := range q.Choices {
		pointer := "  "
		if i == m.cursor {
			pointer = cursorStyle.Render("> ")
		}
		mark := "( )"
		label := c.Text
		if c == answer {
			mark = chosenStyle.Render("(x)")
			label = chosenStyle.Render(label)
		}
		fmt.Fprintf(&b, "%s%d. %s %s\n", pointer, i+1, mark, label)
	}

	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(statusStyle.Render(m.status))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	b.WriteString("\n")
	return b.String()
}

// Run drives s interactively until it is submitted or the user quits
func Run(s *session.Session, in io.Reader, out io.Writer) error {
	p := tea.NewProgram(New(s), tea.WithInput(in), tea.WithOutput(out))
	final, err := p.Run()
	if err != nil {
		return fmt.Errorf("failed to run survey: %w", err)
	}
	if m, ok := final.(Model); !ok || !m.submitted {
		return ErrCancelled
	}
	return nil
}

func joinInts(ns []int) string {
	parts := make([]string, len(ns))
	for i, n := range ns {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ", ")
}
