package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harrison/persona/internal/models"
	"github.com/harrison/persona/internal/session"
)

func testSurvey() *models.Survey {
	s := &models.Survey{
		Title:      "Colors",
		Categories: []*models.Category{{Name: "Warm", Ordinal: 1}, {Name: "Cool", Ordinal: 2}},
		Results:    []*models.Result{{Text: "Warm palette", Requirements: []models.Requirement{models.NewIsMax(1)}}},
	}
	for _, text := range []string{"First?", "Second?"} {
		s.Questions = append(s.Questions, &models.Question{
			Text: text,
			Choices: []*models.Choice{
				{Text: "Red", Adjustments: []models.Adjustment{{Category: 1, Delta: 1}}},
				{Text: "Blue", Adjustments: []models.Adjustment{{Category: 2, Delta: 1}}},
				{Text: "Green"},
			},
		})
	}
	return s
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, m Model, msgs ...tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, msg := range msgs {
		var next tea.Model
		next, cmd = m.Update(msg)
		var ok bool
		m, ok = next.(Model)
		require.True(t, ok)
	}
	return m, cmd
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func TestNewStartsSession(t *testing.T) {
	s := session.New(testSurvey())
	m := New(s)
	assert.Equal(t, session.StateInProgress, s.State())
	assert.Zero(t, m.Cursor())
	assert.Nil(t, m.Init())
}

func TestCursorMovement(t *testing.T) {
	m := New(session.New(testSurvey()))

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 0, m.Cursor(), "clamped at the top")

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyDown}, runes("j"), runes("j"))
	assert.Equal(t, 2, m.Cursor(), "clamped at the bottom")

	m, _ = press(t, m, runes("k"))
	assert.Equal(t, 1, m.Cursor())
}

func TestEnterSelectsAndAdvances(t *testing.T) {
	s := session.New(testSurvey())
	m := New(s)

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyDown}, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, 1, s.Index(), "moved to the second question")
	assert.Equal(t, 0, m.Cursor(), "unanswered question starts at the top")

	c, ok := s.Answer(s.Survey().Questions[0])
	require.True(t, ok)
	assert.Equal(t, "Blue", c.Text)
}

func TestDigitPicks(t *testing.T) {
	s := session.New(testSurvey())
	m := New(s)

	m, _ = press(t, m, runes("3"))
	c, _ := s.Answer(s.Survey().Questions[0])
	assert.Equal(t, "Green", c.Text)

	m, _ = press(t, m, runes("9"))
	assert.Equal(t, "There is no choice 9", m.Status())
	assert.Equal(t, 1, s.Answered())

	m, _ = press(t, m, runes("1"))
	assert.Equal(t, "All questions answered, press s to submit", m.Status())
}

func TestPreviousRestoresAnswerCursor(t *testing.T) {
	s := session.New(testSurvey())
	m := New(s)

	m, _ = press(t, m, runes("2"))
	require.Equal(t, 1, s.Index())

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	assert.Equal(t, 0, s.Index())
	assert.Equal(t, 1, m.Cursor(), "cursor sits on the recorded answer")

	m, _ = press(t, m, runes("l"))
	assert.Equal(t, 1, s.Index())
	assert.Equal(t, 0, m.Cursor())
}

func TestSubmitIncompleteJumpsToMissing(t *testing.T) {
	s := session.New(testSurvey())
	m := New(s)

	m, _ = press(t, m, runes("l"), runes("1"))
	assert.Equal(t, "Still unanswered: 1", m.Status())

	m, cmd := press(t, m, runes("s"))
	assert.False(t, isQuit(cmd))
	assert.False(t, m.Submitted())
	assert.Equal(t, "Answer question(s) 1 before submitting", m.Status())
	assert.Equal(t, 0, s.Index(), "jumped to the first unanswered question")
	assert.Equal(t, session.StateInProgress, s.State())
}

func TestSubmit(t *testing.T) {
	s := session.New(testSurvey())
	m := New(s)

	m, cmd := press(t, m, runes("1"), runes("1"), runes("s"))
	assert.True(t, isQuit(cmd))
	assert.True(t, m.Submitted())
	assert.Equal(t, session.StateCompleted, s.State())
	assert.Equal(t, []string{"Warm palette"}, s.ResultTexts())
	assert.Empty(t, m.View())
}

func TestQuit(t *testing.T) {
	for _, msg := range []tea.KeyMsg{runes("q"), {Type: tea.KeyCtrlC}, {Type: tea.KeyEsc}} {
		m := New(session.New(testSurvey()))
		m, cmd := press(t, m, msg)
		assert.True(t, isQuit(cmd), msg.String())
		assert.False(t, m.Submitted())
	}
}

func TestView(t *testing.T) {
	s := session.New(testSurvey())
	m := New(s)
	m, _ = press(t, m, tea.WindowSizeMsg{Width: 80, Height: 24}, runes("2"), tea.KeyMsg{Type: tea.KeyLeft})

	view := m.View()
	assert.Contains(t, view, "Colors")
	assert.Contains(t, view, "Question 1 of 2, 1 answered")
	assert.Contains(t, view, "First?")
	assert.Contains(t, view, "1. ( ) Red")
	assert.Contains(t, view, "> ")
	assert.Contains(t, view, "Blue")
	assert.Contains(t, view, "submit")
}

func TestEmptySurvey(t *testing.T) {
	s := session.New(&models.Survey{Title: "Nothing"})
	m := New(s)
	assert.Contains(t, m.View(), "no questions")

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEnter}, tea.KeyMsg{Type: tea.KeyDown})
	m, cmd := press(t, m, runes("s"))
	assert.True(t, isQuit(cmd))
	assert.True(t, m.Submitted())
}
