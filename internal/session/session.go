// Package session drives one user's pass through a survey: a single cursor over
// the questions, one recorded choice per question, and a gated submit that
// scores the answers and evaluates results.
package session

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/harrison/persona/internal/logger"
	"github.com/harrison/persona/internal/models"
	"github.com/harrison/persona/internal/scoring"
)

// State is the lifecycle position of a session
type State int

const (
	// StateUnstarted is the state before the first question is shown
	StateUnstarted State = iota
	// StateInProgress covers navigation and answer collection
	StateInProgress
	// StateCompleted is terminal: answers were scored and results evaluated
	StateCompleted
)

// String returns the string representation of the State
func (s State) String() string {
	switch s {
	case StateUnstarted:
		return "unstarted"
	case StateInProgress:
		return "in_progress"
	case StateCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

var (
	// ErrIncomplete matches *IncompleteError via errors.Is
	ErrIncomplete = errors.New("survey has unanswered questions")
	// ErrAlreadyStarted is returned by Shuffle once a question has been shown
	ErrAlreadyStarted = errors.New("session already started")
	// ErrCompleted is returned by operations that would change a submitted session
	ErrCompleted = errors.New("session already completed")
	// ErrChoiceOutOfRange is returned by Select for an index the question does not offer
	ErrChoiceOutOfRange = errors.New("choice index out of range")
	// ErrNoQuestion is returned by Select when the survey has no questions
	ErrNoQuestion = errors.New("survey has no questions")
)

// IncompleteError lists the 1-based positions of unanswered questions
type IncompleteError struct {
	Missing []int
}

func (e *IncompleteError) Error() string {
	parts := make([]string, len(e.Missing))
	for i, n := range e.Missing {
		parts[i] = strconv.Itoa(n)
	}
	return fmt.Sprintf("missing answers for question(s) %s", strings.Join(parts, ", "))
}

// Is reports whether target is ErrIncomplete
func (e *IncompleteError) Is(target error) bool {
	return target == ErrIncomplete
}

// Session tracks the cursor, recorded answers and lifecycle of one survey run.
// A Session owns its survey: start each session from its own copy (see
// models.Survey.Clone) because scoring mutates category totals.
type Session struct {
	id      string
	survey  *models.Survey
	engine  *scoring.Engine
	log     logger.SessionLogger
	index   int
	state   State
	answers map[*models.Question]*models.Choice
	results []*models.Result
}

// Option configures a Session
type Option func(*Session)

// WithLogger sets the session logger; the default discards all messages
func WithLogger(l logger.SessionLogger) Option {
	return func(s *Session) {
		if l != nil {
			s.log = l
		}
	}
}

// WithID overrides the generated session ID
func WithID(id string) Option {
	return func(s *Session) {
		s.id = id
	}
}

// New starts an unstarted session over survey
func New(survey *models.Survey, opts ...Option) *Session {
	s := &Session{
		id:      uuid.New().String(),
		survey:  survey,
		log:     logger.NewNoOpLogger(),
		answers: make(map[*models.Question]*models.Choice, len(survey.Questions)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.engine = scoring.New(survey, s.log)
	return s
}

// ID returns the session identifier
func (s *Session) ID() string { return s.id }

// Survey returns the survey this session runs over
func (s *Session) Survey() *models.Survey { return s.survey }

// State returns the lifecycle state
func (s *Session) State() State { return s.state }

// Index returns the 0-based cursor position
func (s *Session) Index() int { return s.index }

// Len returns the number of questions
func (s *Session) Len() int { return len(s.survey.Questions) }

func (s *Session) start() {
	if s.state == StateUnstarted {
		s.state = StateInProgress
	}
}

// Current returns the question under the cursor, or nil when the survey has no
// questions. The first call moves an unstarted session to in-progress.
func (s *Session) Current() *models.Question {
	s.start()
	if s.index >= len(s.survey.Questions) {
		return nil
	}
	return s.survey.Questions[s.index]
}

// Next advances the cursor and returns the new current question. At the last
// question it returns nil and leaves the cursor where it is.
func (s *Session) Next() *models.Question {
	s.start()
	if s.index+1 >= len(s.survey.Questions) {
		return nil
	}
	s.index++
	return s.survey.Questions[s.index]
}

// Previous moves the cursor back and returns the new current question. At the
// first question it returns nil and leaves the cursor where it is.
func (s *Session) Previous() *models.Question {
	s.start()
	if s.index == 0 || len(s.survey.Questions) == 0 {
		return nil
	}
	s.index--
	return s.survey.Questions[s.index]
}

// Shuffle permutes the choices of every question and then the question order.
// It must be called before the first question is shown.
func (s *Session) Shuffle(r *rand.Rand) error {
	if s.state != StateUnstarted {
		return ErrAlreadyStarted
	}
	shuffle := rand.Shuffle
	if r != nil {
		shuffle = r.Shuffle
	}
	for _, q := range s.survey.Questions {
		shuffle(len(q.Choices), func(i, j int) {
			q.Choices[i], q.Choices[j] = q.Choices[j], q.Choices[i]
		})
	}
	qs := s.survey.Questions
	shuffle(len(qs), func(i, j int) {
		qs[i], qs[j] = qs[j], qs[i]
	})
	s.log.LogDebug(fmt.Sprintf("shuffled %d questions", len(qs)))
	return nil
}

// Select records the choice at 0-based index for the current question,
// replacing any earlier answer to it.
func (s *Session) Select(index int) error {
	if s.state == StateCompleted {
		return ErrCompleted
	}
	q := s.Current()
	if q == nil {
		return ErrNoQuestion
	}
	if index < 0 || index >= len(q.Choices) {
		return fmt.Errorf("%w: %d (question %d has %d choices)", ErrChoiceOutOfRange, index+1, s.index+1, len(q.Choices))
	}
	s.answers[q] = q.Choices[index]
	s.log.LogProgress(s.Answered(), s.Len())
	return nil
}

// Answer returns the recorded choice for q
func (s *Session) Answer(q *models.Question) (*models.Choice, bool) {
	c, ok := s.answers[q]
	return c, ok
}

// Answers returns the recorded choice per question in question order, nil where
// a question is unanswered
func (s *Session) Answers() []*models.Choice {
	out := make([]*models.Choice, len(s.survey.Questions))
	for i, q := range s.survey.Questions {
		out[i] = s.answers[q]
	}
	return out
}

// Answered returns how many questions have a recorded choice
func (s *Session) Answered() int {
	return len(s.answers)
}

// Unanswered returns the 1-based positions of questions without a choice
func (s *Session) Unanswered() []int {
	var missing []int
	for i, q := range s.survey.Questions {
		if _, ok := s.answers[q]; !ok {
			missing = append(missing, i+1)
		}
	}
	return missing
}

// Submit scores every answer in question order and evaluates results. It is
// rejected with an *IncompleteError, without touching any state, while any
// question is unanswered.
func (s *Session) Submit() ([]*models.Result, error) {
	if s.state == StateCompleted {
		return nil, ErrCompleted
	}
	if missing := s.Unanswered(); len(missing) > 0 {
		return nil, &IncompleteError{Missing: missing}
	}

	for _, q := range s.survey.Questions {
		s.engine.ApplyChoice(s.answers[q])
	}
	s.state = StateCompleted
	s.results = s.engine.EvaluateResults()

	s.log.LogScores(s.engine.Categories())
	s.log.LogResults(s.ResultTexts())
	return s.results, nil
}

// Results returns the matched results of a completed session
func (s *Session) Results() []*models.Result {
	return s.results
}

// ResultTexts returns the texts of the matched results
func (s *Session) ResultTexts() []string {
	texts := make([]string, len(s.results))
	for i, r := range s.results {
		texts[i] = r.Text
	}
	return texts
}

// Categories returns the current category totals ordered by ordinal
func (s *Session) Categories() []models.CategoryScore {
	return s.engine.Categories()
}
