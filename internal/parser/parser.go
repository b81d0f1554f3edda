// Package parser reads and writes the plain-text survey format.
//
// A document lists, in fixed order: the title line, the question count, each
// question (text line, choice count, then per choice a text line followed by
// "category delta" pairs), the result count, each result (text line followed by
// requirement groups), the category count, one name line per category, and a
// trailing website URL. "#" starts a comment anywhere a token is expected and
// whole comment lines are ignored where a text line is expected.
//
// Requirement groups are discriminated by their leading integer:
//
//	N min max   Range: category N must score within [min, max]
//	0 N         IsMax: category N must score at least as high as every other
//	-1 A B      LessThan: category A must outscore category B
package parser

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"

	"github.com/harrison/persona/internal/logger"
	"github.com/harrison/persona/internal/models"
)

// ErrParse matches every *ParseError via errors.Is
var ErrParse = errors.New("survey parse error")

// ParseError reports a document that does not follow the survey grammar.
// A failed parse never yields a partially built survey.
type ParseError struct {
	Line int    // 1-based line where the problem was detected
	Msg  string // What was expected
	Err  error  // Underlying cause, if any
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrParse
func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}

// SurveyParser converts survey documents into models.Survey values
type SurveyParser struct {
	log logger.Logger
}

// New creates a SurveyParser. A nil logger discards all messages.
func New(log logger.Logger) *SurveyParser {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &SurveyParser{log: log}
}

// Parse reads the whole document from r and parses it
func (p *SurveyParser) Parse(r io.Reader) (*models.Survey, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read survey: %w", err)
	}
	return p.ParseString(string(content))
}

// ParseString parses a complete document held in memory
func (p *SurveyParser) ParseString(text string) (*models.Survey, error) {
	sc := newScanner(text)
	survey, err := p.parse(sc)
	if err != nil {
		p.log.LogDebug(fmt.Sprintf("survey parse failed: %v", err))
		return nil, err
	}
	p.log.LogDebug(fmt.Sprintf("parsed survey %q: %d questions, %d results, %d categories",
		survey.Title, len(survey.Questions), len(survey.Results), len(survey.Categories)))
	return survey, nil
}

// Parse is a convenience wrapper around New(nil).ParseString
func Parse(text string) (*models.Survey, error) {
	return New(nil).ParseString(text)
}

// ParseFile opens and parses the survey at path
func ParseFile(path string, log logger.Logger) (*models.Survey, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open survey: %w", err)
	}
	defer file.Close()

	survey, err := New(log).Parse(file)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return survey, nil
}

func (p *SurveyParser) parse(sc *scanner) (*models.Survey, error) {
	title, ok := sc.readLine()
	if !ok {
		return nil, failAt(sc, "expected survey title, got end of input")
	}
	survey := &models.Survey{Title: title}

	questionCount, err := readCount(sc, "question count")
	if err != nil {
		return nil, err
	}
	for i := 1; i <= questionCount; i++ {
		q, err := parseQuestion(sc, i)
		if err != nil {
			return nil, err
		}
		survey.Questions = append(survey.Questions, q)
	}

	resultCount, err := readCount(sc, "result count")
	if err != nil {
		return nil, err
	}
	for i := 1; i <= resultCount; i++ {
		sc.skipLine()
		text, ok := sc.readLine()
		if !ok {
			return nil, failAt(sc, fmt.Sprintf("result %d: expected text, got end of input", i))
		}
		reqs, err := parseRequirements(sc)
		if err != nil {
			return nil, err
		}
		survey.Results = append(survey.Results, &models.Result{Text: text, Requirements: reqs})
	}

	categoryCount, err := readCount(sc, "category count")
	if err != nil {
		return nil, err
	}
	for i := 1; i <= categoryCount; i++ {
		sc.skipLine()
		name, ok := sc.readLine()
		if !ok {
			return nil, failAt(sc, fmt.Sprintf("category %d: expected name, got end of input", i))
		}
		survey.Categories = append(survey.Categories, &models.Category{Name: name, Ordinal: i})
	}

	sc.skipLine()
	survey.Website, _ = sc.next()

	return survey, nil
}

func parseQuestion(sc *scanner, n int) (*models.Question, error) {
	sc.skipLine()
	text, ok := sc.readLine()
	if !ok {
		return nil, failAt(sc, fmt.Sprintf("question %d: expected text, got end of input", n))
	}
	q := &models.Question{Text: text}

	choiceCount, err := readCount(sc, fmt.Sprintf("choice count for question %d", n))
	if err != nil {
		return nil, err
	}
	for i := 1; i <= choiceCount; i++ {
		sc.skipLine()
		label, ok := sc.readLine()
		if !ok {
			return nil, failAt(sc, fmt.Sprintf("question %d, choice %d: expected text, got end of input", n, i))
		}
		q.Choices = append(q.Choices, &models.Choice{
			Text:        label,
			Adjustments: parseAdjustments(sc),
		})
	}
	return q, nil
}

// parseAdjustments reads "category delta" pairs until the next two tokens
// no longer form one. A line that starts with an integer below 1 also ends
// the list, so an empty result count after the last choice is not taken as a
// pair. Within a line any integer ordinal is kept and left to Survey.Validate.
func parseAdjustments(sc *scanner) []models.Adjustment {
	var adjustments []models.Adjustment
	for {
		m := sc.mark()
		newLine := sc.startsLine()
		category, ok := sc.tryInt()
		if !ok || (newLine && category < 1) {
			sc.reset(m)
			return adjustments
		}
		delta, ok := sc.tryFloat()
		if !ok {
			sc.reset(m)
			return adjustments
		}
		adjustments = append(adjustments, models.Adjustment{Category: category, Delta: delta})
	}
}

// parseRequirements reads requirement groups until the upcoming tokens no
// longer form a complete group. LessThan operands name categories and must be
// whole numbers.
func parseRequirements(sc *scanner) ([]models.Requirement, error) {
	var reqs []models.Requirement
	for {
		m := sc.mark()
		kind, ok := sc.tryInt()
		if !ok {
			return reqs, nil
		}

		if kind == 0 {
			target, ok := sc.tryInt()
			if !ok {
				sc.reset(m)
				return reqs, nil
			}
			reqs = append(reqs, models.NewIsMax(target))
			continue
		}

		lo, ok := sc.tryFloat()
		if !ok {
			sc.reset(m)
			return reqs, nil
		}
		hi, ok := sc.tryFloat()
		if !ok {
			sc.reset(m)
			return reqs, nil
		}
		if kind < 0 {
			if lo != math.Trunc(lo) || hi != math.Trunc(hi) {
				return nil, failAt(sc, fmt.Sprintf("comparison %d %s %s: category numbers must be whole",
					kind, strconv.FormatFloat(lo, 'g', -1, 64), strconv.FormatFloat(hi, 'g', -1, 64)))
			}
			reqs = append(reqs, models.NewLessThan(int(lo), int(hi)))
		} else {
			reqs = append(reqs, models.NewRange(kind, lo, hi))
		}
	}
}

func readCount(sc *scanner, what string) (int, error) {
	tok, ok := sc.next()
	if !ok {
		return 0, failAt(sc, fmt.Sprintf("expected %s, got end of input", what))
	}
	n, err := strconv.Atoi(tok)
	if err != nil {
		return 0, &ParseError{Line: sc.line(), Msg: fmt.Sprintf("expected %s, got %q", what, tok), Err: err}
	}
	if n < 0 {
		return 0, failAt(sc, fmt.Sprintf("%s must not be negative, got %d", what, n))
	}
	return n, nil
}

func failAt(sc *scanner, msg string) error {
	return &ParseError{Line: sc.line(), Msg: msg}
}
