// Package scoring accumulates category points from selected choices and
// decides which results match the final totals.
package scoring

import (
	"fmt"
	"slices"

	"github.com/harrison/persona/internal/logger"
	"github.com/harrison/persona/internal/models"
)

// Engine scores one survey instance. It must be confined to a single session:
// category totals live on the survey and are mutated without locking.
type Engine struct {
	survey *models.Survey
	log    logger.Logger

	// results is a sorted view built on first evaluation; survey.Results keeps
	// declaration order so serialization is unaffected
	results     []*models.Result
	initialized bool
}

// New creates an Engine over survey. A nil logger discards all messages.
func New(survey *models.Survey, log logger.Logger) *Engine {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &Engine{survey: survey, log: log}
}

// Survey returns the scored survey
func (e *Engine) Survey() *models.Survey {
	return e.survey
}

// ApplyChoice adds every adjustment of choice to its target category.
// It panics when an adjustment names a category that does not exist.
func (e *Engine) ApplyChoice(choice *models.Choice) {
	for _, adj := range choice.Adjustments {
		c := e.survey.Category(adj.Category)
		c.Points += adj.Delta
		e.log.LogTrace(fmt.Sprintf("%q: %+g -> %g (choice %q)", c.Name, adj.Delta, c.Points, choice.Text))
	}
}

// Reset zeroes every category total
func (e *Engine) Reset() {
	e.survey.ResetPoints()
}

// EvaluateResults returns every result whose requirements all hold against the
// current totals, in the deterministic result order (clause count, then clause
// by clause; ties keep declaration order). It does not modify any totals and
// can be called repeatedly.
func (e *Engine) EvaluateResults() []*models.Result {
	if !e.initialized {
		e.results = slices.Clone(e.survey.Results)
		slices.SortStableFunc(e.results, models.CompareResults)
		e.initialized = true
	}

	var matched []*models.Result
	for _, r := range e.results {
		if Matches(r, e.survey) {
			matched = append(matched, r)
		}
	}
	e.log.LogDebug(fmt.Sprintf("%d of %d results matched", len(matched), len(e.results)))
	return matched
}

// ResultTexts returns the texts of EvaluateResults
func (e *Engine) ResultTexts() []string {
	matched := e.EvaluateResults()
	texts := make([]string, len(matched))
	for i, r := range matched {
		texts[i] = r.Text
	}
	return texts
}

// Categories returns a snapshot of every category total ordered by ordinal
func (e *Engine) Categories() []models.CategoryScore {
	scores := make([]models.CategoryScore, len(e.survey.Categories))
	for i, c := range e.survey.Categories {
		scores[i] = models.CategoryScore{Ordinal: c.Ordinal, Name: c.Name, Points: c.Points}
	}
	slices.SortStableFunc(scores, func(a, b models.CategoryScore) int {
		return a.Ordinal - b.Ordinal
	})
	return scores
}

// Matches reports whether every requirement of r holds, stopping at the first
// that does not
func Matches(r *models.Result, s *models.Survey) bool {
	for _, req := range r.Requirements {
		if !Holds(req, s) {
			return false
		}
	}
	return true
}

// Holds evaluates a single requirement against the survey's current totals.
// It panics when the requirement names a category that does not exist.
func Holds(req models.Requirement, s *models.Survey) bool {
	switch req.Kind {
	case models.KindRange:
		p := s.Category(req.Category).Points
		return req.Min <= p && p <= req.Max
	case models.KindIsMax:
		p := s.Category(req.Category).Points
		for _, c := range s.Categories {
			if c.Points > p {
				return false
			}
		}
		return true
	case models.KindLessThan:
		return s.Category(req.Category).Points > s.Category(req.Other).Points
	default:
		panic(fmt.Sprintf("unknown requirement kind %d", req.Kind))
	}
}
