package models

import (
	"errors"
	"fmt"
)

// Category is a scoring dimension ("type") that accumulates points
type Category struct {
	Name    string  // Display name, trimmed
	Ordinal int     // 1-based declaration position, addressed by choices and requirements
	Points  float64 // Running total, starts at 0
}

// CategoryScore is a read-only snapshot of one category total
type CategoryScore struct {
	Ordinal int
	Name    string
	Points  float64
}

// Adjustment adds Delta points to the category with ordinal Category
type Adjustment struct {
	Category int     // Target category ordinal (>= 1)
	Delta    float64 // Point change, may be negative
}

// Choice is one selectable answer to a question
type Choice struct {
	Text        string       // Display label
	Adjustments []Adjustment // Applied when the choice is selected; order kept for serialization
}

// Question is a prompt with a closed set of choices
type Question struct {
	Text    string    // Prompt text
	Choices []*Choice // Display order
}

// Survey is the parsed root document plus the per-session point totals
type Survey struct {
	Title      string
	Questions  []*Question // Declaration order unless shuffled by a session
	Results    []*Result   // Declaration order; never re-sorted in place
	Categories []*Category // Declaration order, Ordinal == index+1
	Website    string
}

// Category returns the category with the given 1-based ordinal.
// It panics when the ordinal is out of range: a reference to a category that
// does not exist is an authoring error in the source document.
func (s *Survey) Category(ordinal int) *Category {
	if ordinal < 1 || ordinal > len(s.Categories) {
		panic(fmt.Sprintf("category ordinal %d out of range 1..%d", ordinal, len(s.Categories)))
	}
	return s.Categories[ordinal-1]
}

// ResetPoints sets every category total back to zero
func (s *Survey) ResetPoints() {
	for _, c := range s.Categories {
		c.Points = 0
	}
}

// Clone deep-copies the survey structure. Category points are copied as-is;
// callers starting a fresh session call ResetPoints on the clone.
func (s *Survey) Clone() *Survey {
	out := &Survey{
		Title:      s.Title,
		Website:    s.Website,
		Questions:  make([]*Question, len(s.Questions)),
		Results:    make([]*Result, len(s.Results)),
		Categories: make([]*Category, len(s.Categories)),
	}
	for i, q := range s.Questions {
		nq := &Question{Text: q.Text, Choices: make([]*Choice, len(q.Choices))}
		for j, c := range q.Choices {
			nq.Choices[j] = &Choice{
				Text:        c.Text,
				Adjustments: append([]Adjustment(nil), c.Adjustments...),
			}
		}
		out.Questions[i] = nq
	}
	for i, r := range s.Results {
		out.Results[i] = &Result{
			Text:         r.Text,
			Requirements: append([]Requirement(nil), r.Requirements...),
		}
	}
	for i, c := range s.Categories {
		cp := *c
		out.Categories[i] = &cp
	}
	return out
}

// Validate checks that the document is internally consistent: every category
// ordinal referenced by a choice or requirement exists and every question offers
// at least one choice. It collects all problems rather than stopping at the first.
func (s *Survey) Validate() error {
	var errs []error
	n := len(s.Categories)

	if s.Title == "" {
		errs = append(errs, errors.New("survey title is required"))
	}
	for i, c := range s.Categories {
		if c.Name == "" {
			errs = append(errs, fmt.Errorf("category %d: name is required", i+1))
		}
		if c.Ordinal != i+1 {
			errs = append(errs, fmt.Errorf("category %q: ordinal %d does not match position %d", c.Name, c.Ordinal, i+1))
		}
	}
	for qi, q := range s.Questions {
		if len(q.Choices) == 0 {
			errs = append(errs, fmt.Errorf("question %d: no choices", qi+1))
		}
		for ci, c := range q.Choices {
			for _, adj := range c.Adjustments {
				if adj.Category < 1 || adj.Category > n {
					errs = append(errs, fmt.Errorf("question %d, choice %d: category %d out of range 1..%d", qi+1, ci+1, adj.Category, n))
				}
			}
		}
	}
	for ri, r := range s.Results {
		for _, req := range r.Requirements {
			for _, ord := range req.Ordinals() {
				if ord < 1 || ord > n {
					errs = append(errs, fmt.Errorf("result %d: %s references category %d out of range 1..%d", ri+1, req, ord, n))
				}
			}
		}
	}
	return errors.Join(errs...)
}
