package parser

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/harrison/persona/internal/models"
)

// Serialize renders a survey in the text format accepted by Parse.
// Questions, results and categories are written in their current slice order.
func Serialize(s *models.Survey) string {
	var b strings.Builder
	// strings.Builder never returns a write error
	_ = WriteSurvey(&b, s)
	return b.String()
}

// WriteSurvey writes the text form of s to w
func WriteSurvey(w io.Writer, s *models.Survey) error {
	sw := &surveyWriter{w: w}

	sw.line(s.Title)
	sw.line(fmt.Sprintf("%d # questions", len(s.Questions)))
	for i, q := range s.Questions {
		sw.line("")
		sw.line(fmt.Sprintf("# question %d", i+1))
		sw.line(q.Text)
		sw.line(fmt.Sprintf("%d # choices", len(q.Choices)))
		for _, c := range q.Choices {
			sw.line(c.Text)
			if len(c.Adjustments) > 0 {
				parts := make([]string, 0, 2*len(c.Adjustments))
				for _, adj := range c.Adjustments {
					parts = append(parts, strconv.Itoa(adj.Category), formatNumber(adj.Delta))
				}
				sw.line(strings.Join(parts, " "))
			}
		}
	}

	sw.line("")
	sw.line(fmt.Sprintf("%d # results", len(s.Results)))
	for _, r := range s.Results {
		sw.line(r.Text)
		if len(r.Requirements) > 0 {
			parts := make([]string, 0, len(r.Requirements))
			for _, req := range r.Requirements {
				parts = append(parts, formatRequirement(req))
			}
			sw.line(strings.Join(parts, "  "))
		}
	}

	sw.line("")
	sw.line(fmt.Sprintf("%d # categories", len(s.Categories)))
	for _, c := range s.Categories {
		sw.line(c.Name)
	}

	if s.Website != "" {
		sw.line("")
		sw.line(s.Website)
	}
	return sw.err
}

func formatRequirement(r models.Requirement) string {
	switch r.Kind {
	case models.KindIsMax:
		return fmt.Sprintf("0 %d", r.Category)
	case models.KindLessThan:
		return fmt.Sprintf("-1 %d %d", r.Category, r.Other)
	default:
		return fmt.Sprintf("%d %s %s", r.Category, formatNumber(r.Min), formatNumber(r.Max))
	}
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// surveyWriter keeps the first write error so WriteSurvey reads top to bottom
type surveyWriter struct {
	w   io.Writer
	err error
}

func (sw *surveyWriter) line(s string) {
	if sw.err != nil {
		return
	}
	_, sw.err = io.WriteString(sw.w, s+"\n")
}
