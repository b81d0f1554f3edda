// Package report renders the outcome of a completed session as Markdown, HTML
// or colored terminal text, and writes report files atomically.
package report

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html"
	"io"
	"math"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/harrison/persona/internal/filelock"
	"github.com/harrison/persona/internal/models"
	"github.com/harrison/persona/internal/session"
)

// ErrNotCompleted is returned by FromSession for a session that was not submitted
var ErrNotCompleted = errors.New("session is not completed")

const barWidth = 20

// Answer pairs a question with the chosen text
type Answer struct {
	Question string
	Choice   string
}

// Report is the printable outcome of one session
type Report struct {
	SessionID   string
	SurveyTitle string
	Website     string
	CompletedAt time.Time
	Answers     []Answer
	Scores      []models.CategoryScore
	Results     []string
}

// FromSession builds a report from a completed session
func FromSession(s *session.Session) (*Report, error) {
	if s.State() != session.StateCompleted {
		return nil, ErrNotCompleted
	}

	survey := s.Survey()
	r := &Report{
		SessionID:   s.ID(),
		SurveyTitle: survey.Title,
		Website:     survey.Website,
		CompletedAt: time.Now(),
		Scores:      s.Categories(),
		Results:     s.ResultTexts(),
	}
	answers := s.Answers()
	for i, q := range survey.Questions {
		r.Answers = append(r.Answers, Answer{Question: q.Text, Choice: answers[i].Text})
	}
	return r, nil
}

// Markdown renders the report as a Markdown document
func (r *Report) Markdown() string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", r.SurveyTitle)
	if !r.CompletedAt.IsZero() || r.SessionID != "" {
		var meta []string
		if !r.CompletedAt.IsZero() {
			meta = append(meta, "Completed "+r.CompletedAt.UTC().Format("2006-01-02 15:04 UTC"))
		}
		if r.SessionID != "" {
			meta = append(meta, "session `"+r.SessionID+"`")
		}
		fmt.Fprintf(&b, "_%s_\n\n", strings.Join(meta, ", "))
	}

	b.WriteString("## Scores\n\n")
	b.WriteString("| Category | Points | |\n")
	b.WriteString("|---|---:|---|\n")
	maxAbs := maxMagnitude(r.Scores)
	for _, sc := range r.Scores {
		bar := bar(sc.Points, maxAbs)
		if bar != "" {
			bar = "`" + bar + "`"
		}
		fmt.Fprintf(&b, "| %s | %s | %s |\n", escapeCell(sc.Name), formatPoints(sc.Points), bar)
	}

	b.WriteString("\n## Results\n\n")
	if len(r.Results) == 0 {
		b.WriteString("_No results matched._\n")
	}
	for _, text := range r.Results {
		fmt.Fprintf(&b, "- %s\n", text)
	}

	if len(r.Answers) > 0 {
		b.WriteString("\n## Answers\n\n")
		for i, a := range r.Answers {
			fmt.Fprintf(&b, "%d. **%s**: %s\n", i+1, a.Question, a.Choice)
		}
	}

	if r.Website != "" {
		fmt.Fprintf(&b, "\nMore information: <%s>\n", r.Website)
	}
	return b.String()
}

// HTML renders the Markdown report through goldmark into a standalone page
func (r *Report) HTML() (string, error) {
	md := goldmark.New(goldmark.WithExtensions(extension.Table, extension.Linkify))

	var body bytes.Buffer
	if err := md.Convert([]byte(r.Markdown()), &body); err != nil {
		return "", fmt.Errorf("failed to render report: %w", err)
	}

	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&b, "<title>%s</title>\n", html.EscapeString(r.SurveyTitle))
	b.WriteString("</head>\n<body>\n")
	b.Write(body.Bytes())
	b.WriteString("</body>\n</html>\n")
	return b.String(), nil
}

// WriteText prints a terminal summary of the scores and matched results
func (r *Report) WriteText(w io.Writer, colored bool) error {
	paint := func(c *color.Color, s string) string {
		if !colored {
			return s
		}
		return c.Sprint(s)
	}
	bold := color.New(color.Bold)
	cyan := color.New(color.FgCyan)
	green := color.New(color.FgGreen)
	red := color.New(color.FgRed)
	yellow := color.New(color.FgYellow)

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\n", paint(bold, r.SurveyTitle))

	nameWidth := 0
	for _, sc := range r.Scores {
		nameWidth = max(nameWidth, len(sc.Name))
	}
	maxAbs := maxMagnitude(r.Scores)
	for _, sc := range r.Scores {
		barColor := green
		if sc.Points < 0 {
			barColor = red
		}
		line := fmt.Sprintf("  %s %8s  %s",
			paint(cyan, fmt.Sprintf("%-*s", nameWidth, sc.Name)),
			formatPoints(sc.Points),
			paint(barColor, bar(sc.Points, maxAbs)))
		b.WriteString(strings.TrimRight(line, " ") + "\n")
	}

	b.WriteString("\n")
	if len(r.Results) == 0 {
		b.WriteString(paint(yellow, "No results matched") + "\n")
	} else {
		b.WriteString(paint(bold, "Results") + "\n")
		for _, text := range r.Results {
			fmt.Fprintf(&b, "  %s %s\n", paint(green, "*"), text)
		}
	}
	if r.Website != "" {
		fmt.Fprintf(&b, "\nMore information: %s\n", r.Website)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// Write renders r according to the extension of path (.html or .htm for HTML,
// anything else for Markdown) and writes it atomically under a file lock.
func Write(ctx context.Context, path string, r *Report) error {
	var content string
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		out, err := r.HTML()
		if err != nil {
			return err
		}
		content = out
	default:
		content = r.Markdown()
	}

	if err := filelock.LockAndWrite(ctx, path, []byte(content)); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

// DefaultPath names a report file for a session inside dir
func DefaultPath(dir, sessionID, ext string) string {
	return filepath.Join(dir, "session-"+sessionID+ext)
}

func maxMagnitude(scores []models.CategoryScore) float64 {
	m := 0.0
	for _, sc := range scores {
		m = max(m, math.Abs(sc.Points))
	}
	return m
}

func bar(points, maxAbs float64) string {
	if maxAbs == 0 {
		return ""
	}
	n := int(math.Round(math.Abs(points) / maxAbs * barWidth))
	if points < 0 {
		return strings.Repeat("-", n)
	}
	return strings.Repeat("#", n)
}

func formatPoints(p float64) string {
	return strconv.FormatFloat(p, 'f', -1, 64)
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
