package logger

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/harrison/persona/internal/models"
)

// colorScheme defines consistent colors for score output.
// Green: positive totals
// Red: negative totals
// Yellow: the leading category
// Cyan: category labels
type colorScheme struct {
	positive *color.Color
	negative *color.Color
	leader   *color.Color
	label    *color.Color
}

func newColorScheme() *colorScheme {
	return &colorScheme{
		positive: color.New(color.FgGreen),
		negative: color.New(color.FgRed),
		leader:   color.New(color.FgYellow, color.Bold),
		label:    color.New(color.FgCyan),
	}
}

const scoreBarWidth = 20

// formatScoreLines renders one aligned line per category:
// "<name>  <points>  <bar>", with the bar scaled to the largest magnitude.
func formatScoreLines(scores []models.CategoryScore, colored bool) []string {
	if len(scores) == 0 {
		return nil
	}

	nameWidth := 0
	maxAbs := 0.0
	best := math.Inf(-1)
	for _, s := range scores {
		nameWidth = max(nameWidth, len(s.Name))
		maxAbs = max(maxAbs, math.Abs(s.Points))
		best = max(best, s.Points)
	}

	scheme := newColorScheme()
	lines := make([]string, 0, len(scores))
	for _, s := range scores {
		name := fmt.Sprintf("%-*s", nameWidth, s.Name)
		points := fmt.Sprintf("%8s", strconv.FormatFloat(s.Points, 'f', -1, 64))
		bar := scoreBar(s.Points, maxAbs)

		if colored {
			name = scheme.label.Sprint(name)
			switch {
			case s.Points == best && s.Points != 0:
				points = scheme.leader.Sprint(points)
			case s.Points < 0:
				points = scheme.negative.Sprint(points)
			default:
				points = scheme.positive.Sprint(points)
			}
		}
		lines = append(lines, strings.TrimRight(fmt.Sprintf("%s %s  %s", name, points, bar), " "))
	}
	return lines
}

// scoreBar draws |points| scaled against maxAbs, using "-" for negative totals
func scoreBar(points, maxAbs float64) string {
	if maxAbs == 0 {
		return ""
	}
	n := int(math.Round(math.Abs(points) / maxAbs * scoreBarWidth))
	if points < 0 {
		return strings.Repeat("-", n)
	}
	return strings.Repeat("#", n)
}
