package display

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Warning represents a user-facing warning message
type Warning struct {
	Title      string   // Main warning title
	Message    string   // Detailed explanation (optional)
	Files      []string // Related files (optional)
	Suggestion string   // Action to take (optional)
}

// Display shows a formatted warning in yellow
func (w Warning) Display(out io.Writer) {
	var b strings.Builder

	b.WriteString("\x1b[33m")
	b.WriteString("⚠️  Warning: ")
	b.WriteString(w.Title)
	b.WriteString("\n")

	if w.Message != "" {
		b.WriteString("    ")
		b.WriteString(w.Message)
		b.WriteString("\n")
	}

	if len(w.Files) > 0 {
		if len(w.Files) == 1 {
			b.WriteString("    Affected file:\n")
		} else {
			b.WriteString("    Affected files:\n")
		}
		for i, file := range w.Files {
			fmt.Fprintf(&b, "      %d. %s\n", i+1, file)
		}
	}

	if w.Suggestion != "" {
		b.WriteString("    Suggestion:\n")
		b.WriteString("    ")
		b.WriteString(w.Suggestion)
		b.WriteString("\n")
	}

	b.WriteString("\x1b[0m")
	fmt.Fprint(out, b.String())
}

// WarnInvalidSurveys creates a warning for survey files that failed to parse
func WarnInvalidSurveys(files []string) Warning {
	title := "Invalid survey file"
	if len(files) != 1 {
		title = "Invalid survey files"
	}
	return Warning{
		Title:      title,
		Files:      files,
		Suggestion: "Run 'persona validate <file>' to see the parse error",
	}
}

// WarnUnanswered creates a warning for questions left without an answer.
// missing holds 1-based question numbers.
func WarnUnanswered(missing []int) Warning {
	nums := make([]string, len(missing))
	for i, n := range missing {
		nums[i] = strconv.Itoa(n)
	}
	return Warning{
		Title:      "Survey not submitted",
		Message:    "Unanswered question(s): " + strings.Join(nums, ", "),
		Suggestion: "Answer every question before submitting",
	}
}
