package cmd

import (
	"testing"

	"github.com/harrison/persona/internal/models"
	"github.com/harrison/persona/internal/parser"
)

func threeQuestionSurvey(t *testing.T) *models.Survey {
	t.Helper()
	s, err := parser.Parse(`Three
3
A
2
Left
1 1
Right
2 1
B
2
Left
1 1
Right
2 1
C
2
Left
1 1
Right
2 1
0
2
Left
Right
`)
	if err != nil {
		t.Fatal(err)
	}
	return s
}
