package cmd

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/harrison/persona/internal/catalog"
)

func TestListSurveys(t *testing.T) {
	var out bytes.Buffer
	if err := listSurveysWithOutput("testdata", catalog.Options{}, &out); err != nil {
		t.Fatalf("listSurveysWithOutput() error = %v", err)
	}

	output := out.String()
	if !strings.Contains(output, "TITLE") {
		t.Errorf("expected header, got: %s", output)
	}
	if !strings.Contains(output, "Introvert or Extrovert?") || !strings.Contains(output, "introvert-extrovert.txt") {
		t.Errorf("expected survey row, got: %s", output)
	}
	if !strings.Contains(output, "Out of range") {
		t.Errorf("a survey that parses is listed even if it fails validation, got: %s", output)
	}
	if !strings.Contains(output, "Invalid survey file") || !strings.Contains(output, "1. malformed.txt") {
		t.Errorf("expected warning for malformed.txt, got: %s", output)
	}
}

func TestListSurveysEmptyDir(t *testing.T) {
	dir := t.TempDir()
	var out bytes.Buffer
	if err := listSurveysWithOutput(dir, catalog.Options{}, &out); err != nil {
		t.Fatalf("listSurveysWithOutput() error = %v", err)
	}
	if !strings.HasPrefix(out.String(), "No surveys found") {
		t.Errorf("got: %s", out.String())
	}
}

func TestListSurveysMissingDir(t *testing.T) {
	var out bytes.Buffer
	err := listSurveysWithOutput(filepath.Join(t.TempDir(), "absent"), catalog.Options{}, &out)
	if err == nil {
		t.Error("expected error for missing directory")
	}
}
