package cmd

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/harrison/persona/internal/history"
	"github.com/harrison/persona/internal/models"
)

func seededStore(t *testing.T) *history.Store {
	t.Helper()
	store, err := history.Open(":memory:")
	if err != nil {
		t.Fatalf("history.Open() error = %v", err)
	}
	t.Cleanup(func() { store.Close() })

	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	records := []*history.Record{
		{
			ID: "s-old", SurveyTitle: "Colors", CompletedAt: base,
			Scores:  []models.CategoryScore{{Ordinal: 1, Name: "Warm", Points: 1}, {Ordinal: 2, Name: "Cool", Points: 3}},
			Results: []string{"Cool palette"},
		},
		{
			ID: "s-new", SurveyTitle: "Colors", CompletedAt: base.Add(time.Hour),
			Scores: []models.CategoryScore{{Ordinal: 1, Name: "Warm", Points: 4}, {Ordinal: 2, Name: "Cool", Points: 0}},
		},
	}
	for _, r := range records {
		if err := store.Save(context.Background(), r); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
	}
	return store
}

func TestListHistory(t *testing.T) {
	store := seededStore(t)

	var out bytes.Buffer
	if err := listHistory(context.Background(), store, history.Filter{}, &out); err != nil {
		t.Fatalf("listHistory() error = %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header and 2 rows, got:\n%s", out.String())
	}
	if !strings.HasPrefix(lines[0], "SESSION") {
		t.Errorf("header = %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "s-new") || !strings.HasSuffix(lines[1], "-") {
		t.Errorf("newest session first with no results, got %q", lines[1])
	}
	if !strings.Contains(lines[2], "2026-03-01 10:00:00") || !strings.HasSuffix(lines[2], "Cool palette") {
		t.Errorf("got %q", lines[2])
	}
}

func TestListHistoryLimitAndEmpty(t *testing.T) {
	store := seededStore(t)

	var out bytes.Buffer
	if err := listHistory(context.Background(), store, history.Filter{Limit: 1}, &out); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(out.String(), "s-old") {
		t.Errorf("limit 1 should only show the newest session:\n%s", out.String())
	}

	out.Reset()
	if err := listHistory(context.Background(), store, history.Filter{SurveyTitle: "Other"}, &out); err != nil {
		t.Fatal(err)
	}
	if out.String() != "No sessions recorded\n" {
		t.Errorf("got %q", out.String())
	}
}

func TestShowSession(t *testing.T) {
	store := seededStore(t)

	var out bytes.Buffer
	if err := showSession(context.Background(), store, "s-old", &out); err != nil {
		t.Fatalf("showSession() error = %v", err)
	}
	output := out.String()
	for _, want := range []string{"Session s-old, completed 2026-03-01 10:00:00", "Colors", "Warm", "Cool palette"} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %q:\n%s", want, output)
		}
	}

	err := showSession(context.Background(), store, "missing", &out)
	if !errors.Is(err, history.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestShowAverages(t *testing.T) {
	store := seededStore(t)

	var out bytes.Buffer
	if err := showAverages(context.Background(), store, "Colors", &out); err != nil {
		t.Fatalf("showAverages() error = %v", err)
	}
	want := "Colors: 2 session(s)\n  Warm  2.50\n  Cool  1.50\n"
	if out.String() != want {
		t.Errorf("showAverages() =\n%q\nwant\n%q", out.String(), want)
	}

	out.Reset()
	if err := showAverages(context.Background(), store, "Nothing", &out); err != nil {
		t.Fatal(err)
	}
	if out.String() != "No sessions recorded for \"Nothing\"\n" {
		t.Errorf("got %q", out.String())
	}
}

func TestHistoryCommand(t *testing.T) {
	isolatedHome(t)
	t.Setenv("PERSONA_HISTORY_DB", filepath.Join(t.TempDir(), "h.db"))

	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)

	cmd.SetArgs([]string{"history"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("history failed: %v", err)
	}
	if out.String() != "No sessions recorded\n" {
		t.Errorf("got %q", out.String())
	}

	out.Reset()
	cmd.SetArgs([]string{"history", "delete", "nope"})
	if err := cmd.Execute(); !errors.Is(err, history.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
