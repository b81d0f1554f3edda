package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/harrison/persona/internal/models"
)

func readRunLog(t *testing.T, fl *FileLogger) string {
	t.Helper()
	data, err := os.ReadFile(fl.RunFile())
	if err != nil {
		t.Fatalf("failed to read run log: %v", err)
	}
	return string(data)
}

func TestNewFileLoggerDefaultDir(t *testing.T) {
	tmpDir := t.TempDir()
	t.Chdir(tmpDir)

	logger, err := NewFileLogger()
	if err != nil {
		t.Fatalf("NewFileLogger() error = %v", err)
	}
	defer logger.Close()

	for _, dir := range []string{".persona/logs", ".persona/logs/sessions"} {
		if _, err := os.Stat(filepath.Join(tmpDir, dir)); err != nil {
			t.Errorf("expected %s to exist: %v", dir, err)
		}
	}
}

func TestRunLogAndLatestSymlink(t *testing.T) {
	logDir := filepath.Join(t.TempDir(), "logs")
	logger, err := NewFileLoggerWithDirAndLevel(logDir, "info")
	if err != nil {
		t.Fatalf("NewFileLoggerWithDirAndLevel() error = %v", err)
	}
	defer logger.Close()

	base := filepath.Base(logger.RunFile())
	if !strings.HasPrefix(base, "run-") || !strings.HasSuffix(base, ".log") {
		t.Errorf("unexpected run log name %q", base)
	}

	target, err := os.Readlink(filepath.Join(logDir, "latest.log"))
	if err != nil {
		t.Fatalf("latest.log is not a symlink: %v", err)
	}
	if target != base {
		t.Errorf("latest.log -> %q, want %q", target, base)
	}

	if !strings.Contains(readRunLog(t, logger), "=== Persona Run Log ===") {
		t.Error("run log header missing")
	}
}

func TestFileLoggerReplacesLatestSymlink(t *testing.T) {
	logDir := t.TempDir()
	if err := os.Symlink("stale.log", filepath.Join(logDir, "latest.log")); err != nil {
		t.Fatal(err)
	}

	logger, err := NewFileLoggerWithDirAndLevel(logDir, "info")
	if err != nil {
		t.Fatalf("NewFileLoggerWithDirAndLevel() error = %v", err)
	}
	defer logger.Close()

	target, _ := os.Readlink(filepath.Join(logDir, "latest.log"))
	if target != filepath.Base(logger.RunFile()) {
		t.Errorf("latest.log -> %q, want the new run log", target)
	}
}

func TestFileLoggerLevels(t *testing.T) {
	logger, err := NewFileLoggerWithDirAndLevel(t.TempDir(), "warn")
	if err != nil {
		t.Fatal(err)
	}
	defer logger.Close()

	logger.LogDebug("debug message")
	logger.LogInfo("info message")
	logger.LogWarn("warn message")
	logger.LogError("error message")
	logger.LogProgress(1, 2)

	content := readRunLog(t, logger)
	for _, hidden := range []string{"debug message", "info message", "Progress:"} {
		if strings.Contains(content, hidden) {
			t.Errorf("run log should not contain %q", hidden)
		}
	}
	for _, shown := range []string{"[WARN] warn message", "[ERROR] error message"} {
		if !strings.Contains(content, shown) {
			t.Errorf("run log missing %q", shown)
		}
	}
}

func TestFileLoggerSurveyEvents(t *testing.T) {
	logger, err := NewFileLoggerWithDirAndLevel(t.TempDir(), "info")
	if err != nil {
		t.Fatal(err)
	}
	defer logger.Close()

	logger.LogSurveyLoaded(&models.Survey{Title: "Colors", Results: []*models.Result{{Text: "R"}}})
	logger.LogProgress(3, 5)
	logger.LogScores([]models.CategoryScore{{Ordinal: 1, Name: "Red", Points: 2}})
	logger.LogResults([]string{"Warm palette"})

	content := readRunLog(t, logger)
	for _, want := range []string{
		`Loaded "Colors": 0 questions, 1 results, 0 categories`,
		"Progress: 3/5 answered",
		"Scores:",
		"Red",
		"Matched 1 result(s)",
		"1. Warm palette",
	} {
		if !strings.Contains(content, want) {
			t.Errorf("run log missing %q:\n%s", want, content)
		}
	}
}

func TestLogSessionTranscript(t *testing.T) {
	logDir := t.TempDir()
	logger, err := NewFileLoggerWithDirAndLevel(logDir, "error")
	if err != nil {
		t.Fatal(err)
	}
	defer logger.Close()

	survey := &models.Survey{
		Title:     "Two questions",
		Questions: []*models.Question{{Text: "First?"}, {Text: "Second?"}},
	}
	err = logger.LogSessionTranscript("abc-123", survey, []string{"Yes"},
		[]models.CategoryScore{{Ordinal: 1, Name: "Only", Points: 1}}, nil)
	if err != nil {
		t.Fatalf("LogSessionTranscript() error = %v", err)
	}

	data, err := os.ReadFile(filepath.Join(logDir, "sessions", "abc-123.log"))
	if err != nil {
		t.Fatalf("transcript not written: %v", err)
	}
	content := string(data)
	for _, want := range []string{
		"=== Session abc-123 ===",
		"Survey: Two questions",
		"1. First?\n     -> Yes",
		"2. Second?\n     -> (none)",
		"Results:\n  (none)",
	} {
		if !strings.Contains(content, want) {
			t.Errorf("transcript missing %q:\n%s", want, content)
		}
	}
}

func TestFileLoggerCloseTwice(t *testing.T) {
	logger, err := NewFileLoggerWithDirAndLevel(t.TempDir(), "info")
	if err != nil {
		t.Fatal(err)
	}
	if err := logger.Close(); err != nil {
		t.Fatalf("first Close() error = %v", err)
	}
	if err := logger.Close(); err != nil {
		t.Fatalf("second Close() error = %v", err)
	}
	logger.LogInfo("after close is ignored")
}
