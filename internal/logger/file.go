package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/harrison/persona/internal/models"
)

// FileLogger logs session events to files in the configured log directory.
// It creates a timestamped run log, per-session transcripts under sessions/,
// and maintains a latest.log symlink pointing to the most recent run.
// It is thread-safe and implements SessionLogger.
type FileLogger struct {
	logDir      string
	runLog      *os.File
	runFile     string
	sessionsDir string
	logLevel    string
	mu          sync.Mutex
}

// NewFileLogger creates a FileLogger that writes to .persona/logs/ at "info" level.
func NewFileLogger() (*FileLogger, error) {
	return NewFileLoggerWithDirAndLevel(filepath.Join(".persona", "logs"), "info")
}

// NewFileLoggerWithDirAndLevel creates a FileLogger with a custom log directory and level.
func NewFileLoggerWithDirAndLevel(logDir string, logLevel string) (*FileLogger, error) {
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	sessionsDir := filepath.Join(logDir, "sessions")
	if err := os.MkdirAll(sessionsDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create sessions directory: %w", err)
	}

	// run-YYYYMMDD-HHMMSS.log
	runFile := filepath.Join(logDir, fmt.Sprintf("run-%s.log", time.Now().Format("20060102-150405")))
	file, err := os.OpenFile(runFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to create run log file: %w", err)
	}

	symlinkPath := filepath.Join(logDir, "latest.log")
	if _, err := os.Lstat(symlinkPath); err == nil {
		if err := os.Remove(symlinkPath); err != nil {
			file.Close()
			return nil, fmt.Errorf("failed to remove old symlink: %w", err)
		}
	}
	if err := os.Symlink(filepath.Base(runFile), symlinkPath); err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to create symlink: %w", err)
	}

	logger := &FileLogger{
		logDir:      logDir,
		runLog:      file,
		runFile:     runFile,
		sessionsDir: sessionsDir,
		logLevel:    normalizeLogLevel(logLevel),
	}

	logger.writeRunLog("=== Persona Run Log ===\n")
	logger.writeRunLog(fmt.Sprintf("Started at: %s\n\n", time.Now().Format(time.RFC3339)))

	return logger, nil
}

// RunFile returns the path of the current run log
func (fl *FileLogger) RunFile() string {
	return fl.runFile
}

func (fl *FileLogger) shouldLog(messageLevel string) bool {
	return logLevelToInt(messageLevel) >= logLevelToInt(fl.logLevel)
}

// LogTrace logs a trace-level message (most verbose).
func (fl *FileLogger) LogTrace(message string) {
	fl.logWithLevel("TRACE", message)
}

// LogDebug logs a debug-level message.
func (fl *FileLogger) LogDebug(message string) {
	fl.logWithLevel("DEBUG", message)
}

// LogInfo logs an info-level message.
func (fl *FileLogger) LogInfo(message string) {
	fl.logWithLevel("INFO", message)
}

// LogWarn logs a warning-level message.
func (fl *FileLogger) LogWarn(message string) {
	fl.logWithLevel("WARN", message)
}

// LogError logs an error-level message.
func (fl *FileLogger) LogError(message string) {
	fl.logWithLevel("ERROR", message)
}

func (fl *FileLogger) logWithLevel(level string, message string) {
	if !fl.shouldLog(strings.ToLower(level)) {
		return
	}
	fl.writeRunLog(fmt.Sprintf("[%s] [%s] %s\n", timestamp(), level, message))
}

// LogSurveyLoaded records the loaded survey at INFO level.
func (fl *FileLogger) LogSurveyLoaded(survey *models.Survey) {
	if survey == nil || !fl.shouldLog("info") {
		return
	}
	fl.writeRunLog(fmt.Sprintf("[%s] Loaded %q: %d questions, %d results, %d categories\n",
		timestamp(), survey.Title, len(survey.Questions), len(survey.Results), len(survey.Categories)))
}

// LogProgress records answered/total without a rendered bar.
func (fl *FileLogger) LogProgress(answered, total int) {
	if !fl.shouldLog("info") {
		return
	}
	fl.writeRunLog(fmt.Sprintf("[%s] Progress: %d/%d answered\n", timestamp(), answered, total))
}

// LogScores records category totals at INFO level.
func (fl *FileLogger) LogScores(scores []models.CategoryScore) {
	if !fl.shouldLog("info") {
		return
	}
	ts := timestamp()
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] Scores:\n", ts)
	for _, line := range formatScoreLines(scores, false) {
		fmt.Fprintf(&b, "[%s]   %s\n", ts, line)
	}
	fl.writeRunLog(b.String())
}

// LogResults records the matched result texts at INFO level.
func (fl *FileLogger) LogResults(results []string) {
	if !fl.shouldLog("info") {
		return
	}
	ts := timestamp()
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] Matched %d result(s)\n", ts, len(results))
	for i, text := range results {
		fmt.Fprintf(&b, "[%s]   %d. %s\n", ts, i+1, text)
	}
	fl.writeRunLog(b.String())
}

// LogSessionTranscript writes the full answer transcript of a completed
// session to sessions/<sessionID>.log, independent of the log level.
func (fl *FileLogger) LogSessionTranscript(sessionID string, survey *models.Survey, answers []string, scores []models.CategoryScore, results []string) error {
	path := filepath.Join(fl.sessionsDir, sessionID+".log")
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create session log: %w", err)
	}
	defer file.Close()

	var b strings.Builder
	fmt.Fprintf(&b, "=== Session %s ===\n", sessionID)
	fmt.Fprintf(&b, "Survey: %s\n", survey.Title)
	fmt.Fprintf(&b, "Completed at: %s\n\n", time.Now().Format(time.RFC3339))

	b.WriteString("Answers:\n")
	for i, q := range survey.Questions {
		answer := "(none)"
		if i < len(answers) {
			answer = answers[i]
		}
		fmt.Fprintf(&b, "  %d. %s\n     -> %s\n", i+1, q.Text, answer)
	}

	b.WriteString("\nScores:\n")
	for _, line := range formatScoreLines(scores, false) {
		fmt.Fprintf(&b, "  %s\n", line)
	}

	b.WriteString("\nResults:\n")
	if len(results) == 0 {
		b.WriteString("  (none)\n")
	}
	for i, text := range results {
		fmt.Fprintf(&b, "  %d. %s\n", i+1, text)
	}

	if _, err := file.WriteString(b.String()); err != nil {
		return fmt.Errorf("failed to write session log: %w", err)
	}
	return nil
}

// Close flushes and closes the run log file.
// It should be called when the logger is no longer needed.
func (fl *FileLogger) Close() error {
	fl.mu.Lock()
	defer fl.mu.Unlock()

	if fl.runLog != nil {
		if err := fl.runLog.Sync(); err != nil {
			return fmt.Errorf("failed to sync run log: %w", err)
		}
		if err := fl.runLog.Close(); err != nil {
			return fmt.Errorf("failed to close run log: %w", err)
		}
		fl.runLog = nil
	}
	return nil
}

// writeRunLog is a thread-safe helper to write to the run log file.
func (fl *FileLogger) writeRunLog(message string) {
	fl.mu.Lock()
	defer fl.mu.Unlock()

	if fl.runLog != nil {
		fl.runLog.WriteString(message)
		// Flush after each write for real-time logging
		fl.runLog.Sync()
	}
}
