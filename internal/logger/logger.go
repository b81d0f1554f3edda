// Package logger provides logging implementations for persona sessions.
//
// Components receive a Logger by injection; there is no package-level logger.
// ConsoleLogger and FileLogger additionally implement SessionLogger, which adds
// survey-level events (survey loaded, answer progress, scores, matched results).
package logger

import "github.com/harrison/persona/internal/models"

// Logger is the leveled logging handle passed into core components
type Logger interface {
	LogTrace(message string)
	LogDebug(message string)
	LogInfo(message string)
	LogWarn(message string)
	LogError(message string)
}

// SessionLogger reports survey session events
type SessionLogger interface {
	Logger
	LogSurveyLoaded(survey *models.Survey)
	LogProgress(answered, total int)
	LogScores(scores []models.CategoryScore)
	LogResults(results []string)
}

// NoOpLogger is a SessionLogger that discards all messages.
// Useful for testing or when logging is disabled.
type NoOpLogger struct{}

// NewNoOpLogger creates a NoOpLogger instance.
func NewNoOpLogger() *NoOpLogger {
	return &NoOpLogger{}
}

func (n *NoOpLogger) LogTrace(message string)                 {}
func (n *NoOpLogger) LogDebug(message string)                 {}
func (n *NoOpLogger) LogInfo(message string)                  {}
func (n *NoOpLogger) LogWarn(message string)                  {}
func (n *NoOpLogger) LogError(message string)                 {}
func (n *NoOpLogger) LogSurveyLoaded(survey *models.Survey)   {}
func (n *NoOpLogger) LogProgress(answered, total int)         {}
func (n *NoOpLogger) LogScores(scores []models.CategoryScore) {}
func (n *NoOpLogger) LogResults(results []string)             {}

// Multi fans every message out to each logger in order
type Multi []SessionLogger

func (m Multi) LogTrace(message string) {
	for _, l := range m {
		l.LogTrace(message)
	}
}

func (m Multi) LogDebug(message string) {
	for _, l := range m {
		l.LogDebug(message)
	}
}

func (m Multi) LogInfo(message string) {
	for _, l := range m {
		l.LogInfo(message)
	}
}

func (m Multi) LogWarn(message string) {
	for _, l := range m {
		l.LogWarn(message)
	}
}

func (m Multi) LogError(message string) {
	for _, l := range m {
		l.LogError(message)
	}
}

func (m Multi) LogSurveyLoaded(survey *models.Survey) {
	for _, l := range m {
		l.LogSurveyLoaded(survey)
	}
}

func (m Multi) LogProgress(answered, total int) {
	for _, l := range m {
		l.LogProgress(answered, total)
	}
}

func (m Multi) LogScores(scores []models.CategoryScore) {
	for _, l := range m {
		l.LogScores(scores)
	}
}

func (m Multi) LogResults(results []string) {
	for _, l := range m {
		l.LogResults(results)
	}
}
