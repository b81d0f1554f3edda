// Package config loads persona settings from YAML, the environment and CLI flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultHome is the home directory used when PERSONA_HOME is not set
const DefaultHome = ".persona"

// HistoryConfig controls the completed-session history database
type HistoryConfig struct {
	// Enabled records every submitted session
	Enabled bool `yaml:"enabled"`

	// DBPath is the SQLite database file
	DBPath string `yaml:"db_path"`
}

// ReportConfig controls exported session reports
type ReportConfig struct {
	// Dir is where reports are written when no explicit path is given
	Dir string `yaml:"dir"`

	// Format is the default report format: md or html
	Format string `yaml:"format"`
}

// Config represents persona configuration options
type Config struct {
	// LogLevel sets the logging verbosity (trace, debug, info, warn, error)
	LogLevel string `yaml:"log_level"`

	// LogDir is the directory where run logs and session transcripts are written
	LogDir string `yaml:"log_dir"`

	// FileLogging enables the file logger alongside the console
	FileLogging bool `yaml:"file_logging"`

	// SurveyDir is scanned by list and used to resolve survey names
	SurveyDir string `yaml:"survey_dir"`

	// Extensions are the file extensions treated as surveys
	Extensions []string `yaml:"extensions"`

	// Recursive scans subdirectories of SurveyDir
	Recursive bool `yaml:"recursive"`

	// Shuffle randomizes choice and question order before each session
	Shuffle bool `yaml:"shuffle"`

	// CacheSize is the number of parsed surveys kept in memory
	CacheSize int `yaml:"cache_size"`

	History HistoryConfig `yaml:"history"`
	Report  ReportConfig  `yaml:"report"`
}

// DefaultConfig returns a Config with default values rooted at DefaultHome
func DefaultConfig() *Config {
	return defaultsFor(DefaultHome)
}

func defaultsFor(home string) *Config {
	return &Config{
		LogLevel:    "info",
		LogDir:      filepath.Join(home, "logs"),
		FileLogging: false,
		SurveyDir:   "surveys",
		Extensions:  []string{".txt", ".survey"},
		Recursive:   false,
		Shuffle:     false,
		CacheSize:   32,
		History: HistoryConfig{
			Enabled: true,
			DBPath:  filepath.Join(home, "history", "sessions.db"),
		},
		Report: ReportConfig{
			Dir:    filepath.Join(home, "reports"),
			Format: "md",
		},
	}
}

// fileConfig mirrors Config with pointers so that keys present in the file
// override defaults even when set to a zero value
type fileConfig struct {
	LogLevel    *string   `yaml:"log_level"`
	LogDir      *string   `yaml:"log_dir"`
	FileLogging *bool     `yaml:"file_logging"`
	SurveyDir   *string   `yaml:"survey_dir"`
	Extensions  *[]string `yaml:"extensions"`
	Recursive   *bool     `yaml:"recursive"`
	Shuffle     *bool     `yaml:"shuffle"`
	CacheSize   *int      `yaml:"cache_size"`
	History     *struct {
		Enabled *bool   `yaml:"enabled"`
		DBPath  *string `yaml:"db_path"`
	} `yaml:"history"`
	Report *struct {
		Dir    *string `yaml:"dir"`
		Format *string `yaml:"format"`
	} `yaml:"report"`
}

// LoadConfig loads configuration from path over DefaultConfig.
// A missing file yields the defaults; a malformed one is an error.
func LoadConfig(path string) (*Config, error) {
	return load(path, DefaultConfig())
}

// LoadConfigFromHome loads home/config.yaml with defaults rooted at home
func LoadConfigFromHome(home string) (*Config, error) {
	return load(filepath.Join(home, "config.yaml"), defaultsFor(home))
}

// LoadConfigFromDir loads .persona/config.yaml in dir
func LoadConfigFromDir(dir string) (*Config, error) {
	return LoadConfigFromHome(filepath.Join(dir, DefaultHome))
}

func load(path string, cfg *Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	setIf(&cfg.LogLevel, fc.LogLevel)
	setIf(&cfg.LogDir, fc.LogDir)
	setIf(&cfg.FileLogging, fc.FileLogging)
	setIf(&cfg.SurveyDir, fc.SurveyDir)
	setIf(&cfg.Extensions, fc.Extensions)
	setIf(&cfg.Recursive, fc.Recursive)
	setIf(&cfg.Shuffle, fc.Shuffle)
	setIf(&cfg.CacheSize, fc.CacheSize)
	if fc.History != nil {
		setIf(&cfg.History.Enabled, fc.History.Enabled)
		setIf(&cfg.History.DBPath, fc.History.DBPath)
	}
	if fc.Report != nil {
		setIf(&cfg.Report.Dir, fc.Report.Dir)
		setIf(&cfg.Report.Format, fc.Report.Format)
	}
	return cfg, nil
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

// ApplyEnv overrides settings from PERSONA_LOG_LEVEL, PERSONA_SURVEY_DIR and
// PERSONA_HISTORY_DB when they are set
func (c *Config) ApplyEnv() {
	if v := os.Getenv("PERSONA_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("PERSONA_SURVEY_DIR"); v != "" {
		c.SurveyDir = v
	}
	if v := os.Getenv("PERSONA_HISTORY_DB"); v != "" {
		c.History.DBPath = v
	}
}

// MergeWithFlags merges CLI flags into the configuration.
// Non-nil flag values override configuration values.
func (c *Config) MergeWithFlags(logLevel *string, surveyDir *string, shuffle *bool, historyEnabled *bool) {
	if logLevel != nil {
		c.LogLevel = *logLevel
	}
	if surveyDir != nil {
		c.SurveyDir = *surveyDir
	}
	if shuffle != nil {
		c.Shuffle = *shuffle
	}
	if historyEnabled != nil {
		c.History.Enabled = *historyEnabled
	}
}

// Validate validates the configuration values
func (c *Config) Validate() error {
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	validLevels := map[string]bool{
		"trace": true,
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[c.LogLevel] {
		return fmt.Errorf("invalid log_level %q, must be one of: trace, debug, info, warn, error", c.LogLevel)
	}

	if c.CacheSize < 1 {
		return fmt.Errorf("cache_size must be >= 1, got %d", c.CacheSize)
	}
	if len(c.Extensions) == 0 {
		return fmt.Errorf("extensions cannot be empty")
	}
	if c.History.Enabled && c.History.DBPath == "" {
		return fmt.Errorf("history.db_path cannot be empty when history is enabled")
	}

	switch c.Report.Format {
	case "md", "html":
	default:
		return fmt.Errorf("invalid report.format %q, must be md or html", c.Report.Format)
	}
	return nil
}

// ReportExt returns the file extension for the configured report format
func (c *Config) ReportExt() string {
	if c.Report.Format == "html" {
		return ".html"
	}
	return ".md"
}
