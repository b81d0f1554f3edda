package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harrison/persona/internal/config"
)

// Version is injected at build time via -ldflags
var Version = "dev"

// NewRootCommand creates and returns the root cobra command for persona
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "persona",
		Short: "Take and score personality and aptitude surveys",
		Long: `Persona reads surveys written in a plain-text format, walks a respondent
through the questions, and scores the answers into weighted categories.

Each survey declares its questions, the categories every choice adjusts,
and the results that match when the category totals meet their conditions.`,
		Version: Version,
		// Silence usage on errors to avoid duplicate help text
		SilenceUsage: true,
	}

	cmd.PersistentFlags().String("config", "", "Path to config file (default: $PERSONA_HOME/config.yaml)")
	cmd.PersistentFlags().String("log-level", "", "Log level: trace, debug, info, warn, error")
	cmd.PersistentFlags().String("survey-dir", "", "Directory holding survey files")

	cmd.AddCommand(NewListCommand())
	cmd.AddCommand(NewValidateCommand())
	cmd.AddCommand(NewFormatCommand())
	cmd.AddCommand(NewTakeCommand())
	cmd.AddCommand(NewHistoryCommand())

	return cmd
}

// loadConfig builds the effective configuration for cmd: .env files, then the
// config file, then PERSONA_* variables, then flags that were set explicitly
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	if err := config.LoadEnv(); err != nil {
		return nil, err
	}

	configPath, _ := cmd.Flags().GetString("config")
	var cfg *config.Config
	var err error
	if configPath != "" {
		cfg, err = config.LoadConfig(configPath)
	} else {
		var home string
		home, err = config.GetPersonaHome()
		if err != nil {
			return nil, err
		}
		cfg, err = config.LoadConfigFromHome(home)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	cfg.ApplyEnv()

	var logLevel, surveyDir *string
	if cmd.Flags().Changed("log-level") {
		v, _ := cmd.Flags().GetString("log-level")
		logLevel = &v
	}
	if cmd.Flags().Changed("survey-dir") {
		v, _ := cmd.Flags().GetString("survey-dir")
		surveyDir = &v
	}
	var shuffle, history *bool
	if f := cmd.Flags().Lookup("shuffle"); f != nil && f.Changed {
		v, _ := cmd.Flags().GetBool("shuffle")
		shuffle = &v
	}
	if f := cmd.Flags().Lookup("no-history"); f != nil && f.Changed {
		v, _ := cmd.Flags().GetBool("no-history")
		v = !v
		history = &v
	}
	cfg.MergeWithFlags(logLevel, surveyDir, shuffle, history)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
