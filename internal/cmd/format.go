package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/harrison/persona/internal/filelock"
	"github.com/harrison/persona/internal/parser"
)

// NewFormatCommand creates the format subcommand
func NewFormatCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "format <survey-file>",
		Short: "Print a survey in canonical form",
		Long: `Parse a survey and write it back out in canonical form: one value group
per line, comments naming each section, and requirement clauses in the
order they are evaluated. With --write the file is rewritten in place.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			write, _ := cmd.Flags().GetBool("write")
			return formatSurveyWithOutput(cmd.Context(), args[0], write, cmd.OutOrStdout())
		},
	}
	cmd.Flags().BoolP("write", "w", false, "Rewrite the file instead of printing it")
	return cmd
}

func formatSurveyWithOutput(ctx context.Context, path string, write bool, out io.Writer) error {
	survey, err := parser.ParseFile(path, nil)
	if err != nil {
		return err
	}
	if !write {
		return parser.WriteSurvey(out, survey)
	}

	if ctx == nil {
		ctx = context.Background()
	}
	if err := filelock.LockAndWrite(ctx, path, []byte(parser.Serialize(survey))); err != nil {
		return fmt.Errorf("failed to rewrite %s: %w", path, err)
	}
	fmt.Fprintf(out, "Formatted %s\n", path)
	return nil
}
