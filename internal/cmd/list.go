package cmd

import (
	"fmt"
	"io"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/harrison/persona/internal/catalog"
	"github.com/harrison/persona/internal/display"
)

// NewListCommand creates the list subcommand
func NewListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list [directory]",
		Short: "List the surveys in a directory",
		Long: `Scan a directory (the configured survey_dir by default) for survey files
and print each survey's title and question count. Files that fail to parse
are reported in a warning after the listing.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			dir := cfg.SurveyDir
			if len(args) == 1 {
				dir = args[0]
			}
			return listSurveysWithOutput(dir, catalog.Options{
				Extensions: cfg.Extensions,
				Recursive:  cfg.Recursive,
				CacheSize:  cfg.CacheSize,
			}, cmd.OutOrStdout())
		},
	}
	return cmd
}

// listSurveysWithOutput prints the surveys under dir (for testing)
func listSurveysWithOutput(dir string, opts catalog.Options, out io.Writer) error {
	cat, err := catalog.New(dir, opts)
	if err != nil {
		return err
	}
	entries, err := cat.List()
	if err != nil {
		return fmt.Errorf("failed to list surveys: %w", err)
	}

	if len(entries) == 0 {
		fmt.Fprintf(out, "No surveys found in %s\n", dir)
		return nil
	}

	root, err := filepath.Abs(cat.Root())
	if err != nil {
		root = cat.Root()
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TITLE\tQUESTIONS\tFILE")
	var invalid []string
	for _, e := range entries {
		rel, err := filepath.Rel(root, e.Path)
		if err != nil {
			rel = e.Path
		}
		if e.Err != nil {
			invalid = append(invalid, rel)
			continue
		}
		fmt.Fprintf(tw, "%s\t%d\t%s\n", e.Title, e.Questions, rel)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if len(invalid) > 0 {
		fmt.Fprintln(out)
		display.WarnInvalidSurveys(invalid).Display(out)
	}
	return nil
}
