package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/harrison/persona/internal/history"
	"github.com/harrison/persona/internal/report"
)

// NewHistoryCommand creates the history command group
func NewHistoryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show completed survey sessions",
		Long: `List completed sessions recorded in the history database, newest first.
Only the outcome of a session is stored: its category totals and matched results.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			title, _ := cmd.Flags().GetString("survey")
			limit, _ := cmd.Flags().GetInt("limit")
			return withHistory(cmd, func(ctx context.Context, store *history.Store) error {
				return listHistory(ctx, store, history.Filter{SurveyTitle: title, Limit: limit}, cmd.OutOrStdout())
			})
		},
	}
	cmd.Flags().String("survey", "", "Only show sessions of the survey with this title")
	cmd.Flags().Int("limit", 20, "Maximum number of sessions to show (0 = all)")

	cmd.AddCommand(&cobra.Command{
		Use:   "show <session-id>",
		Short: "Show the scores and results of one session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withHistory(cmd, func(ctx context.Context, store *history.Store) error {
				return showSession(ctx, store, args[0], cmd.OutOrStdout())
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "averages <survey-title>",
		Short: "Show the mean category totals across sessions of a survey",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withHistory(cmd, func(ctx context.Context, store *history.Store) error {
				return showAverages(ctx, store, args[0], cmd.OutOrStdout())
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "delete <session-id>",
		Short: "Remove a session from the history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withHistory(cmd, func(ctx context.Context, store *history.Store) error {
				if err := store.Delete(ctx, args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted session %s\n", args[0])
				return nil
			})
		},
	})

	return cmd
}

func withHistory(cmd *cobra.Command, fn func(context.Context, *history.Store) error) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	store, err := history.Open(cfg.History.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open history: %w", err)
	}
	defer store.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return fn(ctx, store)
}

func listHistory(ctx context.Context, store *history.Store, f history.Filter, out io.Writer) error {
	records, err := store.List(ctx, f)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Fprintln(out, "No sessions recorded")
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SESSION\tCOMPLETED\tSURVEY\tRESULTS")
	for _, r := range records {
		results := strings.Join(r.Results, "; ")
		if results == "" {
			results = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.ID, r.CompletedAt.Format(time.DateTime), r.SurveyTitle, results)
	}
	return tw.Flush()
}

func showSession(ctx context.Context, store *history.Store, id string, out io.Writer) error {
	r, err := store.Get(ctx, id)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Session %s, completed %s\n\n", r.ID, r.CompletedAt.Format(time.DateTime))
	rep := &report.Report{
		SessionID:   r.ID,
		SurveyTitle: r.SurveyTitle,
		CompletedAt: r.CompletedAt,
		Scores:      r.Scores,
		Results:     r.Results,
	}
	return rep.WriteText(out, false)
}

func showAverages(ctx context.Context, store *history.Store, title string, out io.Writer) error {
	scores, count, err := store.Averages(ctx, title)
	if err != nil {
		return err
	}
	if count == 0 {
		fmt.Fprintf(out, "No sessions recorded for %q\n", title)
		return nil
	}

	fmt.Fprintf(out, "%s: %d session(s)\n", title, count)
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, sc := range scores {
		fmt.Fprintf(tw, "  %s\t%.2f\n", sc.Name, sc.Points)
	}
	return tw.Flush()
}
