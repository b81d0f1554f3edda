package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/harrison/persona/internal/catalog"
	"github.com/harrison/persona/internal/config"
	"github.com/harrison/persona/internal/display"
	"github.com/harrison/persona/internal/history"
	"github.com/harrison/persona/internal/logger"
	"github.com/harrison/persona/internal/report"
	"github.com/harrison/persona/internal/session"
	"github.com/harrison/persona/internal/tui"
)

// takeOptions carries the take flags that are not part of Config
type takeOptions struct {
	// Answers are 1-based choice numbers, one per question in presentation order
	Answers []int
	// Seed makes shuffling reproducible when SeedSet is true
	Seed    uint64
	SeedSet bool
	// ReportPath writes a report file when set
	ReportPath string
	// SaveReport writes a report under the configured report directory
	SaveReport bool
	// Interactive runs the terminal UI instead of scripted answers
	Interactive bool
}

// NewTakeCommand creates the take subcommand
func NewTakeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "take <survey>",
		Short: "Take a survey and print the results",
		Long: `Run a survey session. On a terminal the survey is presented interactively;
otherwise pass the answers with --answers, one choice number per question.

The survey is looked up in survey_dir first, then relative to the working
directory. Completed sessions are recorded in the history database unless
--no-history is given.`,
		Example: `  persona take introvert-extrovert.txt
  persona take quiz.txt --answers 1,2,2,1 --report out.html
  persona take quiz.txt --shuffle --seed 42`,
		Args: cobra.ExactArgs(1),
		RunE: runTake,
	}

	cmd.Flags().IntSlice("answers", nil, "Comma-separated choice numbers, one per question")
	cmd.Flags().Bool("shuffle", false, "Shuffle questions and choices before starting")
	cmd.Flags().Uint64("seed", 0, "Seed for --shuffle (random when unset)")
	cmd.Flags().String("report", "", "Write a report to this path (.md or .html)")
	cmd.Flags().Bool("save-report", false, "Write a report to the configured report directory")
	cmd.Flags().Bool("no-history", false, "Do not record the session in the history database")

	return cmd
}

func runTake(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	answers, _ := cmd.Flags().GetIntSlice("answers")
	seed, _ := cmd.Flags().GetUint64("seed")
	reportPath, _ := cmd.Flags().GetString("report")
	saveReport, _ := cmd.Flags().GetBool("save-report")

	opts := takeOptions{
		Answers:     answers,
		Seed:        seed,
		SeedSet:     cmd.Flags().Changed("seed"),
		ReportPath:  reportPath,
		SaveReport:  saveReport,
		Interactive: len(answers) == 0 && isatty.IsTerminal(os.Stdin.Fd()) && isatty.IsTerminal(os.Stdout.Fd()),
	}
	if len(answers) == 0 && !opts.Interactive {
		return errors.New("not running in a terminal: pass the answers with --answers")
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return takeSurveyWithOutput(ctx, cfg, args[0], opts, cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
}

// takeSurveyWithOutput runs one session end to end (for testing)
func takeSurveyWithOutput(ctx context.Context, cfg *config.Config, name string, opts takeOptions, in io.Reader, out, errOut io.Writer) error {
	// The terminal UI owns the screen, so console events only go out in scripted mode
	var consoleLog logger.SessionLogger = logger.NewNoOpLogger()
	if !opts.Interactive {
		consoleLog = logger.NewConsoleLogger(errOut, cfg.LogLevel)
	}
	loggers := logger.Multi{consoleLog}

	var fileLog *logger.FileLogger
	if cfg.FileLogging {
		var err error
		fileLog, err = logger.NewFileLoggerWithDirAndLevel(cfg.LogDir, cfg.LogLevel)
		if err != nil {
			return fmt.Errorf("failed to create file logger: %w", err)
		}
		defer fileLog.Close()
		loggers = append(loggers, fileLog)
	}

	cat, err := catalog.New(cfg.SurveyDir, catalog.Options{
		Extensions: cfg.Extensions,
		Recursive:  cfg.Recursive,
		CacheSize:  cfg.CacheSize,
		Logger:     loggers,
	})
	if err != nil {
		return err
	}
	survey, err := cat.Load(name)
	if err != nil {
		return err
	}
	if err := survey.Validate(); err != nil {
		return fmt.Errorf("survey %s is invalid: %w", name, err)
	}
	loggers.LogSurveyLoaded(survey)

	sess := session.New(survey, session.WithLogger(loggers))
	if cfg.Shuffle {
		var r *rand.Rand
		if opts.SeedSet {
			r = rand.New(rand.NewPCG(opts.Seed, opts.Seed))
		}
		if err := sess.Shuffle(r); err != nil {
			return err
		}
		loggers.LogDebug("shuffled questions and choices")
	}

	if opts.Interactive {
		if err := tui.Run(sess, in, out); err != nil {
			if errors.Is(err, tui.ErrCancelled) {
				fmt.Fprintln(out, "Survey cancelled, nothing was recorded")
				return nil
			}
			return err
		}
	} else if err := answerScripted(sess, opts.Answers); err != nil {
		var incomplete *session.IncompleteError
		if errors.As(err, &incomplete) {
			display.WarnUnanswered(incomplete.Missing).Display(errOut)
		}
		return err
	}

	rep, err := report.FromSession(sess)
	if err != nil {
		return err
	}
	if err := rep.WriteText(out, opts.Interactive); err != nil {
		return err
	}

	if fileLog != nil {
		if err := fileLog.LogSessionTranscript(sess.ID(), survey, answerTexts(rep), rep.Scores, rep.Results); err != nil {
			loggers.LogWarn(fmt.Sprintf("failed to write session transcript: %v", err))
		}
	}

	if cfg.History.Enabled {
		if err := recordSession(ctx, cfg.History.DBPath, name, cfg.Shuffle, rep); err != nil {
			return err
		}
		loggers.LogDebug(fmt.Sprintf("recorded session %s in %s", sess.ID(), cfg.History.DBPath))
	}

	var paths []string
	if opts.ReportPath != "" {
		paths = append(paths, opts.ReportPath)
	}
	if opts.SaveReport {
		paths = append(paths, report.DefaultPath(cfg.Report.Dir, sess.ID(), cfg.ReportExt()))
	}
	for _, p := range paths {
		if err := report.Write(ctx, p, rep); err != nil {
			return err
		}
		fmt.Fprintf(out, "Report written to %s\n", p)
	}
	return nil
}

// answerScripted answers each question in presentation order with the given
// 1-based choice numbers and submits the session
func answerScripted(sess *session.Session, answers []int) error {
	if len(answers) > sess.Len() {
		return fmt.Errorf("got %d answers for %d questions", len(answers), sess.Len())
	}
	q := sess.Current()
	for i, a := range answers {
		if q == nil {
			break
		}
		if err := sess.Select(a - 1); err != nil {
			return fmt.Errorf("answer %d: %w", i+1, err)
		}
		q = sess.Next()
	}
	_, err := sess.Submit()
	return err
}

func answerTexts(r *report.Report) []string {
	texts := make([]string, len(r.Answers))
	for i, a := range r.Answers {
		texts[i] = a.Choice
	}
	return texts
}

func recordSession(ctx context.Context, dbPath, surveyPath string, shuffled bool, rep *report.Report) error {
	store, err := history.Open(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open history: %w", err)
	}
	defer store.Close()

	return store.Save(ctx, &history.Record{
		ID:          rep.SessionID,
		SurveyTitle: rep.SurveyTitle,
		SurveyPath:  surveyPath,
		Shuffled:    shuffled,
		CompletedAt: rep.CompletedAt,
		Scores:      rep.Scores,
		Results:     rep.Results,
	})
}
