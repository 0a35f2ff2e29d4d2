package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/finder/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	DB     string
	Run    string // run id, or "latest"
	Method string // Repository.method
}

// RunReport is the JSON payload of history --run.
type RunReport struct {
	Run         store.Run                `json:"run"`
	Plans       []store.StoredPlan       `json:"plans"`
	Diagnostics []store.StoredDiagnostic `json:"diagnostics"`
}

// MethodHistory is the JSON payload of history --method.
type MethodHistory struct {
	Repository string             `json:"repository"`
	Method     string             `json:"method"`
	Plans      []store.StoredPlan `json:"plans"`
	Changes    int                `json:"changes"`
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect archived compile runs",
		Long: `List the runs recorded by compile --db, show one run in full, or follow
the plan of one method across runs.

Examples:
  finder history --db plans.db
  finder history --db plans.db --run latest
  finder history --db plans.db --method PersonRepository.findByLastName`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.DB, "db", "", "plan archive (defaults to store.path from the config)")
	cmd.Flags().StringVar(&opts.Run, "run", "", "show one run (id or \"latest\")")
	cmd.Flags().StringVar(&opts.Method, "method", "", "show the plans of Repository.method across runs")

	return cmd
}

func runHistory(opts *HistoryOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	if opts.Run != "" && opts.Method != "" {
		return outputCompileError(formatter, ErrCodeUsage, "--run and --method are mutually exclusive", nil)
	}

	dbPath := opts.DB
	if dbPath == "" {
		dbPath = opts.config().Store.Path
	}
	if dbPath == "" {
		return outputCompileError(formatter, ErrCodeUsage, "no archive given (use --db or store.path)", nil)
	}
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		return outputCompileError(formatter, ErrCodeNotFound, fmt.Sprintf("archive not found: %s", dbPath), nil)
	}

	st, err := store.Open(dbPath)
	if err != nil {
		return outputCompileError(formatter, ErrCodeStore, fmt.Sprintf("opening archive: %v", err), nil)
	}
	defer st.Close()

	ctx := cmd.Context()
	switch {
	case opts.Run != "":
		return showRun(ctx, formatter, st, opts.Run)
	case opts.Method != "":
		return showMethod(ctx, formatter, st, opts.Method)
	default:
		return listRuns(ctx, formatter, st)
	}
}

func listRuns(ctx context.Context, formatter *OutputFormatter, st *store.Store) error {
	runs, err := st.ReadRuns(ctx)
	if err != nil {
		return outputCompileError(formatter, ErrCodeStore, err.Error(), nil)
	}

	if formatter.Format == "json" {
		return formatter.Success(runs)
	}

	w := formatter.Writer
	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs recorded.")
		return nil
	}
	for _, r := range runs {
		fmt.Fprintf(w, "#%d %s  schema %s  %d plan(s), %d error(s), %d warning(s)\n",
			r.Seq, r.ID, shortHash(r.SchemaHash), r.PlanCount, r.ErrorCount, r.WarningCount)
	}
	return nil
}

func showRun(ctx context.Context, formatter *OutputFormatter, st *store.Store, runID string) error {
	var (
		run store.Run
		err error
	)
	if runID == "latest" {
		run, err = st.LatestRun(ctx)
	} else {
		run, err = st.ReadRun(ctx, runID)
	}
	if errors.Is(err, store.ErrRunNotFound) {
		return outputCompileError(formatter, ErrCodeNotFound, err.Error(), nil)
	}
	if err != nil {
		return outputCompileError(formatter, ErrCodeStore, err.Error(), nil)
	}

	report := RunReport{Run: run}
	if report.Plans, err = st.ReadPlans(ctx, run.ID); err != nil {
		return outputCompileError(formatter, ErrCodeStore, err.Error(), nil)
	}
	if report.Diagnostics, err = st.ReadDiagnostics(ctx, run.ID); err != nil {
		return outputCompileError(formatter, ErrCodeStore, err.Error(), nil)
	}

	if formatter.Format == "json" {
		return formatter.Success(report)
	}

	w := formatter.Writer
	fmt.Fprintf(w, "Run #%d %s (compiler %s, plan format %s)\n", run.Seq, run.ID, run.CompilerVersion, run.PlanVersion)
	fmt.Fprintf(w, "Schema %s\n\n", run.SchemaHash)
	for _, p := range report.Plans {
		fmt.Fprintf(w, "  %s.%s: %s\n", p.Repository, p.Method, p.Summary)
	}
	if len(report.Diagnostics) > 0 {
		fmt.Fprintln(w)
		for _, d := range report.Diagnostics {
			fmt.Fprintf(w, "  %s %s %s.%s: %s\n", d.Code, d.Severity, d.Repository, d.Method, d.Message)
		}
	}
	return nil
}

func showMethod(ctx context.Context, formatter *OutputFormatter, st *store.Store, qualified string) error {
	repo, method, ok := strings.Cut(qualified, ".")
	if !ok || repo == "" || method == "" {
		return outputCompileError(formatter, ErrCodeUsage, fmt.Sprintf("--method must be Repository.method, got %q", qualified), nil)
	}

	plans, err := st.PlanHistory(ctx, repo, method)
	if err != nil {
		return outputCompileError(formatter, ErrCodeStore, err.Error(), nil)
	}

	hist := MethodHistory{Repository: repo, Method: method, Plans: plans}
	for i := 1; i < len(plans); i++ {
		if plans[i].Hash != plans[i-1].Hash {
			hist.Changes++
		}
	}

	if formatter.Format == "json" {
		return formatter.Success(hist)
	}

	w := formatter.Writer
	if len(plans) == 0 {
		fmt.Fprintf(w, "No plans recorded for %s.\n", qualified)
		return nil
	}
	for i, p := range plans {
		mark := " "
		if i > 0 && p.Hash != plans[i-1].Hash {
			mark = "*"
		}
		fmt.Fprintf(w, "%s %s  %s  %s\n", mark, p.RunID, shortHash(p.Hash), p.Summary)
	}
	fmt.Fprintf(w, "\n%d run(s), %d change(s)\n", len(plans), hist.Changes)
	return nil
}

func shortHash(h string) string {
	const n = 12
	if len(h) > n {
		return h[:n]
	}
	return h
}
