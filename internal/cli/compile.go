package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/finder/internal/catalog"
	"github.com/roach88/finder/internal/ir"
	"github.com/roach88/finder/internal/store"
)

// CompileOptions holds flags for the compile command.
type CompileOptions struct {
	*RootOptions
	Output string // output file path
	DB     string // plan archive; overrides store.path from the config
}

// CompilationStats holds summary statistics.
type CompilationStats struct {
	Repositories int `json:"repositories"`
	Methods      int `json:"methods"`
	Plans        int `json:"plans"`
	Errors       int `json:"errors"`
	Warnings     int `json:"warnings"`
}

// CompilationOutput is the JSON payload of a compile run.
type CompilationOutput struct {
	*catalog.Result
	Stats CompilationStats `json:"stats"`
}

func (o CompilationOutput) runID() string { return o.RunID }

// NewCompileCommand creates the compile command.
func NewCompileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompileOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compile <schema-dir>",
		Short: "Compile repository methods into query plans",
		Long: `Compile every repository method declared in the schema directory.

Each method name is parsed against the finder strategies (find, count,
exists, delete). Methods that compile produce a query plan; the others
produce a diagnostic with an error code.

Exit codes:
  0 - Every method compiled (warnings allowed)
  1 - One or more methods failed to compile
  2 - Command error (invalid schema, unwritable archive, etc.)`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "write plans to this file as JSON")
	cmd.Flags().StringVar(&opts.DB, "db", "", "record the run in this SQLite archive")

	return cmd
}

func runCompile(opts *CompileOptions, schemaDir string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	spec, schema, err := loadSchema(formatter, schemaDir)
	if err != nil {
		return err
	}

	c, err := newCompiler(opts.RootOptions)
	if err != nil {
		return err
	}
	builder, err := newBuilder(opts.RootOptions, c)
	if err != nil {
		return err
	}

	result, err := builder.Build(cmd.Context(), schema, spec.Repositories)
	if err != nil {
		return outputCompileError(formatter, ErrCodeGeneric, err.Error(), nil)
	}

	dbPath := opts.DB
	if dbPath == "" {
		dbPath = opts.config().Store.Path
	}
	if dbPath != "" {
		seq, err := recordRun(cmd, dbPath, result)
		if err != nil {
			return outputCompileError(formatter, ErrCodeStore, fmt.Sprintf("recording run: %v", err), nil)
		}
		formatter.VerboseLog("Recorded run %s as #%d in %s", result.RunID, seq, dbPath)
	}

	if opts.Output != "" {
		if err := writePlansToFile(result, opts.Output); err != nil {
			return outputCompileError(formatter, ErrCodeWriteFailed, fmt.Sprintf("writing output file: %v", err), nil)
		}
	}

	stats := calculateStats(spec.Repositories, result)
	if err := outputCompileResult(formatter, result, stats, opts.Output); err != nil {
		return err
	}
	if stats.Errors > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d method(s) failed to compile", stats.Errors))
	}
	return nil
}

func recordRun(cmd *cobra.Command, path string, result *catalog.Result) (int64, error) {
	st, err := store.Open(path)
	if err != nil {
		return 0, err
	}
	defer st.Close()
	return st.WriteRun(cmd.Context(), result)
}

// calculateStats computes summary statistics from a build result.
func calculateStats(repos []ir.Repository, result *catalog.Result) CompilationStats {
	stats := CompilationStats{
		Repositories: len(repos),
		Plans:        len(result.Plans),
	}
	for _, r := range repos {
		stats.Methods += len(r.Methods)
	}
	for _, d := range result.Diagnostics {
		if d.Severity == catalog.SeverityError {
			stats.Errors++
		} else {
			stats.Warnings++
		}
	}
	return stats
}

// outputCompileResult outputs the plans and diagnostics of a build.
func outputCompileResult(formatter *OutputFormatter, result *catalog.Result, stats CompilationStats, outputFile string) error {
	if formatter.Format == "json" {
		return formatter.Success(CompilationOutput{Result: result, Stats: stats})
	}

	w := formatter.Writer
	mark := "✓"
	if stats.Errors > 0 {
		mark = "✗"
	}
	fmt.Fprintf(w, "%s Compiled %d of %d method(s) in %d repository(ies)\n\n",
		mark, stats.Plans, stats.Methods, stats.Repositories)

	if len(result.Plans) > 0 {
		fmt.Fprintln(w, "Plans:")
		for _, p := range result.Plans {
			fmt.Fprintf(w, "  %s.%s: %s\n", p.Repository, p.Method, p.Query)
		}
		fmt.Fprintln(w)
	}

	if len(result.Diagnostics) > 0 {
		fmt.Fprintln(w, "Diagnostics:")
		for _, d := range result.Diagnostics {
			fmt.Fprintf(w, "  %s %s %s.%s: %s\n", d.Code, d.Severity, d.Repository, d.Method, d.Message)
		}
		fmt.Fprintln(w)
	}

	if outputFile != "" {
		fmt.Fprintf(w, "Wrote plans to %s\n", outputFile)
	}
	return nil
}

// outputCompileError outputs a single command-level error.
func outputCompileError(formatter *OutputFormatter, code, message string, details interface{}) error {
	_ = formatter.Error(code, message, details)
	return WrapExitError(ExitCommandError, fmt.Sprintf("%s: %s", code, message), nil)
}

// outputCompileErrors outputs schema errors collected while loading.
func outputCompileErrors(formatter *OutputFormatter, errs []error) error {
	if formatter.Format == "json" {
		cliErrors := make([]CLIError, len(errs))
		for i, err := range errs {
			code, message := parseCompileError(err)
			cliErrors[i] = CLIError{Code: code, Message: message}
		}

		if err := formatter.encode(CLIResponse{
			Status: "error",
			Error:  &cliErrors[0],
			Data:   cliErrors,
		}, true); err != nil {
			return err
		}
		return NewExitError(ExitCommandError, fmt.Sprintf("schema has %d error(s)", len(errs)))
	}

	fmt.Fprintln(formatter.Writer, "✗ Schema invalid")
	fmt.Fprintln(formatter.Writer)

	for _, err := range errs {
		code, message := parseCompileError(err)
		var loadErr *LoadError
		if errors.As(err, &loadErr) && loadErr.Pos.IsValid() {
			fmt.Fprintf(formatter.Writer, "%s:%d:%d\n",
				loadErr.Pos.Filename(), loadErr.Pos.Line(), loadErr.Pos.Column())
		}
		fmt.Fprintf(formatter.Writer, "  %s: %s\n\n", code, message)
	}

	return NewExitError(ExitCommandError, fmt.Sprintf("schema has %d error(s)", len(errs)))
}

// writePlansToFile writes the build result as indented JSON.
func writePlansToFile(result *catalog.Result, filename string) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling plans: %w", err)
	}
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("writing file: %w", err)
	}
	return nil
}
