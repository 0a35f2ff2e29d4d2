package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/finder/internal/catalog"
	"github.com/roach88/finder/internal/ir"
	"github.com/roach88/finder/internal/queryir"
)

// ExplainOptions holds flags for the explain command.
type ExplainOptions struct {
	*RootOptions
	Returns string
}

// Explanation is the JSON payload of explain.
type Explanation struct {
	Entity      string                `json:"entity"`
	Method      string                `json:"method"`
	Strategy    string                `json:"strategy,omitempty"`
	Prefix      string                `json:"prefix,omitempty"`
	Projection  string                `json:"projection,omitempty"`
	Clauses     string                `json:"clauses,omitempty"`
	Plan        *catalog.Plan         `json:"plan,omitempty"`
	Parameters  []string              `json:"parameters,omitempty"`
	Diagnostics []*catalog.Diagnostic `json:"diagnostics,omitempty"`
}

// NewExplainCommand creates the explain command.
func NewExplainCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ExplainOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "explain <schema-dir> <entity> <method> [param...]",
		Short: "Show how one method name compiles",
		Long: `Compile a single method name against an entity of the schema and print
how it was split and what plan it produced. The method does not have to be
declared in a repository.

Examples:
  finder explain ./schema Person findByLastNameOrderByAgeDesc lastName
  finder explain ./schema Person countByAgeBetween lo hi --returns int64`,
		Args:          cobra.MinimumNArgs(3),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExplain(opts, args[0], args[1], args[2], args[3:], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Returns, "returns", "", "declared return type (e.g. []Person, int64, bool)")

	return cmd
}

func runExplain(opts *ExplainOptions, schemaDir, entityName, method string, params []string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	_, schema, err := loadSchema(formatter, schemaDir)
	if err != nil {
		return err
	}

	entity, ok := schema.Entity(entityName)
	if !ok {
		names := make([]string, 0, len(schema.Entities()))
		for _, e := range schema.Entities() {
			names = append(names, e.Name)
		}
		sort.Strings(names)
		return outputCompileError(formatter, catalog.CodeUnknownEntity,
			fmt.Sprintf("unknown entity %q (declared: %s)", entityName, strings.Join(names, ", ")), nil)
	}

	c, err := newCompiler(opts.RootOptions)
	if err != nil {
		return err
	}
	builder, err := newBuilder(opts.RootOptions, c)
	if err != nil {
		return err
	}

	sig := ir.NewSignature(method, params...)
	sig.ReturnType = opts.Returns

	ex := Explanation{Entity: entityName, Method: method}
	if s, m, ok := c.Match(method); ok {
		ex.Strategy = s.Name
		ex.Prefix = m.Prefix
		ex.Projection = m.Projection
		ex.Clauses = m.Clauses
	}

	ex.Plan, ex.Diagnostics = builder.CompileMethod(cmd.Context(), "explain", sig, entity)
	if ex.Plan != nil {
		ex.Parameters = ex.Plan.Query.Parameters()
	}

	if formatter.Format == "json" {
		if err := formatter.Success(ex); err != nil {
			return err
		}
	} else {
		writeExplanation(formatter, ex)
	}

	if ex.Plan == nil {
		return NewExitError(ExitFailure, fmt.Sprintf("%s does not compile", method))
	}
	return nil
}

func writeExplanation(formatter *OutputFormatter, ex Explanation) {
	w := formatter.Writer

	fmt.Fprintf(w, "%s.%s\n", ex.Entity, ex.Method)
	if ex.Strategy != "" {
		fmt.Fprintf(w, "  strategy:    %s (prefix %q", ex.Strategy, ex.Prefix)
		if ex.Projection != "" {
			fmt.Fprintf(w, ", modifier %q", ex.Projection)
		}
		fmt.Fprintf(w, ", clauses %q)\n", ex.Clauses)
	}

	if p := ex.Plan; p != nil {
		q := p.Query
		fmt.Fprintf(w, "  operation:   %s\n", q.Operation)
		if q.Criterion != nil {
			fmt.Fprintf(w, "  criterion:   %s\n", queryir.Format(q.Criterion))
		}
		for _, o := range q.Orders {
			fmt.Fprintf(w, "  order:       %s %s\n", o.Property, o.Direction)
		}
		for _, pr := range q.Projections {
			fmt.Fprintf(w, "  projection:  %s\n", pr)
		}
		fmt.Fprintf(w, "  result:      %s\n", q.Result)
		if len(ex.Parameters) > 0 {
			fmt.Fprintf(w, "  parameters:  %s\n", strings.Join(ex.Parameters, ", "))
		}
		fmt.Fprintf(w, "  hash:        %s\n", p.Hash)
	}

	for _, d := range ex.Diagnostics {
		fmt.Fprintf(w, "  %s %s: %s\n", d.Code, d.Severity, d.Message)
	}
}
