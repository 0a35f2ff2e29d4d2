package harness

import (
	"context"
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"

	"github.com/roach88/finder/internal/catalog"
	"github.com/roach88/finder/internal/compiler"
	"github.com/roach88/finder/internal/finder"
	"github.com/roach88/finder/internal/ir"
)

// Run compiles every case of the scenario and checks its expectations.
//
// An error is returned only when the scenario cannot run at all (bad schema,
// unknown strategy); failed expectations are reported in the Result.
func Run(ctx context.Context, scenario *Scenario) (*Result, error) {
	schema, err := LoadSchema(scenario.Schema)
	if err != nil {
		return nil, err
	}

	opts := []finder.Option{finder.WithStrictPaths(scenario.StrictPaths)}
	if len(scenario.Strategies) > 0 {
		strategies, err := finder.StrategiesByName(scenario.Strategies...)
		if err != nil {
			return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
		}
		opts = append(opts, finder.WithStrategies(strategies...))
	}

	builder, err := catalog.NewBuilder(finder.New(opts...),
		catalog.WithIDGenerator(catalog.NewFixedGenerator("scenario-"+scenario.Name)))
	if err != nil {
		return nil, err
	}

	// One repository per case keeps their diagnostics apart.
	repos := make([]ir.Repository, len(scenario.Cases))
	for i, c := range scenario.Cases {
		sig := ir.NewSignature(c.Method, c.Params...)
		sig.ReturnType = c.Returns
		repos[i] = ir.Repository{
			Name:    caseRepository(i),
			Entity:  c.Entity,
			Methods: []ir.MethodSignature{sig},
		}
	}

	built, err := builder.Build(ctx, schema, repos)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}

	result := NewResult()
	for i, c := range scenario.Cases {
		cr := CaseResult{Entity: c.Entity, Method: c.Method, Diagnostics: []catalog.Diagnostic{}}
		if p, ok := built.Plan(caseRepository(i), c.Method); ok {
			cr.Plan = &p
		}
		for _, d := range built.Diagnostics {
			if d.Repository == caseRepository(i) {
				cr.Diagnostics = append(cr.Diagnostics, d)
			}
		}
		result.Cases = append(result.Cases, cr)

		for _, msg := range checkCase(c, cr) {
			result.AddError(fmt.Sprintf("cases[%d] %s.%s: %s", i, c.Entity, c.Method, msg))
		}
	}

	return result, nil
}

func caseRepository(i int) string {
	return fmt.Sprintf("case%d", i)
}

// LoadSchema compiles a single CUE file into a linked, validated schema.
func LoadSchema(path string) (*ir.Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema: %w", err)
	}

	v := cuecontext.New().CompileBytes(data, cue.Filename(path))
	spec, err := compiler.CompileSpec(v)
	if err != nil {
		return nil, fmt.Errorf("schema %s: %w", path, err)
	}
	if errs := compiler.ValidateSpec(spec); len(errs) > 0 {
		return nil, fmt.Errorf("schema %s: %w", path, errs[0])
	}

	schema, err := spec.Schema()
	if err != nil {
		return nil, fmt.Errorf("schema %s: %w", path, err)
	}
	return schema, nil
}
