package harness

import (
	"context"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/finder/internal/ir"
)

// Snapshot is the canonical form of a scenario run that golden files pin.
// Hashes and run ids are left out; the plan content determines both.
func Snapshot(name string, result *Result) map[string]any {
	cases := make([]any, len(result.Cases))
	for i, cr := range result.Cases {
		diags := make([]any, len(cr.Diagnostics))
		for j, d := range cr.Diagnostics {
			diags[j] = map[string]any{
				"code":     d.Code,
				"severity": string(d.Severity),
				"message":  d.Message,
			}
		}
		entry := map[string]any{
			"entity":      cr.Entity,
			"method":      cr.Method,
			"diagnostics": diags,
		}
		if cr.Plan != nil {
			entry["plan"] = cr.Plan.Query.ToMap()
		}
		cases[i] = entry
	}

	return map[string]any{
		"scenario_name": name,
		"cases":         cases,
	}
}

// RunWithGolden runs a scenario and compares its snapshot against
// testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(context.Background(), scenario)
	if err != nil {
		return nil, err
	}
	if err := AssertGolden(t, scenario.Name, result); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden compares an existing result against its golden file.
func AssertGolden(t *testing.T, name string, result *Result) error {
	t.Helper()

	data, err := ir.MarshalCanonical(Snapshot(name, result))
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, data)

	return nil
}
