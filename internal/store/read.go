package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// ErrRunNotFound is returned when a run id is not in the archive.
var ErrRunNotFound = errors.New("run not found")

// Run summarises one archived build.
type Run struct {
	ID              string `json:"id"`
	Seq             int64  `json:"seq"`
	SchemaHash      string `json:"schema_hash"`
	CompilerVersion string `json:"compiler_version"`
	PlanVersion     string `json:"plan_version"`
	PlanCount       int    `json:"plan_count"`
	ErrorCount      int    `json:"error_count"`
	WarningCount    int    `json:"warning_count"`
}

// StoredPlan is an archived plan. Query holds its canonical JSON.
type StoredPlan struct {
	RunID      string `json:"run_id"`
	Seq        int64  `json:"seq"`
	Repository string `json:"repository"`
	Method     string `json:"method"`
	Operation  string `json:"operation"`
	Hash       string `json:"hash"`
	Summary    string `json:"summary"`
	Query      string `json:"query"`
}

// StoredDiagnostic is an archived diagnostic.
type StoredDiagnostic struct {
	RunID      string `json:"run_id"`
	Seq        int64  `json:"seq"`
	Repository string `json:"repository"`
	Method     string `json:"method"`
	Code       string `json:"code"`
	Severity   string `json:"severity"`
	Message    string `json:"message"`
}

// ReadRuns lists all runs, oldest first.
//
// Returns an empty slice (not nil) for an empty archive.
func (s *Store) ReadRuns(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, seq, schema_hash, compiler_version, plan_version, plan_count, error_count, warning_count
		FROM runs
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// ReadRun returns one run by id.
func (s *Store) ReadRun(ctx context.Context, runID string) (Run, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, seq, schema_hash, compiler_version, plan_version, plan_count, error_count, warning_count
		FROM runs
		WHERE id = ?
	`, runID)
	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("read run %s: %w", runID, ErrRunNotFound)
	}
	return r, err
}

// LatestRun returns the most recent run.
func (s *Store) LatestRun(ctx context.Context) (Run, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, seq, schema_hash, compiler_version, plan_version, plan_count, error_count, warning_count
		FROM runs
		ORDER BY seq DESC
		LIMIT 1
	`)
	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("latest run: %w", ErrRunNotFound)
	}
	return r, err
}

// ReadPlans returns a run's plans in compile order.
func (s *Store) ReadPlans(ctx context.Context, runID string) ([]StoredPlan, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT run_id, seq, repository, method, operation, hash, summary, query
		FROM plans
		WHERE run_id = ?
		ORDER BY seq ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query plans: %w", err)
	}
	return collectPlans(rows)
}

// PlanHistory returns every archived plan of repository.method across
// runs, oldest run first.
func (s *Store) PlanHistory(ctx context.Context, repository, method string) ([]StoredPlan, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT p.run_id, p.seq, p.repository, p.method, p.operation, p.hash, p.summary, p.query
		FROM plans p
		JOIN runs r ON p.run_id = r.id
		WHERE p.repository = ? AND p.method = ?
		ORDER BY r.seq ASC, p.seq ASC
	`, repository, method)
	if err != nil {
		return nil, fmt.Errorf("query plan history: %w", err)
	}
	return collectPlans(rows)
}

// ReadDiagnostics returns a run's diagnostics in report order.
func (s *Store) ReadDiagnostics(ctx context.Context, runID string) ([]StoredDiagnostic, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT run_id, seq, repository, method, code, severity, message
		FROM diagnostics
		WHERE run_id = ?
		ORDER BY seq ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query diagnostics: %w", err)
	}
	defer rows.Close()

	diags := []StoredDiagnostic{}
	for rows.Next() {
		var d StoredDiagnostic
		if err := rows.Scan(&d.RunID, &d.Seq, &d.Repository, &d.Method, &d.Code, &d.Severity, &d.Message); err != nil {
			return nil, fmt.Errorf("scan diagnostic: %w", err)
		}
		diags = append(diags, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate diagnostics: %w", err)
	}
	return diags, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (Run, error) {
	var r Run
	err := row.Scan(&r.ID, &r.Seq, &r.SchemaHash, &r.CompilerVersion, &r.PlanVersion, &r.PlanCount, &r.ErrorCount, &r.WarningCount)
	if err != nil {
		return Run{}, fmt.Errorf("scan run: %w", err)
	}
	return r, nil
}

func collectPlans(rows *sql.Rows) ([]StoredPlan, error) {
	defer rows.Close()

	plans := []StoredPlan{}
	for rows.Next() {
		var p StoredPlan
		if err := rows.Scan(&p.RunID, &p.Seq, &p.Repository, &p.Method, &p.Operation, &p.Hash, &p.Summary, &p.Query); err != nil {
			return nil, fmt.Errorf("scan plan: %w", err)
		}
		plans = append(plans, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate plans: %w", err)
	}
	return plans, nil
}
