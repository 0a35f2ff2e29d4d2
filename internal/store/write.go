package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/finder/internal/catalog"
	"github.com/roach88/finder/internal/ir"
)

// ErrRunExists is returned when a run id has already been archived.
var ErrRunExists = errors.New("run already archived")

// WriteRun archives a catalog result in one transaction and returns the
// run's sequence number. Plans and diagnostics keep the order they have in
// the result.
func (s *Store) WriteRun(ctx context.Context, res *catalog.Result) (int64, error) {
	if res == nil {
		return 0, errors.New("write run: nil result")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("write run: begin: %w", err)
	}
	defer tx.Rollback()

	var exists int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM runs WHERE id = ?`, res.RunID).Scan(&exists); err != nil {
		return 0, fmt.Errorf("write run: %w", err)
	}
	if exists > 0 {
		return 0, fmt.Errorf("write run %s: %w", res.RunID, ErrRunExists)
	}

	seq, err := nextRunSeq(ctx, tx)
	if err != nil {
		return 0, err
	}

	var errCount, warnCount int
	for _, d := range res.Diagnostics {
		if d.Severity == catalog.SeverityError {
			errCount++
		} else {
			warnCount++
		}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs
		(id, seq, schema_hash, compiler_version, plan_version, plan_count, error_count, warning_count)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		res.RunID,
		seq,
		res.SchemaHash,
		ir.CompilerVersion,
		ir.PlanVersion,
		len(res.Plans),
		errCount,
		warnCount,
	)
	if err != nil {
		return 0, fmt.Errorf("write run: %w", err)
	}

	for i, p := range res.Plans {
		if err := writePlan(ctx, tx, res.RunID, int64(i+1), p); err != nil {
			return 0, err
		}
	}

	for i, d := range res.Diagnostics {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO diagnostics
			(run_id, seq, repository, method, code, severity, message)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`,
			res.RunID, int64(i+1), d.Repository, d.Method, d.Code, string(d.Severity), d.Message,
		)
		if err != nil {
			return 0, fmt.Errorf("write diagnostic %s.%s: %w", d.Repository, d.Method, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("write run: commit: %w", err)
	}
	return seq, nil
}

func writePlan(ctx context.Context, tx *sql.Tx, runID string, seq int64, p catalog.Plan) error {
	if p.Query == nil {
		return fmt.Errorf("write plan %s.%s: nil query", p.Repository, p.Method)
	}
	query, err := marshalQuery(p.Query)
	if err != nil {
		return fmt.Errorf("write plan %s.%s: %w", p.Repository, p.Method, err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO plans
		(run_id, seq, repository, method, operation, hash, summary, query)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		runID, seq, p.Repository, p.Method, string(p.Query.Operation), p.Hash, p.Query.String(), query,
	)
	if err != nil {
		return fmt.Errorf("write plan %s.%s: %w", p.Repository, p.Method, err)
	}
	return nil
}

// nextRunSeq returns the next logical run number.
func nextRunSeq(ctx context.Context, tx *sql.Tx) (int64, error) {
	var last sql.NullInt64
	if err := tx.QueryRowContext(ctx, `SELECT MAX(seq) FROM runs`).Scan(&last); err != nil {
		return 0, fmt.Errorf("next run seq: %w", err)
	}
	return last.Int64 + 1, nil
}

// DeleteRun removes a run with its plans and diagnostics.
func (s *Store) DeleteRun(ctx context.Context, runID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, runID)
	if err != nil {
		return fmt.Errorf("delete run: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete run: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("delete run %s: %w", runID, ErrRunNotFound)
	}
	return nil
}
