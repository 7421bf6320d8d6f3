package state

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/leapstack-labs/leapfix/pkg/core"
	"github.com/leapstack-labs/leapfix/pkg/lint"
)

// timeLayout is fixed-width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// SaveResult writes the result as a new run in one transaction. Projects and
// diagnostics keep the order the result reports them in.
func (s *SQLiteStore) SaveResult(ctx context.Context, result *lint.CodeAnalysisResult) (string, error) {
	if s.db == nil {
		return "", ErrNotOpened
	}

	run := Run{
		ID:          generateID(),
		CreatedAt:   time.Now().UTC(),
		Projects:    len(result.Projects()),
		Diagnostics: result.Count(),
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO runs (id, created_at, projects, diagnostics) VALUES (?, ?, ?, ?)`,
		run.ID, run.CreatedAt.Format(timeLayout), run.Projects, run.Diagnostics,
	); err != nil {
		return "", fmt.Errorf("failed to create run: %w", err)
	}

	projectStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO run_projects (run_id, seq, project_id, name, dir) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("failed to prepare project insert: %w", err)
	}
	defer func() { _ = projectStmt.Close() }()

	diagStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO diagnostics (
			run_id, seq, project_seq, rule_id, severity, message, category, url,
			file_path, start_line, start_col, start_off, end_line, end_col, end_off, fixes
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("failed to prepare diagnostic insert: %w", err)
	}
	defer func() { _ = diagStmt.Close() }()

	seq := 0
	for projectSeq, p := range result.Projects() {
		if _, err := projectStmt.ExecContext(ctx, run.ID, projectSeq, p.ID, p.Name, p.Dir); err != nil {
			return "", fmt.Errorf("failed to save project %s: %w", p.ID, err)
		}
		for _, d := range result.Diagnostics(p.ID) {
			if err := insertDiagnostic(ctx, diagStmt, run.ID, seq, projectSeq, d); err != nil {
				return "", err
			}
			seq++
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit run: %w", err)
	}

	s.logger.Debug("saved run",
		slog.String("id", run.ID),
		slog.Int("projects", run.Projects),
		slog.Int("diagnostics", run.Diagnostics))
	return run.ID, nil
}

func insertDiagnostic(ctx context.Context, stmt *sql.Stmt, runID string, seq, projectSeq int, d core.Diagnostic) error {
	var (
		filePath   sql.NullString
		start, end core.Position
		fixes      sql.NullString
	)
	if d.Location.IsInSource() {
		filePath = sql.NullString{String: d.Location.FilePath, Valid: true}
		start, end = d.Location.Start, d.Location.End
	}
	if len(d.Fixes) > 0 {
		data, err := json.Marshal(d.Fixes)
		if err != nil {
			return fmt.Errorf("failed to encode fixes: %w", err)
		}
		fixes = sql.NullString{String: string(data), Valid: true}
	}

	_, err := stmt.ExecContext(ctx,
		runID, seq, projectSeq, d.RuleID, d.Severity.String(), d.Message, d.Category, d.URL,
		filePath, start.Line, start.Column, start.Offset, end.Line, end.Column, end.Offset, fixes,
	)
	if err != nil {
		return fmt.Errorf("failed to save diagnostic: %w", err)
	}
	return nil
}

// GetRun retrieves a run by ID.
func (s *SQLiteStore) GetRun(ctx context.Context, runID string) (*Run, error) {
	if s.db == nil {
		return nil, ErrNotOpened
	}

	row := s.db.QueryRowContext(ctx,
		`SELECT id, created_at, projects, diagnostics FROM runs WHERE id = ?`, runID)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return run, nil
}

// ListRuns returns all runs, newest first.
func (s *SQLiteStore) ListRuns(ctx context.Context) ([]Run, error) {
	if s.db == nil {
		return nil, ErrNotOpened
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, created_at, projects, diagnostics FROM runs ORDER BY created_at DESC, rowid DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, *run)
	}
	return runs, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (*Run, error) {
	var (
		run       Run
		createdAt string
	)
	if err := row.Scan(&run.ID, &createdAt, &run.Projects, &run.Diagnostics); err != nil {
		return nil, err
	}
	t, err := time.Parse(timeLayout, createdAt)
	if err != nil {
		return nil, fmt.Errorf("invalid created_at %q: %w", createdAt, err)
	}
	run.CreatedAt = t
	return &run, nil
}

// LoadDiagnostics rebuilds the result saved under runID, preserving project
// and diagnostic order.
func (s *SQLiteStore) LoadDiagnostics(ctx context.Context, runID string) (*lint.CodeAnalysisResult, error) {
	if _, err := s.GetRun(ctx, runID); err != nil {
		return nil, err
	}

	projects, err := s.loadProjects(ctx, runID)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT project_seq, rule_id, severity, message, category, url,
			file_path, start_line, start_col, start_off, end_line, end_col, end_off, fixes
		FROM diagnostics WHERE run_id = ? ORDER BY seq`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to load diagnostics: %w", err)
	}
	defer func() { _ = rows.Close() }()

	result := lint.NewCodeAnalysisResult()
	for rows.Next() {
		var (
			projectSeq int
			d          core.Diagnostic
			severity   string
			filePath   sql.NullString
			start, end core.Position
			fixes      sql.NullString
		)
		if err := rows.Scan(&projectSeq, &d.RuleID, &severity, &d.Message, &d.Category, &d.URL,
			&filePath, &start.Line, &start.Column, &start.Offset, &end.Line, &end.Column, &end.Offset, &fixes,
		); err != nil {
			return nil, fmt.Errorf("failed to scan diagnostic: %w", err)
		}

		sev, ok := core.ParseSeverity(severity)
		if !ok {
			return nil, fmt.Errorf("invalid severity %q in run %s", severity, runID)
		}
		d.Severity = sev
		if filePath.Valid {
			d.Location = &core.Location{FilePath: filePath.String, Start: start, End: end}
		}
		if fixes.Valid {
			if err := json.Unmarshal([]byte(fixes.String), &d.Fixes); err != nil {
				return nil, fmt.Errorf("failed to decode fixes: %w", err)
			}
		}

		project, ok := projects[projectSeq]
		if !ok {
			return nil, fmt.Errorf("diagnostic references unknown project %d in run %s", projectSeq, runID)
		}
		result.AddDiagnostic(project, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to load diagnostics: %w", err)
	}
	return result, nil
}

func (s *SQLiteStore) loadProjects(ctx context.Context, runID string) (map[int]*core.Project, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT seq, project_id, name, dir FROM run_projects WHERE run_id = ? ORDER BY seq`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to load projects: %w", err)
	}
	defer func() { _ = rows.Close() }()

	projects := make(map[int]*core.Project)
	for rows.Next() {
		var (
			seq int
			p   core.Project
		)
		if err := rows.Scan(&seq, &p.ID, &p.Name, &p.Dir); err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects[seq] = &p
	}
	return projects, rows.Err()
}
