package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"curator/internal/report"
)

// Store manages run history persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the history database at the given path.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{db: db, path: dbPath}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// Begin inserts a new run in the running state and returns its identifier.
func (s *Store) Begin(ctx context.Context, mode, ruleFile string) (*Run, error) {
	run := &Run{
		ID:        uuid.NewString(),
		Mode:      mode,
		RuleFile:  ruleFile,
		Status:    report.StatusRunning,
		Counts:    map[report.Kind]int{},
		StartedAt: time.Now().UTC(),
	}
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO runs (id, mode, rule_file, status, started_at) VALUES (?, ?, ?, ?, ?)`,
		run.ID,
		run.Mode,
		run.RuleFile,
		string(run.Status),
		run.StartedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return nil, fmt.Errorf("insert run: %w", err)
	}
	return run, nil
}

// Finish records the frozen summary of a terminated run.
func (s *Store) Finish(ctx context.Context, runID string, summary report.RunSummary) error {
	countsJSON, err := json.Marshal(summary.Counts)
	if err != nil {
		return fmt.Errorf("marshal counts: %w", err)
	}
	res, err := s.db.ExecContext(
		ctx,
		`UPDATE runs
         SET status = ?, exit_code = ?, total_lines = ?, duration_ticks = ?,
             counts_json = ?, finished_at = ?
         WHERE id = ?`,
		string(summary.Status),
		summary.ExitCode,
		summary.TotalLines,
		summary.DurationTicks,
		string(countsJSON),
		time.Now().UTC().Format(time.RFC3339Nano),
		runID,
	)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("finish run: unknown run %s", runID)
	}
	return nil
}

// AppendActions stores a batch of action records for a run.
func (s *Store) AppendActions(ctx context.Context, runID string, records []report.ActionRecord) error {
	if len(records) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(
		ctx,
		`INSERT INTO run_actions (run_id, seq, kind, rule_name, source_path, destination_path, message, simulated)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, rec := range records {
		if _, err := stmt.ExecContext(
			ctx,
			runID,
			rec.Seq,
			string(rec.Kind),
			nullableString(rec.RuleName),
			nullableString(rec.SourcePath),
			nullableString(rec.DestinationPath),
			rec.Message,
			boolToInt(rec.Simulated),
		); err != nil {
			return fmt.Errorf("insert action %d: %w", rec.Seq, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit actions: %w", err)
	}
	return nil
}

// GetRun fetches a run by identifier. Returns nil when absent.
func (s *Store) GetRun(ctx context.Context, runID string) (*Run, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, runID)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}
	return run, nil
}

// ListRuns returns the most recent runs, newest first.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]*Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT `+runColumns+` FROM runs ORDER BY started_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// Actions returns the stored records of one run in capture order.
func (s *Store) Actions(ctx context.Context, runID string) ([]report.ActionRecord, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT seq, kind, rule_name, source_path, destination_path, message, simulated
         FROM run_actions WHERE run_id = ? ORDER BY seq`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("query actions: %w", err)
	}
	defer rows.Close()

	var records []report.ActionRecord
	for rows.Next() {
		var (
			rec       report.ActionRecord
			kind      string
			ruleName  sql.NullString
			source    sql.NullString
			dest      sql.NullString
			simulated int
		)
		if err := rows.Scan(&rec.Seq, &kind, &ruleName, &source, &dest, &rec.Message, &simulated); err != nil {
			return nil, err
		}
		rec.Kind = report.Kind(kind)
		rec.RuleName = ruleName.String
		rec.SourcePath = source.String
		rec.DestinationPath = dest.String
		rec.Simulated = simulated != 0
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Clear removes all stored runs and their actions.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM runs`)
	if err != nil {
		return 0, fmt.Errorf("clear history: %w", err)
	}
	return res.RowsAffected()
}

const runColumns = "id, mode, rule_file, status, exit_code, total_lines, duration_ticks, counts_json, started_at, finished_at"

func scanRun(scanner interface{ Scan(dest ...any) error }) (*Run, error) {
	var (
		run         Run
		statusStr   string
		countsRaw   sql.NullString
		startedRaw  string
		finishedRaw sql.NullString
	)
	if err := scanner.Scan(
		&run.ID,
		&run.Mode,
		&run.RuleFile,
		&statusStr,
		&run.ExitCode,
		&run.TotalLines,
		&run.DurationTicks,
		&countsRaw,
		&startedRaw,
		&finishedRaw,
	); err != nil {
		return nil, err
	}

	run.Status = report.RunStatus(statusStr)
	run.Counts = map[report.Kind]int{}
	if countsRaw.Valid && countsRaw.String != "" {
		if err := json.Unmarshal([]byte(countsRaw.String), &run.Counts); err != nil {
			return nil, fmt.Errorf("decode counts: %w", err)
		}
	}
	if started, err := time.Parse(time.RFC3339Nano, startedRaw); err == nil {
		run.StartedAt = started
	}
	if finishedRaw.Valid {
		if finished, err := time.Parse(time.RFC3339Nano, finishedRaw.String); err == nil {
			run.FinishedAt = &finished
		}
	}
	return &run, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}
