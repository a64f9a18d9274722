package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	"switchgraph/internal/domain"
	"switchgraph/internal/repository"
)

// Repository implements repository.HistoryRepository using SQLite
type Repository struct {
	db *sql.DB
}

var _ repository.HistoryRepository = (*Repository)(nil)

// New opens (creating if needed) the history database
func New(dbPath string) (*Repository, error) {
	dsn := dbPath
	if dbPath != ":memory:" {
		dsn = "file:" + dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if dbPath == ":memory:" {
		// Each pooled connection would otherwise get its own empty database
		db.SetMaxOpenConns(1)
	}

	repo := &Repository{db: db}
	if err := repo.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return repo, nil
}

func (r *Repository) migrate() error {
	schema := `
	PRAGMA foreign_keys = ON;

	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		source TEXT NOT NULL,
		started_at INTEGER NOT NULL,
		finished_at INTEGER NOT NULL,
		node_count INTEGER NOT NULL DEFAULT 0,
		edge_count INTEGER NOT NULL DEFAULT 0,
		output_path TEXT
	);

	CREATE TABLE IF NOT EXISTS run_devices (
		run_id TEXT NOT NULL,
		device TEXT NOT NULL,
		outcome TEXT NOT NULL,
		interfaces INTEGER NOT NULL DEFAULT 0,
		bindings INTEGER NOT NULL DEFAULT 0,
		skipped INTEGER NOT NULL DEFAULT 0,
		error TEXT,
		PRIMARY KEY (run_id, device),
		FOREIGN KEY (run_id) REFERENCES runs(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS run_links (
		run_id TEXT NOT NULL,
		a_device TEXT NOT NULL,
		a_interface TEXT NOT NULL,
		b_device TEXT NOT NULL,
		b_interface TEXT NOT NULL,
		evidence INTEGER NOT NULL DEFAULT 0,
		sample_mac TEXT,
		PRIMARY KEY (run_id, a_device, a_interface, b_device, b_interface),
		FOREIGN KEY (run_id) REFERENCES runs(id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at);
	CREATE INDEX IF NOT EXISTS idx_run_devices_device ON run_devices(device);
	`

	_, err := r.db.Exec(schema)
	return err
}

// SaveRun stores a run in a single transaction
func (r *Repository) SaveRun(ctx context.Context, run *domain.Run) error {
	if run.ID == "" {
		return errors.New("run id is required")
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (id, source, started_at, finished_at, node_count, edge_count, output_path)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, run.ID, string(run.Source), timeToUnix(run.StartedAt), timeToUnix(run.FinishedAt),
		run.Nodes, run.Edges, stringToNull(run.Output))
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	deviceStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO run_devices (run_id, device, outcome, interfaces, bindings, skipped, error)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare device statement: %w", err)
	}
	defer deviceStmt.Close()

	for _, d := range run.Devices {
		if _, err := deviceStmt.ExecContext(ctx, run.ID, d.Device, string(d.Outcome),
			d.Interfaces, d.Bindings, d.Skipped, stringToNull(d.Error)); err != nil {
			return fmt.Errorf("failed to insert device %s: %w", d.Device, err)
		}
	}

	linkStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO run_links (run_id, a_device, a_interface, b_device, b_interface, evidence, sample_mac)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare link statement: %w", err)
	}
	defer linkStmt.Close()

	for _, l := range run.Links {
		if _, err := linkStmt.ExecContext(ctx, run.ID, l.A.Device, l.A.Interface,
			l.B.Device, l.B.Interface, l.Evidence, stringToNull(l.SampleMAC)); err != nil {
			return fmt.Errorf("failed to insert link %s: %w", l, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit run: %w", err)
	}
	return nil
}

// GetRun loads a run with its devices and links
func (r *Repository) GetRun(ctx context.Context, id string) (*domain.Run, error) {
	run := &domain.Run{ID: id}

	var (
		source         string
		started, ended int64
		output         sql.NullString
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT source, started_at, finished_at, node_count, edge_count, output_path
		FROM runs WHERE id = ?
	`, id).Scan(&source, &started, &ended, &run.Nodes, &run.Edges, &output)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("run %s: %w", id, repository.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query run: %w", err)
	}
	run.Source = domain.RunSource(source)
	run.StartedAt = unixToTime(started)
	run.FinishedAt = unixToTime(ended)
	run.Output = nullToString(output)

	if run.Devices, err = r.runDevices(ctx, id); err != nil {
		return nil, err
	}
	if run.Links, err = r.runLinks(ctx, id); err != nil {
		return nil, err
	}
	return run, nil
}

func (r *Repository) runDevices(ctx context.Context, runID string) ([]domain.DeviceReport, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT device, outcome, interfaces, bindings, skipped, error
		FROM run_devices WHERE run_id = ? ORDER BY device
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query devices: %w", err)
	}
	defer rows.Close()

	var devices []domain.DeviceReport
	for rows.Next() {
		var (
			d       domain.DeviceReport
			outcome string
			errText sql.NullString
		)
		if err := rows.Scan(&d.Device, &outcome, &d.Interfaces, &d.Bindings, &d.Skipped, &errText); err != nil {
			return nil, fmt.Errorf("failed to scan device: %w", err)
		}
		d.Outcome = domain.Outcome(outcome)
		d.Error = nullToString(errText)
		devices = append(devices, d)
	}
	return devices, rows.Err()
}

func (r *Repository) runLinks(ctx context.Context, runID string) ([]domain.Link, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT a_device, a_interface, b_device, b_interface, evidence, sample_mac
		FROM run_links WHERE run_id = ?
		ORDER BY a_device, a_interface, b_device, b_interface
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query links: %w", err)
	}
	defer rows.Close()

	var links []domain.Link
	for rows.Next() {
		var (
			l      domain.Link
			sample sql.NullString
		)
		if err := rows.Scan(&l.A.Device, &l.A.Interface, &l.B.Device, &l.B.Interface, &l.Evidence, &sample); err != nil {
			return nil, fmt.Errorf("failed to scan link: %w", err)
		}
		l.SampleMAC = nullToString(sample)
		links = append(links, l)
	}
	return links, rows.Err()
}

// ListRuns returns run summaries, newest first. A non-positive limit
// returns every run.
func (r *Repository) ListRuns(ctx context.Context, limit int) ([]domain.RunSummary, error) {
	query := `
		SELECT r.id, r.source, r.started_at, r.finished_at, r.node_count, r.edge_count,
			COUNT(d.device),
			COALESCE(SUM(CASE WHEN d.outcome = ? THEN 1 ELSE 0 END), 0)
		FROM runs r
		LEFT JOIN run_devices d ON d.run_id = r.id
		GROUP BY r.id
		ORDER BY r.started_at DESC, r.id
	`
	args := []any{string(domain.OutcomeFailed)}
	if limit > 0 {
		query = strings.TrimRight(query, "\n\t ") + "\n\t\tLIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []domain.RunSummary
	for rows.Next() {
		var (
			s              domain.RunSummary
			source         string
			started, ended int64
		)
		if err := rows.Scan(&s.ID, &source, &started, &ended, &s.Nodes, &s.Edges, &s.Devices, &s.Failed); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		s.Source = domain.RunSource(source)
		s.StartedAt = unixToTime(started)
		s.FinishedAt = unixToTime(ended)
		runs = append(runs, s)
	}
	return runs, rows.Err()
}

// LatestRun returns the most recently started run
func (r *Repository) LatestRun(ctx context.Context) (*domain.Run, error) {
	var id string
	err := r.db.QueryRowContext(ctx, `SELECT id FROM runs ORDER BY started_at DESC, id LIMIT 1`).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query latest run: %w", err)
	}
	return r.GetRun(ctx, id)
}

// Close closes the database
func (r *Repository) Close() error {
	return r.db.Close()
}
