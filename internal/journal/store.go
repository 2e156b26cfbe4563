package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// timestampLayout keeps a fixed-width fraction so text order matches time order.
const timestampLayout = "2006-01-02T15:04:05.000000000Z07:00"

const dispatchColumns = "id, track_number, service_name, transport, destination, status, job_id, error_message, created_at, updated_at"

// Store manages journal persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the journal database.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("journal path required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure journal directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
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

	// Pragmas are per connection.
	db.SetMaxOpenConns(1)

	store := &Store{db: db, path: path}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
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

// Record inserts a dispatch. Zero timestamps are set to now.
func (s *Store) Record(ctx context.Context, d Dispatch) error {
	if strings.TrimSpace(d.ID) == "" {
		return errors.New("dispatch id required")
	}
	now := time.Now().UTC()
	if d.CreatedAt.IsZero() {
		d.CreatedAt = now
	}
	if d.UpdatedAt.IsZero() {
		d.UpdatedAt = d.CreatedAt
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO dispatches (`+dispatchColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		d.ID,
		d.TrackNumber,
		nullableString(d.ServiceName),
		d.Transport,
		d.Destination,
		string(d.Status),
		nullableInt(d.JobID),
		nullableString(d.ErrorMessage),
		formatTimestamp(d.CreatedAt),
		formatTimestamp(d.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("insert dispatch: %w", err)
	}
	return nil
}

// RecordEvent appends a job transition and moves the dispatch to status.
// Dispatches already in a terminal status keep it.
func (s *Store) RecordEvent(ctx context.Context, dispatchID, event, detail string, status Status) error {
	now := formatTimestamp(time.Now())

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin event tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO job_events (dispatch_id, event, detail, created_at) VALUES (?, ?, ?, ?)`,
		dispatchID, event, nullableString(detail), now,
	); err != nil {
		return fmt.Errorf("insert job event: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE dispatches SET status = ?, updated_at = ? WHERE id = ? AND status = ?`,
		string(status), now, dispatchID, string(StatusSent),
	); err != nil {
		return fmt.Errorf("update dispatch status: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit job event: %w", err)
	}
	return nil
}

// Get fetches a dispatch by id. It returns nil when the id is unknown.
func (s *Store) Get(ctx context.Context, id string) (*Dispatch, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+dispatchColumns+` FROM dispatches WHERE id = ?`, id)
	d, err := scanDispatch(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return d, err
}

// ErrAmbiguousPrefix is returned by Lookup when a prefix matches several dispatches.
var ErrAmbiguousPrefix = errors.New("ambiguous dispatch id prefix")

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Lookup resolves a full id or a unique prefix of one. It returns nil when
// nothing matches.
func (s *Store) Lookup(ctx context.Context, idOrPrefix string) (*Dispatch, error) {
	idOrPrefix = strings.TrimSpace(idOrPrefix)
	if idOrPrefix == "" {
		return nil, nil
	}
	if d, err := s.Get(ctx, idOrPrefix); err != nil || d != nil {
		return d, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+dispatchColumns+` FROM dispatches WHERE id LIKE ? ESCAPE '\' LIMIT 2`,
		likeEscaper.Replace(idOrPrefix)+"%",
	)
	if err != nil {
		return nil, fmt.Errorf("lookup dispatch: %w", err)
	}
	defer rows.Close()

	var matches []*Dispatch
	for rows.Next() {
		d, err := scanDispatch(rows)
		if err != nil {
			return nil, err
		}
		matches = append(matches, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate dispatches: %w", err)
	}
	switch len(matches) {
	case 0:
		return nil, nil
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrAmbiguousPrefix, idOrPrefix)
	}
}

// List returns the most recent dispatches first, optionally filtered by status.
func (s *Store) List(ctx context.Context, limit int, statuses ...Status) ([]*Dispatch, error) {
	query := `SELECT ` + dispatchColumns + ` FROM dispatches`
	args := make([]any, 0, len(statuses)+1)
	if len(statuses) > 0 {
		placeholders := make([]string, len(statuses))
		for i, st := range statuses {
			placeholders[i] = "?"
			args = append(args, string(st))
		}
		query += ` WHERE status IN (` + strings.Join(placeholders, ", ") + `)`
	}
	query += ` ORDER BY created_at DESC, id`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list dispatches: %w", err)
	}
	defer rows.Close()

	var out []*Dispatch
	for rows.Next() {
		d, err := scanDispatch(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate dispatches: %w", err)
	}
	return out, nil
}

// Events returns the transitions recorded for a dispatch in order.
func (s *Store) Events(ctx context.Context, dispatchID string) ([]Event, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, dispatch_id, event, detail, created_at FROM job_events WHERE dispatch_id = ? ORDER BY id`,
		dispatchID,
	)
	if err != nil {
		return nil, fmt.Errorf("list job events: %w", err)
	}
	defer rows.Close()

	var out []Event
	for rows.Next() {
		var (
			evt     Event
			detail  sql.NullString
			created string
		)
		if err := rows.Scan(&evt.ID, &evt.DispatchID, &evt.Event, &detail, &created); err != nil {
			return nil, fmt.Errorf("scan job event: %w", err)
		}
		evt.Detail = detail.String
		evt.CreatedAt = parseTimestamp(created)
		out = append(out, evt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate job events: %w", err)
	}
	return out, nil
}

// Prune deletes dispatches created before cutoff and returns how many went.
func (s *Store) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM dispatches WHERE created_at < ?`,
		formatTimestamp(cutoff),
	)
	if err != nil {
		return 0, fmt.Errorf("prune dispatches: %w", err)
	}
	return res.RowsAffected()
}

func scanDispatch(scanner interface{ Scan(dest ...any) error }) (*Dispatch, error) {
	var (
		d           Dispatch
		serviceName sql.NullString
		status      string
		jobID       sql.NullInt64
		errorMsg    sql.NullString
		createdRaw  string
		updatedRaw  string
	)
	if err := scanner.Scan(
		&d.ID,
		&d.TrackNumber,
		&serviceName,
		&d.Transport,
		&d.Destination,
		&status,
		&jobID,
		&errorMsg,
		&createdRaw,
		&updatedRaw,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan dispatch: %w", err)
	}
	d.ServiceName = serviceName.String
	d.Status = Status(status)
	d.JobID = int(jobID.Int64)
	d.ErrorMessage = errorMsg.String
	d.CreatedAt = parseTimestamp(createdRaw)
	d.UpdatedAt = parseTimestamp(updatedRaw)
	return &d, nil
}

func formatTimestamp(ts time.Time) string {
	return ts.UTC().Format(timestampLayout)
}

func parseTimestamp(raw string) time.Time {
	ts, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}
	}
	return ts
}

func nullableString(value string) any {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return value
}

func nullableInt(value int) any {
	if value == 0 {
		return nil
	}
	return value
}
