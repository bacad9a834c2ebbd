package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"syllabus-cli/internal/errs"
)

const sqliteFileName = "syllabus.sqlite"

// SQLiteStore keeps one row per course in a local SQLite file.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (and migrates) <dir>/syllabus.sqlite, creating dir when needed.
func OpenSQLite(ctx context.Context, dir string) (*SQLiteStore, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return nil, errors.New("sqlite store: missing dir")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	path := filepath.Join(dir, sqliteFileName)
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// Pragmas are per connection.
	db.SetMaxOpenConns(1)
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	s := &SQLiteStore{db: db}
	if err := s.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) Close() error { return s.db.Close() }

func (s *SQLiteStore) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS course_aggregates (
			id TEXT PRIMARY KEY,
			owner_id TEXT NOT NULL,
			title TEXT NOT NULL,
			schema_version INTEGER NOT NULL,
			json TEXT NOT NULL,
			updated_at_unixms INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_course_aggregates_owner ON course_aggregates(owner_id);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate sqlite: %w", err)
		}
	}
	return nil
}

func (s *SQLiteStore) LoadAggregate(ctx context.Context, courseID string) (CourseDocument, error) {
	const op = "store.load_aggregate"
	courseID = strings.TrimSpace(courseID)
	var raw string
	err := s.db.QueryRowContext(ctx, `SELECT json FROM course_aggregates WHERE id = ?`, courseID).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return CourseDocument{}, errs.NotFound(op, "course", courseID)
	}
	if err != nil {
		return CourseDocument{}, mapSQLiteError(op, err)
	}
	return decodeDocument(op, []byte(raw))
}

func (s *SQLiteStore) SaveAggregate(ctx context.Context, courseID string, doc CourseDocument) error {
	const op = "store.save_aggregate"
	courseID, err := checkSave(op, courseID, doc)
	if err != nil {
		return err
	}
	raw, err := encodeDocument(op, doc)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE course_aggregates SET title = ?, schema_version = ?, json = ?, updated_at_unixms = ? WHERE id = ?`,
		doc.Title, doc.SchemaVersion, string(raw), time.Now().UTC().UnixMilli(), courseID)
	if err != nil {
		return mapSQLiteError(op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return mapSQLiteError(op, err)
	}
	if n == 0 {
		return errs.NotFound(op, "course", courseID)
	}
	return nil
}

func (s *SQLiteStore) CreateAggregate(ctx context.Context, ownerID string, doc CourseDocument) error {
	const op = "store.create_aggregate"
	ownerID, err := checkCreate(op, ownerID, doc)
	if err != nil {
		return err
	}
	raw, err := encodeDocument(op, doc)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO course_aggregates(id, owner_id, title, schema_version, json, updated_at_unixms) VALUES(?, ?, ?, ?, ?, ?)`,
		doc.ID, ownerID, doc.Title, doc.SchemaVersion, string(raw), time.Now().UTC().UnixMilli())
	return mapSQLiteError(op, err)
}

func (s *SQLiteStore) DeleteAggregate(ctx context.Context, courseID string) error {
	const op = "store.delete_aggregate"
	courseID = strings.TrimSpace(courseID)
	res, err := s.db.ExecContext(ctx, `DELETE FROM course_aggregates WHERE id = ?`, courseID)
	if err != nil {
		return mapSQLiteError(op, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errs.NotFound(op, "course", courseID)
	}
	return nil
}

func (s *SQLiteStore) ListAggregates(ctx context.Context, ownerID string) ([]AggregateSummary, error) {
	const op = "store.list_aggregates"
	q := `SELECT id, owner_id, title, schema_version, updated_at_unixms FROM course_aggregates`
	var args []any
	if ownerID = strings.TrimSpace(ownerID); ownerID != "" {
		q += ` WHERE owner_id = ?`
		args = append(args, ownerID)
	}
	q += ` ORDER BY updated_at_unixms DESC, id ASC`

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, mapSQLiteError(op, err)
	}
	defer rows.Close()

	var out []AggregateSummary
	for rows.Next() {
		var (
			sum AggregateSummary
			ms  int64
		)
		if err := rows.Scan(&sum.ID, &sum.OwnerID, &sum.Title, &sum.SchemaVersion, &ms); err != nil {
			return nil, mapSQLiteError(op, err)
		}
		sum.UpdatedAt = time.UnixMilli(ms).UTC()
		out = append(out, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, mapSQLiteError(op, err)
	}
	return out, nil
}

func (s *SQLiteStore) CourseOwner(ctx context.Context, courseID string) (string, error) {
	const op = "store.course_owner"
	courseID = strings.TrimSpace(courseID)
	var owner string
	err := s.db.QueryRowContext(ctx, `SELECT owner_id FROM course_aggregates WHERE id = ?`, courseID).Scan(&owner)
	if errors.Is(err, sql.ErrNoRows) {
		return "", errs.NotFound(op, "course", courseID)
	}
	if err != nil {
		return "", mapSQLiteError(op, err)
	}
	return owner, nil
}

// mapSQLiteError turns lock contention and constraint violations into conflicts.
func mapSQLiteError(op string, err error) error {
	if err == nil {
		return nil
	}
	var se *sqlite.Error
	if errors.As(err, &se) {
		switch se.Code() & 0xff {
		case sqlite3.SQLITE_BUSY, sqlite3.SQLITE_LOCKED, sqlite3.SQLITE_CONSTRAINT:
			return errs.Conflict(op, err)
		}
	}
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "database is locked") || strings.Contains(msg, "unique constraint") {
		return errs.Conflict(op, err)
	}
	return errs.Wrap(errs.CodeInternal, op, err)
}
