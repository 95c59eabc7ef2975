// Package store handles SQLite persistence.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/verte-zerg/accelcurve/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// ErrNotFound is returned when a named profile does not exist.
var ErrNotFound = errors.New("profile not found")

// Store wraps SQLite access for saved profiles and apply history.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db, now: time.Now}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS profiles (
			name TEXT PRIMARY KEY,
			mode TEXT NOT NULL,
			body TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS applied (
			id INTEGER PRIMARY KEY,
			applied_at TEXT NOT NULL,
			profile TEXT NOT NULL,
			target TEXT NOT NULL,
			body TEXT NOT NULL
		);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// SaveProfile inserts or replaces a named profile.
func (s *Store) SaveProfile(ctx context.Context, rec model.ProfileRecord) error {
	if rec.Name == "" {
		return fmt.Errorf("profile name is empty")
	}
	if rec.UpdatedAt.IsZero() {
		rec.UpdatedAt = s.now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO profiles (name, mode, body, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET mode = excluded.mode, body = excluded.body, updated_at = excluded.updated_at`,
		rec.Name, rec.Mode, rec.Body, rec.UpdatedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("failed to save profile %q: %w", rec.Name, err)
	}
	return nil
}

// LoadProfile returns the named profile or ErrNotFound.
func (s *Store) LoadProfile(ctx context.Context, name string) (model.ProfileRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT name, mode, body, updated_at FROM profiles WHERE name = ?`, name)
	rec, err := scanProfile(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.ProfileRecord{}, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if err != nil {
		return model.ProfileRecord{}, err
	}
	return rec, nil
}

// ListProfiles returns every stored profile ordered by name.
func (s *Store) ListProfiles(ctx context.Context) ([]model.ProfileRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name, mode, body, updated_at FROM profiles ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var result []model.ProfileRecord
	for rows.Next() {
		rec, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// DeleteProfile removes the named profile or returns ErrNotFound.
func (s *Store) DeleteProfile(ctx context.Context, name string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM profiles WHERE name = ?`, name)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return nil
}

// RecordApply logs a snapshot written to target.
func (s *Store) RecordApply(ctx context.Context, rec model.ApplyRecord) (int64, error) {
	if rec.AppliedAt.IsZero() {
		rec.AppliedAt = s.now()
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO applied (applied_at, profile, target, body) VALUES (?, ?, ?, ?)`,
		rec.AppliedAt.UTC().Format(time.RFC3339Nano), rec.Profile, rec.Target, rec.Body)
	if err != nil {
		return 0, fmt.Errorf("failed to record apply: %w", err)
	}
	return res.LastInsertId()
}

// ListApplied returns the most recent apply records, newest first. A limit
// of 0 or less returns all of them.
func (s *Store) ListApplied(ctx context.Context, limit int) ([]model.ApplyRecord, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, applied_at, profile, target, body FROM applied
		 ORDER BY id DESC
		 LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var result []model.ApplyRecord
	for rows.Next() {
		var rec model.ApplyRecord
		var appliedAt string
		if err := rows.Scan(&rec.ID, &appliedAt, &rec.Profile, &rec.Target, &rec.Body); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(time.RFC3339Nano, appliedAt)
		if err != nil {
			return nil, err
		}
		rec.AppliedAt = parsed
		result = append(result, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProfile(row scanner) (model.ProfileRecord, error) {
	var rec model.ProfileRecord
	var updatedAt string
	if err := row.Scan(&rec.Name, &rec.Mode, &rec.Body, &updatedAt); err != nil {
		return model.ProfileRecord{}, err
	}
	parsed, err := time.Parse(time.RFC3339Nano, updatedAt)
	if err != nil {
		return model.ProfileRecord{}, err
	}
	rec.UpdatedAt = parsed
	return rec, nil
}
