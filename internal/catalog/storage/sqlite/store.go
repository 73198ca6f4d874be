// Package sqlite provides a SQLite-backed catalog store.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/louisbranch/gradpack/internal/catalog"
	"github.com/louisbranch/gradpack/internal/catalog/storage/sqlite/migrations"
	"github.com/louisbranch/gradpack/internal/platform/storage/sqlitemigrate"
	_ "modernc.org/sqlite"
)

// Store persists the catalog in SQLite.
type Store struct {
	sqlDB *sql.DB
	now   func() time.Time
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

// Open opens a SQLite catalog store and applies embedded migrations.
func Open(ctx context.Context, path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage dir: %w", err)
		}
	}
	dsn := filepath.Clean(path) +
		"?_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := sqlitemigrate.Apply(ctx, sqlDB, migrations.FS, ""); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB, now: time.Now}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

func (s *Store) ready(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	return nil
}

// ListProfessions returns every profession sorted by name.
func (s *Store) ListProfessions(ctx context.Context) ([]catalog.Profession, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	rows, err := s.sqlDB.QueryContext(ctx, `SELECT name, hours FROM professions ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list professions: %w", err)
	}
	defer rows.Close()

	var professions []catalog.Profession
	index := map[string]int{}
	for rows.Next() {
		var p catalog.Profession
		if err := rows.Scan(&p.Name, &p.Hours); err != nil {
			return nil, fmt.Errorf("list professions: %w", err)
		}
		index[p.Name] = len(professions)
		professions = append(professions, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list professions: %w", err)
	}

	codeRows, err := s.sqlDB.QueryContext(ctx, `SELECT profession_name, code FROM profession_codes ORDER BY profession_name, code`)
	if err != nil {
		return nil, fmt.Errorf("list profession codes: %w", err)
	}
	defer codeRows.Close()
	for codeRows.Next() {
		var name string
		var code int
		if err := codeRows.Scan(&name, &code); err != nil {
			return nil, fmt.Errorf("list profession codes: %w", err)
		}
		if i, ok := index[name]; ok {
			professions[i].Codes = append(professions[i].Codes, code)
		}
	}
	if err := codeRows.Err(); err != nil {
		return nil, fmt.Errorf("list profession codes: %w", err)
	}
	return professions, nil
}

// GetProfession returns one profession by name.
func (s *Store) GetProfession(ctx context.Context, name string) (catalog.Profession, error) {
	if err := s.ready(ctx); err != nil {
		return catalog.Profession{}, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return catalog.Profession{}, fmt.Errorf("%w: profession name is required", catalog.ErrInvalid)
	}

	p := catalog.Profession{Name: name}
	err := s.sqlDB.QueryRowContext(ctx, `SELECT hours FROM professions WHERE name = ?`, name).Scan(&p.Hours)
	if errors.Is(err, sql.ErrNoRows) {
		return catalog.Profession{}, catalog.ErrNotFound
	}
	if err != nil {
		return catalog.Profession{}, fmt.Errorf("get profession: %w", err)
	}

	rows, err := s.sqlDB.QueryContext(ctx, `SELECT code FROM profession_codes WHERE profession_name = ? ORDER BY code`, name)
	if err != nil {
		return catalog.Profession{}, fmt.Errorf("get profession codes: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var code int
		if err := rows.Scan(&code); err != nil {
			return catalog.Profession{}, fmt.Errorf("get profession codes: %w", err)
		}
		p.Codes = append(p.Codes, code)
	}
	if err := rows.Err(); err != nil {
		return catalog.Profession{}, fmt.Errorf("get profession codes: %w", err)
	}
	return p, nil
}

// PutProfession inserts or replaces a profession and its codes.
func (s *Store) PutProfession(ctx context.Context, profession catalog.Profession) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	profession = profession.Normalize()
	if profession.Name == "" {
		return fmt.Errorf("%w: profession name is required", catalog.ErrInvalid)
	}
	if profession.Hours < 0 {
		return fmt.Errorf("%w: hours must not be negative", catalog.ErrInvalid)
	}
	for _, code := range profession.Codes {
		if code <= 0 {
			return fmt.Errorf("%w: code %d must be positive", catalog.ErrInvalid, code)
		}
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("put profession: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	now := toMillis(s.now())
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO professions (name, hours, created_at, updated_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET
		   hours = excluded.hours,
		   updated_at = excluded.updated_at`,
		profession.Name, profession.Hours, now, now,
	); err != nil {
		return fmt.Errorf("put profession: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM profession_codes WHERE profession_name = ?`, profession.Name); err != nil {
		return fmt.Errorf("put profession codes: %w", err)
	}
	for _, code := range profession.Codes {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO profession_codes (profession_name, code) VALUES (?, ?)`,
			profession.Name, code,
		); err != nil {
			return fmt.Errorf("put profession codes: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("put profession: %w", err)
	}
	return nil
}

// DeleteProfession removes a profession and its codes.
func (s *Store) DeleteProfession(ctx context.Context, name string) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("delete profession: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	name = strings.TrimSpace(name)
	if _, err := tx.ExecContext(ctx, `DELETE FROM profession_codes WHERE profession_name = ?`, name); err != nil {
		return fmt.Errorf("delete profession codes: %w", err)
	}
	result, err := tx.ExecContext(ctx, `DELETE FROM professions WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("delete profession: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return catalog.ErrNotFound
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("delete profession: %w", err)
	}
	return nil
}

// ListTeachers returns teachers in the order they were added.
func (s *Store) ListTeachers(ctx context.Context) ([]catalog.Teacher, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	rows, err := s.sqlDB.QueryContext(ctx, `SELECT name FROM teachers ORDER BY created_at, rowid`)
	if err != nil {
		return nil, fmt.Errorf("list teachers: %w", err)
	}
	defer rows.Close()
	var teachers []catalog.Teacher
	for rows.Next() {
		var teacher catalog.Teacher
		if err := rows.Scan(&teacher.Name); err != nil {
			return nil, fmt.Errorf("list teachers: %w", err)
		}
		teachers = append(teachers, teacher)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list teachers: %w", err)
	}
	return teachers, nil
}

// PutTeacher adds a teacher; adding an existing name is a no-op.
func (s *Store) PutTeacher(ctx context.Context, teacher catalog.Teacher) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	name := strings.TrimSpace(teacher.Name)
	if name == "" {
		return fmt.Errorf("%w: teacher name is required", catalog.ErrInvalid)
	}
	if _, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO teachers (name, created_at) VALUES (?, ?) ON CONFLICT(name) DO NOTHING`,
		name, toMillis(s.now()),
	); err != nil {
		return fmt.Errorf("put teacher: %w", err)
	}
	return nil
}

// DeleteTeacher removes a teacher.
func (s *Store) DeleteTeacher(ctx context.Context, name string) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	result, err := s.sqlDB.ExecContext(ctx, `DELETE FROM teachers WHERE name = ?`, strings.TrimSpace(name))
	if err != nil {
		return fmt.Errorf("delete teacher: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return catalog.ErrNotFound
	}
	return nil
}

var _ catalog.Store = (*Store)(nil)
