package repository

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"sort"
	"strings"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// Migration is one versioned SQL file embedded in the binary.
type Migration struct {
	Version   string
	Name      string
	Direction string
	Path      string
}

// String returns the migration file name.
func (m Migration) String() string {
	return fmt.Sprintf("%s_%s.%s.sql", m.Version, m.Name, m.Direction)
}

// LoadMigrations returns the embedded migrations for a direction ("up" or
// "down"), ordered by version. Down migrations are returned newest first.
func LoadMigrations(direction string) ([]Migration, error) {
	return loadMigrations(migrationFS, "migrations", direction)
}

func loadMigrations(fsys fs.FS, dir, direction string) ([]Migration, error) {
	suffix := fmt.Sprintf(".%s.sql", direction)

	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("read migrations: %w", err)
	}

	var migrations []Migration
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), suffix) {
			continue
		}
		// 000001_init.up.sql -> version=000001, name=init
		base := strings.TrimSuffix(entry.Name(), suffix)
		version, name, ok := strings.Cut(base, "_")
		if !ok {
			continue
		}
		migrations = append(migrations, Migration{
			Version:   version,
			Name:      name,
			Direction: direction,
			Path:      path.Join(dir, entry.Name()),
		})
	}

	sort.Slice(migrations, func(i, j int) bool {
		if direction == "down" {
			return migrations[i].Version > migrations[j].Version
		}
		return migrations[i].Version < migrations[j].Version
	})
	return migrations, nil
}

const createMigrationsTable = `
	CREATE TABLE IF NOT EXISTS schema_migrations (
		version    TEXT PRIMARY KEY,
		applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)
`

// Migrate applies every embedded up migration that has not run yet.
// Each migration runs in its own transaction. It returns the number applied.
func Migrate(ctx context.Context, db *sql.DB, logger *slog.Logger) (int, error) {
	migrations, err := LoadMigrations("up")
	if err != nil {
		return 0, err
	}

	if _, err := db.ExecContext(ctx, createMigrationsTable); err != nil {
		return 0, fmt.Errorf("create schema_migrations: %w", err)
	}

	applied, err := appliedVersions(ctx, db)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, m := range migrations {
		if applied[m.Version] {
			continue
		}
		body, err := fs.ReadFile(migrationFS, m.Path)
		if err != nil {
			return count, fmt.Errorf("read %s: %w", m, err)
		}

		err = Tx(ctx, db, func(tx *sql.Tx) error {
			if _, err := tx.ExecContext(ctx, string(body)); err != nil {
				return err
			}
			_, err := tx.ExecContext(ctx, `INSERT INTO schema_migrations (version) VALUES ($1)`, m.Version)
			return err
		})
		if err != nil {
			return count, fmt.Errorf("apply %s: %w", m, err)
		}

		logger.Info("applied migration", "version", m.Version, "name", m.Name)
		count++
	}
	return count, nil
}

// MigrateDown reverts the most recently applied migration.
func MigrateDown(ctx context.Context, db *sql.DB, logger *slog.Logger) error {
	migrations, err := LoadMigrations("down")
	if err != nil {
		return err
	}

	applied, err := appliedVersions(ctx, db)
	if err != nil {
		return err
	}

	for _, m := range migrations {
		if !applied[m.Version] {
			continue
		}
		body, err := fs.ReadFile(migrationFS, m.Path)
		if err != nil {
			return fmt.Errorf("read %s: %w", m, err)
		}
		err = Tx(ctx, db, func(tx *sql.Tx) error {
			if _, err := tx.ExecContext(ctx, string(body)); err != nil {
				return err
			}
			_, err := tx.ExecContext(ctx, `DELETE FROM schema_migrations WHERE version = $1`, m.Version)
			return err
		})
		if err != nil {
			return fmt.Errorf("revert %s: %w", m, err)
		}
		logger.Info("reverted migration", "version", m.Version, "name", m.Name)
		return nil
	}

	logger.Info("no migrations to revert")
	return nil
}

func appliedVersions(ctx context.Context, db *sql.DB) (map[string]bool, error) {
	rows, err := db.QueryContext(ctx, `SELECT version FROM schema_migrations`)
	if err != nil {
		return nil, fmt.Errorf("list applied migrations: %w", err)
	}
	defer rows.Close()

	applied := make(map[string]bool)
	for rows.Next() {
		var version string
		if err := rows.Scan(&version); err != nil {
			return nil, err
		}
		applied[version] = true
	}
	return applied, rows.Err()
}
