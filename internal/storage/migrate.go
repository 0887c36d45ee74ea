package storage

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strconv"
	"strings"

	"github.com/jmoiron/sqlx"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// migration is one numbered schema step, read from
// migrations/NNNN_name.{up,down}.sql.
type migration struct {
	version int
	name    string
}

// MigrateUp applies every migration newer than the database's
// user_version, each in its own transaction.
func MigrateUp(db *sqlx.DB) error {
	current, err := schemaVersion(db)
	if err != nil {
		return err
	}
	steps, err := loadMigrations(".up.sql")
	if err != nil {
		return err
	}
	for _, m := range steps {
		if m.version <= current {
			continue
		}
		if err := applyMigration(db, m, m.version); err != nil {
			return err
		}
	}
	return nil
}

// MigrateDown reverts applied migrations newest first.
func MigrateDown(db *sqlx.DB) error {
	current, err := schemaVersion(db)
	if err != nil {
		return err
	}
	steps, err := loadMigrations(".down.sql")
	if err != nil {
		return err
	}
	slices.Reverse(steps)
	for _, m := range steps {
		if m.version > current {
			continue
		}
		if err := applyMigration(db, m, m.version-1); err != nil {
			return err
		}
	}
	return nil
}

func schemaVersion(db *sqlx.DB) (int, error) {
	var v int
	if err := db.Get(&v, `PRAGMA user_version`); err != nil {
		return 0, fmt.Errorf("read schema version: %w", err)
	}
	return v, nil
}

func loadMigrations(suffix string) ([]migration, error) {
	names, err := fs.Glob(migrationFiles, "migrations/*"+suffix)
	if err != nil {
		return nil, fmt.Errorf("glob migrations: %w", err)
	}
	out := make([]migration, 0, len(names))
	for _, name := range names {
		prefix, _, ok := strings.Cut(path.Base(name), "_")
		if !ok {
			return nil, fmt.Errorf("migration %s: missing version prefix", name)
		}
		v, err := strconv.Atoi(prefix)
		if err != nil || v <= 0 {
			return nil, fmt.Errorf("migration %s: bad version %q", name, prefix)
		}
		out = append(out, migration{version: v, name: name})
	}
	slices.SortFunc(out, func(a, b migration) int { return a.version - b.version })
	return out, nil
}

func applyMigration(db *sqlx.DB, m migration, target int) error {
	body, err := migrationFiles.ReadFile(m.name)
	if err != nil {
		return fmt.Errorf("read migration %s: %w", m.name, err)
	}
	tx, err := db.Beginx()
	if err != nil {
		return fmt.Errorf("begin migration %s: %w", m.name, err)
	}
	if _, err := tx.Exec(string(body)); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("apply migration %s: %w", m.name, err)
	}
	// PRAGMA does not accept bound parameters.
	if _, err := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", target)); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("stamp migration %s: %w", m.name, err)
	}
	return tx.Commit()
}
