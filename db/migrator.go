// Copyright 2025 The Rivaas Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package db

import (
	"context"
	"database/sql"
	"fmt"
	"sort"

	_ "modernc.org/sqlite"
)

const migrationsTable = "_rover_migrations"

// Migration is one named, ordered unit of schema change plus its rollback
// operations (derived for change(), explicit for up()/down()).
type Migration struct {
	Name string
	Up   []Operation
	Down []Operation // empty for up()/down() migrations with no down()
}

// Status reports which migrations have been applied against a database,
// which are defined on disk (by name), and which are pending.
type Status struct {
	Applied []string
	Defined []string
	Pending []string
}

// Migrator applies and rolls back Migrations against a sqlite database and
// tracks progress in migrationsTable.
type Migrator struct {
	db *sql.DB
}

// Open opens (creating if needed) a sqlite database at path.
func Open(path string) (*Migrator, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return &Migrator{db: conn}, nil
}

// NewMigrator wraps an already-open database handle.
func NewMigrator(conn *sql.DB) *Migrator {
	return &Migrator{db: conn}
}

func (m *Migrator) Close() error { return m.db.Close() }

// DB exposes the underlying handle for query execution outside migrations.
func (m *Migrator) DB() *sql.DB { return m.db }

// EnsureMigrationsTable creates the tracking table if it does not exist.
func (m *Migrator) EnsureMigrationsTable(ctx context.Context) error {
	_, err := m.db.ExecContext(ctx, fmt.Sprintf(
		`CREATE TABLE IF NOT EXISTS %s (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT UNIQUE NOT NULL,
			applied_at TEXT NOT NULL
		)`, migrationsTable))
	if err != nil {
		return fmt.Errorf("ensure migrations table: %w", err)
	}
	return nil
}

// AppliedMigrations returns the set of migration names already recorded, in
// application order.
func (m *Migrator) AppliedMigrations(ctx context.Context) ([]string, error) {
	rows, err := m.db.QueryContext(ctx, fmt.Sprintf("SELECT name FROM %s ORDER BY id ASC", migrationsTable))
	if err != nil {
		return nil, fmt.Errorf("list applied migrations: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan migration name: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// GetStatus compares defined (on-disk) migration names against applied ones.
func (m *Migrator) GetStatus(ctx context.Context, defined []string) (Status, error) {
	applied, err := m.AppliedMigrations(ctx)
	if err != nil {
		return Status{}, err
	}
	appliedSet := make(map[string]bool, len(applied))
	for _, n := range applied {
		appliedSet[n] = true
	}

	sorted := append([]string(nil), defined...)
	sort.Strings(sorted)

	var pending []string
	for _, n := range sorted {
		if !appliedSet[n] {
			pending = append(pending, n)
		}
	}

	return Status{Applied: applied, Defined: sorted, Pending: pending}, nil
}

// Apply runs mig.Up inside a transaction and records the migration as
// applied. It is the caller's responsibility to have already validated
// mig (non-empty operation list, change/up-down mutual exclusion).
func (m *Migrator) Apply(ctx context.Context, mig Migration) error {
	if len(mig.Up) == 0 {
		return fmt.Errorf("migration %q generated zero SQL operations", mig.Name)
	}

	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, op := range mig.Up {
		stmt, err := ToSQL(op)
		if err != nil {
			return fmt.Errorf("migration %q: %w", mig.Name, err)
		}
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration %q: exec %q: %w", mig.Name, stmt, err)
		}
	}

	if _, err := tx.ExecContext(ctx,
		fmt.Sprintf("INSERT INTO %s (name, applied_at) VALUES (?, datetime('now'))", migrationsTable),
		mig.Name,
	); err != nil {
		return fmt.Errorf("record migration %q: %w", mig.Name, err)
	}

	return tx.Commit()
}

// Rollback runs mig.Down (or, if empty, the auto-inverted mig.Up) inside a
// transaction and removes the migration's tracking row.
func (m *Migrator) Rollback(ctx context.Context, mig Migration) error {
	down := mig.Down
	if len(down) == 0 {
		inverted, err := ReverseAll(mig.Up)
		if err != nil {
			return fmt.Errorf("migration %q: %w", mig.Name, err)
		}
		down = inverted
	}

	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, op := range down {
		stmt, err := ToSQL(op)
		if err != nil {
			return fmt.Errorf("rollback %q: %w", mig.Name, err)
		}
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("rollback %q: exec %q: %w", mig.Name, stmt, err)
		}
	}

	if _, err := tx.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s WHERE name = ?", migrationsTable), mig.Name); err != nil {
		return fmt.Errorf("unrecord migration %q: %w", mig.Name, err)
	}

	return tx.Commit()
}

// ValidateDefinition enforces the change()-vs-up()/down() mutual exclusion
// rule: a migration must define exactly one of change() (rollback derived
// automatically) or up()/down() (rollback explicit), never both, never
// neither.
func ValidateDefinition(hasChange, hasUp, hasDown bool) error {
	if hasChange && (hasUp || hasDown) {
		return fmt.Errorf("migration cannot define both change() and up()/down(); use one or the other")
	}
	if !hasChange && !hasUp && !hasDown {
		return fmt.Errorf("migration must define change() or up()/down()")
	}
	return nil
}
