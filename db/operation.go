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
	"fmt"
	"sort"
	"strings"

	"rover.dev/rover/guard"
)

// OpType enumerates the schema operations a migration script can emit.
type OpType string

const (
	OpCreateTable  OpType = "create_table"
	OpDropTable    OpType = "drop_table"
	OpAddColumn    OpType = "add_column"
	OpRemoveColumn OpType = "remove_column"
	OpRenameColumn OpType = "rename_column"
	OpCreateIndex  OpType = "create_index"
	OpDropIndex    OpType = "drop_index"
	OpRenameTable  OpType = "rename_table"
	OpRaw          OpType = "raw"
)

// ColumnDef describes one column of a create_table or add_column operation,
// sourced from a guard.Field plus its DB modifier chain.
type ColumnDef struct {
	Name string
	Type guard.FieldType
	DB   *guard.DBModifiers
}

// Operation is one recorded schema change. Only the fields relevant to Type
// are populated.
type Operation struct {
	Type OpType

	Table    string
	Column   string
	Columns  []ColumnDef // create_table
	OldTable string      // not read by Reverse or ToSQL; rename_table takes its source from Table
	NewTable string      // rename_table target
	OldCol   string
	NewCol   string
	Index    string
	SQL      string // raw
}

// ErrNotInvertible is returned by Reverse for an operation with no
// mechanical inverse (drop_table, remove_column, drop_index, raw).
type ErrNotInvertible struct {
	Op OpType
}

func (e ErrNotInvertible) Error() string {
	return fmt.Sprintf("operation %q has no automatic inverse; use up()/down() instead of change()", e.Op)
}

// Reverse returns the mechanical inverse of op, for use when rolling back a
// change()-based migration. Operations without a safe mechanical inverse
// return ErrNotInvertible — callers should have already rejected these via
// MustInvert before ever running the migration forward.
func Reverse(op Operation) (Operation, error) {
	switch op.Type {
	case OpCreateTable:
		return Operation{Type: OpDropTable, Table: op.Table}, nil
	case OpAddColumn:
		return Operation{Type: OpRemoveColumn, Table: op.Table, Column: op.Column}, nil
	case OpRenameColumn:
		return Operation{Type: OpRenameColumn, Table: op.Table, OldCol: op.NewCol, NewCol: op.OldCol}, nil
	case OpCreateIndex:
		return Operation{Type: OpDropIndex, Table: op.Table, Index: op.Index}, nil
	case OpRenameTable:
		return Operation{Type: OpRenameTable, Table: op.NewTable, NewTable: op.Table}, nil
	default:
		return Operation{}, ErrNotInvertible{Op: op.Type}
	}
}

// MustInvert reports whether every operation in ops has a mechanical
// inverse. change() migrations must satisfy this before they are accepted;
// up()/down() migrations are exempt because down() supplies its own
// operations explicitly.
func MustInvert(ops []Operation) error {
	for _, op := range ops {
		if _, err := Reverse(op); err != nil {
			return err
		}
	}
	return nil
}

// ReverseAll reverses and order-flips ops, the inverse of applying them in
// sequence: the inverse of [A, B, C] is [C⁻¹, B⁻¹, A⁻¹].
func ReverseAll(ops []Operation) ([]Operation, error) {
	out := make([]Operation, 0, len(ops))
	for i := len(ops) - 1; i >= 0; i-- {
		inv, err := Reverse(ops[i])
		if err != nil {
			return nil, err
		}
		out = append(out, inv)
	}
	return out, nil
}

// ToSQL renders op as a single SQLite statement, or "" for operations (none
// currently) that produce no direct SQL.
func ToSQL(op Operation) (string, error) {
	switch op.Type {
	case OpCreateTable:
		return createTableSQL(op)
	case OpDropTable:
		return fmt.Sprintf("DROP TABLE IF EXISTS %s", op.Table), nil
	case OpAddColumn:
		if len(op.Columns) != 1 {
			return "", fmt.Errorf("add_column requires exactly one column definition")
		}
		return fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s", op.Table, columnSQL(op.Columns[0])), nil
	case OpRemoveColumn:
		return fmt.Sprintf("ALTER TABLE %s DROP COLUMN %s", op.Table, op.Column), nil
	case OpRenameColumn:
		return fmt.Sprintf("ALTER TABLE %s RENAME COLUMN %s TO %s", op.Table, op.OldCol, op.NewCol), nil
	case OpCreateIndex:
		return fmt.Sprintf("CREATE INDEX IF NOT EXISTS %s ON %s (%s)", op.Index, op.Table, strings.Join(colNames(op.Columns), ", ")), nil
	case OpDropIndex:
		return fmt.Sprintf("DROP INDEX IF EXISTS %s", op.Index), nil
	case OpRenameTable:
		return fmt.Sprintf("ALTER TABLE %s RENAME TO %s", op.Table, op.NewTable), nil
	case OpRaw:
		return op.SQL, nil
	default:
		return "", fmt.Errorf("unknown operation type %q", op.Type)
	}
}

func colNames(cols []ColumnDef) []string {
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.Name
	}
	return names
}

func createTableSQL(op Operation) (string, error) {
	if len(op.Table) == 0 {
		return "", fmt.Errorf("create_table requires a table name")
	}
	cols := op.Columns
	hasID := false
	for _, c := range cols {
		if c.Name == "id" {
			hasID = true
			break
		}
	}

	lines := make([]string, 0, len(cols)+1)
	if !hasID {
		lines = append(lines, "id INTEGER PRIMARY KEY AUTOINCREMENT")
	}

	var constraints []string
	defs := make([]string, 0, len(cols))
	for _, c := range cols {
		defs = append(defs, columnSQL(c))
		if c.DB != nil && c.DB.References != "" {
			table, col := splitReference(c.DB.References)
			constraints = append(constraints, fmt.Sprintf("FOREIGN KEY (%s) REFERENCES %s(%s)", c.Name, table, col))
		}
	}
	sort.SliceStable(defs, func(i, j int) bool {
		iPk := strings.Contains(defs[i], "PRIMARY KEY")
		jPk := strings.Contains(defs[j], "PRIMARY KEY")
		if iPk != jPk {
			return iPk
		}
		return defs[i] < defs[j]
	})

	lines = append(lines, defs...)
	lines = append(lines, constraints...)

	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n  %s\n)", op.Table, strings.Join(lines, ",\n  ")), nil
}

func splitReference(ref string) (table, column string) {
	parts := strings.SplitN(ref, ".", 2)
	if len(parts) == 2 {
		return parts[0], parts[1]
	}
	return parts[0], "id"
}

func columnSQL(c ColumnDef) string {
	var b strings.Builder
	b.WriteString(c.Name)
	b.WriteByte(' ')
	b.WriteString(sqliteType(c.Type))

	if c.DB != nil {
		if c.DB.Primary {
			b.WriteString(" PRIMARY KEY")
		}
		if c.DB.Auto {
			b.WriteString(" AUTOINCREMENT")
		}
		if c.DB.Unique {
			b.WriteString(" UNIQUE")
		}
	}
	return b.String()
}

func sqliteType(t guard.FieldType) string {
	switch t {
	case guard.TypeInteger, guard.TypeBoolean:
		return "INTEGER"
	case guard.TypeNumber:
		return "REAL"
	default:
		return "TEXT"
	}
}
