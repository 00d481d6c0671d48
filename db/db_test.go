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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"rover.dev/rover/guard"
)

func TestToSQL_CreateTable(t *testing.T) {
	op := Operation{
		Type:  OpCreateTable,
		Table: "users",
		Columns: []ColumnDef{
			{Name: "name", Type: guard.TypeString},
			{Name: "email", Type: guard.TypeString, DB: &guard.DBModifiers{Unique: true}},
		},
	}
	sql, err := ToSQL(op)
	require.NoError(t, err)
	assert.Contains(t, sql, "CREATE TABLE IF NOT EXISTS users")
	assert.Contains(t, sql, "id INTEGER PRIMARY KEY AUTOINCREMENT")
	assert.Contains(t, sql, "email TEXT UNIQUE")
}

func TestToSQL_CreateTable_UserSuppliedID(t *testing.T) {
	op := Operation{
		Type:  OpCreateTable,
		Table: "widgets",
		Columns: []ColumnDef{
			{Name: "id", Type: guard.TypeString, DB: &guard.DBModifiers{Primary: true}},
		},
	}
	sql, err := ToSQL(op)
	require.NoError(t, err)
	assert.NotContains(t, sql, "AUTOINCREMENT", "auto id column must not be injected when the user defines id")
}

func TestReverse_Invertible(t *testing.T) {
	op := Operation{Type: OpAddColumn, Table: "users", Column: "age"}
	inv, err := Reverse(op)
	require.NoError(t, err)
	assert.Equal(t, OpRemoveColumn, inv.Type)
	assert.Equal(t, "age", inv.Column)
}

func TestReverse_NotInvertible(t *testing.T) {
	op := Operation{Type: OpRaw, SQL: "VACUUM"}
	_, err := Reverse(op)
	assert.Error(t, err)
	var nie ErrNotInvertible
	assert.ErrorAs(t, err, &nie)
}

func TestMustInvert_RejectsRawInChange(t *testing.T) {
	ops := []Operation{
		{Type: OpCreateTable, Table: "t"},
		{Type: OpRaw, SQL: "PRAGMA foo"},
	}
	assert.Error(t, MustInvert(ops))
}

func TestReverseAll_OrderIsFlipped(t *testing.T) {
	ops := []Operation{
		{Type: OpCreateTable, Table: "a"},
		{Type: OpAddColumn, Table: "a", Column: "x"},
	}
	inv, err := ReverseAll(ops)
	require.NoError(t, err)
	require.Len(t, inv, 2)
	assert.Equal(t, OpRemoveColumn, inv[0].Type, "inverse of the last forward op runs first")
	assert.Equal(t, OpDropTable, inv[1].Type)
}

func TestValidateDefinition(t *testing.T) {
	assert.Error(t, ValidateDefinition(true, true, false), "change() with up() must be rejected")
	assert.Error(t, ValidateDefinition(false, false, false), "neither change() nor up()/down() must be rejected")
	assert.NoError(t, ValidateDefinition(true, false, false))
	assert.NoError(t, ValidateDefinition(false, true, true))
}

func TestMigrator_ApplyAndRollback(t *testing.T) {
	m, err := Open(":memory:")
	require.NoError(t, err)
	defer m.Close()

	ctx := context.Background()
	require.NoError(t, m.EnsureMigrationsTable(ctx))

	mig := Migration{
		Name: "001_create_users",
		Up: []Operation{
			{Type: OpCreateTable, Table: "users", Columns: []ColumnDef{
				{Name: "name", Type: guard.TypeString},
			}},
		},
	}

	require.NoError(t, m.Apply(ctx, mig))

	applied, err := m.AppliedMigrations(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"001_create_users"}, applied)

	require.NoError(t, m.Rollback(ctx, mig))

	applied, err = m.AppliedMigrations(ctx)
	require.NoError(t, err)
	assert.Empty(t, applied)
}

func TestMigrator_GetStatus(t *testing.T) {
	m, err := Open(":memory:")
	require.NoError(t, err)
	defer m.Close()

	ctx := context.Background()
	require.NoError(t, m.EnsureMigrationsTable(ctx))

	mig := Migration{Name: "001_init", Up: []Operation{{Type: OpCreateTable, Table: "t"}}}
	require.NoError(t, m.Apply(ctx, mig))

	status, err := m.GetStatus(ctx, []string{"001_init", "002_add_col"})
	require.NoError(t, err)
	assert.Equal(t, []string{"001_init"}, status.Applied)
	assert.Equal(t, []string{"002_add_col"}, status.Pending)
}
