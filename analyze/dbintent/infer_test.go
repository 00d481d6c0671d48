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

package dbintent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rover.dev/rover/analyze"
)

const dbScript = `
local app = rover.server()

function app.users.post(req)
	db.users:insert({ name = "Ada", age = 30, active = true })
	return api.json({})
end

function app.users.p_id.get(req)
	local row = db.users:by_email("a@example.com")
	return api.json({})
end
`

func TestInfer_InsertFields(t *testing.T) {
	root := analyze.Parse(dbScript)
	tables := Infer(root, dbScript)

	require.Contains(t, tables, "users")
	users := tables["users"]

	require.Contains(t, users.Fields, "name")
	assert.Equal(t, FieldString, users.Fields["name"].Type)

	require.Contains(t, users.Fields, "age")
	assert.Equal(t, FieldInteger, users.Fields["age"].Type)

	require.Contains(t, users.Fields, "active")
	assert.Equal(t, FieldBoolean, users.Fields["active"].Type)

	assert.Contains(t, users.Fields, "id", "id is always inferred even without explicit insert")
}

func TestInfer_FilterField(t *testing.T) {
	root := analyze.Parse(dbScript)
	tables := Infer(root, dbScript)
	users := tables["users"]
	require.Contains(t, users.Fields, "email")
	assert.Equal(t, "filter", users.Fields["email"].From.Kind)
}

func TestCrossCheck_FlagsTypeMismatch(t *testing.T) {
	root := analyze.Parse(dbScript)
	tables := Infer(root, dbScript)
	users := tables["users"]

	schema := []byte(`{
		"type": "object",
		"properties": {
			"name": {"type": "string"},
			"age": {"type": "string"},
			"active": {"type": "boolean"},
			"email": {"type": "string"},
			"id": {"type": "integer"}
		}
	}`)

	warnings, err := CrossCheck(users, "users", schema)
	require.NoError(t, err)

	found := false
	for _, w := range warnings {
		if w.Field == "age" {
			found = true
		}
	}
	assert.True(t, found, "age inferred as integer but schema says string must warn")
}

func TestCrossCheck_NoWarningsWhenCompatible(t *testing.T) {
	root := analyze.Parse(dbScript)
	tables := Infer(root, dbScript)
	users := tables["users"]

	schema := []byte(`{
		"type": "object",
		"properties": {
			"name": {"type": "string"},
			"age": {"type": "integer"},
			"active": {"type": "boolean"},
			"email": {"type": "string"},
			"id": {"type": "integer"}
		}
	}`)

	warnings, err := CrossCheck(users, "users", schema)
	require.NoError(t, err)
	assert.Empty(t, warnings)
}
