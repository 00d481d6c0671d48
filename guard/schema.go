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

package guard

// FieldType enumerates the validator types a guard field can declare,
// matching the script-facing grammar's primitive and container kinds.
type FieldType string

const (
	TypeString  FieldType = "string"
	TypeNumber  FieldType = "number"
	TypeInteger FieldType = "integer"
	TypeBoolean FieldType = "boolean"
	TypeArray   FieldType = "array"
	TypeObject  FieldType = "object"
)

// DBModifiers carries the column-level modifier chain a guard field can
// declare for use by a DB guard binding (primary/auto/unique/references/
// index), independent of request-body validation.
type DBModifiers struct {
	Primary    bool
	Auto       bool
	Unique     bool
	Index      bool
	References string // "table.column", empty when unset
}

// Field is one node of a Schema: a single validator configuration. Array
// fields carry Element (the per-item schema); object fields carry Schema
// (the nested field map).
type Field struct {
	Type        FieldType
	Required    bool
	RequiredMsg string
	Default     any
	Enum        []string

	Element *Field
	Schema  Schema

	DB *DBModifiers
}

// Schema is an object's field map, keyed by field name. A Schema is itself
// the guard binding's top-level shape (the request body is always a JSON
// object at the root, per spec's body-validation contract).
type Schema map[string]*Field
