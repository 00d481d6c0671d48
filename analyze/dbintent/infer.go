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
	"strings"

	"rover.dev/rover/analyze"
)

// FieldType is the analyzer's best guess at a DB field's storage type,
// inferred from the literal or call site that touched it.
type FieldType string

const (
	FieldInteger FieldType = "integer"
	FieldNumber  FieldType = "number"
	FieldString  FieldType = "string"
	FieldBoolean FieldType = "boolean"
	FieldUnknown FieldType = "unknown"
)

// ToGuardType maps an inferred FieldType to the guard DSL type name used
// when synthesizing a schema for it.
func (f FieldType) ToGuardType() string {
	switch f {
	case FieldInteger:
		return "integer"
	case FieldNumber:
		return "number"
	case FieldBoolean:
		return "boolean"
	default:
		return "string"
	}
}

func fieldTypeFromNodeKind(kind string) FieldType {
	switch kind {
	case "string":
		return FieldString
	case "true", "false":
		return FieldBoolean
	case "number":
		return FieldNumber
	default:
		return FieldUnknown
	}
}

func refineNumber(literal string) FieldType {
	if strings.Contains(literal, ".") {
		return FieldNumber
	}
	return FieldInteger
}

// Source records how a field was discovered.
type Source struct {
	Kind      string // "insert" | "filter" | "auto"
	ValueHint string
	Method    string
}

// Field is one field inferred for a table.
type Field struct {
	Name string
	Type FieldType
	From Source
}

// Table is a table's inferred field set, keyed by field name.
type Table struct {
	Name   string
	Fields map[string]Field
}

// Infer walks root (as produced by analyze.Parse) looking for db.<table>
// usage and returns every table it found evidence for, keyed by table name.
// source must be the same text root was parsed from.
func Infer(root *analyze.Node, source string) map[string]*Table {
	tables := make(map[string]*Table)
	w := &walker{source: source, tables: tables}
	w.walk(root)
	return tables
}

type walker struct {
	source string
	tables map[string]*Table
}

func (w *walker) tableFor(name string) *Table {
	t, ok := w.tables[name]
	if !ok {
		t = &Table{Name: name, Fields: map[string]Field{
			"id": {Name: "id", Type: FieldInteger, From: Source{Kind: "auto"}},
		}}
		w.tables[name] = t
	}
	return t
}

func (w *walker) walk(node *analyze.Node) {
	if node == nil {
		return
	}
	if node.Kind == "function_call" || node.Kind == "method_index_expression" {
		w.tryHandle(node)
	}
	for _, c := range node.Children {
		w.walk(c)
	}
}

// tryHandle recognizes "db.<table>:insert({...})" and "db.<table>:by_<field>(value)"
// function_call shapes, whose callee is a method_index_expression whose base
// is "db.<table>".
func (w *walker) tryHandle(node *analyze.Node) {
	if node.Kind != "function_call" || len(node.Children) < 2 {
		return
	}
	callee, args := node.Children[0], node.Children[1]
	if callee.Kind != "method_index_expression" || len(callee.Children) != 2 {
		return
	}
	base, method := callee.Children[0], callee.Children[1]
	tableName, ok := dbTableName(base, w.source)
	if !ok {
		return
	}
	methodName := method.Text(w.source)

	switch {
	case methodName == "insert":
		w.handleInsert(tableName, args)
	case strings.HasPrefix(methodName, "by_"):
		field := strings.TrimPrefix(methodName, "by_")
		t := w.tableFor(tableName)
		t.Fields[field] = Field{Name: field, Type: FieldUnknown, From: Source{Kind: "filter", Method: methodName}}
	}
}

// dbTableName recognizes a "db.<table>" dot_index_expression base.
func dbTableName(node *analyze.Node, source string) (string, bool) {
	if node.Kind != "dot_index_expression" || len(node.Children) != 2 {
		return "", false
	}
	left, right := node.Children[0], node.Children[1]
	if left.Kind != "identifier" || left.Text(source) != "db" {
		return "", false
	}
	return right.Text(source), true
}

func (w *walker) handleInsert(tableName string, args *analyze.Node) {
	if args.Kind != "arguments" || len(args.Children) == 0 {
		return
	}
	table := args.Children[0]
	if table.Kind != "table_constructor" {
		return
	}
	t := w.tableFor(tableName)
	for _, field := range table.Children {
		if field.Kind != "field" || len(field.Children) < 3 {
			continue
		}
		name := field.Children[0].Text(w.source)
		value := field.Children[2]
		ft := fieldTypeFromNodeKind(value.Kind)
		if value.Kind == "number" {
			ft = refineNumber(value.Text(w.source))
		}
		t.Fields[name] = Field{Name: name, Type: ft, From: Source{Kind: "insert", ValueHint: value.Text(w.source)}}
	}
}
