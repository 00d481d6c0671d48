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
	"bytes"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v6"

	roverrors "rover.dev/rover/errors"
)

// sampleValue produces a representative JSON value for a FieldType, used to
// probe a table's JSON-Schema-shaped definition for compatibility.
func sampleValue(t FieldType) any {
	switch t {
	case FieldInteger:
		return 1
	case FieldNumber:
		return 1.5
	case FieldBoolean:
		return true
	default:
		return "sample"
	}
}

// CrossCheck validates the fields inferred for table against a JSON-Schema
// document describing that table's columns. Every field the script touches
// that the schema's "properties" doesn't list, or lists with an incompatible
// type, becomes an errors.DbIntentWarn; a schema compile failure is returned as a
// plain error since it means the schema document itself is unusable.
func CrossCheck(table *Table, schemaName string, schemaJSON []byte) ([]roverrors.DbIntentWarn, error) {
	compiler := jsonschema.NewCompiler()
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaJSON))
	if err != nil {
		return nil, fmt.Errorf("parse schema for %q: %w", table.Name, err)
	}
	resourceName := schemaName + ".json"
	if err := compiler.AddResource(resourceName, doc); err != nil {
		return nil, fmt.Errorf("load schema for %q: %w", table.Name, err)
	}
	sch, err := compiler.Compile(resourceName)
	if err != nil {
		return nil, fmt.Errorf("compile schema for %q: %w", table.Name, err)
	}

	var props map[string]any
	if obj, ok := doc.(map[string]any); ok {
		props, _ = obj["properties"].(map[string]any)
	}

	var warnings []roverrors.DbIntentWarn
	for name, field := range table.Fields {
		if _, defined := props[name]; props != nil && !defined {
			warnings = append(warnings, roverrors.DbIntentWarn{
				Table:   table.Name,
				Field:   name,
				Message: fmt.Sprintf("field %q (inferred %s, %s) is not defined in the database schema", name, field.Type, field.From.Kind),
			})
			continue
		}
		instance := map[string]any{name: sampleValue(field.Type)}
		if err := sch.Validate(instance); err != nil {
			warnings = append(warnings, roverrors.DbIntentWarn{
				Table:   table.Name,
				Field:   name,
				Message: fmt.Sprintf("field %q (inferred %s, %s) does not match the database schema: %v", name, field.Type, field.From.Kind, err),
			})
		}
	}
	return warnings, nil
}
