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

import (
	"fmt"

	roverrors "rover.dev/rover/errors"
)

// ValidateObject validates a decoded JSON object (map[string]any) against
// schema, recursing field-by-field. Every failing field is collected into
// the returned errors.ValidationErrors rather than stopping at the first
// failure (spec §8 S2's aggregate-error contract). The returned map carries
// validated and defaulted values, keyed the same as schema.
func ValidateObject(data map[string]any, schema Schema) (map[string]any, *roverrors.ValidationErrors) {
	result := make(map[string]any, len(schema))
	var errs roverrors.ValidationErrors

	for name, field := range schema {
		raw, present := data[name]
		if !present {
			raw = nil
		}
		validated, ferrs := ValidateField(name, raw, field)
		if len(ferrs) > 0 {
			errs.Errors = append(errs.Errors, ferrs...)
			continue
		}
		result[name] = validated
	}

	if errs.HasErrors() {
		return nil, &errs
	}
	return result, nil
}

// ValidateField validates a single value against field, returning either the
// validated (and possibly defaulted/coerced) value or a non-empty list of
// field errors. Nested array/object fields recurse and prefix child field
// names with fieldName, matching the "field[index]" / "field.child" naming
// guard.rs uses.
func ValidateField(fieldName string, value any, field *Field) (any, []roverrors.FieldError) {
	if value == nil {
		if field.Default != nil {
			return field.Default, nil
		}
		if field.Required {
			msg := field.RequiredMsg
			if msg == "" {
				msg = fmt.Sprintf("Field '%s' is required", fieldName)
			}
			return nil, []roverrors.FieldError{{Field: fieldName, Message: msg, Kind: roverrors.FieldRequired}}
		}
		return nil, nil
	}

	switch field.Type {
	case TypeString:
		s, ok := value.(string)
		if !ok {
			return nil, []roverrors.FieldError{typeErr(fieldName, "string", value)}
		}
		if len(field.Enum) > 0 && !containsStr(field.Enum, s) {
			return nil, []roverrors.FieldError{{
				Field:   fieldName,
				Message: fmt.Sprintf("must be one of: %s. Got: '%s'", joinStr(field.Enum), s),
				Kind:    roverrors.FieldEnum,
			}}
		}
		return s, nil

	case TypeNumber:
		switch n := value.(type) {
		case float64:
			return n, nil
		case int:
			return float64(n), nil
		case int64:
			return float64(n), nil
		default:
			return nil, []roverrors.FieldError{typeErr(fieldName, "number", value)}
		}

	case TypeInteger:
		switch n := value.(type) {
		case int:
			return n, nil
		case int64:
			return int(n), nil
		case float64:
			if n == float64(int64(n)) {
				return int(n), nil
			}
			return nil, []roverrors.FieldError{{
				Field:   fieldName,
				Message: fmt.Sprintf("must be an integer, got float %v", n),
				Kind:    roverrors.FieldType,
			}}
		default:
			return nil, []roverrors.FieldError{typeErr(fieldName, "integer", value)}
		}

	case TypeBoolean:
		b, ok := value.(bool)
		if !ok {
			return nil, []roverrors.FieldError{typeErr(fieldName, "boolean", value)}
		}
		return b, nil

	case TypeArray:
		items, ok := value.([]any)
		if !ok {
			return nil, []roverrors.FieldError{typeErr(fieldName, "array", value)}
		}
		if field.Element == nil {
			return nil, []roverrors.FieldError{{Field: fieldName, Message: "array field missing element schema", Kind: roverrors.FieldConfig}}
		}
		out := make([]any, 0, len(items))
		var errs []roverrors.FieldError
		for i, item := range items {
			name := fmt.Sprintf("%s[%d]", fieldName, i)
			v, ferrs := ValidateField(name, item, field.Element)
			if len(ferrs) > 0 {
				errs = append(errs, ferrs...)
				continue
			}
			out = append(out, v)
		}
		if len(errs) > 0 {
			return nil, errs
		}
		return out, nil

	case TypeObject:
		obj, ok := value.(map[string]any)
		if !ok {
			return nil, []roverrors.FieldError{typeErr(fieldName, "object", value)}
		}
		if field.Schema == nil {
			return nil, []roverrors.FieldError{{Field: fieldName, Message: "object field missing nested schema", Kind: roverrors.FieldConfig}}
		}
		nested, verrs := ValidateObject(obj, field.Schema)
		if verrs != nil {
			for i := range verrs.Errors {
				verrs.Errors[i].Field = fieldName + "." + verrs.Errors[i].Field
			}
			return nil, verrs.Errors
		}
		return nested, nil

	default:
		return nil, []roverrors.FieldError{{Field: fieldName, Message: fmt.Sprintf("unknown validator type: %s", field.Type), Kind: roverrors.FieldConfig}}
	}
}

func typeErr(field, want string, got any) roverrors.FieldError {
	return roverrors.FieldError{
		Field:   field,
		Message: fmt.Sprintf("must be a %s, got %T", want, got),
		Kind:    roverrors.FieldType,
	}
}

func containsStr(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

func joinStr(ss []string) string {
	out := ""
	for i, s := range ss {
		if i > 0 {
			out += ", "
		}
		out += s
	}
	return out
}
