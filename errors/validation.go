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

package errors

import (
	"fmt"
	"net/http"
	"strings"
)

// FieldError is a single violation produced by the guard validator (§4.8).
// Field holds the path, dot-joined for objects and bracket-indexed for arrays, e.g.
// "addr.street" or "items[3]".
type FieldError struct {
	Field   string    `json:"field"`
	Message string    `json:"message"`
	Kind    FieldKind `json:"kind"`
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors aggregates every FieldError produced by a single
// validate_field walk (§4.8's "the list is complete" rule — no short-circuit
// on the first failure except inside a malformed sub-schema).
type ValidationErrors struct {
	Errors []FieldError
}

func (e *ValidationErrors) Error() string {
	if len(e.Errors) == 0 {
		return "validation failed"
	}
	parts := make([]string, len(e.Errors))
	for i, fe := range e.Errors {
		parts[i] = fe.Error()
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Add appends a field violation.
func (e *ValidationErrors) Add(field, message string, kind FieldKind) {
	e.Errors = append(e.Errors, FieldError{Field: field, Message: message, Kind: kind})
}

// HasErrors reports whether any field violation was recorded.
func (e *ValidationErrors) HasErrors() bool {
	return e != nil && len(e.Errors) > 0
}

// HTTPStatus implements ErrorType: validation failures are always 400.
func (e *ValidationErrors) HTTPStatus() int {
	return http.StatusBadRequest
}

// Details implements ErrorDetails, producing the §7/§8 S2 wire shape:
// {"errors":[{"field":...,"message":...,"kind":...}, ...]}.
func (e *ValidationErrors) Details() any {
	return map[string]any{"errors": e.Errors}
}
