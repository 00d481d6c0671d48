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
	"encoding/json"
	"fmt"

	roverrors "rover.dev/rover/errors"
)

// BodyValue wraps a raw request body and exposes the script-facing accessor
// surface: JSON (parse), AsString/Echo (unparsed passthrough), Text (same
// as AsString, named for readability at call sites), Bytes, and Expect
// (parse + validate in one step). JSON parsing is lazy and memoized; callers
// that only need AsString/Echo never pay the decode cost.
type BodyValue struct {
	raw    []byte
	parsed any
	hasJSON bool
}

// NewBodyValue wraps raw request body bytes.
func NewBodyValue(raw []byte) *BodyValue {
	return &BodyValue{raw: raw}
}

// JSON decodes the body as JSON, memoizing the result for subsequent calls.
func (b *BodyValue) JSON() (any, error) {
	if b.hasJSON {
		return b.parsed, nil
	}
	var v any
	if err := json.Unmarshal(b.raw, &v); err != nil {
		return nil, fmt.Errorf("decode body: %w", err)
	}
	b.parsed = v
	b.hasJSON = true
	return v, nil
}

// AsString returns the raw body bytes as a string without parsing.
func (b *BodyValue) AsString() string { return string(b.raw) }

// Echo is an alias for AsString, for handlers that pass a body straight
// through to the response.
func (b *BodyValue) Echo() string { return b.AsString() }

// Text is an alias for AsString.
func (b *BodyValue) Text() string { return b.AsString() }

// Bytes returns a copy of the raw body.
func (b *BodyValue) Bytes() []byte {
	out := make([]byte, len(b.raw))
	copy(out, b.raw)
	return out
}

// Expect decodes the body as JSON (if not already decoded) and validates it
// against schema, returning the validated value or an errors.ValidationErrors.
func (b *BodyValue) Expect(schema Schema) (map[string]any, *roverrors.ValidationErrors) {
	v, err := b.JSON()
	if err != nil {
		return nil, &roverrors.ValidationErrors{Errors: []roverrors.FieldError{
			{Field: "", Message: err.Error(), Kind: roverrors.FieldType},
		}}
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, &roverrors.ValidationErrors{Errors: []roverrors.FieldError{
			{Field: "", Message: "request body must be a JSON object", Kind: roverrors.FieldType},
		}}
	}
	return ValidateObject(obj, schema)
}
