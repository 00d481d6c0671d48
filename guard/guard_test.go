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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func personSchema() Schema {
	return Schema{
		"name": {Type: TypeString, Required: true},
		"age":  {Type: TypeInteger},
		"role": {Type: TypeString, Enum: []string{"admin", "member"}, Default: "member"},
	}
}

func TestValidateObject_Valid(t *testing.T) {
	data := map[string]any{"name": "Ada", "age": float64(30)}
	out, errs := ValidateObject(data, personSchema())
	require.Nil(t, errs)
	assert.Equal(t, "Ada", out["name"])
	assert.Equal(t, 30, out["age"])
	assert.Equal(t, "member", out["role"], "missing field with default must be filled in")
}

func TestValidateObject_MissingRequired(t *testing.T) {
	data := map[string]any{"age": float64(30)}
	_, errs := ValidateObject(data, personSchema())
	require.NotNil(t, errs)
	require.Len(t, errs.Errors, 1)
	assert.Equal(t, "name", errs.Errors[0].Field)
}

func TestValidateObject_EnumViolation(t *testing.T) {
	data := map[string]any{"name": "Ada", "role": "owner"}
	_, errs := ValidateObject(data, personSchema())
	require.NotNil(t, errs)
	assert.Equal(t, "role", errs.Errors[0].Field)
}

func TestValidateObject_AggregatesAllErrors(t *testing.T) {
	data := map[string]any{"age": "not-a-number", "role": "owner"}
	_, errs := ValidateObject(data, personSchema())
	require.NotNil(t, errs)
	assert.Len(t, errs.Errors, 3, "name missing, age wrong type, role invalid enum — all reported")
}

func TestValidateField_Array(t *testing.T) {
	field := &Field{Type: TypeArray, Element: &Field{Type: TypeString}}
	v, errs := ValidateField("tags", []any{"a", "b"}, field)
	require.Nil(t, errs)
	assert.Equal(t, []any{"a", "b"}, v)
}

func TestValidateField_ArrayElementError(t *testing.T) {
	field := &Field{Type: TypeArray, Element: &Field{Type: TypeString}}
	_, errs := ValidateField("tags", []any{"a", 1}, field)
	require.Len(t, errs, 1)
	assert.Equal(t, "tags[1]", errs[0].Field)
}

func TestValidateField_NestedObject(t *testing.T) {
	field := &Field{Type: TypeObject, Schema: Schema{
		"street": {Type: TypeString, Required: true},
	}}
	_, errs := ValidateField("address", map[string]any{}, field)
	require.Len(t, errs, 1)
	assert.Equal(t, "address.street", errs[0].Field)
}

func TestBodyValue_ExpectRoundTrip(t *testing.T) {
	b := NewBodyValue([]byte(`{"name":"Ada","age":30}`))
	out, errs := b.Expect(personSchema())
	require.Nil(t, errs)
	assert.Equal(t, "Ada", out["name"])
	assert.Equal(t, `{"name":"Ada","age":30}`, b.Echo(), "Echo must return the raw body untouched after Expect parsed it")
}

func TestBodyValue_BytesIsACopy(t *testing.T) {
	b := NewBodyValue([]byte("hello"))
	cp := b.Bytes()
	cp[0] = 'H'
	assert.Equal(t, "hello", b.AsString(), "mutating the returned copy must not affect the body")
}
