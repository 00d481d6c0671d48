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
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormat_PlainHandlerError(t *testing.T) {
	err := NewHandlerError(errors.New("boom\nstack trace line 2"))
	resp := Format(err)

	require.Equal(t, http.StatusInternalServerError, resp.Status)
	body, ok := resp.Body.(map[string]string)
	require.True(t, ok)
	assert.Equal(t, "boom", body["error"])
}

func TestFormat_ValidationErrors(t *testing.T) {
	ve := &ValidationErrors{}
	ve.Add("name", "Field 'name' is required", FieldRequired)
	ve.Add("age", "Must be an integer, got string", FieldType)

	resp := Format(ve)
	require.Equal(t, http.StatusBadRequest, resp.Status)

	body, ok := resp.Body.(map[string]any)
	require.True(t, ok)
	fieldErrs, ok := body["errors"].([]FieldError)
	require.True(t, ok)
	require.Len(t, fieldErrs, 2)
	assert.Equal(t, FieldRequired, fieldErrs[0].Kind)
	assert.Equal(t, FieldType, fieldErrs[1].Kind)
}

func TestPoolExhausted_Is503(t *testing.T) {
	err := NewPoolExhausted("context")
	resp := Format(err)
	assert.Equal(t, http.StatusServiceUnavailable, resp.Status)
	assert.Equal(t, "service unavailable", err.Error())
}

func TestValidationErrors_HasErrors(t *testing.T) {
	var ve *ValidationErrors
	assert.False(t, ve.HasErrors())

	ve = &ValidationErrors{}
	assert.False(t, ve.HasErrors())
	ve.Add("x", "bad", FieldInternal)
	assert.True(t, ve.HasErrors())
}
