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

package logging

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoopLogger_Singleton(t *testing.T) {
	a := NoopLogger()
	b := NoopLogger()
	assert.Same(t, a, b)
}

func TestLogRequest_LevelByStatus(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	LogRequest(logger, "GET", "/users/42", 200, 1.5, "")
	require.Contains(t, buf.String(), "level=INFO")

	buf.Reset()
	LogRequest(logger, "GET", "/missing", 404, 0.5, "")
	require.Contains(t, buf.String(), "level=WARN")

	buf.Reset()
	LogRequest(logger, "POST", "/users", 500, 2.0, "boom")
	require.Contains(t, buf.String(), "level=WARN")
	require.Contains(t, buf.String(), "boom")
}

func TestLogEffectError_NilSafe(t *testing.T) {
	assert.NotPanics(t, func() {
		LogEffectError(nil, 1, assertErr("x"))
		LogEffectError(NoopLogger(), 1, nil)
	})
}

type assertErr string

func (e assertErr) Error() string { return string(e) }
