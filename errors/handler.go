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

import "net/http"

// HandlerErr wraps any error raised inside a handler coroutine (§7
// HandlerError). It always reports 500; the response body is the stripped
// first line of the underlying error, per §7's "stack traceback suffix is
// stripped before serialization" rule.
type HandlerErr struct {
	Cause error
}

func (e *HandlerErr) Error() string {
	return e.Cause.Error()
}

func (e *HandlerErr) Unwrap() error {
	return e.Cause
}

func (e *HandlerErr) HTTPStatus() int {
	return http.StatusInternalServerError
}

// NewHandlerError wraps cause as a HandlerErr.
func NewHandlerError(cause error) *HandlerErr {
	return &HandlerErr{Cause: cause}
}

// PoolExhaustedErr is returned when a pool (context, coroutine, or buffer)
// has no free slot. The HTTP layer converts it to 503 without invoking the
// handler (§4.5, S5).
type PoolExhaustedErr struct {
	Pool string // "context", "thread", "json_buffer"
}

func (e *PoolExhaustedErr) Error() string {
	return "service unavailable"
}

func (e *PoolExhaustedErr) HTTPStatus() int {
	return http.StatusServiceUnavailable
}

// NewPoolExhausted builds a PoolExhaustedErr for the named pool.
func NewPoolExhausted(pool string) *PoolExhaustedErr {
	return &PoolExhaustedErr{Pool: pool}
}
