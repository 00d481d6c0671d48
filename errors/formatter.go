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
	stderrors "errors"
	"net/http"
)

// Response is a formatted error response ready to be written by any
// http.ResponseWriter.
type Response struct {
	Status      int
	ContentType string
	Body        any
}

// ErrorType lets an error declare its own HTTP status code.
type ErrorType interface {
	error
	HTTPStatus() int
}

// ErrorDetails lets an error expose a structured body beyond its message.
type ErrorDetails interface {
	error
	Details() any
}

// Format converts err into the §7 wire shape: a bare handler error becomes
// {"error": "..."},  a *ValidationErrors becomes {"errors":[...]}. Any error
// implementing ErrorType overrides the default 500 status; ErrorDetails
// overrides the body entirely.
func Format(err error) Response {
	if err == nil {
		return Response{Status: http.StatusOK, ContentType: "application/json"}
	}

	status := http.StatusInternalServerError
	var typed ErrorType
	if stderrors.As(err, &typed) {
		status = typed.HTTPStatus()
	}

	var detailed ErrorDetails
	if stderrors.As(err, &detailed) {
		return Response{Status: status, ContentType: "application/json", Body: detailed.Details()}
	}

	return Response{
		Status:      status,
		ContentType: "application/json",
		Body:        map[string]string{"error": stripTraceback(err.Error())},
	}
}

// stripTraceback removes everything after the first line, per §7's "stack
// traceback suffix is stripped before serialization" rule.
func stripTraceback(msg string) string {
	for i, r := range msg {
		if r == '\n' {
			return msg[:i]
		}
	}
	return msg
}
