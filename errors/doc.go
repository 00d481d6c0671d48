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

// Package errors provides Rover's error taxonomy and HTTP-facing formatting.
//
// Rover classifies faults by kind rather than by Go error type: ParseError,
// SchemaError, ValidationError, TypeError, DbIntentWarning, HandlerError,
// PoolExhaustion, and ProtocolError. Analyzer and type-inference kinds carry
// positional information; request-time kinds (HandlerError, PoolExhaustion,
// ValidationError) know how to render themselves as an HTTP response body.
//
// A domain error participates in HTTP formatting by implementing ErrorType
// (status code), ErrorDetails (structured body), or both — the same optional-
// interface pattern used for framework-agnostic error formatting elsewhere in
// the stack. Format converts an error into a Response ready to be written by
// any http.ResponseWriter.
package errors
