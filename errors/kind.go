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

// Kind classifies a Rover fault. Kinds describe what went wrong, not which Go
// type carries it — the same way the teacher's Formatter works off optional
// interfaces rather than a type switch.
type Kind string

const (
	// ParseError is a syntax-level failure in the analyzer, with a source range attached where possible.
	ParseError Kind = "parse_error"
	// SchemaError marks a malformed guard schema (missing type, bad enum).
	SchemaError Kind = "schema_error"
	// ValidationError is a runtime body/field violation.
	ValidationError Kind = "validation_error"
	// TypeError is an inference-time assignability or usage failure.
	TypeError Kind = "type_error"
	// DbIntentWarning flags a table or field unknown to the loaded DB schema.
	DbIntentWarning Kind = "db_intent_warning"
	// HandlerError is any error raised inside a handler coroutine.
	HandlerError Kind = "handler_error"
	// PoolExhaustion is surfaced as 503 Service Unavailable.
	PoolExhaustion Kind = "pool_exhaustion"
	// ProtocolError marks a malformed HTTP or WebSocket frame; the connection is closed.
	ProtocolError Kind = "protocol_error"
)

// FieldKind classifies a single field-level validation failure (§4.8, §7).
type FieldKind string

const (
	FieldRequired FieldKind = "required"
	FieldType     FieldKind = "type"
	FieldEnum     FieldKind = "enum"
	FieldConfig   FieldKind = "config"
	FieldInternal FieldKind = "internal"
)
