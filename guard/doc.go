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

// Package guard validates request bodies and route-bound values against a
// Schema declared by a script's guard binding (spec §4.8 Guard Validator).
//
// A Schema is a tree of Fields, one per JSON type the script grammar
// supports: string, number, integer, boolean, array (with a single Element
// Field), and object (with a nested Schema). Validation recurses
// field-by-field and aggregates every failure rather than stopping at the
// first one — callers get the complete errors.ValidationErrors list in one
// pass, mirroring the aggregate-error contract used by the rest of the
// request pipeline (spec §7, §8 S2).
//
// BodyValue wraps a raw request body and exposes the script-facing accessor
// surface (JSON, AsString/Echo, Text, Bytes, Expect) described in spec's
// supplemented features: JSON parses and validates lazily, AsString/Echo
// return the raw bytes without parsing for echo-back handlers, and Expect
// runs Schema validation directly against the parsed body.
package guard
