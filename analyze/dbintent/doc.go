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

// Package dbintent walks a script's CST for database usage — db.<table>:
// insert({...}) and db.<table>:by_<field>(value) calls — and infers, per
// table, the set of fields the script expects to exist and their likely
// type (spec §4.1 step 7). Plain db.<table>.<field> reads are not recognized.
//
// CrossCheck then validates that inference against a database schema
// document loaded as JSON Schema (github.com/santhosh-tekuri/jsonschema/v6):
// a representative instance is built from the inferred field types and
// checked against the table's schema, and any field the script touches but
// the schema doesn't define (or defines with an incompatible type) becomes
// an errors.DbIntentWarn rather than a hard failure — the analyzer degrades
// to a best-effort guess when the script's DB usage can't be fully resolved.
package dbintent
