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

// Package analyze builds a SemanticModel from a script's source text (spec
// §4.1). Parsing produces a concrete syntax tree shaped like a tree-sitter
// grammar's output — every Node carries a Kind, a byte Range into the
// source, and ordered Children — and Analyzer.Walk descends it the same way
// a tree-sitter CST walk does: dispatch on node.Kind(), recurse into every
// child regardless of whether the current node was handled.
//
// The walk tracks the server's bound variable name (the identifier assigned
// from rover.server()), the function currently being visited, and a symbol
// table from dotted handler name to an assigned FunctionId. Route
// registration matches on "{app_var}.{segments}.{method}" function names,
// converting "p_name" path segments to "{name}" placeholders; response
// builder calls inside a handler's return statements (api.json/api.text/
// api.html/api.error) become that route's Responses.
package analyze
