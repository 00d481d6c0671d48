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

// Package typeinfer implements Rover's structural type system (spec §4.2):
// a Type lattice (Nil, Boolean, Number, String, Table, Function, Userdata,
// Thread, Unknown, Union, Never, Any), a linked-scope TypeEnv, and the
// narrowing rules a type guard applies to a variable's declared type
// (type()==, ~=nil, truthy/falsy, not, pcall).
//
// Unknown is the default for an un-annotated parameter; it is assignable to
// every type (only Any accepts every type in return), and accumulates as a Union of every type it is ever
// narrowed against within a function body — "constraint bubbling" per
// §4.2 — so by the time analysis finishes, a parameter only ever used as
// `if x == nil` and then `x.name` infers to Union(Nil, Table).
package typeinfer
