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

// Package signal implements Rover's reactive dataflow graph: signals,
// deriveds, and effects with batching, dependency tracking, and scheduled
// reruns (spec §4.3).
//
// A Runtime is host-local and single-threaded: per §5, "all signal writes,
// derived reads, effect flushes, and request contexts are host-local and not
// synchronized" — a Runtime carries no internal locking, and callers must not
// share one across goroutines. One Runtime per connection/host instance is
// the intended shape; ui.Registry holds a reference to its Runtime, and
// app.Context reaches the host's Runtime through its Host.
//
// The dependency graph is arena-backed by id: signals, deriveds, and effects
// each live in their own map keyed by a monotonically increasing id, and
// subscriber/dependency edges are stored as Ref sets rather than pointers —
// the same "cyclic graphs → arena + index" shape used for the route tree and
// (later) the UI registry, per spec §9's design note.
package signal
