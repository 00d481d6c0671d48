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

// Package logging wires Rover's structured logging on top of log/slog.
//
// It does not reimplement a logging framework: it applies the §7
// "user-visible behavior" rule on top of a caller-supplied *slog.Logger —
// 2xx responses logged at info with method/path/elapsed_ms, 4xx at warn,
// 5xx at warn with the error message, and body previews at debug. Hosts
// that want logging disabled entirely pass NoopLogger().
package logging
