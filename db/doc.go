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

// Package db runs schema migrations against a modernc.org/sqlite database
// (spec §6). A migration is a sequence of Operations — create/drop table,
// add/remove/rename column, create/drop index, rename table, or raw SQL —
// produced by analyzing a script's change(), or its up()/down() pair.
//
// change() migrations must be built entirely from invertible operations
// (checked by MustInvert). Migrator.Rollback runs a migration's Down
// operations; when Down is empty it derives them by reversing and inverting
// Up (ReverseAll), so an up()/down() migration supplies its own Down to
// avoid that. A migration
// script may define change() or up()/down(), never both, and must produce
// at least one operation (spec §8 L3's round-trip law, and the
// supplemented change/up/down mutual-exclusion rule).
//
// Applied migrations are tracked in a _rover_migrations table (name,
// applied_at), the same bookkeeping shape used by the runtime this was
// learned from.
package db
