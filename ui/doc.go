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

// Package ui implements the node registry backing Rover's UI tree (spec
// §4.11): an arena of Nodes addressed by a generational NodeID, a dirty set
// of nodes whose reactive bindings changed since the last render pass, and
// the effect-bound lifecycle that ties a node's reactive text/attribute
// bindings to the signal package's Effect disposal.
//
// Node creation is a two-step reserve/finalize split: ReserveNodeID hands
// out an id before the node's children are built (so a node can reference
// its own id while constructing child bindings), and FinalizeNode commits
// the built Node into the arena slot. RemoveNode disposes every effect the
// node attached and frees its arena slot for reuse — the slot gets a fresh
// random uuid generation when it is next reserved, so a stale NodeID from before removal never aliases the reused
// slot (spec §3's "removed node ids are never revived").
package ui
