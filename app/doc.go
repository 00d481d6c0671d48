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

// Package app is Rover's composition root: it wires the route table and
// matcher (router), the signal runtime, the guard validator, the error
// taxonomy, the UI registry, and the migration executor into one Host,
// following the teacher's app.App conventions (functional options, a pooled
// per-request Context wrapper, registerRoute + wrapHandler).
//
// A Host does not execute Script Language source; the SL interpreter is an
// external collaborator (spec.md §1 non-goal). What a Host does is the part
// the core is responsible for: given a compiled route table — produced
// either by hand (Host.GET/.POST/...) or by binding Go functions to the
// routes an analyze.SemanticModel discovered (Host.Bind) — it runs the HTTP
// request pipeline (C4-C10) described in spec.md §4, batching signal effects
// at the request boundary per §5's ordering rule.
package app
