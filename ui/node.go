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

package ui

import "github.com/google/uuid"

// NodeID generationally addresses a slot in a Registry's arena: Index
// selects the slot, Gen distinguishes the slot's current occupant from any
// prior (removed) occupant of the same slot.
type NodeID struct {
	Index uint32
	Gen   uuid.UUID
}

// NodeKind discriminates the UI primitives a script can construct.
type NodeKind uint8

const (
	KindText NodeKind = iota
	KindButton
	KindInput
	KindContainer
)

// TextContent is either a fixed string or a binding to a signal/derived,
// re-read whenever the bound source changes.
type TextContent struct {
	Static  string
	Dynamic func() string // nil for Static content
}

func (c TextContent) Resolve() string {
	if c.Dynamic != nil {
		return c.Dynamic()
	}
	return c.Static
}

// Node is one element of the UI tree.
type Node struct {
	ID       NodeID
	Kind     NodeKind
	Text     TextContent
	Label    string // Button/Input
	OnClick  func()
	Children []NodeID

	effects []uint64 // signal.EffectID values attached to this node
}
