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

import (
	"fmt"

	"github.com/google/uuid"

	"rover.dev/rover/signal"
)

type slot struct {
	gen      uuid.UUID
	occupied bool
	node     *Node
}

// Registry is an arena of Nodes plus the dirty set of nodes whose bound
// signal/derived changed since the last render. A Registry is host-local,
// matching the signal.Runtime it attaches effects to.
type Registry struct {
	runtime *signal.Runtime
	slots   []slot
	freelist []uint32
	dirty    map[NodeID]struct{}
}

// NewRegistry creates an empty Registry bound to runtime, used to create and
// dispose the effects that back reactive node content.
func NewRegistry(runtime *signal.Runtime) *Registry {
	return &Registry{
		runtime: runtime,
		dirty:   make(map[NodeID]struct{}),
	}
}

// ReserveNodeID allocates (or reuses a freed) arena slot and returns its id
// before the node's contents exist, so a node can close over its own id
// while building child bindings.
func (r *Registry) ReserveNodeID() NodeID {
	gen := uuid.New()
	if len(r.freelist) > 0 {
		idx := r.freelist[len(r.freelist)-1]
		r.freelist = r.freelist[:len(r.freelist)-1]
		r.slots[idx] = slot{gen: gen, occupied: false}
		return NodeID{Index: idx, Gen: gen}
	}
	idx := uint32(len(r.slots))
	r.slots = append(r.slots, slot{gen: gen, occupied: false})
	return NodeID{Index: idx, Gen: gen}
}

// FinalizeNode commits node into the slot reserved for node.ID.
func (r *Registry) FinalizeNode(node *Node) error {
	if int(node.ID.Index) >= len(r.slots) {
		return fmt.Errorf("finalize: node id %v was never reserved", node.ID)
	}
	s := &r.slots[node.ID.Index]
	if s.gen != node.ID.Gen {
		return fmt.Errorf("finalize: node id %v is stale", node.ID)
	}
	s.occupied = true
	s.node = node
	return nil
}

// Get returns the node at id, or nil if id is stale or unreserved.
func (r *Registry) Get(id NodeID) *Node {
	if int(id.Index) >= len(r.slots) {
		return nil
	}
	s := r.slots[id.Index]
	if !s.occupied || s.gen != id.Gen {
		return nil
	}
	return s.node
}

// AttachEffect creates a signal.Runtime effect scoped to node: whenever the
// effect's callback observes a changed dependency and reruns, the node is
// marked dirty. The effect is disposed automatically when the node is
// removed.
func (r *Registry) AttachEffect(id NodeID, callback func()) {
	node := r.Get(id)
	if node == nil {
		return
	}
	effectID := r.runtime.CreateEffect(func() error {
		callback()
		r.markDirty(id)
		return nil
	})
	node.effects = append(node.effects, uint64(effectID))
}

func (r *Registry) markDirty(id NodeID) {
	r.dirty[id] = struct{}{}
}

// TakeDirty drains and returns the set of nodes marked dirty since the last
// call, in no particular order.
func (r *Registry) TakeDirty() []NodeID {
	if len(r.dirty) == 0 {
		return nil
	}
	out := make([]NodeID, 0, len(r.dirty))
	for id := range r.dirty {
		out = append(out, id)
	}
	r.dirty = make(map[NodeID]struct{})
	return out
}

// RemoveNode disposes every effect node attached and frees its arena slot.
// The slot's generation changes on next reservation, so id can never alias
// the slot's next occupant.
func (r *Registry) RemoveNode(id NodeID) {
	node := r.Get(id)
	if node == nil {
		return
	}
	for _, eid := range node.effects {
		r.runtime.DisposeEffect(signal.EffectID(eid))
	}
	delete(r.dirty, id)
	r.slots[id.Index] = slot{gen: id.Gen, occupied: false}
	r.freelist = append(r.freelist, id.Index)
}
