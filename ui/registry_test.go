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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rover.dev/rover/signal"
)

func TestRegistry_ReserveFinalizeGet(t *testing.T) {
	reg := NewRegistry(signal.New())
	id := reg.ReserveNodeID()
	assert.Nil(t, reg.Get(id), "unfinalized node must not be visible")

	node := &Node{ID: id, Kind: KindText, Text: TextContent{Static: "hi"}}
	require.NoError(t, reg.FinalizeNode(node))

	got := reg.Get(id)
	require.NotNil(t, got)
	assert.Equal(t, "hi", got.Text.Resolve())
}

func TestRegistry_AttachEffectMarksDirtyOnChange(t *testing.T) {
	rt := signal.New()
	reg := NewRegistry(rt)
	s := rt.CreateSignal("a")

	id := reg.ReserveNodeID()
	node := &Node{ID: id, Kind: KindText}
	require.NoError(t, reg.FinalizeNode(node))

	reg.AttachEffect(id, func() {
		rt.ReadSignal(s)
	})
	assert.Equal(t, []NodeID{id}, reg.TakeDirty(), "initial effect run must mark the node dirty")
	assert.Empty(t, reg.TakeDirty(), "TakeDirty must drain the set")

	rt.SetSignal(s, "b")
	assert.Equal(t, []NodeID{id}, reg.TakeDirty())
}

func TestRegistry_RemoveNodeFreesSlotAndDisposesEffects(t *testing.T) {
	rt := signal.New()
	reg := NewRegistry(rt)
	s := rt.CreateSignal(1)

	id := reg.ReserveNodeID()
	node := &Node{ID: id, Kind: KindText}
	require.NoError(t, reg.FinalizeNode(node))
	reg.AttachEffect(id, func() { rt.ReadSignal(s) })
	reg.TakeDirty()

	reg.RemoveNode(id)
	assert.Nil(t, reg.Get(id))

	rt.SetSignal(s, 2)
	assert.Empty(t, reg.TakeDirty(), "disposed node's effect must not fire again")

	next := reg.ReserveNodeID()
	assert.Equal(t, id.Index, next.Index, "freed slot is reused")
	assert.NotEqual(t, id.Gen, next.Gen, "reused slot gets a fresh generation")
}

func TestRegistry_StaleIDNeverAliasesReusedSlot(t *testing.T) {
	reg := NewRegistry(signal.New())
	id := reg.ReserveNodeID()
	require.NoError(t, reg.FinalizeNode(&Node{ID: id, Kind: KindText}))
	reg.RemoveNode(id)

	next := reg.ReserveNodeID()
	require.NoError(t, reg.FinalizeNode(&Node{ID: next, Kind: KindButton, Label: "new"}))

	assert.Nil(t, reg.Get(id), "the old id must not resolve to the slot's new occupant")
	assert.NotNil(t, reg.Get(next))
}
