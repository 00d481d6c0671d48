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

package signal

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignal_CreateReadSet(t *testing.T) {
	r := New()
	s := r.CreateSignal(1)
	assert.Equal(t, 1, r.ReadSignal(s))

	r.SetSignal(s, 2)
	assert.Equal(t, 2, r.ReadSignal(s))
}

func TestSignal_EqualWriteIsNoop(t *testing.T) {
	r := New()
	s := r.CreateSignal(5)
	runs := 0
	r.CreateEffect(func() error {
		r.ReadSignal(s)
		runs++
		return nil
	})
	require.Equal(t, 1, runs)

	r.SetSignal(s, 5)
	assert.Equal(t, 1, runs, "equal-value write must not trigger a rerun")

	r.SetSignal(s, 6)
	assert.Equal(t, 2, runs)
}

func TestEffect_RunsOnCreateAndOnChange(t *testing.T) {
	r := New()
	s := r.CreateSignal("a")
	var seen []string
	r.CreateEffect(func() error {
		seen = append(seen, r.ReadSignal(s).(string))
		return nil
	})
	r.SetSignal(s, "b")
	r.SetSignal(s, "c")

	assert.Equal(t, []string{"a", "b", "c"}, seen)
}

func TestEffect_ErrorIsLoggedAndIsolated(t *testing.T) {
	r := New()
	s := r.CreateSignal(0)
	calls := 0
	r.CreateEffect(func() error {
		r.ReadSignal(s)
		calls++
		return errors.New("boom")
	})
	r.SetSignal(s, 1)
	r.SetSignal(s, 2)

	assert.Equal(t, 3, calls, "erroring callback must still rerun on future changes")
}

func TestEffect_DisposeDuringOwnCallback(t *testing.T) {
	r := New()
	s := r.CreateSignal(0)
	var id EffectID
	runs := 0
	// The first run happens inside CreateEffect, before id is assigned, so the
	// effect disposes itself on its first rerun.
	id = r.CreateEffect(func() error {
		r.ReadSignal(s)
		runs++
		if runs == 2 {
			r.DisposeEffect(id)
		}
		return nil
	})
	r.SetSignal(s, 1)
	r.SetSignal(s, 2)

	assert.Equal(t, 2, runs, "disposed effect must never run again")
}

func TestDerived_LazyRecompute(t *testing.T) {
	r := New()
	s := r.CreateSignal(2)
	computes := 0
	d := r.CreateDerived(func() any {
		computes++
		return r.ReadSignal(s).(int) * 10
	})

	assert.Equal(t, 0, computes, "derived must not compute before first read")
	assert.Equal(t, 20, r.ReadDerived(d))
	assert.Equal(t, 1, computes)

	assert.Equal(t, 20, r.ReadDerived(d))
	assert.Equal(t, 1, computes, "repeated read without change must not recompute")

	r.SetSignal(s, 3)
	assert.Equal(t, 1, computes, "marking stale must not eagerly recompute")
	assert.Equal(t, 30, r.ReadDerived(d))
	assert.Equal(t, 2, computes)
}

func TestDerived_CycleDetection(t *testing.T) {
	r := New()
	var d DerivedID
	d = r.CreateDerived(func() any {
		return r.ReadDerived(d)
	})
	assert.Equal(t, ErrCycle, r.ReadDerived(d))
}

func TestBatch_CoalescesEffectRuns(t *testing.T) {
	r := New()
	s1 := r.CreateSignal(0)
	s2 := r.CreateSignal(0)
	runs := 0
	r.CreateEffect(func() error {
		r.ReadSignal(s1)
		r.ReadSignal(s2)
		runs++
		return nil
	})
	require.Equal(t, 1, runs)

	r.BeginBatch()
	r.SetSignal(s1, 1)
	r.SetSignal(s1, 2)
	r.SetSignal(s2, 7)
	assert.Equal(t, 1, runs, "effect must not run until batch ends")
	r.EndBatch()

	assert.Equal(t, 2, runs, "batched writes must coalesce into a single rerun")
	assert.Equal(t, 2, r.ReadSignal(s1))
	assert.Equal(t, 7, r.ReadSignal(s2))
}

func TestDisposeDerived_SubscribersGoStaleNotBroken(t *testing.T) {
	r := New()
	s := r.CreateSignal(1)
	inner := r.CreateDerived(func() any { return r.ReadSignal(s).(int) + 1 })
	outer := r.CreateDerived(func() any {
		v := r.ReadDerived(inner)
		if v == nil {
			return -1
		}
		return v.(int) * 2
	})

	assert.Equal(t, 4, r.ReadDerived(outer))

	r.DisposeDerived(inner)
	// outer's compute fn still closes over inner's id, but the node is disposed;
	// ReadDerived on a disposed id returns nil, so outer observes that directly.
	assert.Equal(t, -1, r.ReadDerived(outer))
}
