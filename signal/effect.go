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

import "rover.dev/rover/logging"

// effectNode is a side-effecting callback re-run when any dependency
// changes (§3 Effect).
type effectNode struct {
	id       EffectID
	callback func() error
	deps     map[Ref]struct{}
	disposed bool
}

// CreateEffect registers and immediately runs callback once (establishing its
// initial dependency set), then re-runs it whenever a dependency changes.
func (r *Runtime) CreateEffect(callback func() error) EffectID {
	id := EffectID(r.nextEffectID.Add(1))
	e := &effectNode{id: id, callback: callback, deps: make(map[Ref]struct{})}
	r.effects[id] = e
	r.runEffect(e)
	return id
}

func (r *Runtime) enqueueEffect(id EffectID) {
	e := r.effects[id]
	if e == nil || e.disposed {
		return
	}
	if r.pendingSeen[id] {
		return
	}
	r.pendingSeen[id] = true
	r.pendingEffects = append(r.pendingEffects, id)
}

// runEffect clears the effect's previous deps, runs it as the current
// observer (re-registering fresh deps via signal/derived reads), and logs
// (without propagating) any error the callback returns — per §4.3/§7,
// "effect errors log and are isolated."
func (r *Runtime) runEffect(e *effectNode) {
	if e.disposed {
		return
	}
	self := Ref{Kind: RefEffect, ID: uint64(e.id)}
	for dep := range e.deps {
		r.removeSubscriber(dep, self)
	}
	e.deps = make(map[Ref]struct{})

	r.pushObserver(self)
	err := e.callback()
	r.popObserver()

	if err != nil {
		logging.LogEffectError(r.logger, uint64(e.id), err)
	}
}

// flush runs every pending effect in enqueue order. Effects enqueued during
// the flush (by a callback's own signal writes) run in the same pass, up to
// watermark total runs, after which flush bails and leaves the remainder
// queued for the next write or batch (§4.3 "Flush").
func (r *Runtime) flush() {
	ran := 0
	for len(r.pendingEffects) > 0 {
		id := r.pendingEffects[0]
		r.pendingEffects = r.pendingEffects[1:]
		delete(r.pendingSeen, id)

		e := r.effects[id]
		if e == nil || e.disposed {
			continue
		}
		r.runEffect(e)
		ran++

		if ran >= r.watermark {
			if r.logger != nil {
				r.logger.Warn("effect flush watermark exceeded", "watermark", r.watermark, "pending", len(r.pendingEffects))
			}
			break
		}
	}
}

// DisposeEffect removes the effect from every dependency's subscriber set,
// marks it disposed, and drops its callback. A disposed effect never fires
// again, including if it is already queued in a pending flush.
func (r *Runtime) DisposeEffect(id EffectID) {
	e := r.effects[id]
	if e == nil || e.disposed {
		return
	}
	self := Ref{Kind: RefEffect, ID: uint64(id)}
	for dep := range e.deps {
		r.removeSubscriber(dep, self)
	}
	e.deps = nil
	e.callback = nil
	e.disposed = true
}
