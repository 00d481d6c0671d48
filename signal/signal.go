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

// signalNode is a mutable, observable value source (§3 Signal).
type signalNode struct {
	id          SignalID
	value       any
	subscribers map[Ref]struct{}
}

// CreateSignal registers a new signal with an initial value and returns its id.
func (r *Runtime) CreateSignal(initial any) SignalID {
	id := SignalID(r.nextSignalID.Add(1))
	r.signals[id] = &signalNode{
		id:          id,
		value:       initial,
		subscribers: make(map[Ref]struct{}),
	}
	return id
}

// ReadSignal returns the signal's current value, registering the currently
// executing observer (if any) as a subscriber.
func (r *Runtime) ReadSignal(id SignalID) any {
	s := r.signals[id]
	if s == nil {
		return nil
	}
	r.registerDependency(Ref{Kind: RefSignal, ID: uint64(id)})
	return s.value
}

// SetSignal implements the §4.3 write contract: equal-by-value writes are a
// no-op (no subscriber invalidation); otherwise the value updates, every
// direct and transitive derived subscriber is marked stale, every subscriber
// effect is enqueued, and the runtime flushes immediately unless inside a
// batch.
func (r *Runtime) SetSignal(id SignalID, v any) {
	s := r.signals[id]
	if s == nil {
		return
	}
	if valuesEqual(s.value, v) {
		return
	}
	s.value = v
	r.propagate(s.subscribers)
	if r.batchDepth == 0 {
		r.flush()
	}
}

// propagate marks derived subscribers stale (transitively) and enqueues
// effect subscribers, stopping at deriveds already known stale to avoid
// re-walking the same subtree twice in one write.
func (r *Runtime) propagate(subscribers map[Ref]struct{}) {
	for sub := range subscribers {
		switch sub.Kind {
		case RefEffect:
			r.enqueueEffect(EffectID(sub.ID))
		case RefDerived:
			d := r.deriveds[DerivedID(sub.ID)]
			if d == nil || d.stale {
				continue
			}
			d.stale = true
			r.propagate(d.subscribers)
		}
	}
}
