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

import "log/slog"

// derivedNode is a cached computation over signals/deriveds, recomputed
// lazily on read (§3 Derived).
type derivedNode struct {
	id          DerivedID
	computeFn   func() any
	value       any
	deps        map[Ref]struct{}
	subscribers map[Ref]struct{}
	stale       bool
	evaluated   bool
	disposed    bool
}

// ErrCycle is the memoized value of a derived whose computation observed
// itself on the observer stack — the "Never-equivalent sentinel" from §4.3.
var ErrCycle = struct{ cyclicDerived bool }{true}

// CreateDerived registers a new derived computation. compute is not run
// until first read.
func (r *Runtime) CreateDerived(compute func() any) DerivedID {
	id := DerivedID(r.nextDerivedID.Add(1))
	r.deriveds[id] = &derivedNode{
		id:          id,
		computeFn:   compute,
		deps:        make(map[Ref]struct{}),
		subscribers: make(map[Ref]struct{}),
	}
	return id
}

// ReadDerived returns the derived's current (or freshly recomputed) value,
// registering the currently executing observer as a subscriber.
func (r *Runtime) ReadDerived(id DerivedID) any {
	d := r.deriveds[id]
	if d == nil || d.disposed {
		return nil
	}
	r.registerDependency(Ref{Kind: RefDerived, ID: uint64(id)})
	if d.stale || !d.evaluated {
		r.recompute(d)
	}
	return d.value
}

// recompute re-runs a derived's compute function as the current observer.
// Cycles are detected by finding the derived already on the observer stack;
// on detection the result becomes ErrCycle and the cycle is logged rather
// than recursing forever.
func (r *Runtime) recompute(d *derivedNode) {
	self := Ref{Kind: RefDerived, ID: uint64(d.id)}
	if r.observing(self) {
		d.value = ErrCycle
		d.stale = false
		d.evaluated = true
		if r.logger != nil {
			r.logger.Warn("cyclic derived computation detected", slog.Uint64("derived_id", uint64(d.id)))
		}
		return
	}

	for dep := range d.deps {
		r.removeSubscriber(dep, self)
	}
	d.deps = make(map[Ref]struct{})

	r.pushObserver(self)
	value := d.computeFn()
	r.popObserver()

	d.value = value
	d.stale = false
	d.evaluated = true
}

// DisposeDerived removes a derived from every dependency's subscriber set
// and marks its own subscribers stale so their next read recomputes without
// it. Disposing a derived disposes it (§4.3 "Disposal").
func (r *Runtime) DisposeDerived(id DerivedID) {
	d := r.deriveds[id]
	if d == nil || d.disposed {
		return
	}
	self := Ref{Kind: RefDerived, ID: uint64(id)}
	for dep := range d.deps {
		r.removeSubscriber(dep, self)
	}
	for sub := range d.subscribers {
		if sub.Kind == RefDerived {
			if sd := r.deriveds[DerivedID(sub.ID)]; sd != nil {
				sd.stale = true
			}
		}
	}
	d.deps = nil
	d.subscribers = nil
	d.computeFn = nil
	d.disposed = true
}
