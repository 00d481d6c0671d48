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
	"log/slog"
	"reflect"
	"sync/atomic"

	"rover.dev/rover/logging"
)

// SignalID, DerivedID, and EffectID identify nodes in the dependency graph.
// Zero is never issued; it is reserved as the not-found value.
type (
	SignalID  uint64
	DerivedID uint64
	EffectID  uint64
)

// RefKind discriminates the union types used for deps (SignalID ∪ DerivedID)
// and subscribers (DerivedID ∪ EffectID) described in spec §3.
type RefKind uint8

const (
	RefSignal RefKind = iota
	RefDerived
	RefEffect
)

// Ref is a typed pointer into the graph: a dependency source (Signal or
// Derived) or a subscriber (Derived or Effect), depending on context.
type Ref struct {
	Kind RefKind
	ID   uint64
}

// defaultWatermark bounds the number of effects a single flush will run
// before bailing with an overflow diagnostic (§4.3 "bounded by a
// configurable watermark").
const defaultWatermark = 1000

// Runtime owns one dependency graph: every signal, derived, and effect
// created through it, plus the observer stack and pending-effects queue that
// drive propagation. A Runtime is not safe for concurrent use; it is meant to
// be host-local (one per connection/request-serving goroutine).
type Runtime struct {
	signals  map[SignalID]*signalNode
	deriveds map[DerivedID]*derivedNode
	effects  map[EffectID]*effectNode

	nextSignalID  atomic.Uint64
	nextDerivedID atomic.Uint64
	nextEffectID  atomic.Uint64

	observerStack []Ref

	batchDepth     int
	pendingEffects []EffectID
	pendingSeen    map[EffectID]bool
	watermark      int

	logger *slog.Logger
}

// Option configures a Runtime at construction time.
type Option func(*Runtime)

// WithWatermark overrides the default effect-flush watermark.
func WithWatermark(n int) Option {
	return func(r *Runtime) { r.watermark = n }
}

// WithLogger attaches a logger used for effect errors and flush-overflow
// diagnostics. Defaults to logging.NoopLogger().
func WithLogger(l *slog.Logger) Option {
	return func(r *Runtime) { r.logger = l }
}

// New creates a Runtime with an empty graph.
func New(opts ...Option) *Runtime {
	r := &Runtime{
		signals:     make(map[SignalID]*signalNode),
		deriveds:    make(map[DerivedID]*derivedNode),
		effects:     make(map[EffectID]*effectNode),
		pendingSeen: make(map[EffectID]bool),
		watermark:   defaultWatermark,
		logger:      logging.NoopLogger(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Runtime) pushObserver(ref Ref) {
	r.observerStack = append(r.observerStack, ref)
}

func (r *Runtime) popObserver() {
	r.observerStack = r.observerStack[:len(r.observerStack)-1]
}

func (r *Runtime) currentObserver() (Ref, bool) {
	if len(r.observerStack) == 0 {
		return Ref{}, false
	}
	return r.observerStack[len(r.observerStack)-1], true
}

func (r *Runtime) observing(ref Ref) bool {
	for _, o := range r.observerStack {
		if o == ref {
			return true
		}
	}
	return false
}

// registerDependency records that the currently-executing observer (if any)
// read source: source gains the observer as a subscriber, and the observer
// gains source as a dependency (§4.3 "observer stack").
func (r *Runtime) registerDependency(source Ref) {
	observer, ok := r.currentObserver()
	if !ok {
		return
	}
	r.addSubscriber(source, observer)
	r.addDependency(observer, source)
}

func (r *Runtime) addSubscriber(source, subscriber Ref) {
	switch source.Kind {
	case RefSignal:
		if s := r.signals[SignalID(source.ID)]; s != nil {
			s.subscribers[subscriber] = struct{}{}
		}
	case RefDerived:
		if d := r.deriveds[DerivedID(source.ID)]; d != nil {
			d.subscribers[subscriber] = struct{}{}
		}
	}
}

func (r *Runtime) removeSubscriber(source, subscriber Ref) {
	switch source.Kind {
	case RefSignal:
		if s := r.signals[SignalID(source.ID)]; s != nil {
			delete(s.subscribers, subscriber)
		}
	case RefDerived:
		if d := r.deriveds[DerivedID(source.ID)]; d != nil {
			delete(d.subscribers, subscriber)
		}
	}
}

func (r *Runtime) addDependency(observer, source Ref) {
	switch observer.Kind {
	case RefDerived:
		if d := r.deriveds[DerivedID(observer.ID)]; d != nil {
			d.deps[source] = struct{}{}
		}
	case RefEffect:
		if e := r.effects[EffectID(observer.ID)]; e != nil {
			e.deps[source] = struct{}{}
		}
	}
}

// valuesEqual implements the "value-equality on the narrow value domain"
// rule from §4.3's write contract: Nil|Bool|Int|Number|String compare by ==,
// table handles fall back to deep equality.
func valuesEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == b
	}
	av, bv := reflect.ValueOf(a), reflect.ValueOf(b)
	if av.Type() != bv.Type() {
		return false
	}
	if av.Comparable() {
		return a == b
	}
	return reflect.DeepEqual(a, b)
}
