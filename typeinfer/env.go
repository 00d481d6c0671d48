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

package typeinfer

// TypeEnv is a lexically-scoped map from variable name to its current
// inferred Type. Child scopes link to a parent and shadow without
// mutating it; Set on a name already bound in an ancestor scope updates the
// nearest binding rather than creating a new one, matching Lua's lexical
// scoping for non-local assignment.
type TypeEnv struct {
	parent *TypeEnv
	vars   map[string]Type
}

// NewTypeEnv creates a root environment.
func NewTypeEnv() *TypeEnv {
	return &TypeEnv{vars: make(map[string]Type)}
}

// Child creates a new scope nested under e.
func (e *TypeEnv) Child() *TypeEnv {
	return &TypeEnv{parent: e, vars: make(map[string]Type)}
}

// Declare binds name to t in the current scope, shadowing any outer binding.
func (e *TypeEnv) Declare(name string, t Type) {
	e.vars[name] = t
}

// Lookup resolves name against e and its ancestors. ok is false for an
// unbound name, which callers should treat as Unknown.
func (e *TypeEnv) Lookup(name string) (Type, bool) {
	for env := e; env != nil; env = env.parent {
		if t, ok := env.vars[name]; ok {
			return t, true
		}
	}
	return Unknown, false
}

// Set updates name's type in the scope where it is already bound (searching
// outward), or declares it in the current scope if unbound anywhere.
func (e *TypeEnv) Set(name string, t Type) {
	for env := e; env != nil; env = env.parent {
		if _, ok := env.vars[name]; ok {
			env.vars[name] = t
			return
		}
	}
	e.vars[name] = t
}

// Bubble widens name's binding to include t, used when a parameter typed
// Unknown is observed under a new constraint — each new observation widens
// the running union rather than replacing it (§4.2 "constraint bubbling").
func (e *TypeEnv) Bubble(name string, t Type) {
	cur, ok := e.Lookup(name)
	if !ok || cur.Kind == KindUnknown {
		e.Set(name, t)
		return
	}
	e.Set(name, Union(cur, t))
}
