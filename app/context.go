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

package app

import (
	"io"
	"sync"

	"rover.dev/rover/guard"
	"rover.dev/rover/router"
	"rover.dev/rover/signal"
	"rover.dev/rover/ui"
)

// Context wraps a *router.Context with the extra surface a Rover handler
// needs: the raw body as a guard.BodyValue (ctx:body():expect(schema) in the
// SL), and access to the host's signal runtime and UI registry so handler
// code can create signals/effects the same way UI element code does.
//
// Context instances are pooled; a handler must not retain one past return.
type Context struct {
	*router.Context

	host *Host
	body *guard.BodyValue
}

// Body returns the request body as a guard.BodyValue, reading and buffering
// it the first time it's called. The buffered bytes are reused by
// subsequent calls within the same request (SUPPLEMENTED FEATURES: BodyValue
// accessor surface carries :json()/:as_string()/:echo()/:text()/:bytes()/
// :expect() onto this single read).
func (c *Context) Body() *guard.BodyValue {
	if c.body == nil {
		var raw []byte
		if c.Request.Body != nil {
			raw, _ = io.ReadAll(c.Request.Body)
		}
		c.body = guard.NewBodyValue(raw)
	}
	return c.body
}

// Runtime returns the host's signal runtime, so a handler can create
// request-scoped signals/effects alongside the UI-driven ones.
func (c *Context) Runtime() *signal.Runtime {
	return c.host.runtime
}

// UI returns the host's UI node registry.
func (c *Context) UI() *ui.Registry {
	return c.host.ui
}

// reset clears the context for return to the pool.
func (c *Context) reset() {
	c.Context = nil
	c.host = nil
	c.body = nil
}

type contextPool struct {
	pool sync.Pool
}

func newContextPool() *contextPool {
	return &contextPool{
		pool: sync.Pool{New: func() any { return &Context{} }},
	}
}

func (p *contextPool) get() *Context {
	return p.pool.Get().(*Context)
}

func (p *contextPool) put(c *Context) {
	c.reset()
	p.pool.Put(c)
}
