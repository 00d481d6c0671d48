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

package router

import "sync"

// Global context pool backing every request the router serves.
var globalContextPool = sync.Pool{
	New: func() any {
		return &Context{}
	},
}

// getContextFromGlobalPool safely retrieves a Context from the global pool.
//
// Implementation:
// - Type assertion check
func getContextFromGlobalPool() *Context {
	ctx, ok := globalContextPool.Get().(*Context)
	if !ok {
		// This should never happen in normal operation. If it does, it indicates
		// either pool corruption or someone Put() an incorrect type into the pool.
		panic("router: pool corruption - globalContextPool returned non-Context type")
	}
	return ctx
}

// releaseGlobalContext cleans up and returns a context to the global pool.
//
// Usage:
//
//	c := getContextFromGlobalPool()
//	defer releaseGlobalContext(c)
func releaseGlobalContext(c *Context) {
	c.reset()
	globalContextPool.Put(c)
}
