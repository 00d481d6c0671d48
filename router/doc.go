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

// Package router provides an HTTP router for Go.
//
// The router implements a routing system for cloud-native applications.
// It features path matching, parameter extraction, and comprehensive middleware support.
//
// # Key Features
//
//   - Path matching for static and parameterized routes
//   - Parameter extraction from URL paths
//   - Context pooling for request handling
//   - Route grouping for hierarchical API organization
//   - Template-based routing for route patterns
//   - OpenTelemetry tracing and metrics integration
//   - Strict JSON body binding (BindStrict)
//
// The package has no tag-based request binding, no validation layer, no content
// negotiation helpers and no bundled middleware.
//
// # Routing Details
//
//   - Static routes: Exact path matching
//   - Parameterized routes: Segment-based matching
//
// # Constructor Pattern
//
// The router follows a pragmatic constructor pattern:
//
//   - New() returns (*Router, error). It applies the options and then validates the
//     resulting configuration (for example, a zero bloom filter size is an error).
//     There is no network I/O, file system access, or external dependencies during construction.
//
//   - MustNew() wraps New() and panics if the configuration is invalid.
//
//   - All configuration options use the "With" prefix for consistency (e.g., WithH2C, WithBloomFilterSize).
//
//   - Grouping options (e.g., WithServerTimeouts) accept multiple related settings to reduce API surface.
//
// # Quick Start
//
//	package main
//
//	import (
//	    "net/http"
//	    "rover.dev/rover/router"
//	)
//
//	func main() {
//	    r := router.MustNew()
//
//	    r.GET("/", func(c *router.Context) {
//	        c.JSON(http.StatusOK, map[string]string{"message": "Hello World"})
//	    })
//
//	    r.GET("/users/{id}", func(c *router.Context) {
//	        c.JSON(http.StatusOK, map[string]string{"user_id": c.Param("id")})
//	    })
//
//	    http.ListenAndServe(":8080", r)
//	}
//
// # Request Binding
//
// BindStrict decodes a JSON request body, rejecting unknown fields and
// enforcing a size limit. On failure it has already written a plain-text error
// response (400, 413 or 422):
//
//	type UserRequest struct {
//	    Name  string `json:"name"`
//	    Email string `json:"email"`
//	}
//
//	func handler(c *router.Context) {
//	    var req UserRequest
//	    if err := c.BindStrict(&req, router.BindOptions{MaxBytes: 1 << 20}); err != nil {
//	        return // Error already written
//	    }
//	    // Use req...
//	}
//
// # Middleware
//
// Middleware is a HandlerFunc that calls c.Next(). It can be applied globally
// or to route groups:
//
//	r.Use(logRequests)
//
//	api := r.Group("/api")
//	api.Use(requireAuth)
//	api.GET("/users", handler)
//
// # Observability
//
// OpenTelemetry integration for metrics and tracing:
//
//	r := router.MustNew(
//	    router.WithMetrics(),
//	    router.WithTracing(),
//	)
package router
