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
	"context"
	"fmt"
	"net/http"

	"rover.dev/rover/analyze"
	"rover.dev/rover/analyze/dbintent"
	"rover.dev/rover/db"
	roverrors "rover.dev/rover/errors"
	"rover.dev/rover/guard"
	"rover.dev/rover/router"
	"rover.dev/rover/signal"
	"rover.dev/rover/ui"
)

// HandlerFunc is a Rover request handler, the app-level equivalent of the SL
// handler functions the analyzer discovers (function app.users.get(req) ...).
// It returns the router.Response the script-side handler would have built
// with api.json/api.text/api.html/.../api.raw (§4.9) — wrapHandler is the
// only thing that writes it to the wire.
type HandlerFunc func(*Context) router.Response

// Host is Rover's single-binary runtime: a compiled route table (router.Router),
// a signal runtime shared by handlers and the UI registry, a guard validator
// wired onto routes that declare a body schema, and (optionally) an open
// migration database. One Host corresponds to one running server; nothing
// about it is safe to share across processes.
type Host struct {
	router  *router.Router
	runtime *signal.Runtime
	ui      *ui.Registry
	cfg     *config
	pool    *contextPool

	warnings []roverrors.DbIntentWarn
}

// New builds a Host from options, failing if the underlying router
// construction fails (e.g. an invalid bloom filter size).
func New(opts ...Option) (*Host, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	r, err := router.New(cfg.routerOpts...)
	if err != nil {
		return nil, fmt.Errorf("create router: %w", err)
	}
	r.SetObservabilityRecorder(&requestLogger{logger: cfg.logger})

	rt := signal.New(append([]signal.Option{signal.WithLogger(cfg.logger)}, cfg.signalOpts...)...)

	h := &Host{
		router:  r,
		runtime: rt,
		ui:      ui.NewRegistry(rt),
		cfg:     cfg,
		pool:    newContextPool(),
	}
	return h, nil
}

// MustNew is New, panicking on error — for use in package-level var
// initializers and cmd/rover, where a construction failure is a fatal
// configuration error, not a recoverable one.
func MustNew(opts ...Option) *Host {
	h, err := New(opts...)
	if err != nil {
		panic(fmt.Sprintf("app: host initialization failed: %v", err))
	}
	return h
}

// Router returns the underlying router.Router for advanced use (groups,
// route constraints) not covered by Host's own
// convenience methods.
func (h *Host) Router() *router.Router { return h.router }

// Runtime returns the host's signal runtime.
func (h *Host) Runtime() *signal.Runtime { return h.runtime }

// UI returns the host's UI node registry.
func (h *Host) UI() *ui.Registry { return h.ui }

// Migrator returns the host's attached migration executor, or nil if none
// was configured via WithMigrator.
func (h *Host) Migrator() *db.Migrator { return h.cfg.migrator }

// Warnings returns every DbIntentWarn accumulated by CrossCheck calls made
// while binding scripts to this host.
func (h *Host) Warnings() []roverrors.DbIntentWarn { return h.warnings }

// RouteOption configures one route registration.
type RouteOption func(*routeConfig)

type routeConfig struct {
	guard guard.Schema
}

// WithBodyGuard attaches a guard.Schema that the request body must satisfy
// (§4.1's GuardBinding) before the handler runs; a mismatch short-circuits
// the handler with the §7 400 ValidationErrors body.
func WithBodyGuard(schema guard.Schema) RouteOption {
	return func(rc *routeConfig) { rc.guard = schema }
}

func (h *Host) registerRoute(method, path string, handler HandlerFunc, opts ...RouteOption) *router.Route {
	rc := &routeConfig{}
	for _, opt := range opts {
		opt(rc)
	}
	wrapped := h.wrapHandler(handler, rc.guard)

	switch method {
	case http.MethodGet:
		return h.router.GET(path, wrapped)
	case http.MethodPost:
		return h.router.POST(path, wrapped)
	case http.MethodPut:
		return h.router.PUT(path, wrapped)
	case http.MethodDelete:
		return h.router.DELETE(path, wrapped)
	case http.MethodPatch:
		return h.router.PATCH(path, wrapped)
	case http.MethodHead:
		return h.router.HEAD(path, wrapped)
	case http.MethodOptions:
		return h.router.OPTIONS(path, wrapped)
	default:
		return h.router.GET(path, wrapped)
	}
}

// wrapHandler adapts a HandlerFunc into a router.HandlerFunc: it pulls an
// app.Context from the pool, runs the optional guard validation, batches
// signal writes for the duration of the handler (§5 "mutations during a
// request run in a batch that flushes effects at the request boundary"),
// and writes the router.Response the handler (or a failed guard) produced.
func (h *Host) wrapHandler(handler HandlerFunc, schema guard.Schema) router.HandlerFunc {
	return func(rc *router.Context) {
		ac := h.pool.get()
		ac.Context = rc
		ac.host = h
		defer h.pool.put(ac)

		if schema != nil {
			if _, verrs := ac.Body().Expect(schema); verrs.HasErrors() {
				_ = router.ErrorResponse(http.StatusBadRequest, verrs).WriteTo(rc)
				return
			}
		}

		h.runtime.BeginBatch()
		defer h.runtime.EndBatch()

		resp := handler(ac)
		_ = resp.WriteTo(rc)
	}
}

// GET registers a GET route.
func (h *Host) GET(path string, handler HandlerFunc, opts ...RouteOption) *router.Route {
	return h.registerRoute(http.MethodGet, path, handler, opts...)
}

// POST registers a POST route.
func (h *Host) POST(path string, handler HandlerFunc, opts ...RouteOption) *router.Route {
	return h.registerRoute(http.MethodPost, path, handler, opts...)
}

// PUT registers a PUT route.
func (h *Host) PUT(path string, handler HandlerFunc, opts ...RouteOption) *router.Route {
	return h.registerRoute(http.MethodPut, path, handler, opts...)
}

// DELETE registers a DELETE route.
func (h *Host) DELETE(path string, handler HandlerFunc, opts ...RouteOption) *router.Route {
	return h.registerRoute(http.MethodDelete, path, handler, opts...)
}

// PATCH registers a PATCH route.
func (h *Host) PATCH(path string, handler HandlerFunc, opts ...RouteOption) *router.Route {
	return h.registerRoute(http.MethodPatch, path, handler, opts...)
}

// Bind parses source, walks its SemanticModel (analyze.Analyze) for routes,
// and registers each one against handlers, a caller-supplied map from the
// route's dotted handler name (e.g. "app.users.get") to the Go function
// implementing it — Rover never executes SL source itself (spec.md §1
// non-goal), so a Bind caller supplies the compiled Go side of the
// boundary. Routes whose handler isn't present in handlers are skipped and
// reported as a ParsingError-shaped entry in the returned slice, not a hard
// failure, matching the analyzer's "never throws" propagation rule (§7).
//
// Bind also runs the DB-intent inference (analyze/dbintent) over source and
// cross-checks it against any table schemas registered with
// WithTableSchema, appending warnings to Host.Warnings().
func (h *Host) Bind(source string, handlers map[string]HandlerFunc, names map[analyze.FunctionID]string) []analyze.ParsingError {
	model := analyze.Analyze(source)
	var problems []analyze.ParsingError
	problems = append(problems, model.Errors...)

	if model.Server != nil {
		for _, rt := range model.Server.Routes {
			name, ok := names[rt.Handler]
			if !ok {
				problems = append(problems, analyze.ParsingError{
					Message: fmt.Sprintf("no handler name registered for function id %d", rt.Handler),
				})
				continue
			}
			fn, ok := handlers[name]
			if !ok {
				problems = append(problems, analyze.ParsingError{
					Message:      fmt.Sprintf("route %s %s has no bound Go handler %q", rt.Method, rt.Path, name),
					FunctionName: name,
				})
				continue
			}
			h.registerRoute(rt.Method, rt.Path, fn)
		}
	}

	tables := dbintent.Infer(analyze.Parse(source), source)
	for table, schemaJSON := range h.cfg.schemas {
		t, ok := tables[table]
		if !ok {
			continue
		}
		warnings, err := dbintent.CrossCheck(t, table, schemaJSON)
		if err != nil {
			problems = append(problems, analyze.ParsingError{Message: err.Error()})
			continue
		}
		h.warnings = append(h.warnings, warnings...)
	}

	return problems
}

// Serve starts the HTTP task loop (C10) on addr; it blocks until the server
// stops or errors, same contract as router.Router.Serve.
func (h *Host) Serve(addr string) error {
	return h.router.Serve(addr)
}

// Shutdown gracefully stops the HTTP task loop, then closes the migrator if
// one is attached.
func (h *Host) Shutdown(ctx context.Context) error {
	if err := h.router.Shutdown(ctx); err != nil {
		return err
	}
	if h.cfg.migrator != nil {
		return h.cfg.migrator.Close()
	}
	return nil
}
