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
	"log/slog"

	"rover.dev/rover/db"
	"rover.dev/rover/logging"
	"rover.dev/rover/router"
	"rover.dev/rover/signal"
)

// Option configures a Host at construction time, the same functional-option
// idiom router.Option and signal.Option use.
type Option func(*config)

type config struct {
	logger       *slog.Logger
	routerOpts   []router.Option
	signalOpts   []signal.Option
	migrator     *db.Migrator
	schemas      map[string][]byte // table name -> JSON-Schema document, for dbintent.CrossCheck
}

func defaultConfig() *config {
	return &config{
		logger:  logging.NoopLogger(),
		schemas: make(map[string][]byte),
	}
}

// WithLogger sets the structured logger used for request logging (§7
// "user-visible behavior") and effect-error logging.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithRouterOptions passes options through to the underlying router.New.
func WithRouterOptions(opts ...router.Option) Option {
	return func(c *config) { c.routerOpts = append(c.routerOpts, opts...) }
}

// WithSignalOptions passes options through to the underlying signal.New.
func WithSignalOptions(opts ...signal.Option) Option {
	return func(c *config) { c.signalOpts = append(c.signalOpts, opts...) }
}

// WithMigrator attaches an already-open db.Migrator (§6's persisted
// migration state). Host.Migrator returns it and Host.Shutdown closes it;
// Bind's DB-intent cross-check does not consult it.
func WithMigrator(m *db.Migrator) Option {
	return func(c *config) { c.migrator = m }
}

// WithTableSchema registers the JSON-Schema document describing table's
// columns, passed to dbintent.CrossCheck when Bind loads a script that
// touches db.<table>.
func WithTableSchema(table string, schemaJSON []byte) Option {
	return func(c *config) { c.schemas[table] = schemaJSON }
}
