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

package logging

import (
	"context"
	"io"
	"log/slog"
	"sync"
)

var bgCtx = context.Background()

var (
	noopOnce   sync.Once
	noopLogger *slog.Logger
)

// NoopLogger returns the process-wide no-op logger singleton, used when a
// Host disables logging entirely.
func NoopLogger() *slog.Logger {
	noopOnce.Do(func() {
		noopLogger = slog.New(slog.NewTextHandler(io.Discard, nil))
	})
	return noopLogger
}

// LogRequest logs one completed HTTP request per §7's rule: info for 2xx,
// warn for 4xx/5xx. errMsg is included as an attribute for 5xx responses and
// ignored otherwise.
func LogRequest(logger *slog.Logger, method, path string, status int, elapsedMS float64, errMsg string) {
	if logger == nil {
		return
	}
	attrs := []any{
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", status),
		slog.Float64("elapsed_ms", elapsedMS),
	}

	switch {
	case status >= 500:
		logger.Warn("request completed", append(attrs, slog.String("error", errMsg))...)
	case status >= 400:
		logger.Warn("request completed", attrs...)
	default:
		logger.Info("request completed", attrs...)
	}
}

// LogBodyPreview logs a truncated request/response body at debug level, per
// §7's "debug for body previews" rule.
func LogBodyPreview(logger *slog.Logger, direction string, body []byte, maxLen int) {
	if logger == nil || !logger.Enabled(bgCtx, slog.LevelDebug) {
		return
	}
	preview := body
	truncated := false
	if len(preview) > maxLen {
		preview = preview[:maxLen]
		truncated = true
	}
	logger.Debug("body preview",
		slog.String("direction", direction),
		slog.String("body", string(preview)),
		slog.Bool("truncated", truncated),
	)
}

// LogEffectError logs an error raised by a signal effect callback. Effect
// errors are isolated per §4.3/§7: one effect failing never halts the flush.
func LogEffectError(logger *slog.Logger, effectID uint64, err error) {
	if logger == nil || err == nil {
		return
	}
	logger.Warn("effect callback error",
		slog.Uint64("effect_id", effectID),
		slog.String("error", err.Error()),
	)
}
