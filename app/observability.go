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
	"log/slog"
	"net/http"
	"time"

	"rover.dev/rover/logging"
	"rover.dev/rover/router"
)

// requestLogger adapts logging.LogRequest to router.ObservabilityRecorder,
// so the §7 "2xx info, 4xx/5xx warn" access-log rule fires on every request
// without the Host needing its own HTTP middleware layer.
type requestLogger struct {
	logger *slog.Logger
}

type requestState struct {
	start  time.Time
	method string
	path   string
}

func (rl *requestLogger) OnRequestStart(ctx context.Context, req *http.Request) (context.Context, any) {
	return ctx, &requestState{start: time.Now(), method: req.Method, path: req.URL.Path}
}

func (rl *requestLogger) WrapResponseWriter(w http.ResponseWriter, state any) http.ResponseWriter {
	return w
}

func (rl *requestLogger) OnRequestEnd(ctx context.Context, state any, writer http.ResponseWriter, routePattern string) {
	st, ok := state.(*requestState)
	if !ok {
		return
	}
	status := http.StatusOK
	var errMsg string
	if info, ok := writer.(router.ResponseInfo); ok {
		status = info.StatusCode()
	}
	elapsed := float64(time.Since(st.start).Microseconds()) / 1000.0
	logging.LogRequest(rl.logger, st.method, routePattern, status, elapsed, errMsg)
}
