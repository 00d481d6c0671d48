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
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rover.dev/rover/analyze"
	"rover.dev/rover/guard"
	"rover.dev/rover/router"
)

func TestHost_GETRoutesThroughToHandler(t *testing.T) {
	h, err := New()
	require.NoError(t, err)

	h.GET("/ping", func(c *Context) router.Response {
		return router.JSON(map[string]string{"pong": "ok"})
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	h.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "pong")
}

func TestHost_BodyGuardRejectsInvalidPayload(t *testing.T) {
	h, err := New()
	require.NoError(t, err)

	schema := guard.Schema{
		"name": {Type: guard.TypeString, Required: true},
	}
	called := false
	h.POST("/users", func(c *Context) router.Response {
		called = true
		return router.JSON(nil)
	}, WithBodyGuard(schema))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(`{}`))
	h.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, called, "handler must not run when the guard rejects the body")
}

func TestHost_BodyGuardAcceptsValidPayload(t *testing.T) {
	h, err := New()
	require.NoError(t, err)

	schema := guard.Schema{
		"name": {Type: guard.TypeString, Required: true},
	}
	h.POST("/users", func(c *Context) router.Response {
		return router.JSONStatus(http.StatusCreated, nil)
	}, WithBodyGuard(schema))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(`{"name":"Ada"}`))
	h.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestHost_BindWiresAnalyzedRoutes(t *testing.T) {
	h, err := New()
	require.NoError(t, err)

	source := `
local app = rover.server()

function app.ping.get(req)
	return api.json({ ok = true })
end
`
	var handled bool
	problems := h.Bind(source, map[string]HandlerFunc{
		"app.ping.get": func(c *Context) router.Response {
			handled = true
			return router.JSON(map[string]bool{"ok": true})
		},
	}, map[analyze.FunctionID]string{0: "app.ping.get"})

	require.Empty(t, problems)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	h.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, handled)
}

func TestHost_BindSkipsUnboundHandlerWithoutFailing(t *testing.T) {
	h, err := New()
	require.NoError(t, err)

	source := `
local app = rover.server()

function app.orphan.get(req)
	return api.json({})
end
`
	problems := h.Bind(source, map[string]HandlerFunc{}, map[analyze.FunctionID]string{0: "app.orphan.get"})
	require.Len(t, problems, 1)
	assert.Contains(t, problems[0].Message, "no bound Go handler")
}

func TestHost_HandlerRedirect(t *testing.T) {
	h, err := New()
	require.NoError(t, err)

	h.GET("/old", func(c *Context) router.Response {
		return router.RedirectPermanent("/new")
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/old", nil)
	h.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusMovedPermanently, rec.Code)
	assert.Equal(t, "/new", rec.Header().Get("Location"))
}

func TestHost_HandlerHTML(t *testing.T) {
	h, err := New()
	require.NoError(t, err)

	h.GET("/greet", func(c *Context) router.Response {
		return router.HTML(map[string]string{"Name": "Ada"})("<p>Hello, {{.Name}}</p>")
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/greet", nil)
	h.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "<p>Hello, Ada</p>", rec.Body.String())
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
}

func TestHost_HandlerError(t *testing.T) {
	h, err := New()
	require.NoError(t, err)

	h.GET("/boom", func(c *Context) router.Response {
		return router.ErrorResponse(http.StatusConflict, "already exists")
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	h.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "already exists")
}

func TestHost_HandlerNoContent(t *testing.T) {
	h, err := New()
	require.NoError(t, err)

	h.DELETE("/users/{id}", func(c *Context) router.Response {
		return router.NoContentResponse()
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/users/1", nil)
	h.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestHost_HandlerRaw(t *testing.T) {
	h, err := New()
	require.NoError(t, err)

	h.GET("/blob", func(c *Context) router.Response {
		return router.Raw([]byte("binary-ish"))
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/blob", nil)
	h.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "binary-ish", rec.Body.String())
}

func TestHost_BodyGuardRejectionProducesStructuredErrors(t *testing.T) {
	h, err := New()
	require.NoError(t, err)

	schema := guard.Schema{
		"name": {Type: guard.TypeString, Required: true},
	}
	h.POST("/users", func(c *Context) router.Response {
		return router.JSON(nil)
	}, WithBodyGuard(schema))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(`{}`))
	h.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"errors"`)
}
