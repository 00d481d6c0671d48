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

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) *Router {
	t.Helper()
	r, err := New()
	require.NoError(t, err)
	return r
}

func TestResponse_JSONWritesBodyAndStatus(t *testing.T) {
	r := newTestRouter(t)
	r.GET("/ping", func(c *Context) {
		_ = JSON(map[string]string{"pong": "ok"}).WriteTo(c)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "pong")
}

func TestResponse_JSONStatusOverridesCode(t *testing.T) {
	r := newTestRouter(t)
	r.GET("/created", func(c *Context) {
		_ = JSONStatus(http.StatusCreated, map[string]int{"id": 1}).WriteTo(c)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/created", nil))

	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestResponse_TextWritesPlainBody(t *testing.T) {
	r := newTestRouter(t)
	r.GET("/hi", func(c *Context) {
		_ = Text("hello").WriteTo(c)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/hi", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "hello", rec.Body.String())
}

func TestResponse_HTMLRendersTemplateAgainstData(t *testing.T) {
	r := newTestRouter(t)
	r.GET("/greet", func(c *Context) {
		_ = HTML(map[string]string{"Name": "Ada"})("<p>Hi {{.Name}}</p>").WriteTo(c)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/greet", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "<p>Hi Ada</p>", rec.Body.String())
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
}

func TestResponse_RedirectSetsLocationAndStatus(t *testing.T) {
	r := newTestRouter(t)
	r.GET("/old", func(c *Context) {
		_ = Redirect("/new").WriteTo(c)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/old", nil))

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/new", rec.Header().Get("Location"))
}

func TestResponse_RedirectPermanentUses301(t *testing.T) {
	r := newTestRouter(t)
	r.GET("/old", func(c *Context) {
		_ = RedirectPermanent("/new").WriteTo(c)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/old", nil))

	assert.Equal(t, http.StatusMovedPermanently, rec.Code)
}

func TestResponse_ErrorResponseWithPlainMessage(t *testing.T) {
	r := newTestRouter(t)
	r.GET("/boom", func(c *Context) {
		_ = ErrorResponse(http.StatusConflict, "already exists").WriteTo(c)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.JSONEq(t, `{"error":"already exists"}`, rec.Body.String())
}

type testDetailer struct{}

func (testDetailer) Details() any { return map[string]any{"errors": []string{"bad field"}} }

func TestResponse_ErrorResponseWithDetailerUsesStructuredBody(t *testing.T) {
	r := newTestRouter(t)
	r.GET("/boom", func(c *Context) {
		_ = ErrorResponse(http.StatusBadRequest, testDetailer{}).WriteTo(c)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"errors":["bad field"]}`, rec.Body.String())
}

func TestResponse_NoContentResponseIsEmpty(t *testing.T) {
	r := newTestRouter(t)
	r.DELETE("/users/{id}", func(c *Context) {
		_ = NoContentResponse().WriteTo(c)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/users/1", nil))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestResponse_RawWritesBytesUnmodified(t *testing.T) {
	r := newTestRouter(t)
	r.GET("/blob", func(c *Context) {
		_ = Raw([]byte("binary-ish")).WriteTo(c)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/blob", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "binary-ish", rec.Body.String())
}
