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

package analyze

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleScript = `
local app = rover.server()

function app.users.p_id.get(req)
	return api.json({ name = "Ada", active = true })
end

function app.health.get(req)
	return api.text()
end
`

func TestAnalyze_DiscoversServerAndRoutes(t *testing.T) {
	model := Analyze(sampleScript)
	require.NotNil(t, model.Server)
	require.Len(t, model.Server.Routes, 2)

	r0 := model.Server.Routes[0]
	assert.Equal(t, "GET", r0.Method)
	assert.Equal(t, "/users/{id}", r0.Path, "p_id must become {id}")
	require.Len(t, r0.Responses, 1)
	assert.Equal(t, 200, r0.Responses[0].Status)
	assert.Equal(t, "application/json", r0.Responses[0].ContentType)

	schema, ok := r0.Responses[0].Schema.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Ada", schema["name"])
	assert.Equal(t, true, schema["active"])

	r1 := model.Server.Routes[1]
	assert.Equal(t, "/health", r1.Path)
	assert.Equal(t, "text/plain", r1.Responses[0].ContentType)
}

func TestAnalyze_NoServerBinding(t *testing.T) {
	model := Analyze(`local x = 1`)
	assert.Nil(t, model.Server)
}

func TestAnalyze_NonHTTPMethodIgnored(t *testing.T) {
	model := Analyze(`
local app = rover.server()
function app.helpers.format()
	return nil
end
`)
	require.NotNil(t, model.Server)
	assert.Empty(t, model.Server.Routes)
}

func TestParse_ProducesChunkRoot(t *testing.T) {
	root := Parse(`local x = 1`)
	assert.Equal(t, "chunk", root.Kind)
	require.Len(t, root.Children, 1)
	assert.Equal(t, "assignment_statement", root.Children[0].Kind)
}
