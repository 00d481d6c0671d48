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

package typeinfer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnion_FlattensAndDedups(t *testing.T) {
	u := Union(String, Union(Number, String), Never)
	require.Equal(t, KindUnion, u.Kind)
	assert.Len(t, u.Options, 2)
}

func TestUnion_SingleMemberCollapses(t *testing.T) {
	u := Union(String, Never)
	assert.Equal(t, String, u)
}

func TestIsAssignableTo_AnyAndUnknown(t *testing.T) {
	assert.True(t, Number.IsAssignableTo(Any))
	assert.True(t, Any.IsAssignableTo(String))
	assert.True(t, Unknown.IsAssignableTo(Boolean))
}

func TestIsAssignableTo_NilIntoUnion(t *testing.T) {
	u := Union(String, Nil)
	assert.True(t, Nil.IsAssignableTo(u))
	assert.False(t, Number.IsAssignableTo(u))
}

func TestExclude_RemovesFromUnion(t *testing.T) {
	u := Union(String, Nil)
	excluded := u.Exclude(Nil)
	assert.Equal(t, String, excluded)
}

func TestExclude_BareTypeBecomesNever(t *testing.T) {
	assert.Equal(t, Never, String.Exclude(String))
}

func TestNarrow_UnionToMember(t *testing.T) {
	u := Union(String, Nil)
	assert.Equal(t, String, u.Narrow(String))
	assert.Equal(t, Never, u.Narrow(Number))
}

func TestTypeEnv_LookupAndShadow(t *testing.T) {
	root := NewTypeEnv()
	root.Declare("x", String)

	child := root.Child()
	child.Declare("x", Number)

	v, ok := child.Lookup("x")
	require.True(t, ok)
	assert.Equal(t, Number, v, "child scope shadows parent")

	v, ok = root.Lookup("x")
	require.True(t, ok)
	assert.Equal(t, String, v, "parent scope is untouched by shadowing")
}

func TestTypeEnv_SetUpdatesOuterBinding(t *testing.T) {
	root := NewTypeEnv()
	root.Declare("x", String)
	child := root.Child()

	child.Set("x", Number)

	v, _ := root.Lookup("x")
	assert.Equal(t, Number, v, "Set on an already-bound outer name must update it in place")
}

func TestTypeEnv_Bubble(t *testing.T) {
	env := NewTypeEnv()
	env.Declare("param", Unknown)

	env.Bubble("param", Nil)
	v, _ := env.Lookup("param")
	assert.Equal(t, Nil, v)

	env.Bubble("param", Table())
	v, _ = env.Lookup("param")
	require.Equal(t, KindUnion, v.Kind, "second observation widens to a union rather than replacing")
}

func TestApplyGuard_NotNil(t *testing.T) {
	base := Union(Table(), Nil)
	truthy := ApplyGuard(base, GuardNotNil, "", true)
	assert.Equal(t, Table(), truthy)

	falsy := ApplyGuard(base, GuardNotNil, "", false)
	assert.Equal(t, Nil, falsy)
}

func TestApplyGuard_TypeEquals(t *testing.T) {
	base := Union(String, Number, Nil)
	matched := ApplyGuard(base, GuardTypeEquals, "string", true)
	assert.Equal(t, String, matched)

	rest := ApplyGuard(base, GuardTypeEquals, "string", false)
	require.Equal(t, KindUnion, rest.Kind)
	assert.Len(t, rest.Options, 2)
}
