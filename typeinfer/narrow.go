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

// Guard is one of the recognized type-guard shapes: type(x) == "string",
// x ~= nil, truthy/falsy use of x, not x, and pcall(...) success checks.
type Guard uint8

const (
	GuardTypeEquals Guard = iota
	GuardNotNil
	GuardTruthy
	GuardFalsy
	GuardNot
	GuardPcallOK
)

// typeNameToType maps the string literal passed to Lua's type() builtin to
// the Type it identifies.
var typeNameToType = map[string]Type{
	"nil":      Nil,
	"boolean":  Boolean,
	"number":   Number,
	"string":   String,
	"table":    Table(),
	"function": Function(nil, nil),
	"userdata": Userdata,
	"thread":   Thread,
}

// TypeFromName resolves a type() string literal to its Type, with ok false
// for an unrecognized name.
func TypeFromName(name string) (Type, bool) {
	t, ok := typeNameToType[name]
	return t, ok
}

// ApplyGuard narrows base according to guard, for the branch where the
// guard held (branchTrue) or its negation held. literal is only consulted
// for GuardTypeEquals.
func ApplyGuard(base Type, guard Guard, literal string, branchTrue bool) Type {
	switch guard {
	case GuardTypeEquals:
		lit, ok := TypeFromName(literal)
		if !ok {
			return base
		}
		if branchTrue {
			return base.Narrow(lit)
		}
		return base.Exclude(lit)

	case GuardNotNil:
		if branchTrue {
			return base.Exclude(Nil)
		}
		return base.Narrow(Nil)

	case GuardNot:
		// `not x` true means x was falsy: nil or false.
		if branchTrue {
			return Union(base.Narrow(Nil), base.Narrow(Boolean))
		}
		return base.Exclude(Nil)

	case GuardTruthy:
		if branchTrue {
			return base.Exclude(Nil).Exclude(Boolean)
		}
		return base

	case GuardFalsy:
		if branchTrue {
			return base.Narrow(Union(Nil, Boolean))
		}
		return base.Exclude(Nil)

	case GuardPcallOK:
		// pcall(f) returning true tells us nothing about f's result type
		// beyond "no error was raised"; base is unchanged either way.
		return base

	default:
		return base
	}
}
