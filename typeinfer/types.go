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

import "fmt"

// Kind discriminates the cases of Type.
type Kind uint8

const (
	KindNil Kind = iota
	KindBoolean
	KindNumber
	KindString
	KindTable
	KindFunction
	KindUserdata
	KindThread
	KindUnknown
	KindUnion
	KindNever
	KindAny
)

// FieldType describes one known field of a Table type's structural shape.
type FieldType struct {
	Name string
	Type Type
}

// FunctionType describes a Function type's parameter and return shapes.
type FunctionType struct {
	Params  []Type
	Returns []Type
}

// Type is a value of the structural type lattice. Only the fields relevant
// to Kind are populated: Fields for KindTable, Func for KindFunction,
// Options for KindUnion.
type Type struct {
	Kind    Kind
	Fields  []FieldType
	Func    *FunctionType
	Options []Type
}

var (
	Nil      = Type{Kind: KindNil}
	Boolean  = Type{Kind: KindBoolean}
	Number   = Type{Kind: KindNumber}
	String   = Type{Kind: KindString}
	Userdata = Type{Kind: KindUserdata}
	Thread   = Type{Kind: KindThread}
	Unknown  = Type{Kind: KindUnknown}
	Never    = Type{Kind: KindNever}
	Any      = Type{Kind: KindAny}
)

// Table returns a Table type with the given structural fields.
func Table(fields ...FieldType) Type {
	return Type{Kind: KindTable, Fields: fields}
}

// Function returns a Function type.
func Function(params, returns []Type) Type {
	return Type{Kind: KindFunction, Func: &FunctionType{Params: params, Returns: returns}}
}

func (t Type) String() string {
	switch t.Kind {
	case KindNil:
		return "nil"
	case KindBoolean:
		return "boolean"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindTable:
		return "table"
	case KindFunction:
		return "function"
	case KindUserdata:
		return "userdata"
	case KindThread:
		return "thread"
	case KindUnknown:
		return "unknown"
	case KindNever:
		return "never"
	case KindAny:
		return "any"
	case KindUnion:
		s := ""
		for i, o := range t.Options {
			if i > 0 {
				s += " | "
			}
			s += o.String()
		}
		return s
	default:
		return fmt.Sprintf("<invalid kind %d>", t.Kind)
	}
}

func typesEqual(a, b Type) bool {
	if a.Kind != b.Kind {
		return false
	}
	if a.Kind == KindUnion {
		if len(a.Options) != len(b.Options) {
			return false
		}
		for i := range a.Options {
			if !typesEqual(a.Options[i], b.Options[i]) {
				return false
			}
		}
	}
	return true
}

// Union builds a union type, flattening nested unions, dropping Never, and
// deduplicating members. A single remaining member collapses to that
// member; zero members collapses to Never.
func Union(types ...Type) Type {
	var flat []Type
	for _, t := range types {
		switch t.Kind {
		case KindUnion:
			for _, inner := range t.Options {
				if !containsType(flat, inner) {
					flat = append(flat, inner)
				}
			}
		case KindNever:
			// disappears
		default:
			if !containsType(flat, t) {
				flat = append(flat, t)
			}
		}
	}
	switch len(flat) {
	case 0:
		return Never
	case 1:
		return flat[0]
	default:
		return Type{Kind: KindUnion, Options: flat}
	}
}

func containsType(set []Type, t Type) bool {
	for _, s := range set {
		if typesEqual(s, t) {
			return true
		}
	}
	return false
}

// IsAssignableTo reports whether a value of type t can be used where target
// is expected.
func (t Type) IsAssignableTo(target Type) bool {
	if t.Kind == KindAny || target.Kind == KindAny {
		return true
	}
	if t.Kind == KindUnknown || t.Kind == KindNever {
		return true
	}
	if typesEqual(t, target) {
		return true
	}
	if t.Kind == KindNil && target.Kind == KindUnion {
		return containsType(target.Options, Nil)
	}
	if target.Kind == KindUnion {
		for _, o := range target.Options {
			if t.IsAssignableTo(o) {
				return true
			}
		}
		return false
	}
	if t.Kind == KindUnion {
		for _, o := range t.Options {
			if !o.IsAssignableTo(target) {
				return false
			}
		}
		return true
	}
	if t.Kind == KindTable && target.Kind == KindTable {
		return tableAssignable(t, target)
	}
	return false
}

func tableAssignable(a, b Type) bool {
	for _, bf := range b.Fields {
		found := false
		for _, af := range a.Fields {
			if af.Name == bf.Name {
				found = af.Type.IsAssignableTo(bf.Type)
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// Exclude removes excluded from t, for narrowing an else-branch: a union
// loses the excluded member, a matching bare type becomes Never, anything
// else is untouched.
func (t Type) Exclude(excluded Type) Type {
	if t.Kind == KindUnion {
		var remaining []Type
		for _, o := range t.Options {
			if !typesEqual(o, excluded) {
				remaining = append(remaining, o)
			}
		}
		return Union(remaining...)
	}
	if typesEqual(t, excluded) {
		return Never
	}
	return t
}

// Narrow restricts t to exactly narrowed, when narrowed is a plausible
// member of t (used for a then-branch's type() == "..." guard).
func (t Type) Narrow(narrowed Type) Type {
	if t.Kind == KindUnion {
		for _, o := range t.Options {
			if typesEqual(o, narrowed) {
				return narrowed
			}
		}
		return Never
	}
	if t.Kind == KindUnknown || t.Kind == KindAny || typesEqual(t, narrowed) {
		return narrowed
	}
	return Never
}
