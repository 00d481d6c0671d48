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

// Node is one node of the concrete syntax tree produced by Parse. It
// mirrors the shape a tree-sitter grammar exposes (Kind, byte offsets,
// ordered Children) so Analyzer.Walk can use the same dispatch-then-recurse
// idiom as a tree-sitter-backed walker.
type Node struct {
	Kind       string
	StartByte  int
	EndByte    int
	Children   []*Node
	StartLine  int
	StartCol   int
}

// Text returns the node's source slice.
func (n *Node) Text(source string) string {
	if n == nil || n.StartByte < 0 || n.EndByte > len(source) || n.StartByte > n.EndByte {
		return ""
	}
	return source[n.StartByte:n.EndByte]
}

func newNode(kind string, start, end int, line, col int, children ...*Node) *Node {
	return &Node{Kind: kind, StartByte: start, EndByte: end, StartLine: line, StartCol: col, Children: children}
}
