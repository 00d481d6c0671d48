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

// parser is a small recursive-descent parser covering the subset of the
// script grammar the analyzer cares about: local/plain assignment, function
// declarations on dotted names, return statements, function calls, dotted
// member access, table constructors, and literals. It produces node kinds
// named after their tree-sitter-lua equivalents (assignment_statement,
// dot_index_expression, table_constructor, ...) so Analyzer.Walk reads
// exactly like a tree-sitter CST walk.
type parser struct {
	toks []token
	pos  int
	src  string
}

// Parse builds a CST for source, returning its root "chunk" node. Parse
// never fails outright — statements it cannot recognize are skipped and the
// walk proceeds past them, matching the original analyzer's tolerance for
// partial/unknown syntax.
func Parse(source string) *Node {
	p := &parser{toks: tokenize(source), src: source}
	var stmts []*Node
	for !p.atEnd() {
		before := p.pos
		if stmt := p.parseStatement(); stmt != nil {
			stmts = append(stmts, stmt)
		}
		if p.pos == before {
			p.pos++ // guarantee forward progress past unrecognized tokens
		}
	}
	end := len(source)
	return newNode("chunk", 0, end, 1, 1, stmts...)
}

func (p *parser) atEnd() bool {
	return p.pos >= len(p.toks) || p.toks[p.pos].kind == tokEOF
}

func (p *parser) cur() token {
	if p.pos >= len(p.toks) {
		return token{kind: tokEOF}
	}
	return p.toks[p.pos]
}

func (p *parser) at(kind tokenKind, text string) bool {
	t := p.cur()
	return t.kind == kind && (text == "" || t.text == text)
}

func (p *parser) advance() token {
	t := p.cur()
	if p.pos < len(p.toks) {
		p.pos++
	}
	return t
}

func (p *parser) parseStatement() *Node {
	switch {
	case p.at(tokKeyword, "function"):
		return p.parseFunctionDeclaration()
	case p.at(tokKeyword, "return"):
		return p.parseReturnStatement()
	case p.at(tokKeyword, "local"):
		p.advance()
		return p.parseAssignment()
	case p.at(tokIdent, ""):
		return p.parseAssignmentOrExprStmt()
	default:
		return nil
	}
}

// parseAssignment handles "name = expr" (with or without a preceding local).
func (p *parser) parseAssignment() *Node {
	start := p.cur().start
	if !p.at(tokIdent, "") {
		return nil
	}
	identTok := p.advance()
	identNode := newNode("identifier", identTok.start, identTok.end, identTok.line, identTok.col)
	varList := newNode("variable_list", identTok.start, identTok.end, identTok.line, identTok.col, identNode)

	if !p.at(tokSymbol, "=") {
		return varList // not actually an assignment; caller ignores
	}
	p.advance()

	expr := p.parseExpression()
	exprList := newNode("expression_list", expr.StartByte, expr.EndByte, expr.StartLine, expr.StartCol, expr)

	return newNode("assignment_statement", start, expr.EndByte, identTok.line, identTok.col, varList, exprList)
}

func (p *parser) parseAssignmentOrExprStmt() *Node {
	save := p.pos
	n := p.parseAssignment()
	if n != nil && n.Kind == "assignment_statement" {
		return n
	}
	p.pos = save
	// Not an assignment: keep the dotted/call expression as the statement so
	// walkers can see calls such as db.<table>:insert({...}).
	return p.parseExpression()
}

func (p *parser) parseFunctionDeclaration() *Node {
	start := p.cur().start
	line, col := p.cur().line, p.cur().col
	p.advance() // "function"

	nameNode := p.parseDottedName()

	// parameter list
	if p.at(tokSymbol, "(") {
		p.advance()
		for !p.at(tokSymbol, ")") && !p.atEnd() {
			p.advance()
		}
		if p.at(tokSymbol, ")") {
			p.advance()
		}
	}

	var body []*Node
	for !p.at(tokKeyword, "end") && !p.atEnd() {
		before := p.pos
		if stmt := p.parseStatement(); stmt != nil {
			body = append(body, stmt)
		}
		if p.pos == before {
			p.pos++
		}
	}
	end := p.cur().end
	if p.at(tokKeyword, "end") {
		p.advance()
	}

	children := append([]*Node{nameNode}, body...)
	return newNode("function_declaration", start, end, line, col, children...)
}

// parseDottedName parses a.b.c into a dot_index_expression tree (or a bare
// identifier for an unqualified name), matching tree-sitter-lua's shape.
func (p *parser) parseDottedName() *Node {
	if !p.at(tokIdent, "") {
		return newNode("identifier", p.cur().start, p.cur().start, p.cur().line, p.cur().col)
	}
	first := p.advance()
	node := newNode("identifier", first.start, first.end, first.line, first.col)

	for p.at(tokSymbol, ".") {
		p.advance()
		if !p.at(tokIdent, "") {
			break
		}
		part := p.advance()
		partNode := newNode("identifier", part.start, part.end, part.line, part.col)
		node = newNode("dot_index_expression", node.StartByte, part.end, node.StartLine, node.StartCol, node, partNode)
	}
	return node
}

func (p *parser) parseReturnStatement() *Node {
	start := p.cur().start
	line, col := p.cur().line, p.cur().col
	p.advance() // "return"

	var exprs []*Node
	if !p.at(tokKeyword, "end") && !p.atEnd() {
		exprs = append(exprs, p.parseExpression())
		for p.at(tokSymbol, ",") {
			p.advance()
			exprs = append(exprs, p.parseExpression())
		}
	}
	end := start
	if len(exprs) > 0 {
		end = exprs[len(exprs)-1].EndByte
	}
	exprList := newNode("expression_list", start, end, line, col, exprs...)
	return newNode("return_statement", start, end, line, col, exprList)
}

// parseExpression parses a postfix chain: primary (.ident | (args))*
func (p *parser) parseExpression() *Node {
	node := p.parsePrimary()
	for {
		switch {
		case p.at(tokSymbol, "."):
			p.advance()
			if !p.at(tokIdent, "") {
				return node
			}
			part := p.advance()
			partNode := newNode("identifier", part.start, part.end, part.line, part.col)
			node = newNode("dot_index_expression", node.StartByte, part.end, node.StartLine, node.StartCol, node, partNode)
		case p.at(tokSymbol, ":"):
			p.advance()
			if !p.at(tokIdent, "") {
				return node
			}
			part := p.advance()
			partNode := newNode("identifier", part.start, part.end, part.line, part.col)
			node = newNode("method_index_expression", node.StartByte, part.end, node.StartLine, node.StartCol, node, partNode)
		case p.at(tokSymbol, "("):
			args := p.parseArguments()
			node = newNode("function_call", node.StartByte, args.EndByte, node.StartLine, node.StartCol, node, args)
		default:
			return node
		}
	}
}

func (p *parser) parseArguments() *Node {
	start := p.cur().start
	line, col := p.cur().line, p.cur().col
	p.advance() // "("

	var args []*Node
	for !p.at(tokSymbol, ")") && !p.atEnd() {
		args = append(args, p.parseExpression())
		if p.at(tokSymbol, ",") {
			p.advance()
			continue
		}
		break
	}
	end := p.cur().end
	if p.at(tokSymbol, ")") {
		p.advance()
	}
	return newNode("arguments", start, end, line, col, args...)
}

func (p *parser) parsePrimary() *Node {
	t := p.cur()
	switch {
	case t.kind == tokIdent:
		p.advance()
		return newNode("identifier", t.start, t.end, t.line, t.col)
	case t.kind == tokString:
		p.advance()
		inner := newNode("string_content", t.start+1, t.end-1, t.line, t.col+1)
		return newNode("string", t.start, t.end, t.line, t.col, inner)
	case t.kind == tokNumber:
		p.advance()
		return newNode("number", t.start, t.end, t.line, t.col)
	case t.kind == tokKeyword && t.text == "true":
		p.advance()
		return newNode("true", t.start, t.end, t.line, t.col)
	case t.kind == tokKeyword && t.text == "false":
		p.advance()
		return newNode("false", t.start, t.end, t.line, t.col)
	case t.kind == tokKeyword && t.text == "nil":
		p.advance()
		return newNode("nil", t.start, t.end, t.line, t.col)
	case t.kind == tokSymbol && t.text == "{":
		return p.parseTableConstructor()
	case t.kind == tokSymbol && t.text == "(":
		p.advance()
		inner := p.parseExpression()
		if p.at(tokSymbol, ")") {
			p.advance()
		}
		return inner
	default:
		p.advance()
		return newNode("unknown", t.start, t.end, t.line, t.col)
	}
}

func (p *parser) parseTableConstructor() *Node {
	start := p.cur().start
	line, col := p.cur().line, p.cur().col
	p.advance() // "{"

	var fields []*Node
	for !p.at(tokSymbol, "}") && !p.atEnd() {
		fields = append(fields, p.parseField())
		if p.at(tokSymbol, ",") || p.at(tokSymbol, ";") {
			p.advance()
			continue
		}
		break
	}
	end := p.cur().end
	if p.at(tokSymbol, "}") {
		p.advance()
	}
	return newNode("table_constructor", start, end, line, col, fields...)
}

// parseField handles "key = value" and bare "value" table entries, mirroring
// tree-sitter-lua's "field" node which either contains [identifier, "=",
// value] or just [value].
func (p *parser) parseField() *Node {
	start := p.cur().start
	line, col := p.cur().line, p.cur().col

	if p.at(tokIdent, "") && p.pos+1 < len(p.toks) && p.toks[p.pos+1].kind == tokSymbol && p.toks[p.pos+1].text == "=" {
		keyTok := p.advance()
		keyNode := newNode("identifier", keyTok.start, keyTok.end, keyTok.line, keyTok.col)
		eqTok := p.advance() // "="
		eqNode := newNode("=", eqTok.start, eqTok.end, eqTok.line, eqTok.col)
		value := p.parseExpression()
		return newNode("field", start, value.EndByte, line, col, keyNode, eqNode, value)
	}

	value := p.parseExpression()
	return newNode("field", start, value.EndByte, line, col, value)
}
