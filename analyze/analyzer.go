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
	"strconv"
	"strings"
)

// FunctionID identifies a handler function within a script, assigned in
// first-seen order during the walk.
type FunctionID uint16

// SemanticModel is the analyzer's output: the server binding (if any was
// found) plus any parsing errors encountered while extracting route
// responses.
type SemanticModel struct {
	Server *RoverServer
	Errors []ParsingError
}

// RoverServer is the app object created by a script's rover.server() call.
type RoverServer struct {
	Routes []Route
}

// Route is one HTTP route discovered from a dotted handler function name,
// e.g. function app.users.p_id.get(req) becomes GET /users/{id}.
type Route struct {
	Method    string
	Path      string
	Handler   FunctionID
	Responses []Response
}

// Response is one response-builder call (api.json/api.text/api.html/
// api.error) found in a handler's return statements.
type Response struct {
	Status      int
	ContentType string
	Schema      any
}

// ParsingError records a handler whose return value couldn't be turned into
// a Response.
type ParsingError struct {
	Message      string
	FunctionName string
}

var httpMethods = map[string]bool{
	"GET": true, "POST": true, "PUT": true, "PATCH": true, "DELETE": true,
}

// Analyzer walks a parsed chunk and accumulates a SemanticModel.
type Analyzer struct {
	Model SemanticModel

	symbolTable   map[string]FunctionID
	funcCounter   FunctionID
	appVarName    string
	currentFunc   string
	source        string
}

// NewAnalyzer creates an Analyzer over source, which must be the same text
// that was parsed to produce the tree passed to Walk.
func NewAnalyzer(source string) *Analyzer {
	return &Analyzer{
		symbolTable: make(map[string]FunctionID),
		source:      source,
	}
}

// Analyze parses source and walks it, returning the resulting SemanticModel.
func Analyze(source string) SemanticModel {
	a := NewAnalyzer(source)
	a.Walk(Parse(source))
	return a.Model
}

// Walk dispatches on node.Kind and recurses into every child, independent of
// whether the current node was handled — the same tolerant CST-walk idiom
// the original tree-sitter-based analyzer uses.
func (a *Analyzer) Walk(node *Node) {
	if node == nil {
		return
	}
	switch node.Kind {
	case "assignment_statement":
		a.handleAssignment(node)
	case "function_declaration":
		a.handleFunctionDeclaration(node)
	case "return_statement":
		if a.currentFunc != "" {
			a.handleReturnStatement(node)
		}
	}

	for _, child := range node.Children {
		a.Walk(child)
	}
}

func (a *Analyzer) handleAssignment(node *Node) {
	if len(node.Children) != 2 {
		return
	}
	varList, exprList := node.Children[0], node.Children[1]
	if varList.Kind != "variable_list" || exprList.Kind != "expression_list" {
		return
	}
	if len(varList.Children) == 0 || varList.Children[0].Kind != "identifier" {
		return
	}
	name := varList.Children[0].Text(a.source)

	if len(exprList.Children) == 0 {
		return
	}
	call := exprList.Children[0]
	if call.Kind != "function_call" {
		return
	}
	callSource := call.Text(a.source)
	if strings.Contains(callSource, "rover.server") {
		a.appVarName = name
		a.Model.Server = &RoverServer{}
	}
}

func (a *Analyzer) handleFunctionDeclaration(node *Node) {
	if len(node.Children) == 0 {
		return
	}
	nameNode := node.Children[0]
	if nameNode.Kind != "dot_index_expression" && nameNode.Kind != "identifier" {
		return
	}

	funcName := a.extractDottedName(nameNode)
	if funcName == "" || a.appVarName == "" || !strings.HasPrefix(funcName, a.appVarName) {
		return
	}

	parts := strings.Split(funcName, ".")
	if len(parts) < 2 {
		return
	}

	method := strings.ToUpper(parts[len(parts)-1])
	if !httpMethods[method] {
		return
	}

	pathParts := parts[1 : len(parts)-1]
	path := "/"
	if len(pathParts) > 0 {
		transformed := make([]string, len(pathParts))
		for i, part := range pathParts {
			if strings.HasPrefix(part, "p_") {
				transformed[i] = "{" + part[2:] + "}"
			} else {
				transformed[i] = part
			}
		}
		path = "/" + strings.Join(transformed, "/")
	}

	handlerID := a.funcCounter
	a.funcCounter++
	a.symbolTable[funcName] = handlerID

	if a.Model.Server != nil {
		a.Model.Server.Routes = append(a.Model.Server.Routes, Route{
			Method:  method,
			Path:    path,
			Handler: handlerID,
		})
	}

	prev := a.currentFunc
	a.currentFunc = funcName
	for _, child := range node.Children[1:] {
		a.Walk(child)
	}
	a.currentFunc = prev
}

func (a *Analyzer) extractDottedName(node *Node) string {
	var parts []string
	a.collectDottedParts(node, &parts)
	return strings.Join(parts, ".")
}

func (a *Analyzer) collectDottedParts(node *Node, parts *[]string) {
	switch node.Kind {
	case "dot_index_expression":
		for _, child := range node.Children {
			if child.Kind == "dot_index_expression" {
				a.collectDottedParts(child, parts)
			} else if child.Kind == "identifier" {
				*parts = append(*parts, child.Text(a.source))
			}
		}
	case "identifier":
		*parts = append(*parts, node.Text(a.source))
	}
}

func (a *Analyzer) handleReturnStatement(node *Node) {
	resp, ok := a.extractResponseFromReturn(node)
	if !ok {
		a.Model.Errors = append(a.Model.Errors, ParsingError{
			Message:      "failed to parse response",
			FunctionName: a.currentFunc,
		})
		return
	}
	if a.Model.Server == nil || len(a.Model.Server.Routes) == 0 {
		return
	}
	route := &a.Model.Server.Routes[len(a.Model.Server.Routes)-1]
	route.Responses = append(route.Responses, resp)
}

func (a *Analyzer) extractResponseFromReturn(node *Node) (Response, bool) {
	for _, child := range node.Children {
		if child.Kind != "expression_list" {
			continue
		}
		for _, sub := range child.Children {
			if sub.Kind == "function_call" {
				return a.parseResponseCall(sub)
			}
		}
	}
	return Response{}, false
}

func (a *Analyzer) parseResponseCall(node *Node) (Response, bool) {
	source := node.Text(a.source)
	switch {
	case strings.Contains(source, "api.json"):
		return a.parseJSONResponse(node), true
	case strings.Contains(source, "api.text"):
		return Response{Status: 200, ContentType: "text/plain", Schema: map[string]any{}}, true
	case strings.Contains(source, "api.html"):
		return Response{Status: 200, ContentType: "text/html", Schema: map[string]any{}}, true
	case strings.Contains(source, "api.error"):
		return Response{Status: 400, ContentType: "application/json", Schema: map[string]any{"error": ""}}, true
	default:
		return Response{}, false
	}
}

func (a *Analyzer) parseJSONResponse(node *Node) Response {
	schema := any(map[string]any{})
	for _, child := range node.Children {
		if child.Kind != "arguments" {
			continue
		}
		for _, arg := range child.Children {
			if arg.Kind == "table_constructor" {
				schema = a.tableToValue(arg)
				break
			}
		}
	}
	return Response{Status: 200, ContentType: "application/json", Schema: schema}
}

// tableToValue converts a table_constructor node into a Go map/slice value,
// treating unnamed fields as an array and named fields as an object —
// a table mixing both renders as an object of only its named fields.
func (a *Analyzer) tableToValue(node *Node) any {
	hasNamed, hasUnnamed := false, false
	for _, field := range node.Children {
		if field.Kind != "field" {
			continue
		}
		if len(field.Children) >= 2 && field.Children[0].Kind == "identifier" {
			hasNamed = true
		} else {
			hasUnnamed = true
		}
	}

	if hasUnnamed && !hasNamed {
		var out []any
		for _, field := range node.Children {
			if field.Kind != "field" || len(field.Children) == 0 {
				continue
			}
			out = append(out, a.extractValue(field.Children[len(field.Children)-1]))
		}
		return out
	}

	out := map[string]any{}
	for _, field := range node.Children {
		if field.Kind != "field" || len(field.Children) < 3 {
			continue
		}
		key := field.Children[0].Text(a.source)
		value := a.extractValue(field.Children[2])
		out[key] = value
	}
	return out
}

func (a *Analyzer) extractValue(node *Node) any {
	switch node.Kind {
	case "string":
		if len(node.Children) > 0 && node.Children[0].Kind == "string_content" {
			return node.Children[0].Text(a.source)
		}
		return trimStringQuotes(node.Text(a.source))
	case "number":
		s := node.Text(a.source)
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return i
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
		return nil
	case "true":
		return true
	case "false":
		return false
	case "nil":
		return nil
	case "table_constructor":
		return a.tableToValue(node)
	default:
		return nil
	}
}
