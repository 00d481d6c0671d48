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

// This file contains advanced response helper methods for the Context type,
// plus the closed Response sum type rover handlers resolve to (§4.9): JSON,
// Text, HTML, Redirect, ErrorResponse, NoContentResponse, and Raw are the
// only ways to build one, and WriteTo is the only thing that renders it.

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"mime"
	"net/http"
	"strings"
)

// responseKind is the closed set of wire shapes a Response can take.
type responseKind int

const (
	responseKindJSON responseKind = iota
	responseKindText
	responseKindHTML
	responseKindRedirect
	responseKindError
	responseKindNoContent
	responseKindRaw
)

// Response is the value a rover handler resolves to instead of writing to
// its Context directly. It is immutable once built by one of the
// constructors below; WriteTo renders it onto a Context exactly once.
type Response struct {
	kind     responseKind
	status   int
	json     any
	text     string
	htmlData any
	htmlTmpl string
	location string
	errBody  any
	raw      []byte
}

// JSON builds a 200 application/json response.
func JSON(v any) Response {
	return Response{kind: responseKindJSON, status: http.StatusOK, json: v}
}

// JSONStatus is JSON with an explicit status code.
func JSONStatus(code int, v any) Response {
	return Response{kind: responseKindJSON, status: code, json: v}
}

// Text builds a 200 text/plain response.
func Text(s string) Response {
	return Response{kind: responseKindText, status: http.StatusOK, text: s}
}

// TextStatus is Text with an explicit status code.
func TextStatus(code int, s string) Response {
	return Response{kind: responseKindText, status: code, text: s}
}

// HTML returns a curried constructor: HTML(data)(tmpl) renders tmpl (an
// html/template source string) against data and responds 200 text/html.
func HTML(data any) func(tmpl string) Response {
	return func(tmpl string) Response {
		return Response{kind: responseKindHTML, status: http.StatusOK, htmlData: data, htmlTmpl: tmpl}
	}
}

// HTMLStatus is the curried HTML constructor with an explicit status code.
func HTMLStatus(code int, data any) func(tmpl string) Response {
	return func(tmpl string) Response {
		return Response{kind: responseKindHTML, status: code, htmlData: data, htmlTmpl: tmpl}
	}
}

// Redirect builds a 302 Found redirect to loc.
func Redirect(loc string) Response {
	return Response{kind: responseKindRedirect, status: http.StatusFound, location: loc}
}

// RedirectPermanent builds a 301 Moved Permanently redirect to loc.
func RedirectPermanent(loc string) Response {
	return Response{kind: responseKindRedirect, status: http.StatusMovedPermanently, location: loc}
}

// RedirectStatus is Redirect with an explicit 3xx status code.
func RedirectStatus(code int, loc string) Response {
	return Response{kind: responseKindRedirect, status: code, location: loc}
}

// ErrorResponse builds an application/json error response. body is normally
// a string, rendered as {"error": body}; a type implementing the Detailer
// interface (e.g. *errors.ValidationErrors) supplies its own structured body
// instead (the {"errors": [...]} shape).
func ErrorResponse(status int, body any) Response {
	return Response{kind: responseKindError, status: status, errBody: body}
}

// NoContentResponse builds a 204 response with an empty body.
func NoContentResponse() Response {
	return Response{kind: responseKindNoContent, status: http.StatusNoContent}
}

// Raw builds a 200 response whose body is exactly the given bytes, with no
// content negotiation or serialization.
func Raw(body []byte) Response {
	return Response{kind: responseKindRaw, status: http.StatusOK, raw: body}
}

// RawStatus is Raw with an explicit status code.
func RawStatus(code int, body []byte) Response {
	return Response{kind: responseKindRaw, status: code, raw: body}
}

// Detailer lets an error type supply its own structured JSON body for
// ErrorResponse instead of being rendered as a bare {"error": msg} string.
type Detailer interface {
	Details() any
}

// WriteTo renders r onto c: status code, Content-Type, and body all follow
// from which constructor built r, never from c's prior state.
func (r Response) WriteTo(c *Context) error {
	switch r.kind {
	case responseKindJSON:
		return c.JSON(r.status, r.json)
	case responseKindText:
		return c.String(r.status, r.text)
	case responseKindHTML:
		return r.writeHTML(c)
	case responseKindRedirect:
		c.Redirect(r.status, r.location)
		return nil
	case responseKindError:
		return r.writeError(c)
	case responseKindNoContent:
		c.NoContent()
		return nil
	case responseKindRaw:
		return c.Data(r.status, "", r.raw)
	default:
		return fmt.Errorf("router: response has no kind set")
	}
}

func (r Response) writeHTML(c *Context) error {
	tmpl, err := template.New("response").Parse(r.htmlTmpl)
	if err != nil {
		return fmt.Errorf("router: parse html template: %w", err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, r.htmlData); err != nil {
		return fmt.Errorf("router: render html template: %w", err)
	}
	return c.HTML(r.status, buf.String())
}

func (r Response) writeError(c *Context) error {
	if d, ok := r.errBody.(Detailer); ok && d != nil {
		return c.JSON(r.status, d.Details())
	}
	if err, ok := r.errBody.(error); ok {
		return c.JSON(r.status, map[string]string{"error": err.Error()})
	}
	return c.JSON(r.status, map[string]any{"error": r.errBody})
}

// AppendHeader appends a value to an existing response header.
// If the header doesn't exist, it creates it with the given value.
// Otherwise the new value is joined to the existing one with ", " on a single
// header line; no second header line is added.
//
// Example:
//
//	c.AppendHeader("Vary", "Accept")
//	c.AppendHeader("Vary", "Accept-Encoding")
//	// Results in one header: Vary: Accept, Accept-Encoding
func (c *Context) AppendHeader(key, value string) {
	existing := c.Response.Header().Get(key)
	if existing == "" {
		c.Header(key, value)
	} else {
		c.Response.Header().Set(key, existing+", "+value)
	}
}

// ContentType sets the Content-Type header.
// Accepts both file extensions (.json, .html) and full MIME types.
//
// Example:
//
//	c.ContentType(".json")           // Sets "application/json"
//	c.ContentType("json")            // Sets "application/json"
//	c.ContentType("application/xml") // Sets "application/xml"
func (c *Context) ContentType(value string) {
	// If it's already a MIME type, use it directly
	if strings.Contains(value, "/") {
		c.Header("Content-Type", value)
		return
	}

	// Ensure it starts with a dot for mime.TypeByExtension
	if !strings.HasPrefix(value, ".") {
		value = "." + value
	}

	// Get MIME type from extension
	mimeType := mime.TypeByExtension(value)
	if mimeType == "" {
		// Fallback to common types not in mime package
		switch value {
		case ".json":
			mimeType = "application/json"
		case ".html", ".htm":
			mimeType = "text/html"
		case ".xml":
			mimeType = "application/xml"
		case ".txt":
			mimeType = "text/plain"
		default:
			mimeType = "application/octet-stream"
		}
	}

	c.Header("Content-Type", mimeType)
}

// Location sets the Location header for redirects.
// This is typically used before calling Status() with 3xx codes.
//
// Example:
//
//	c.Location("/new-path")
//	c.Status(http.StatusMovedPermanently)
func (c *Context) Location(url string) {
	c.Header("Location", url)
}

// Vary adds fields to the Vary response header.
// The Vary header tells caches which request headers affect the response.
// Multiple calls append additional fields.
//
// Example:
//
//	c.Vary("Accept-Encoding")
//	c.Vary("Accept-Language", "Cookie")
//	// Vary: Accept-Encoding, Accept-Language, Cookie
func (c *Context) Vary(fields ...string) {
	existing := c.Response.Header().Get("Vary")

	for _, field := range fields {
		// Skip if already present
		if existing != "" && strings.Contains(existing, field) {
			continue
		}

		if existing == "" {
			existing = field
		} else {
			existing += ", " + field
		}
	}

	c.Response.Header().Set("Vary", existing)
}

// Link adds a Link header for resource relationships.
// Follows RFC 8288 web linking format.
//
// Example:
//
//	c.Link("/api/users?page=2", "next")
//	c.Link("/api/users?page=5", "last")
//	// Link: </api/users?page=2>; rel="next", </api/users?page=5>; rel="last"
func (c *Context) Link(url, rel string) {
	linkValue := fmt.Sprintf("<%s>; rel=\"%s\"", url, rel)
	c.AppendHeader("Link", linkValue)
}

// Download transfers a file as a downloadable attachment.
// Sets Content-Disposition header and serves the file.
// Optional filename parameter overrides the actual filename shown to user.
//
// Example:
//
//	c.Download("./uploads/report-12345.pdf")                    // Downloads as "report-12345.pdf"
//	c.Download("./uploads/report-12345.pdf", "monthly-report.pdf") // Downloads as "monthly-report.pdf"
func (c *Context) Download(filepath string, filename ...string) error {
	// Determine filename for Content-Disposition
	var downloadName string
	if len(filename) > 0 && filename[0] != "" {
		downloadName = filename[0]
	} else {
		downloadName = filepath[strings.LastIndex(filepath, "/")+1:]
		if downloadName == "" {
			downloadName = "download"
		}
	}

	// Set Content-Disposition header
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, downloadName))

	// Serve the file
	http.ServeFile(c.Response, c.Request, filepath)

	return nil
}

// Send sends raw bytes as the response body.
// Sets Content-Type to application/octet-stream if not already set.
//
// Example:
//
//	data := []byte("raw binary data")
//	c.Send(data)
func (c *Context) Send(data []byte) error {
	if c.Response.Header().Get("Content-Type") == "" {
		c.Header("Content-Type", "application/octet-stream")
	}

	_, err := c.Response.Write(data)

	return err
}

// SendStatus sends an HTTP status code with the standard status text as body.
// If the response body is already written, only sets the status.
//
// Example:
//
//	c.SendStatus(http.StatusNotFound) // Status 404, body "Not Found"
//	c.SendStatus(http.StatusCreated) // Status 201, body "Created"
func (c *Context) SendStatus(code int) error {
	c.Status(code)

	// Check if body already written
	if rw, ok := c.Response.(*responseWriter); ok {
		if rw.Written() {
			return nil
		}
	}

	// Send status text as body
	statusText := http.StatusText(code)
	if statusText == "" {
		statusText = fmt.Sprintf("%d Status Code", code)
	}

	_, err := c.Response.Write([]byte(statusText))

	return err
}

// JSONP sends a JSON response with JSONP callback support.
// The callback parameter wraps the JSON in a function call for cross-domain requests.
// Default callback name is "callback" if not specified.
// Returns an error if encoding or writing fails.
//
// Example:
//
//	if err := c.JSONP(http.StatusOK, data); err != nil {
//	    return err
//	}
//	c.JSONP(http.StatusOK, data, "myFunc")    // myFunc({"key": "value"})
func (c *Context) JSONP(code int, obj any, callback ...string) error {
	// Determine callback name
	callbackName := "callback"
	if len(callback) > 0 && callback[0] != "" {
		callbackName = callback[0]
	}

	// Marshal JSON
	jsonData, err := json.Marshal(obj)
	if err != nil {
		return fmt.Errorf("JSONP encoding failed: %w", err)
	}

	// Set headers
	c.Header("Content-Type", "application/javascript; charset=utf-8")
	c.Header("X-Content-Type-Options", "nosniff")
	c.Status(code)

	// Send JSONP response: callback(json)
	response := fmt.Sprintf("%s(%s)", callbackName, jsonData)
	_, writeErr := c.Response.Write([]byte(response))

	return writeErr
}

// Format performs automatic content negotiation and sends the response.
// Chooses format based on Accept header: JSON, HTML, XML, or plain text.
//
// Example:
//
//	c.Format(http.StatusOK, user)
//	// Accept: application/json → sends JSON
//	// Accept: text/html → sends HTML representation
//	// Accept: text/plain → sends string representation
func (c *Context) Format(code int, data any) error {
	// Use existing Accepts() method for negotiation
	format := c.Accepts("json", "html", "xml", "txt")

	switch format {
	case "json":
		return c.JSON(code, data)

	case "html":
		// Try to convert to HTML
		html := fmt.Sprintf("<p>%v</p>", data)
		return c.HTML(code, html)

	case "xml":
		// Simple XML formatting
		c.Header("Content-Type", "application/xml")
		c.Status(code)
		xml := fmt.Sprintf("<?xml version=\"1.0\"?>\n<response>%v</response>", data)
		_, err := c.Response.Write([]byte(xml))

		return err

	case "txt", "":
		// Plain text fallback
		return c.Stringf(code, "%v", data)

	default:
		// Default to JSON
		return c.JSON(code, data)
	}
}

// Write implements the io.Writer interface.
// Writes raw bytes to the response body.
// This allows using Context with fmt.Fprintf and other io.Writer consumers.
//
// Example:
//
//	fmt.Fprintf(c, "User: %s, Score: %d", name, score)
func (c *Context) Write(data []byte) (int, error) {
	return c.Response.Write(data)
}

// WriteStringBody writes a string directly to the response body.
// This is for low-level writing after headers are already set.
//
// For sending HTTP responses with status codes, use String() instead.
//
// Example:
//
//	c.WriteStringBody("Hello, World!")
//	c.WriteStringBody(fmt.Sprintf("Count: %d", count))
func (c *Context) WriteStringBody(str string) (int, error) {
	return io.WriteString(c.Response, str)
}
