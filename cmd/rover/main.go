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

// Command rover is the thin CLI entry point: flag-based (no cobra/urfave-cli,
// per spec.md §1 — argument parsing is an external collaborator), it only
// drives the analyzer (check) or pre-flights a script before handing
// execution to the embedded SL interpreter (run). Neither subcommand
// executes SL source; that boundary belongs to the host the spec describes,
// not to this repo.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/yuin/goldmark"

	"rover.dev/rover/analyze"
	"rover.dev/rover/analyze/dbintent"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	logger := newCLILogger()

	switch os.Args[1] {
	case "check":
		os.Exit(runCheck(os.Args[2:], logger))
	case "run":
		os.Exit(runRun(os.Args[2:], logger))
	default:
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: rover check <file> [--json] [--schema-dir DIR] [--html]")
	fmt.Fprintln(os.Stderr, "       rover run <file> [args...]")
}

// newCLILogger builds the CLI's own logger, configured from ROVER_LSP_LOG —
// the one environment variable the core consults, and only here (§6).
func newCLILogger() *slog.Logger {
	level := slog.LevelInfo
	switch strings.ToLower(os.Getenv("ROVER_LSP_LOG")) {
	case "debug":
		level = slog.LevelDebug
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

type checkResult struct {
	File          string                   `json:"file"`
	Errors        []analyze.ParsingError   `json:"errors"`
	ErrorCount    int                      `json:"error_count"`
	Warnings      []dbIntentWarning        `json:"warnings"`
	WarningCount  int                      `json:"warning_count"`
	ServerFound   bool                     `json:"server_found"`
	RoutesCount   int                      `json:"routes_count"`
	FunctionCount int                      `json:"functions_count"`
	SymbolsCount  int                      `json:"symbols_count"`
	Symbols       []string                 `json:"symbols"`
	DynamicMembers map[string][]string     `json:"dynamic_members"`
}

type dbIntentWarning struct {
	Table   string `json:"table"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

func runCheck(args []string, logger *slog.Logger) int {
	opts, file, ok := parseCheckArgs(args)
	if !ok {
		usage()
		return 1
	}

	source, err := os.ReadFile(file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "rover check: read %s: %v\n", file, err)
		return 1
	}

	result, hasErrors := analyzeFile(file, string(source), opts.schemaDir, logger)

	switch {
	case opts.json:
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			fmt.Fprintf(os.Stderr, "rover check: encode json: %v\n", err)
			return 1
		}
	case opts.html:
		html, err := renderReportHTML(result)
		if err != nil {
			fmt.Fprintf(os.Stderr, "rover check: render report: %v\n", err)
			return 1
		}
		fmt.Println(html)
	default:
		printPretty(result)
	}

	if hasErrors {
		return 1
	}
	return 0
}

func runRun(args []string, logger *slog.Logger) int {
	if len(args) < 1 {
		usage()
		return 1
	}
	file := args[0]
	source, err := os.ReadFile(file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "rover run: read %s: %v\n", file, err)
		return 1
	}

	result, hasErrors := analyzeFile(file, string(source), "", logger)
	if len(result.Errors) > 0 {
		fmt.Fprintln(os.Stderr, strings.Repeat("-", 60))
		fmt.Fprintf(os.Stderr, "rover check: found %d issue(s)\n", len(result.Errors))
		for _, e := range result.Errors {
			fmt.Fprintf(os.Stderr, "  x %s - %s\n", file, e.Message)
		}
		fmt.Fprintln(os.Stderr, strings.Repeat("-", 60))
	}
	if len(result.Warnings) > 0 {
		fmt.Fprintln(os.Stderr, strings.Repeat("-", 60))
		fmt.Fprintf(os.Stderr, "rover check: found %d warning(s)\n", len(result.Warnings))
		for _, w := range result.Warnings {
			fmt.Fprintf(os.Stderr, "  ! %s.%s - %s\n", w.Table, w.Field, w.Message)
		}
		fmt.Fprintln(os.Stderr, strings.Repeat("-", 60))
	}

	if hasErrors {
		return 1
	}

	logger.Info("pre-run check passed, handing off to the script host", slog.String("file", file))
	return 0
}

type checkArgs struct {
	json      bool
	html      bool
	schemaDir string
}

func parseCheckArgs(args []string) (checkArgs, string, bool) {
	var opts checkArgs
	var file string
	for i := 0; i < len(args); i++ {
		a := args[i]
		switch {
		case a == "--json":
			opts.json = true
		case a == "--html":
			opts.html = true
		case a == "--schema-dir" && i+1 < len(args):
			opts.schemaDir = args[i+1]
			i++
		case strings.HasPrefix(a, "--schema-dir="):
			opts.schemaDir = strings.TrimPrefix(a, "--schema-dir=")
		case strings.HasPrefix(a, "--"):
			// unknown flag, ignore rather than fail the whole CLI surface
		default:
			file = a
		}
	}
	if file == "" {
		return opts, "", false
	}
	return opts, file, true
}

// analyzeFile runs the analyzer and, if schemaDir names a directory of
// <table>.json JSON-Schema documents, the DB-intent cross-check (§4.1 step
// 7) against it.
func analyzeFile(file, source, schemaDir string, logger *slog.Logger) (checkResult, bool) {
	model := analyze.Analyze(source)

	result := checkResult{
		File:           file,
		Errors:         model.Errors,
		ErrorCount:     len(model.Errors),
		ServerFound:    model.Server != nil,
		DynamicMembers: map[string][]string{},
	}
	if model.Server != nil {
		result.RoutesCount = len(model.Server.Routes)
	}

	if schemaDir != "" {
		tables := dbintent.Infer(analyze.Parse(source), source)
		entries, err := os.ReadDir(schemaDir)
		if err != nil {
			logger.Warn("schema dir unreadable, skipping DB-intent cross-check", slog.String("dir", schemaDir), slog.String("error", err.Error()))
		} else {
			for _, entry := range entries {
				if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
					continue
				}
				table := strings.TrimSuffix(entry.Name(), ".json")
				t, ok := tables[table]
				if !ok {
					continue
				}
				schemaJSON, err := os.ReadFile(filepath.Join(schemaDir, entry.Name()))
				if err != nil {
					logger.Warn("schema file unreadable", slog.String("file", entry.Name()), slog.String("error", err.Error()))
					continue
				}
				warnings, err := dbintent.CrossCheck(t, table, schemaJSON)
				if err != nil {
					logger.Warn("schema compile failed", slog.String("table", table), slog.String("error", err.Error()))
					continue
				}
				for _, w := range warnings {
					result.Warnings = append(result.Warnings, dbIntentWarning{Table: w.Table, Field: w.Field, Message: w.Message})
				}
			}
		}
	}
	result.WarningCount = len(result.Warnings)

	return result, result.ErrorCount > 0
}

func printPretty(r checkResult) {
	fmt.Println()
	fmt.Println("Analyzing Rover code...")
	fmt.Println(strings.Repeat("=", 60))

	if r.ErrorCount == 0 && r.WarningCount == 0 {
		fmt.Println("\n✓ No errors found!")
		printSummary(r)
		return
	}

	if r.ErrorCount > 0 {
		fmt.Printf("\n%d error(s) found:\n\n", r.ErrorCount)
		for _, e := range r.Errors {
			fmt.Printf("error: %s\n", e.Message)
			fmt.Println()
		}
	}

	if r.WarningCount > 0 {
		fmt.Printf("\n%d warning(s) found:\n\n", r.WarningCount)
		for _, w := range r.Warnings {
			fmt.Printf("warning: %s.%s\n  %s\n\n", w.Table, w.Field, w.Message)
		}
	}

	printSummary(r)
}

func printSummary(r checkResult) {
	fmt.Println("\nAnalysis Summary:")
	fmt.Println(strings.Repeat("-", 60))
	if r.ServerFound {
		fmt.Printf("  Server: exported, %d route(s)\n", r.RoutesCount)
	} else {
		fmt.Println("  ⚠ No server definition found")
	}
}

// renderReportHTML builds a Markdown diagnostic report and renders it to
// HTML with goldmark, for the --html "JSON-adjacent" human output (the
// terminal's --json sibling, meant for a browser rather than a script).
func renderReportHTML(r checkResult) (string, error) {
	var md strings.Builder
	fmt.Fprintf(&md, "# rover check: %s\n\n", r.File)
	if r.ErrorCount == 0 && r.WarningCount == 0 {
		md.WriteString("No errors found.\n")
	}
	if r.ErrorCount > 0 {
		fmt.Fprintf(&md, "## Errors (%d)\n\n", r.ErrorCount)
		for _, e := range r.Errors {
			fmt.Fprintf(&md, "- **%s**", e.Message)
			if e.FunctionName != "" {
				fmt.Fprintf(&md, " (in `%s`)", e.FunctionName)
			}
			md.WriteString("\n")
		}
		md.WriteString("\n")
	}
	if r.WarningCount > 0 {
		fmt.Fprintf(&md, "## Warnings (%d)\n\n", r.WarningCount)
		for _, w := range r.Warnings {
			fmt.Fprintf(&md, "- `%s.%s`: %s\n", w.Table, w.Field, w.Message)
		}
		md.WriteString("\n")
	}
	fmt.Fprintf(&md, "## Summary\n\nServer found: %v\n\nRoutes: %d\n", r.ServerFound, r.RoutesCount)

	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(md.String()), &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return buf.String(), nil
}
