// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package typeoracle

import "strings"

// StubTable is a bundled, read-only interface description of part of the
// host language's standard library — just enough
// surface for the rule set's inference needs. It is built once and cached
// by the owning Oracle.
type StubTable struct {
	// functionReturns maps a fully-qualified callable name to its return
	// type qname.
	functionReturns map[string]string
	// stdlibModules lists module prefixes considered part of the standard
	// library for IsStdlib.
	stdlibModules []string
}

// Lookup resolves qname (typically a call target or attribute chain) to
// its stubbed return/attribute type.
func (s *StubTable) Lookup(qname string) (string, bool) {
	t, ok := s.functionReturns[qname]
	return t, ok
}

// IsStdlib reports whether qname belongs to one of the stubbed standard
// library module prefixes.
func (s *StubTable) IsStdlib(qname string) bool {
	for _, prefix := range s.stdlibModules {
		if qname == prefix || strings.HasPrefix(qname, prefix+".") {
			return true
		}
	}
	return false
}

// DefaultStubs returns the bundled stub table covering the standard
// library surface this engine's rules actually query: os.path, pathlib,
// re, subprocess, json, and common str/list/dict methods. "ast" appears
// only as a stdlib module prefix; none of its node constructors are stubbed.
func DefaultStubs() *StubTable {
	return &StubTable{
		stdlibModules: []string{
			"os", "os.path", "pathlib", "re", "subprocess", "sys", "io",
			"json", "logging", "typing", "collections", "itertools",
			"functools", "dataclasses", "ast", "socket", "sqlite3",
			"urllib", "http",
		},
		functionReturns: map[string]string{
			"os.path.join":          "builtins.str",
			"os.path.exists":        "builtins.bool",
			"os.path.isdir":         "builtins.bool",
			"os.path.isfile":        "builtins.bool",
			"os.path.abspath":       "builtins.str",
			"os.path.dirname":       "builtins.str",
			"os.path.basename":      "builtins.str",
			"pathlib.Path":          "pathlib.Path",
			"re.match":              "re.Match",
			"re.search":             "re.Match",
			"re.fullmatch":          "re.Match",
			"subprocess.run":        "subprocess.CompletedProcess",
			"subprocess.Popen":      "subprocess.Popen",
			"json.dumps":            "builtins.str",
			"json.loads":            "builtins.object",
			"str.strip":             "builtins.str",
			"str.lower":             "builtins.str",
			"str.upper":             "builtins.str",
			"str.format":            "builtins.str",
			"str.split":             "builtins.list",
			"str.join":              "builtins.str",
			"str.replace":           "builtins.str",
			"list.append":           "builtins.NoneType",
			"list.sort":             "builtins.NoneType",
			"dict.get":              "builtins.object",
			"dict.items":            "builtins.list",
			"dict.keys":             "builtins.list",
			"dict.values":           "builtins.list",
		},
	}
}
