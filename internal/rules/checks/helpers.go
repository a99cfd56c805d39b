// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package checks holds the ~30 concrete rule implementations. Each file
// groups closely related rules, matching the one-concern-per-file
// convention the policy/runner packages use in the broader codebase.
package checks

import (
	"strings"

	"github.com/archsentry/archsentry/internal/astmodel"
	"github.com/archsentry/archsentry/internal/layer"
	"github.com/archsentry/archsentry/internal/rules"
)

// bannedIOReceivers is the default registry of call-target prefixes
// considered direct I/O: network, filesystem, and database access.
var bannedIOReceivers = []string{
	"open", "socket.", "requests.", "urllib.", "sqlite3.", "psycopg2.",
	"os.remove", "os.unlink", "os.rename", "os.mkdir", "shutil.",
}

func isBannedIOCall(callName string) bool {
	for _, prefix := range bannedIOReceivers {
		if callName == prefix || strings.HasPrefix(callName, prefix) {
			return true
		}
	}
	return false
}

var loggingCallPrefixes = []string{"print", "logging.", "logger.", "log."}

func isLoggingOrPrintCall(callName string) bool {
	for _, prefix := range loggingCallPrefixes {
		if callName == prefix || strings.HasPrefix(callName, prefix) {
			return true
		}
	}
	return false
}

var mockConstructorNames = map[string]bool{
	"Mock":        true,
	"MagicMock":   true,
	"AsyncMock":   true,
	"patch":       true,
	"patch.object": true,
}

func isMockConstructorCall(callName string) bool {
	if mockConstructorNames[callName] {
		return true
	}
	return strings.HasPrefix(callName, "patch(") || callName == "patch"
}

// attributeChainDepth counts the number of attribute hops in a dotted
// attribute-access chain, e.g. "user.address.coordinates.lat" has depth 3.
func attributeChainDepth(chain string) int {
	if chain == "" {
		return 0
	}
	return strings.Count(chain, ".")
}

// isDunder reports whether name is a Python dunder identifier, e.g.
// "__init__".
func isDunder(name string) bool {
	return strings.HasPrefix(name, "__") && strings.HasSuffix(name, "__") && len(name) > 4
}

// isProtectedName reports whether name uses the single-underscore
// protected-member convention (but not the dunder convention).
func isProtectedName(name string) bool {
	return strings.HasPrefix(name, "_") && !isDunder(name) && !strings.HasPrefix(name, "__")
}

// isDataclassOrProtocol reports whether a ClassDef node is a dataclass or
// Protocol/typing.Protocol subtype, both of which are exempt from
// "heavy class" and contract-integrity checks.
func isDataclassOrProtocol(n *astmodel.Node) bool {
	for _, d := range n.Decorators {
		if strings.Contains(d, "dataclass") {
			return true
		}
	}
	for _, b := range n.Bases {
		if strings.Contains(b, "Protocol") {
			return true
		}
	}
	return false
}

// isTestFunction reports whether a FunctionDef node looks like a test
// function, by the common "test_" prefix convention.
func isTestFunction(n *astmodel.Node) bool {
	return strings.HasPrefix(n.Name, "test_") || strings.HasPrefix(n.Name, "Test")
}

// layerOf resolves the layer for the module owning n, given its nearest
// enclosing class decorators (used for rule-1 exceptions).
func layerOf(ctx *rules.Context) (layer.Layer, bool) {
	if ctx.Module == nil {
		return "", false
	}
	if ctx.Module.LayerResolved {
		return layer.Layer(ctx.Module.Layer), true
	}
	return "", false
}

func violation(code, path string, n *astmodel.Node, symbol, message string) rules.Violation {
	v := rules.Violation{Code: code, Path: path, Symbol: symbol, Message: message}
	if n != nil {
		v.Line = n.Line
		v.Column = n.Col
	}
	return v
}
