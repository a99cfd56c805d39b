// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package checks

import (
	"fmt"

	"github.com/archsentry/archsentry/internal/astmodel"
	"github.com/archsentry/archsentry/internal/rules"
)

// FragileTestMocks implements W9101: a test function that constructs more
// mocks than the configured limit, a sign it is coupled to implementation
// detail rather than behavior.
type FragileTestMocks struct{}

func (FragileTestMocks) Code() string        { return "W9101" }
func (FragileTestMocks) Description() string { return "test functions must stay under the configured mock-construction limit" }

func (FragileTestMocks) RecordFunctionDef(ctx *rules.Context, n *astmodel.Node) (rules.ScopeToken, bool) {
	if !isTestFunction(n) {
		return rules.ScopeToken{}, false
	}
	return rules.ScopeToken{FuncNode: n}, true
}

func (FragileTestMocks) RecordCall(ctx *rules.Context, n *astmodel.Node, scope rules.ScopeToken, counters *rules.ScopeCounters) []rules.Violation {
	if isMockConstructorCall(n.Name) {
		counters.MockCount++
	}
	return nil
}

func (FragileTestMocks) LeaveFunctionDef(ctx *rules.Context, scope rules.ScopeToken, counters *rules.ScopeCounters) []rules.Violation {
	limit := ctx.Settings.MockLimit
	if limit <= 0 {
		limit = 4
	}
	if counters.MockCount <= limit {
		return nil
	}
	path := pathOf(ctx)
	name := ""
	if scope.FuncNode != nil {
		name = scope.FuncNode.Name
	}
	msg := fmt.Sprintf("test %s constructs %d mocks (limit %d)", name, counters.MockCount, limit)
	return []rules.Violation{violation("W9101", path, scope.FuncNode, name, msg)}
}

// PrivateMethodTest implements W9102: a test calling a protected
// (underscore-prefixed) method, coupling the test to implementation detail
// instead of the public contract.
type PrivateMethodTest struct{}

func (PrivateMethodTest) Code() string        { return "W9102" }
func (PrivateMethodTest) Description() string { return "tests must not call protected methods directly" }
func (PrivateMethodTest) Subscriptions() []astmodel.NodeKind {
	return []astmodel.NodeKind{astmodel.KindCall}
}

func (PrivateMethodTest) Check(ctx *rules.Context, n *astmodel.Node) []rules.Violation {
	fn := n.EnclosingFunction()
	if fn == nil || !isTestFunction(fn) {
		return nil
	}
	method := n.Name
	if idx := lastDotIndex(method); idx >= 0 {
		method = method[idx+1:]
	}
	if !isProtectedName(method) {
		return nil
	}
	path := pathOf(ctx)
	return []rules.Violation{violation("W9102", path, n, n.Name, fmt.Sprintf("test calls protected method %s", n.Name))}
}

func lastDotIndex(s string) int {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == '.' {
			return i
		}
	}
	return -1
}
