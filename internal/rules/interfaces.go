// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package rules

import (
	"github.com/archsentry/archsentry/internal/astmodel"
	"github.com/archsentry/archsentry/internal/transform"
)

// Checkable is the stateless rule shape: invoked once per node of a
// subscribed kind, with no memory of prior invocations.
type Checkable interface {
	Code() string
	Description() string
	Subscriptions() []astmodel.NodeKind
	Check(ctx *Context, n *astmodel.Node) []Violation
}

// StatefulRule receives driver-owned context on each callback. The rule
// itself holds no per-traversal state; the Driver owns ScopeToken and
// ScopeCounters and passes them back in on every call.
type StatefulRule interface {
	Code() string
	Description() string
	// RecordFunctionDef is called on entering a FunctionDef/AsyncFunctionDef
	// node. Returning ok=false means the rule does not track this scope.
	RecordFunctionDef(ctx *Context, n *astmodel.Node) (token ScopeToken, ok bool)
	// RecordCall is called for every Call node encountered within a scope
	// this rule is tracking.
	RecordCall(ctx *Context, n *astmodel.Node, scope ScopeToken, counters *ScopeCounters) []Violation
	// LeaveFunctionDef is called when the driver leaves the scope
	// identified by token, with the final counters for that scope.
	LeaveFunctionDef(ctx *Context, scope ScopeToken, counters *ScopeCounters) []Violation
}

// Fixable is a mixin a Checkable or StatefulRule may additionally
// implement. Fix returning (nil, reason) records reason as the
// violation's FixFailureReason; returning (plans, "") marks the fix
// applied. A rule is eligible for autofix only when the registry marks it
// fixable AND Fix returns a non-empty plan list.
type Fixable interface {
	Fix(ctx *Context, v Violation) (plans []transform.Plan, failureReason string)
}
