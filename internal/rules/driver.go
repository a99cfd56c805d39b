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
	"sort"

	"github.com/archsentry/archsentry/internal/astmodel"
)

// Driver performs exactly one AST walk per file, dispatching each node to
// the Checkable rules subscribed to its kind and running StatefulRule
// visit/leave pairs around function-definition scopes. The driver owns all
// per-traversal state (scope tokens, counters); rules themselves hold none.
type Driver struct {
	registry   *Registry
	checkables map[astmodel.NodeKind][]Checkable
	stateful   []StatefulRule
	nextScope  int
}

// NewDriver builds a Driver from the given rule instances, indexing
// Checkables by their declared node-kind subscriptions.
func NewDriver(registry *Registry, checkables []Checkable, stateful []StatefulRule) *Driver {
	d := &Driver{
		registry:   registry,
		checkables: make(map[astmodel.NodeKind][]Checkable),
		stateful:   stateful,
	}
	for _, c := range checkables {
		for _, kind := range c.Subscriptions() {
			d.checkables[kind] = append(d.checkables[kind], c)
		}
	}
	return d
}

type activeScope struct {
	token    ScopeToken
	owner    StatefulRule
	counters *ScopeCounters
}

// Walk runs one traversal of ctx.Module.Root, returning every violation in
// deterministic (path, line, column, code) order.
func (d *Driver) Walk(ctx *Context) []Violation {
	var violations []Violation
	var activeScopes []activeScope

	var visit func(n *astmodel.Node)
	visit = func(n *astmodel.Node) {
		if n == nil {
			return
		}

		isScopeNode := n.Kind == astmodel.KindFunctionDef || n.Kind == astmodel.KindAsyncFunctionDef
		var opened []activeScope
		if isScopeNode {
			for _, rule := range d.stateful {
				token, ok := rule.RecordFunctionDef(ctx, n)
				if !ok {
					continue
				}
				token.ID = d.nextScope
				d.nextScope++
				as := activeScope{token: token, owner: rule, counters: &ScopeCounters{}}
				opened = append(opened, as)
				activeScopes = append(activeScopes, as)
			}
		}

		for _, c := range d.checkables[n.Kind] {
			violations = append(violations, c.Check(ctx, n)...)
		}

		if n.Kind == astmodel.KindCall {
			for i := range activeScopes {
				as := &activeScopes[i]
				violations = append(violations, as.owner.RecordCall(ctx, n, as.token, as.counters)...)
			}
		}

		for _, c := range n.Children {
			visit(c)
		}

		if isScopeNode {
			for _, as := range opened {
				violations = append(violations, as.owner.LeaveFunctionDef(ctx, as.token, as.counters)...)
				activeScopes = popScope(activeScopes, as.token.ID)
			}
		}
	}

	if ctx.Module != nil {
		visit(ctx.Module.Root)
	}

	sort.SliceStable(violations, func(i, j int) bool {
		a, b := violations[i], violations[j]
		if a.Path != b.Path {
			return a.Path < b.Path
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		if a.Column != b.Column {
			return a.Column < b.Column
		}
		return a.Code < b.Code
	})
	return violations
}

func popScope(scopes []activeScope, id int) []activeScope {
	out := scopes[:0]
	for _, s := range scopes {
		if s.token.ID != id {
			out = append(out, s)
		}
	}
	return out
}
