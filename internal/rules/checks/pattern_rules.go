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
	"strings"

	"github.com/archsentry/archsentry/internal/astmodel"
	"github.com/archsentry/archsentry/internal/rules"
)

// ifChain follows the nested-elif representation the parser produces
// (each elif_clause becomes its own KindIf child) and returns every
// branch in encounter order, including the initial if.
func ifChain(n *astmodel.Node) []*astmodel.Node {
	chain := []*astmodel.Node{n}
	cur := n
	for {
		var next *astmodel.Node
		for _, c := range cur.Children {
			if c.Kind == astmodel.KindIf {
				next = c
				break
			}
		}
		if next == nil {
			return chain
		}
		chain = append(chain, next)
		cur = next
	}
}

func branchReturnCallTarget(n *astmodel.Node) (string, bool) {
	for _, c := range n.Children {
		if c.Kind == astmodel.KindReturn && len(c.Children) == 1 && c.Children[0].Kind == astmodel.KindCall {
			return c.Children[0].Name, true
		}
	}
	return "", false
}

func branchAssignCallTarget(n *astmodel.Node) (string, bool) {
	for _, c := range n.Children {
		if (c.Kind == astmodel.KindAssign || c.Kind == astmodel.KindAssignName) && len(c.Children) == 1 && c.Children[0].Kind == astmodel.KindCall {
			return c.Children[0].Name, true
		}
	}
	return "", false
}

// DelegationAntiPattern implements W9005: an if/elif chain of two or more
// branches whose only action is returning a call.
type DelegationAntiPattern struct{}

func (DelegationAntiPattern) Code() string        { return "W9005" }
func (DelegationAntiPattern) Description() string { return "if/elif chains that only delegate to a call suggest a dispatch table" }
func (DelegationAntiPattern) Subscriptions() []astmodel.NodeKind {
	return []astmodel.NodeKind{astmodel.KindIf}
}

func (DelegationAntiPattern) Check(ctx *rules.Context, n *astmodel.Node) []rules.Violation {
	if n.Parent != nil && n.Parent.Kind == astmodel.KindIf {
		return nil // only evaluate from the top of the chain.
	}
	chain := ifChain(n)
	if len(chain) < 2 {
		return nil
	}
	for _, branch := range chain {
		if _, ok := branchReturnCallTarget(branch); !ok {
			return nil
		}
		// Any node below the branch's header line other than the return
		// and the next elif is an extra statement: not pure delegation.
		for _, c := range branch.Children {
			if c.Line > branch.Line && c.Kind != astmodel.KindReturn && c.Kind != astmodel.KindIf {
				return nil
			}
		}
	}
	path := pathOf(ctx)
	v := violation("W9005", path, n, "", "if/elif chain only delegates to calls; consider a dispatch table")
	v.IsCommentOnly = true
	return []rules.Violation{v}
}

// PatternSuggestionFactory implements W9042: informational.
type PatternSuggestionFactory struct{}

func (PatternSuggestionFactory) Code() string        { return "W9042" }
func (PatternSuggestionFactory) Description() string { return "if/elif instantiating different classes suggests a Factory" }
func (PatternSuggestionFactory) Subscriptions() []astmodel.NodeKind {
	return []astmodel.NodeKind{astmodel.KindIf}
}

func (PatternSuggestionFactory) Check(ctx *rules.Context, n *astmodel.Node) []rules.Violation {
	if n.Parent != nil && n.Parent.Kind == astmodel.KindIf {
		return nil
	}
	chain := ifChain(n)
	if len(chain) < 2 {
		return nil
	}
	seen := map[string]bool{}
	for _, branch := range chain {
		target, ok := branchAssignCallTarget(branch)
		if !ok || !isUpperFirst(target) {
			return nil
		}
		seen[target] = true
	}
	if len(seen) < 2 {
		return nil
	}
	path := pathOf(ctx)
	v := violation("W9042", path, n, "", "if/elif instantiates different classes; consider a Factory")
	v.IsCommentOnly = true
	return []rules.Violation{v}
}

// PatternSuggestionStrategy implements W9043: informational.
type PatternSuggestionStrategy struct{}

func (PatternSuggestionStrategy) Code() string        { return "W9043" }
func (PatternSuggestionStrategy) Description() string { return "if/elif selecting behavior suggests a Strategy" }
func (PatternSuggestionStrategy) Subscriptions() []astmodel.NodeKind {
	return []astmodel.NodeKind{astmodel.KindIf}
}

func (PatternSuggestionStrategy) Check(ctx *rules.Context, n *astmodel.Node) []rules.Violation {
	if n.Parent != nil && n.Parent.Kind == astmodel.KindIf {
		return nil
	}
	chain := ifChain(n)
	if len(chain) < 2 {
		return nil
	}
	seen := map[string]bool{}
	for _, branch := range chain {
		target, ok := branchReturnCallTarget(branch)
		if !ok {
			target, ok = branchAssignCallTarget(branch)
		}
		if !ok || isUpperFirst(target) {
			return nil // capitalized targets are instantiation, handled by W9042.
		}
		seen[target] = true
	}
	if len(seen) < 2 {
		return nil
	}
	path := pathOf(ctx)
	v := violation("W9043", path, n, "", "if/elif selects behavior; consider a Strategy")
	v.IsCommentOnly = true
	return []rules.Violation{v}
}

// PatternSuggestionState implements W9044: repeated conditionals on the
// same attribute within one function.
type PatternSuggestionState struct{}

func (PatternSuggestionState) Code() string        { return "W9044" }
func (PatternSuggestionState) Description() string { return "repeated conditionals on one attribute suggest a State pattern" }
func (PatternSuggestionState) Subscriptions() []astmodel.NodeKind {
	return []astmodel.NodeKind{astmodel.KindFunctionDef, astmodel.KindAsyncFunctionDef}
}

func (PatternSuggestionState) Check(ctx *rules.Context, n *astmodel.Node) []rules.Violation {
	counts := map[string]int{}
	n.Walk(func(c *astmodel.Node) {
		if c.Kind != astmodel.KindIf {
			return
		}
		subject := conditionSubject(c.Value)
		if subject != "" {
			counts[subject]++
		}
	})
	path := pathOf(ctx)
	var out []rules.Violation
	for subject, count := range counts {
		if count >= 2 && strings.Contains(subject, ".") {
			v := violation("W9044", path, n, subject, fmt.Sprintf("repeated conditionals on %s; consider a State pattern", subject))
			v.IsCommentOnly = true
			out = append(out, v)
		}
	}
	return out
}

// conditionSubject extracts the left-hand attribute chain from a simple
// equality condition like "self.state == 'open'".
func conditionSubject(cond string) string {
	cond = strings.TrimSpace(cond)
	for _, op := range []string{"==", "!="} {
		if idx := strings.Index(cond, op); idx > 0 {
			return strings.TrimSpace(cond[:idx])
		}
	}
	return ""
}

// PatternSuggestionFacade implements W9045: a method orchestrating many
// distinct collaborators.
type PatternSuggestionFacade struct{}

func (PatternSuggestionFacade) Code() string        { return "W9045" }
func (PatternSuggestionFacade) Description() string { return "a method orchestrating many dependencies suggests a Facade" }
func (PatternSuggestionFacade) Subscriptions() []astmodel.NodeKind {
	return []astmodel.NodeKind{astmodel.KindFunctionDef, astmodel.KindAsyncFunctionDef}
}

func (PatternSuggestionFacade) Check(ctx *rules.Context, n *astmodel.Node) []rules.Violation {
	collaborators := map[string]bool{}
	n.Walk(func(c *astmodel.Node) {
		if c.Kind != astmodel.KindCall {
			return
		}
		recv := firstSegment(c.Name)
		if recv != "" && recv != "self" && recv != "cls" {
			collaborators[recv] = true
		} else if recv == "self" && strings.Count(c.Name, ".") >= 1 {
			collaborators["self."+secondSegment(c.Name)] = true
		}
	})
	if len(collaborators) < 5 {
		return nil
	}
	path := pathOf(ctx)
	v := violation("W9045", path, n, n.Name, fmt.Sprintf("method %s orchestrates %d dependencies; consider a Facade", n.Name, len(collaborators)))
	v.IsCommentOnly = true
	return []rules.Violation{v}
}

func secondSegment(chain string) string {
	parts := strings.SplitN(chain, ".", 3)
	if len(parts) >= 2 {
		return parts[1]
	}
	return ""
}

// PatternSuggestionBuilder implements W9041: a constructor with many
// parameters.
type PatternSuggestionBuilder struct{}

func (PatternSuggestionBuilder) Code() string        { return "W9041" }
func (PatternSuggestionBuilder) Description() string { return "a constructor with many parameters suggests a Builder" }
func (PatternSuggestionBuilder) Subscriptions() []astmodel.NodeKind {
	return []astmodel.NodeKind{astmodel.KindFunctionDef}
}

func (PatternSuggestionBuilder) Check(ctx *rules.Context, n *astmodel.Node) []rules.Violation {
	if n.Name != "__init__" {
		return nil
	}
	count := 0
	for _, p := range n.Params {
		if p.Name != "self" {
			count++
		}
	}
	if count < 6 {
		return nil
	}
	path := pathOf(ctx)
	cls := n.EnclosingClass()
	name := n.Name
	if cls != nil {
		name = cls.Name
	}
	v := violation("W9041", path, n, name, fmt.Sprintf("constructor %s takes %d parameters; consider a Builder", name, count))
	v.IsCommentOnly = true
	return []rules.Violation{v}
}
