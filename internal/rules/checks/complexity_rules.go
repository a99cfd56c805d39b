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

// MethodComplexity implements W9032: cyclomatic complexity over threshold.
type MethodComplexity struct{}

func (MethodComplexity) Code() string        { return "W9032" }
func (MethodComplexity) Description() string { return "methods must stay under the configured complexity threshold" }
func (MethodComplexity) Subscriptions() []astmodel.NodeKind {
	return []astmodel.NodeKind{astmodel.KindFunctionDef, astmodel.KindAsyncFunctionDef}
}

var decisionKinds = map[astmodel.NodeKind]bool{
	astmodel.KindIf:            true,
	astmodel.KindFor:           true,
	astmodel.KindWhile:         true,
	astmodel.KindExceptHandler: true,
	astmodel.KindBoolOp:        true,
	astmodel.KindIfExp:         true,
	astmodel.KindListComp:      true,
	astmodel.KindSetComp:       true,
	astmodel.KindDictComp:      true,
	astmodel.KindGeneratorExp:  true,
}

func cyclomaticComplexity(fn *astmodel.Node) int {
	complexity := 1
	fn.Walk(func(n *astmodel.Node) {
		if n == fn {
			return
		}
		// Nested function/class scopes are scored on their own visit.
		if n.Kind == astmodel.KindFunctionDef || n.Kind == astmodel.KindAsyncFunctionDef || n.Kind == astmodel.KindClassDef {
			return
		}
		if decisionKinds[n.Kind] {
			complexity++
		}
	})
	return complexity
}

func (MethodComplexity) Check(ctx *rules.Context, n *astmodel.Node) []rules.Violation {
	threshold := ctx.Settings.ComplexityThreshold
	if threshold <= 0 {
		threshold = 10
	}
	complexity := cyclomaticComplexity(n)
	if complexity <= threshold {
		return nil
	}
	path := pathOf(ctx)
	msg := fmt.Sprintf("method %s has cyclomatic complexity %d (threshold %d)", n.Name, complexity, threshold)
	return []rules.Violation{violation("W9032", path, n, n.Name, msg)}
}

// InterfaceSegregation implements W9033: a Protocol with too many methods.
type InterfaceSegregation struct{}

func (InterfaceSegregation) Code() string        { return "W9033" }
func (InterfaceSegregation) Description() string { return "Protocols must stay within the configured method-count limit" }
func (InterfaceSegregation) Subscriptions() []astmodel.NodeKind {
	return []astmodel.NodeKind{astmodel.KindClassDef}
}

func isProtocolClass(n *astmodel.Node) bool {
	for _, b := range n.Bases {
		if containsProtocol(b) {
			return true
		}
	}
	return false
}

func containsProtocol(s string) bool {
	return len(s) >= 8 && (s == "Protocol" || hasSuffixProtocol(s))
}

func hasSuffixProtocol(s string) bool {
	return len(s) >= 8 && s[len(s)-8:] == "Protocol"
}

func (InterfaceSegregation) Check(ctx *rules.Context, n *astmodel.Node) []rules.Violation {
	if !isProtocolClass(n) {
		return nil
	}
	limit := ctx.Settings.InterfaceSegregationLimit
	if limit <= 0 {
		limit = 7
	}
	count := 0
	for _, c := range n.Children {
		if c.Kind == astmodel.KindFunctionDef || c.Kind == astmodel.KindAsyncFunctionDef {
			count++
		}
	}
	if count <= limit {
		return nil
	}
	path := pathOf(ctx)
	msg := fmt.Sprintf("Protocol %s declares %d methods (limit %d)", n.Name, count, limit)
	return []rules.Violation{violation("W9033", path, n, n.Name, msg)}
}

// ConcreteMethodStub implements W9202: a non-abstract, non-Protocol method
// whose entire body is `pass`.
type ConcreteMethodStub struct{}

func (ConcreteMethodStub) Code() string        { return "W9202" }
func (ConcreteMethodStub) Description() string { return "concrete methods must not have an empty pass body" }
func (ConcreteMethodStub) Subscriptions() []astmodel.NodeKind {
	return []astmodel.NodeKind{astmodel.KindFunctionDef, astmodel.KindAsyncFunctionDef}
}

func (ConcreteMethodStub) Check(ctx *rules.Context, n *astmodel.Node) []rules.Violation {
	cls := n.EnclosingClass()
	if cls == nil || isProtocolClass(cls) {
		return nil
	}
	for _, d := range n.Decorators {
		if d == "abstractmethod" || d == "abc.abstractmethod" {
			return nil
		}
	}
	if len(n.Children) != 1 || n.Children[0].Kind != astmodel.KindPass {
		return nil
	}
	path := pathOf(ctx)
	return []rules.Violation{violation("W9202", path, n, n.Name, fmt.Sprintf("method %s has an empty body", n.Name))}
}

// ExceptionHygiene implements W9035: a bare `except:` handler.
type ExceptionHygiene struct{}

func (ExceptionHygiene) Code() string        { return "W9035" }
func (ExceptionHygiene) Description() string { return "exception handlers must not be bare" }
func (ExceptionHygiene) Subscriptions() []astmodel.NodeKind {
	return []astmodel.NodeKind{astmodel.KindExceptHandler}
}

func (ExceptionHygiene) Check(ctx *rules.Context, n *astmodel.Node) []rules.Violation {
	if n.Name != "" {
		return nil
	}
	path := pathOf(ctx)
	return []rules.Violation{violation("W9035", path, n, "", "bare except handler")}
}
