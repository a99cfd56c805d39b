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
	"github.com/archsentry/archsentry/internal/transform"
	"github.com/archsentry/archsentry/internal/typeoracle"
)

// inferenceFailureReason is the exact wording surfaced when a return
// annotation cannot be inferred from context or stubs.
const inferenceFailureReason = "Inference failed: Type could not be determined from context or stubs."

// MissingTypeHint implements W9015: parameters and return values without
// an annotation. Fixable only when the Type Oracle resolves a concrete,
// non-Any type for a missing return annotation.
type MissingTypeHint struct{}

func (MissingTypeHint) Code() string        { return "W9015" }
func (MissingTypeHint) Description() string { return "parameters and return values must carry a type annotation" }
func (MissingTypeHint) Subscriptions() []astmodel.NodeKind {
	return []astmodel.NodeKind{astmodel.KindFunctionDef, astmodel.KindAsyncFunctionDef}
}

func (MissingTypeHint) Check(ctx *rules.Context, n *astmodel.Node) []rules.Violation {
	path := pathOf(ctx)
	var out []rules.Violation

	for _, p := range n.Params {
		if p.Name == "self" || p.Name == "cls" || p.Annotation != "" {
			continue
		}
		if p.Kind == astmodel.ParamListSplat || p.Kind == astmodel.ParamDictSplat {
			continue
		}
		msg := fmt.Sprintf("%s is missing a type annotation", p.Name)
		v := violation("W9015", path, n, n.Name+"."+p.Name, msg)
		v.Fixable = false
		v.FixFailureReason = inferenceFailureReason
		out = append(out, v)
	}

	if n.ReturnType == "" && n.Name != "__init__" {
		msg := fmt.Sprintf("%s is missing a return type annotation", n.Name)
		v := violation("W9015", path, n, n.Name+".return", msg)
		if t, ok := inferReturnType(ctx, n); ok && t.QName != "typing.Any" {
			v.Fixable = true
		} else {
			v.Fixable = false
			v.FixFailureReason = inferenceFailureReason
		}
		out = append(out, v)
	}
	return out
}

func (MissingTypeHint) Fix(ctx *rules.Context, v rules.Violation) ([]transform.Plan, string) {
	if !v.Fixable {
		return nil, v.FixFailureReason
	}
	funcName := strings.TrimSuffix(v.Symbol, ".return")
	n := findFunctionByNameAndLine(ctx.Module.Root, funcName, v.Line)
	if n == nil {
		return nil, inferenceFailureReason
	}
	t, ok := inferReturnType(ctx, n)
	if !ok {
		return nil, inferenceFailureReason
	}
	anchor := transform.Anchor{NodeKind: "FunctionDef", Identifier: n.Name, StartLine: n.Line, StartCol: n.Col, EndLine: n.EndLine, EndCol: n.EndCol}
	plan := transform.NewPlan(transform.KindAddReturnType, v.Path, anchor).WithParam("type", shortTypeName(t.QName))
	return []transform.Plan{plan}, ""
}

// inferReturnType best-effort infers a function's return type by
// inspecting the expression returned from its (first) Return statement:
// a literal constant, a same-type binary operation, or a call resolvable
// via the stub table.
func inferReturnType(ctx *rules.Context, fn *astmodel.Node) (typeoracle.Type, bool) {
	var ret *astmodel.Node
	fn.Walk(func(n *astmodel.Node) {
		if ret != nil || n == fn {
			return
		}
		if n.Kind == astmodel.KindReturn && n.EnclosingFunction() == fn {
			ret = n
		}
	})
	if ret == nil || len(ret.Children) == 0 {
		return typeoracle.Unknown, false
	}
	expr := ret.Children[0]
	return inferExprType(ctx, expr)
}

func inferExprType(ctx *rules.Context, expr *astmodel.Node) (typeoracle.Type, bool) {
	if ctx.Oracle == nil || expr == nil {
		return typeoracle.Unknown, false
	}
	switch expr.Kind {
	case astmodel.KindConst:
		t := ctx.Oracle.ResolveConst(expr)
		return t, t.Resolved
	case astmodel.KindBinOp:
		if len(expr.Children) < 2 {
			return typeoracle.Unknown, false
		}
		left, lok := inferExprType(ctx, expr.Children[0])
		right, rok := inferExprType(ctx, expr.Children[len(expr.Children)-1])
		if lok && rok && left.QName == right.QName {
			return left, true
		}
		return typeoracle.Unknown, false
	case astmodel.KindCall:
		t := ctx.Oracle.ResolveStub(expr.Name)
		return t, t.Resolved
	case astmodel.KindName:
		return typeoracle.Unknown, false
	default:
		return typeoracle.Unknown, false
	}
}

func shortTypeName(qname string) string {
	if idx := strings.LastIndex(qname, "."); idx >= 0 {
		return qname[idx+1:]
	}
	return qname
}

func findFunctionByNameAndLine(root *astmodel.Node, name string, line int) *astmodel.Node {
	var found *astmodel.Node
	root.Walk(func(n *astmodel.Node) {
		if found != nil {
			return
		}
		if (n.Kind == astmodel.KindFunctionDef || n.Kind == astmodel.KindAsyncFunctionDef) && n.Name == name && n.Line == line {
			found = n
		}
	})
	return found
}

// BannedAny implements W9016.
type BannedAny struct{}

func (BannedAny) Code() string        { return "W9016" }
func (BannedAny) Description() string { return "type hints must not resolve to Any" }
func (BannedAny) Subscriptions() []astmodel.NodeKind {
	return []astmodel.NodeKind{astmodel.KindFunctionDef, astmodel.KindAsyncFunctionDef}
}

func isAnyAnnotation(ann string) bool {
	ann = strings.TrimSpace(ann)
	return ann == "Any" || ann == "typing.Any"
}

func (BannedAny) Check(ctx *rules.Context, n *astmodel.Node) []rules.Violation {
	path := pathOf(ctx)
	var out []rules.Violation
	for _, p := range n.Params {
		if isAnyAnnotation(p.Annotation) {
			out = append(out, violation("W9016", path, n, n.Name+"."+p.Name, fmt.Sprintf("%s is annotated Any", p.Name)))
		}
	}
	if isAnyAnnotation(n.ReturnType) {
		out = append(out, violation("W9016", path, n, n.Name+".return", fmt.Sprintf("%s is annotated Any", n.Name)))
	}
	return out
}

// UninferableDependency implements W9019.
type UninferableDependency struct{}

func (UninferableDependency) Code() string        { return "W9019" }
func (UninferableDependency) Description() string { return "imports with no stub and no inference result" }
func (UninferableDependency) Subscriptions() []astmodel.NodeKind {
	return []astmodel.NodeKind{astmodel.KindImport, astmodel.KindImportFrom}
}

func (UninferableDependency) Check(ctx *rules.Context, n *astmodel.Node) []rules.Violation {
	target := extractImportTarget(n)
	if target == "" || ctx.Oracle == nil {
		return nil
	}
	if ctx.Oracle.IsStdlibQName(target) {
		return nil
	}
	if looksLikeLocalModule(target) {
		return nil
	}
	path := pathOf(ctx)
	return []rules.Violation{violation("W9019", path, n, target, fmt.Sprintf("imported module %s has no stub and no inference result", target))}
}

var localModulePrefixes = []string{"domain", "use_cases", "usecases", "interface", "infrastructure", "."}

func looksLikeLocalModule(target string) bool {
	for _, p := range localModulePrefixes {
		if strings.HasPrefix(target, p) {
			return true
		}
	}
	return false
}

var bannedRawTypes = map[string]bool{
	"cursor": true, "Cursor": true, "Response": true, "Row": true, "ResultProxy": true,
}

func isBannedRawType(name string) bool {
	name = shortTypeName(strings.TrimSpace(name))
	return bannedRawTypes[name]
}

// NakedReturn implements W9007.
type NakedReturn struct{}

func (NakedReturn) Code() string        { return "W9007" }
func (NakedReturn) Description() string { return "functions must not return banned raw types across a layer boundary" }
func (NakedReturn) Subscriptions() []astmodel.NodeKind {
	return []astmodel.NodeKind{astmodel.KindFunctionDef, astmodel.KindAsyncFunctionDef}
}

func (NakedReturn) Check(ctx *rules.Context, n *astmodel.Node) []rules.Violation {
	l, ok := layerOf(ctx)
	if !ok {
		return nil
	}
	if l != "Domain" && l != "UseCase" && l != "Infrastructure" {
		return nil
	}
	if isBannedRawType(n.ReturnType) {
		path := pathOf(ctx)
		return []rules.Violation{violation("W9007", path, n, n.Name, fmt.Sprintf("function returns raw type %s", n.ReturnType))}
	}
	return nil
}

// MissingAbstraction implements W9009: a class attribute annotated with a
// banned raw type instead of a Protocol-typed collaborator.
type MissingAbstraction struct{}

func (MissingAbstraction) Code() string        { return "W9009" }
func (MissingAbstraction) Description() string { return "attributes must not hold banned raw types directly" }
func (MissingAbstraction) Subscriptions() []astmodel.NodeKind {
	return []astmodel.NodeKind{astmodel.KindAnnAssign}
}

func (MissingAbstraction) Check(ctx *rules.Context, n *astmodel.Node) []rules.Violation {
	if n.EnclosingClass() == nil {
		return nil
	}
	if !isBannedRawType(n.ReturnType) {
		return nil
	}
	path := pathOf(ctx)
	msg := fmt.Sprintf("attribute %s holds a reference to banned raw type %s", n.Name, n.ReturnType)
	return []rules.Violation{violation("W9009", path, n, n.Name, msg)}
}
