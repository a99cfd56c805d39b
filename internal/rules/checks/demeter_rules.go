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

// LawOfDemeter implements W9006: flags attribute-access chains longer than
// one hop. Chains rooted at a trusted-authority receiver (see
// typeoracle.Oracle.IsTrustedAuthorityCall) or at self/cls are exempt;
// fluent calls and primitive-typed receivers are not recognised and are
// flagged like any other chain. Only the outermost Attribute node of a chain is checked —
// nested sub-chains share the same Parent-is-Attribute test and are
// skipped, so one chain yields exactly one violation.
type LawOfDemeter struct{}

func (LawOfDemeter) Code() string        { return "W9006" }
func (LawOfDemeter) Description() string { return "attribute chains longer than one hop violate Law of Demeter" }
func (LawOfDemeter) Subscriptions() []astmodel.NodeKind {
	return []astmodel.NodeKind{astmodel.KindAttribute}
}

func (LawOfDemeter) Check(ctx *rules.Context, n *astmodel.Node) []rules.Violation {
	if n.Parent != nil && n.Parent.Kind == astmodel.KindAttribute {
		return nil
	}
	depth := attributeChainDepth(n.Name)
	if depth <= 1 {
		return nil
	}
	receiver := firstSegment(n.Name)
	if ctx.Oracle != nil && ctx.Oracle.IsTrustedAuthorityCall(receiver) {
		return nil
	}
	if receiver == "self" || receiver == "cls" {
		return nil
	}
	chain := trimLastSegment(n.Name)
	path := pathOf(ctx)
	msg := fmt.Sprintf("attribute chain %s exceeds one hop", chain)
	v := violation("W9006", path, n, chain, msg)
	v.IsCommentOnly = true
	return []rules.Violation{v}
}

func firstSegment(chain string) string {
	if idx := strings.Index(chain, "."); idx >= 0 {
		return chain[:idx]
	}
	return chain
}

func trimLastSegment(chain string) string {
	if idx := strings.LastIndex(chain, "."); idx >= 0 {
		return chain[:idx]
	}
	return chain
}

// ProtectedMemberAccess implements W9003: access to a `_name` attribute
// from outside its defining scope. self._x / cls._x within the owning
// class are exempt; any other receiver accessing a protected attribute is
// flagged.
type ProtectedMemberAccess struct{}

func (ProtectedMemberAccess) Code() string        { return "W9003" }
func (ProtectedMemberAccess) Description() string { return "protected attributes must not be accessed from outside their defining scope" }
func (ProtectedMemberAccess) Subscriptions() []astmodel.NodeKind {
	return []astmodel.NodeKind{astmodel.KindAttribute}
}

func (ProtectedMemberAccess) Check(ctx *rules.Context, n *astmodel.Node) []rules.Violation {
	attrName := n.Value
	if attrName == "" || !isProtectedName(attrName) {
		return nil
	}
	receiver := firstSegment(n.Name)
	if receiver == "self" || receiver == "cls" {
		return nil
	}
	path := pathOf(ctx)
	msg := fmt.Sprintf("access to protected member %s from outside its defining scope", n.Name)
	return []rules.Violation{violation("W9003", path, n, n.Name, msg)}
}
