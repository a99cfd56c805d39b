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
	"github.com/archsentry/archsentry/internal/layer"
	"github.com/archsentry/archsentry/internal/rules"
	"github.com/archsentry/archsentry/internal/transform"
)

// frozenMarkers are decorator spellings that mark a class as already
// immutable, exempting it from W9601.
var frozenMarkers = []string{"dataclass(frozen=True)", "frozen", "attr.s(frozen=True)", "attrs.frozen"}

func isFrozenClass(n *astmodel.Node) bool {
	for _, d := range n.Decorators {
		norm := strings.ReplaceAll(d, " ", "")
		for _, marker := range frozenMarkers {
			if strings.Contains(norm, strings.ReplaceAll(marker, " ", "")) {
				return true
			}
		}
	}
	return false
}

// DomainImmutability implements W9601: an attribute assignment on self
// outside __init__, inside a Domain entity that is not marked
// frozen-equivalent. Fixable: applies a frozen-equivalent decorator.
type DomainImmutability struct{}

func (DomainImmutability) Code() string        { return "W9601" }
func (DomainImmutability) Description() string { return "Domain entities must be immutable outside construction" }
func (DomainImmutability) Subscriptions() []astmodel.NodeKind {
	return []astmodel.NodeKind{astmodel.KindAssignAttr}
}

func (DomainImmutability) Check(ctx *rules.Context, n *astmodel.Node) []rules.Violation {
	l, ok := layerOf(ctx)
	if !ok || l != layer.Domain {
		return nil
	}
	cls := n.EnclosingClass()
	if cls == nil || isFrozenClass(cls) {
		return nil
	}
	fn := n.EnclosingFunction()
	if fn != nil && fn.Name == "__init__" && fn.EnclosingClass() == cls {
		return nil
	}
	if !strings.HasPrefix(n.Name, "self.") {
		return nil
	}
	path := pathOf(ctx)
	v := violation("W9601", path, n, cls.Name, fmt.Sprintf("attribute %s assigned outside __init__ on non-frozen entity %s", n.Name, cls.Name))
	v.Fixable = true
	return []rules.Violation{v}
}

func (DomainImmutability) Fix(ctx *rules.Context, v rules.Violation) ([]transform.Plan, string) {
	cls := findClassByName(ctx.Module.Root, v.Symbol)
	if cls == nil {
		return nil, "Inference failed: enclosing class could not be relocated."
	}
	anchor := transform.Anchor{NodeKind: "ClassDef", Identifier: cls.Name, StartLine: cls.Line, StartCol: cls.Col, EndLine: cls.EndLine, EndCol: cls.EndCol}
	plan := transform.NewPlan(transform.KindAddFrozenDecorator, v.Path, anchor).WithParam("decorator", "dataclass(frozen=True)")
	return []transform.Plan{plan}, ""
}

func findClassByName(root *astmodel.Node, name string) *astmodel.Node {
	var found *astmodel.Node
	root.Walk(func(n *astmodel.Node) {
		if found != nil {
			return
		}
		if n.Kind == astmodel.KindClassDef && n.Name == name {
			found = n
		}
	})
	return found
}
