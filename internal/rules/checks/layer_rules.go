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
)

// layerRank orders layers from innermost (0) to outermost; an inner layer
// importing anything ranked higher is an illegal dependency under W9001.
var layerRank = map[layer.Layer]int{
	layer.Domain:         0,
	layer.UseCase:        1,
	layer.Interface:      2,
	layer.Infrastructure: 3,
}

// IllegalDependency implements W9001.
type IllegalDependency struct{}

func (IllegalDependency) Code() string        { return "W9001" }
func (IllegalDependency) Description() string { return "inner layers must not import outer layers" }
func (IllegalDependency) Subscriptions() []astmodel.NodeKind {
	return []astmodel.NodeKind{astmodel.KindImport, astmodel.KindImportFrom}
}

func (IllegalDependency) Check(ctx *rules.Context, n *astmodel.Node) []rules.Violation {
	ownLayer, ok := layerOf(ctx)
	if !ok {
		return nil
	}
	target := extractImportTarget(n)
	if target == "" {
		return nil
	}
	if ctx.Settings.SharedKernelModules[target] {
		return nil
	}
	targetLayer, ok := ctx.Resolver.Resolve(target, target, nil)
	if !ok {
		return nil
	}
	ownRank, hasOwn := layerRank[ownLayer]
	targetRank, hasTarget := layerRank[targetLayer]
	if !hasOwn || !hasTarget {
		return nil
	}
	if targetRank <= ownRank {
		return nil
	}
	path := ""
	if ctx.Module != nil {
		path = ctx.Module.AbsPath
	}
	msg := fmt.Sprintf("layer %s must not import outer layer %s (imports %s)", ownLayer, targetLayer, target)
	return []rules.Violation{violation("W9001", path, n, target, msg)}
}

// extractImportTarget pulls the imported dotted module name out of an
// import/import-from statement's raw text.
func extractImportTarget(n *astmodel.Node) string {
	text := strings.TrimSpace(n.Name)
	switch {
	case strings.HasPrefix(text, "from "):
		rest := strings.TrimPrefix(text, "from ")
		if idx := strings.Index(rest, " import"); idx >= 0 {
			return strings.TrimSpace(rest[:idx])
		}
		return strings.TrimSpace(rest)
	case strings.HasPrefix(text, "import "):
		rest := strings.TrimPrefix(text, "import ")
		rest = strings.SplitN(rest, " as ", 2)[0]
		rest = strings.SplitN(rest, ",", 2)[0]
		return strings.TrimSpace(rest)
	default:
		return ""
	}
}

// LayerIntegrity implements W9017.
type LayerIntegrity struct{}

func (LayerIntegrity) Code() string        { return "W9017" }
func (LayerIntegrity) Description() string { return "file under src/ must resolve to a layer" }
func (LayerIntegrity) Subscriptions() []astmodel.NodeKind {
	return []astmodel.NodeKind{astmodel.KindModule}
}

func (LayerIntegrity) Check(ctx *rules.Context, n *astmodel.Node) []rules.Violation {
	if ctx.Module == nil || ctx.Module.LayerResolved {
		return nil
	}
	if !strings.Contains(strings.ReplaceAll(ctx.Module.AbsPath, "\\", "/"), "/src/") {
		return nil
	}
	return []rules.Violation{violation("W9017", ctx.Module.AbsPath, n, ctx.Module.DottedName,
		"module under src/ has no resolved layer")}
}

var infraInstantiationSuffixes = []string{"Client", "Repository", "Adapter", "Gateway", "Connection", "Session"}

func looksLikeConcreteInfraClass(name string) bool {
	if name == "" || !isUpperFirst(name) {
		return false
	}
	if strings.Contains(name, "Protocol") {
		return false
	}
	for _, suffix := range infraInstantiationSuffixes {
		if strings.HasSuffix(name, suffix) {
			return true
		}
	}
	return false
}

func isUpperFirst(s string) bool {
	return s != "" && s[0] >= 'A' && s[0] <= 'Z'
}

// DIViolation implements W9301: direct instantiation of an Infrastructure
// class inside a UseCase.
type DIViolation struct{}

func (DIViolation) Code() string        { return "W9301" }
func (DIViolation) Description() string { return "UseCase must not directly instantiate Infrastructure classes" }
func (DIViolation) Subscriptions() []astmodel.NodeKind {
	return []astmodel.NodeKind{astmodel.KindCall}
}

func (DIViolation) Check(ctx *rules.Context, n *astmodel.Node) []rules.Violation {
	ownLayer, ok := layerOf(ctx)
	if !ok || ownLayer != layer.UseCase {
		return nil
	}
	if !looksLikeConcreteInfraClass(n.Name) {
		return nil
	}
	path := ""
	if ctx.Module != nil {
		path = ctx.Module.AbsPath
	}
	msg := fmt.Sprintf("direct instantiation of Infrastructure class %s inside a UseCase", n.Name)
	return []rules.Violation{violation("W9301", path, n, n.Name, msg)}
}

// ConstructorInjection implements W9034.
type ConstructorInjection struct{}

func (ConstructorInjection) Code() string { return "W9034" }
func (ConstructorInjection) Description() string {
	return "__init__ parameters should depend on Protocols, not concrete Infrastructure classes"
}
func (ConstructorInjection) Subscriptions() []astmodel.NodeKind {
	return []astmodel.NodeKind{astmodel.KindFunctionDef}
}

func (ConstructorInjection) Check(ctx *rules.Context, n *astmodel.Node) []rules.Violation {
	if n.Name != "__init__" {
		return nil
	}
	path := ""
	if ctx.Module != nil {
		path = ctx.Module.AbsPath
	}
	var out []rules.Violation
	for _, p := range n.Params {
		if p.Name == "self" || p.Annotation == "" {
			continue
		}
		ann := strings.TrimSpace(p.Annotation)
		if !looksLikeConcreteInfraClass(ann) {
			continue
		}
		msg := fmt.Sprintf("__init__ parameter %s is typed to concrete class %s instead of a Protocol", p.Name, ann)
		out = append(out, violation("W9034", path, n, p.Name, msg))
	}
	return out
}
