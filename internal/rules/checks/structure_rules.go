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

// GodFile implements W9010: more than one heavy class in a UseCase or
// Infrastructure module.
type GodFile struct{}

func (GodFile) Code() string        { return "W9010" }
func (GodFile) Description() string { return "a module must not define more than one heavy class" }
func (GodFile) Subscriptions() []astmodel.NodeKind {
	return []astmodel.NodeKind{astmodel.KindModule}
}

func (GodFile) Check(ctx *rules.Context, n *astmodel.Node) []rules.Violation {
	l, ok := layerOf(ctx)
	if !ok || (l != layer.UseCase && l != layer.Infrastructure) {
		return nil
	}
	var heavy []string
	for _, c := range n.Children {
		if c.Kind == astmodel.KindClassDef && !isDataclassOrProtocol(c) {
			heavy = append(heavy, c.Name)
		}
	}
	if len(heavy) <= 1 {
		return nil
	}
	path := pathOf(ctx)
	msg := fmt.Sprintf("module defines multiple heavy classes: %s", strings.Join(heavy, ", "))
	return []rules.Violation{violation("W9010", path, n, strings.Join(heavy, ","), msg)}
}

var recognizedEntryPoints = map[string]bool{
	"main.py": true, "__main__.py": true, "setup.py": true, "manage.py": true, "wsgi.py": true, "asgi.py": true,
}

// DeepStructure implements W9011: a logic module placed directly at the
// project root.
type DeepStructure struct{}

func (DeepStructure) Code() string        { return "W9011" }
func (DeepStructure) Description() string { return "logic modules must not sit at the project root" }
func (DeepStructure) Subscriptions() []astmodel.NodeKind {
	return []astmodel.NodeKind{astmodel.KindModule}
}

func (DeepStructure) Check(ctx *rules.Context, n *astmodel.Node) []rules.Violation {
	if ctx.Module == nil {
		return nil
	}
	rel := strings.ReplaceAll(ctx.Module.AbsPath, "\\", "/")
	rel = strings.TrimPrefix(rel, "./")
	base := rel
	if idx := strings.LastIndex(rel, "/"); idx >= 0 {
		return nil // has a directory component, not at root.
	}
	if recognizedEntryPoints[base] {
		return nil
	}
	return []rules.Violation{violation("W9011", ctx.Module.AbsPath, n, base, fmt.Sprintf("logic module %s placed at project root", base))}
}

var entryModuleAllowlist = map[string]bool{
	"main": true, "__main__": true, "cli": true, "manage": true, "wsgi": true, "asgi": true,
}

// NoTopLevelFunctions implements W9018.
type NoTopLevelFunctions struct{}

func (NoTopLevelFunctions) Code() string        { return "W9018" }
func (NoTopLevelFunctions) Description() string { return "module-level functions are restricted to allowlisted entry modules" }
func (NoTopLevelFunctions) Subscriptions() []astmodel.NodeKind {
	return []astmodel.NodeKind{astmodel.KindFunctionDef, astmodel.KindAsyncFunctionDef}
}

func (NoTopLevelFunctions) Check(ctx *rules.Context, n *astmodel.Node) []rules.Violation {
	if n.Parent == nil || n.Parent.Kind != astmodel.KindModule {
		return nil
	}
	moduleBase := ctx.Module.DottedName
	if idx := strings.LastIndex(moduleBase, "."); idx >= 0 {
		moduleBase = moduleBase[idx+1:]
	}
	if entryModuleAllowlist[moduleBase] {
		return nil
	}
	path := pathOf(ctx)
	return []rules.Violation{violation("W9018", path, n, n.Name, fmt.Sprintf("module-level function %s outside an allowlisted entry module", n.Name))}
}

// GlobalState implements W9020.
type GlobalState struct{}

func (GlobalState) Code() string        { return "W9020" }
func (GlobalState) Description() string { return "global declarations introduce mutable shared state" }
func (GlobalState) Subscriptions() []astmodel.NodeKind {
	return []astmodel.NodeKind{astmodel.KindGlobal}
}

func (GlobalState) Check(ctx *rules.Context, n *astmodel.Node) []rules.Violation {
	path := pathOf(ctx)
	name := strings.TrimSpace(strings.TrimPrefix(n.Name, "global"))
	return []rules.Violation{violation("W9020", path, n, name, fmt.Sprintf("use of global declaration for %s", name))}
}
