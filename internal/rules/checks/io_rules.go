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

// ForbiddenIOInSilentLayer implements W9004.
type ForbiddenIOInSilentLayer struct{}

func (ForbiddenIOInSilentLayer) Code() string        { return "W9004" }
func (ForbiddenIOInSilentLayer) Description() string { return "silent layers must not perform direct I/O" }
func (ForbiddenIOInSilentLayer) Subscriptions() []astmodel.NodeKind {
	return []astmodel.NodeKind{astmodel.KindCall}
}

func (ForbiddenIOInSilentLayer) Check(ctx *rules.Context, n *astmodel.Node) []rules.Violation {
	l, ok := layerOf(ctx)
	if !ok || !ctx.Settings.IsSilentLayer(l) {
		return nil
	}
	if !isBannedIOCall(n.Name) {
		return nil
	}
	if allowedByIOInterface(ctx, n.Name) {
		return nil
	}
	path := pathOf(ctx)
	msg := fmt.Sprintf("call to %s performs I/O inside a silent layer", n.Name)
	return []rules.Violation{violation("W9004", path, n, n.Name, msg)}
}

func allowedByIOInterface(ctx *rules.Context, callName string) bool {
	for _, iface := range ctx.Settings.AllowedIOInterfaces {
		if strings.Contains(callName, iface) {
			return true
		}
	}
	return false
}

// IllegalIOInSilentCore implements W9013.
type IllegalIOInSilentCore struct{}

func (IllegalIOInSilentCore) Code() string        { return "W9013" }
func (IllegalIOInSilentCore) Description() string { return "print/log calls are forbidden in Domain/UseCase" }
func (IllegalIOInSilentCore) Subscriptions() []astmodel.NodeKind {
	return []astmodel.NodeKind{astmodel.KindCall}
}

func (IllegalIOInSilentCore) Check(ctx *rules.Context, n *astmodel.Node) []rules.Violation {
	l, ok := layerOf(ctx)
	if !ok || !ctx.Settings.IsSilentLayer(l) {
		return nil
	}
	if !isLoggingOrPrintCall(n.Name) {
		return nil
	}
	path := pathOf(ctx)
	msg := fmt.Sprintf("print/log call %s inside Domain/UseCase", n.Name)
	return []rules.Violation{violation("W9013", path, n, n.Name, msg)}
}

// DefensiveNoneCheck implements W9012.
type DefensiveNoneCheck struct{}

func (DefensiveNoneCheck) Code() string        { return "W9012" }
func (DefensiveNoneCheck) Description() string { return "defensive None checks inside silent layers" }
func (DefensiveNoneCheck) Subscriptions() []astmodel.NodeKind {
	return []astmodel.NodeKind{astmodel.KindCompare}
}

func (DefensiveNoneCheck) Check(ctx *rules.Context, n *astmodel.Node) []rules.Violation {
	l, ok := layerOf(ctx)
	if !ok || !ctx.Settings.IsSilentLayer(l) {
		return nil
	}
	text := n.Value
	if !strings.Contains(text, " is ") && !strings.Contains(text, " is not ") {
		return nil
	}
	if !strings.Contains(text, "None") {
		return nil
	}
	path := pathOf(ctx)
	return []rules.Violation{violation("W9012", path, n, text, fmt.Sprintf("None check on %s inside a silent layer", text))}
}

var ansiAndColorMarkers = []string{"\\x1b[", "[", "colorama", "termcolor", "rich.console", "Fore.", "Style.", "Back."}

// UIConcernInDomain implements W9014.
type UIConcernInDomain struct{}

func (UIConcernInDomain) Code() string        { return "W9014" }
func (UIConcernInDomain) Description() string { return "terminal/UI formatting must not appear in Domain" }
func (UIConcernInDomain) Subscriptions() []astmodel.NodeKind {
	return []astmodel.NodeKind{astmodel.KindConst, astmodel.KindCall, astmodel.KindAttribute}
}

func (UIConcernInDomain) Check(ctx *rules.Context, n *astmodel.Node) []rules.Violation {
	l, ok := layerOf(ctx)
	if !ok || l != "Domain" {
		return nil
	}
	text := n.Value
	if text == "" {
		text = n.Name
	}
	for _, marker := range ansiAndColorMarkers {
		if strings.Contains(text, marker) {
			path := pathOf(ctx)
			return []rules.Violation{violation("W9014", path, n, text, "terminal formatting literal found in Domain")}
		}
	}
	return nil
}

func pathOf(ctx *rules.Context) string {
	if ctx.Module != nil {
		return ctx.Module.AbsPath
	}
	return ""
}
