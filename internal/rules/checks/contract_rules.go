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

// ContractIntegrity implements W9201: an Infrastructure class must carry a
// Domain Protocol ancestor unless one of the 8 decision-algorithm rules
// marks it internal. Rules 5-7 (DI-container return, import from a
// Domain/UseCase module, a matching FooProtocol existing in Domain) need a
// whole-program import graph the per-file Context does not carry; they are
// not evaluated here, and no other pass evaluates them either.
// A class that reaches rule 8 without a protocol ancestor is flagged.
type ContractIntegrity struct{}

func (ContractIntegrity) Code() string        { return "W9201" }
func (ContractIntegrity) Description() string { return "Infrastructure classes must carry a Domain Protocol ancestor" }
func (ContractIntegrity) Subscriptions() []astmodel.NodeKind {
	return []astmodel.NodeKind{astmodel.KindClassDef}
}

func hasProtocolAncestor(n *astmodel.Node) bool {
	for _, b := range n.Bases {
		if containsProtocol(b) {
			return true
		}
	}
	return false
}

func (ContractIntegrity) Check(ctx *rules.Context, n *astmodel.Node) []rules.Violation {
	l, ok := layerOf(ctx)
	if !ok || l != layer.Infrastructure {
		return nil
	}
	settings := ctx.Settings.ContractIntegrity
	path := pathOf(ctx)

	// Rule 1: explicit config lists.
	for _, name := range settings.InternalImplementation {
		if name == n.Name {
			return nil
		}
	}
	explicitlyRequired := false
	for _, name := range settings.RequireProtocol {
		if name == n.Name {
			explicitlyRequired = true
		}
	}
	if explicitlyRequired {
		if hasProtocolAncestor(n) {
			return nil
		}
		return []rules.Violation{contractViolation(path, n, 1)}
	}

	// Rule 2: framework base class or dataclass decorator.
	for _, d := range n.Decorators {
		if strings.Contains(d, "dataclass") {
			return nil
		}
	}
	for _, b := range n.Bases {
		for _, fw := range settings.FrameworkBaseClasses {
			if b == fw {
				return nil
			}
		}
	}

	// Rule 3: TypedDict / NamedTuple ancestry.
	for _, b := range n.Bases {
		if b == "TypedDict" || b == "NamedTuple" || strings.HasSuffix(b, ".TypedDict") || strings.HasSuffix(b, ".NamedTuple") {
			return nil
		}
	}

	// Rule 4: leading underscore or @internal decorator.
	if settings.AllowPrivatePrefix && strings.HasPrefix(n.Name, "_") {
		return nil
	}
	if settings.AllowInternalDecorator {
		for _, d := range n.Decorators {
			if d == "internal" {
				return nil
			}
		}
	}

	// Rule 8: directory defaults, each gated on its own config toggle
	// rather than a bare substring match — a class under services/ with
	// services_require_protocol: false must not be required regardless of
	// the other two directory toggles or the other_require_protocol catch-all.
	lower := strings.ToLower(path)
	matchedDirectory := false
	requiresByDirectory := false
	if strings.Contains(lower, "services") {
		matchedDirectory = true
		requiresByDirectory = requiresByDirectory || settings.ServicesRequireProtocol
	}
	if strings.Contains(lower, "adapters") {
		matchedDirectory = true
		requiresByDirectory = requiresByDirectory || settings.AdaptersRequireProtocol
	}
	if strings.Contains(lower, "gateways") {
		matchedDirectory = true
		requiresByDirectory = requiresByDirectory || settings.GatewaysRequireProtocol
	}
	if !matchedDirectory {
		requiresByDirectory = settings.OtherRequireProtocol
	}
	if !requiresByDirectory {
		return nil
	}
	if hasProtocolAncestor(n) {
		return nil
	}
	return []rules.Violation{contractViolation(path, n, 8)}
}

func contractViolation(path string, n *astmodel.Node, rule int) rules.Violation {
	msg := fmt.Sprintf("class %s requires a Domain Protocol ancestor (rule %d); add one or list it under internal_implementation to override", n.Name, rule)
	return violation("W9201", path, n, n.Name, msg)
}
