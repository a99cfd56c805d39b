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
	"context"
	"testing"

	"github.com/archsentry/archsentry/internal/astmodel"
	"github.com/archsentry/archsentry/internal/layer"
	"github.com/archsentry/archsentry/internal/rules"
	"github.com/archsentry/archsentry/internal/typeoracle"
	"github.com/stretchr/testify/require"
)

// parseModule parses src as a Python file at path, resolving its layer
// from resolver when given. Fails the test on a parse error so every
// check test exercises the real tree-sitter parser, not a hand-built tree.
func parseModule(t *testing.T, path, src string, resolver *layer.Resolver) *astmodel.Module {
	t.Helper()
	p := astmodel.NewPythonParser()
	mod, err := p.Parse(context.Background(), []byte(src), path)
	require.NoError(t, err)
	if resolver != nil {
		if l, ok := resolver.Resolve(mod.DottedName, mod.AbsPath, nil); ok {
			mod.Layer = string(l)
			mod.LayerResolved = true
		}
	}
	return mod
}

// resolverForPath returns a Resolver whose layer_map maps dottedPrefix
// (and every dotted name under it) to l (test-only convenience).
func resolverForPath(dottedPrefix string, l layer.Layer) *layer.Resolver {
	r := layer.NewResolver()
	r.LayerMap[dottedPrefix] = l
	return r
}

func newContext(t *testing.T, mod *astmodel.Module, resolver *layer.Resolver, settings rules.Settings) *rules.Context {
	t.Helper()
	if resolver == nil {
		resolver = layer.NewResolver()
	}
	return &rules.Context{
		Module:   mod,
		Resolver: resolver,
		Oracle:   typeoracle.NewOracle(typeoracle.DefaultStubs),
		Settings: settings,
	}
}

// walkRule runs a single Checkable over every subscribed node in mod,
// mimicking what Driver.Walk would do for just this rule.
func walkRule(ctx *rules.Context, c rules.Checkable, mod *astmodel.Module) []rules.Violation {
	subs := make(map[astmodel.NodeKind]bool)
	for _, k := range c.Subscriptions() {
		subs[k] = true
	}
	var out []rules.Violation
	mod.Root.Walk(func(n *astmodel.Node) {
		if subs[n.Kind] {
			out = append(out, c.Check(ctx, n)...)
		}
	})
	return out
}
