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
	"testing"

	"github.com/archsentry/archsentry/internal/layer"
	"github.com/archsentry/archsentry/internal/rules"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGodFile_FlagsMultipleHeavyClassesInUseCase(t *testing.T) {
	resolver := resolverForPath("use_cases.order", layer.UseCase)
	src := "class OrderHandler:\n    pass\n\nclass PaymentHandler:\n    pass\n"
	mod := parseModule(t, "src/use_cases/order.py", src, resolver)
	ctx := newContext(t, mod, resolver, rules.DefaultSettings())

	violations := walkRule(ctx, GodFile{}, mod)
	require.Len(t, violations, 1)
	assert.Equal(t, "W9010", violations[0].Code)
	assert.Contains(t, violations[0].Message, "OrderHandler")
	assert.Contains(t, violations[0].Message, "PaymentHandler")
}

func TestGodFile_AllowsSingleHeavyClass(t *testing.T) {
	resolver := resolverForPath("use_cases.order", layer.UseCase)
	src := "class OrderHandler:\n    pass\n"
	mod := parseModule(t, "src/use_cases/order.py", src, resolver)
	ctx := newContext(t, mod, resolver, rules.DefaultSettings())

	violations := walkRule(ctx, GodFile{}, mod)
	assert.Empty(t, violations)
}

func TestGodFile_SilentInDomainLayer(t *testing.T) {
	resolver := resolverForPath("domain.order", layer.Domain)
	src := "class OrderHandler:\n    pass\n\nclass PaymentHandler:\n    pass\n"
	mod := parseModule(t, "src/domain/order.py", src, resolver)
	ctx := newContext(t, mod, resolver, rules.DefaultSettings())

	violations := walkRule(ctx, GodFile{}, mod)
	assert.Empty(t, violations)
}

func TestDeepStructure_FlagsRootLevelModule(t *testing.T) {
	mod := parseModule(t, "utils.py", "x = 1\n", nil)
	ctx := newContext(t, mod, nil, rules.DefaultSettings())

	violations := walkRule(ctx, DeepStructure{}, mod)
	require.Len(t, violations, 1)
	assert.Equal(t, "W9011", violations[0].Code)
}

func TestDeepStructure_AllowsRecognizedEntryPoint(t *testing.T) {
	mod := parseModule(t, "main.py", "x = 1\n", nil)
	ctx := newContext(t, mod, nil, rules.DefaultSettings())

	violations := walkRule(ctx, DeepStructure{}, mod)
	assert.Empty(t, violations)
}

func TestDeepStructure_AllowsNestedModule(t *testing.T) {
	mod := parseModule(t, "src/domain/utils.py", "x = 1\n", nil)
	ctx := newContext(t, mod, nil, rules.DefaultSettings())

	violations := walkRule(ctx, DeepStructure{}, mod)
	assert.Empty(t, violations)
}

func TestNoTopLevelFunctions_FlagsOutsideEntryModule(t *testing.T) {
	src := "def helper():\n    pass\n"
	mod := parseModule(t, "src/domain/helpers.py", src, nil)
	ctx := newContext(t, mod, nil, rules.DefaultSettings())

	violations := walkRule(ctx, NoTopLevelFunctions{}, mod)
	require.Len(t, violations, 1)
	assert.Equal(t, "W9018", violations[0].Code)
}

func TestNoTopLevelFunctions_AllowsEntryModule(t *testing.T) {
	src := "def helper():\n    pass\n"
	mod := parseModule(t, "src/main.py", src, nil)
	ctx := newContext(t, mod, nil, rules.DefaultSettings())

	violations := walkRule(ctx, NoTopLevelFunctions{}, mod)
	assert.Empty(t, violations)
}

func TestNoTopLevelFunctions_AllowsNestedFunction(t *testing.T) {
	src := "class Foo:\n    def helper(self):\n        pass\n"
	mod := parseModule(t, "src/domain/helpers.py", src, nil)
	ctx := newContext(t, mod, nil, rules.DefaultSettings())

	violations := walkRule(ctx, NoTopLevelFunctions{}, mod)
	assert.Empty(t, violations)
}

func TestGlobalState_FlagsGlobalDeclaration(t *testing.T) {
	src := "def run():\n    global counter\n    counter = 1\n"
	mod := parseModule(t, "src/domain/counter.py", src, nil)
	ctx := newContext(t, mod, nil, rules.DefaultSettings())

	violations := walkRule(ctx, GlobalState{}, mod)
	require.Len(t, violations, 1)
	assert.Equal(t, "W9020", violations[0].Code)
	assert.Contains(t, violations[0].Symbol, "counter")
}
