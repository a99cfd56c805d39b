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

func TestForbiddenIOInSilentLayer_FlagsOpenCallInDomain(t *testing.T) {
	src := "def load():\n    f = open('x.txt')\n    return f\n"
	mod := parseModule(t, "src/domain/entity.py", src, layer.NewResolver())
	ctx := newContext(t, mod, nil, rules.DefaultSettings())

	violations := walkRule(ctx, ForbiddenIOInSilentLayer{}, mod)
	require.Len(t, violations, 1)
	assert.Equal(t, "W9004", violations[0].Code)
}

func TestForbiddenIOInSilentLayer_AllowedInterfaceExempt(t *testing.T) {
	src := "def load():\n    f = open('x.txt')\n    return f\n"
	mod := parseModule(t, "src/domain/entity.py", src, nil)
	settings := rules.DefaultSettings()
	settings.AllowedIOInterfaces = []string{"open"}
	ctx := newContext(t, mod, nil, settings)

	violations := walkRule(ctx, ForbiddenIOInSilentLayer{}, mod)
	assert.Empty(t, violations)
}

func TestForbiddenIOInSilentLayer_SilentOutsideSilentLayers(t *testing.T) {
	src := "def load():\n    f = open('x.txt')\n    return f\n"
	mod := parseModule(t, "src/infrastructure/entity.py", src, nil)
	ctx := newContext(t, mod, nil, rules.DefaultSettings())

	violations := walkRule(ctx, ForbiddenIOInSilentLayer{}, mod)
	assert.Empty(t, violations)
}

func TestIllegalIOInSilentCore_FlagsPrintInUseCase(t *testing.T) {
	src := "def run():\n    print('hello')\n"
	mod := parseModule(t, "src/use_cases/run.py", src, layer.NewResolver())
	ctx := newContext(t, mod, nil, rules.DefaultSettings())

	violations := walkRule(ctx, IllegalIOInSilentCore{}, mod)
	require.Len(t, violations, 1)
	assert.Equal(t, "W9013", violations[0].Code)
}

func TestDefensiveNoneCheck_FlagsIsNoneInDomain(t *testing.T) {
	src := "def run(x):\n    if x is None:\n        return 1\n    return 2\n"
	mod := parseModule(t, "src/domain/entity.py", src, layer.NewResolver())
	ctx := newContext(t, mod, nil, rules.DefaultSettings())

	violations := walkRule(ctx, DefensiveNoneCheck{}, mod)
	require.Len(t, violations, 1)
	assert.Equal(t, "W9012", violations[0].Code)
}

func TestDefensiveNoneCheck_IgnoresNonNoneComparisons(t *testing.T) {
	src := "def run(x):\n    if x == 1:\n        return 1\n    return 2\n"
	mod := parseModule(t, "src/domain/entity.py", src, nil)
	ctx := newContext(t, mod, nil, rules.DefaultSettings())

	violations := walkRule(ctx, DefensiveNoneCheck{}, mod)
	assert.Empty(t, violations)
}

func TestUIConcernInDomain_FlagsColoramaUsage(t *testing.T) {
	src := "def show():\n    colorama.init()\n"
	mod := parseModule(t, "src/domain/entity.py", src, layer.NewResolver())
	ctx := newContext(t, mod, nil, rules.DefaultSettings())

	violations := walkRule(ctx, UIConcernInDomain{}, mod)
	require.NotEmpty(t, violations)
	assert.Equal(t, "W9014", violations[0].Code)
}

func TestUIConcernInDomain_SilentOutsideDomain(t *testing.T) {
	src := "def show():\n    colorama.init()\n"
	mod := parseModule(t, "src/interface/cli.py", src, nil)
	ctx := newContext(t, mod, nil, rules.DefaultSettings())

	violations := walkRule(ctx, UIConcernInDomain{}, mod)
	assert.Empty(t, violations)
}
