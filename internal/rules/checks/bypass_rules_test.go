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

	"github.com/archsentry/archsentry/internal/rules"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAntiBypass_FlagsDirectiveWithoutJustification(t *testing.T) {
	src := "x = 1  # excelsior: disable=W9001\n"
	mod := parseModule(t, "src/use_cases/run.py", src, nil)
	ctx := newContext(t, mod, nil, rules.DefaultSettings())

	violations := walkRule(ctx, AntiBypass{}, mod)
	require.Len(t, violations, 1)
	assert.Equal(t, "W9501", violations[0].Code)
	assert.Equal(t, "W9001", violations[0].Symbol)
}

func TestAntiBypass_AllowsDirectiveWithSameLineJustification(t *testing.T) {
	src := "x = 1  # excelsior: disable=W9001  JUSTIFICATION: legacy import, ticket ARCH-42\n"
	mod := parseModule(t, "src/use_cases/run.py", src, nil)
	ctx := newContext(t, mod, nil, rules.DefaultSettings())

	violations := walkRule(ctx, AntiBypass{}, mod)
	assert.Empty(t, violations)
}

func TestAntiBypass_AllowsDirectiveWithJustificationOnPriorLine(t *testing.T) {
	src := "# JUSTIFICATION: legacy import, ticket ARCH-42\n" +
		"x = 1  # excelsior: disable=W9001\n"
	mod := parseModule(t, "src/use_cases/run.py", src, nil)
	ctx := newContext(t, mod, nil, rules.DefaultSettings())

	violations := walkRule(ctx, AntiBypass{}, mod)
	assert.Empty(t, violations)
}

func TestAntiBypass_SilentWithoutAnyDirective(t *testing.T) {
	src := "x = 1\n"
	mod := parseModule(t, "src/use_cases/run.py", src, nil)
	ctx := newContext(t, mod, nil, rules.DefaultSettings())

	violations := walkRule(ctx, AntiBypass{}, mod)
	assert.Empty(t, violations)
}
