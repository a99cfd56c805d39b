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
	"strconv"
	"strings"
	"testing"

	"github.com/archsentry/archsentry/internal/rules"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMethodComplexity_FlagsOverThreshold(t *testing.T) {
	var b strings.Builder
	b.WriteString("def run(x):\n")
	for i := 0; i < 12; i++ {
		b.WriteString("    if x == ")
		b.WriteString(strconv.Itoa(i))
		b.WriteString(":\n        pass\n")
	}
	mod := parseModule(t, "src/use_cases/run.py", b.String(), nil)
	settings := rules.DefaultSettings()
	settings.ComplexityThreshold = 10
	ctx := newContext(t, mod, nil, settings)

	violations := walkRule(ctx, MethodComplexity{}, mod)
	require.Len(t, violations, 1)
	assert.Equal(t, "W9032", violations[0].Code)
}

func TestMethodComplexity_AllowsUnderThreshold(t *testing.T) {
	src := "def run(x):\n    if x == 1:\n        pass\n    return x\n"
	mod := parseModule(t, "src/use_cases/run.py", src, nil)
	settings := rules.DefaultSettings()
	settings.ComplexityThreshold = 10
	ctx := newContext(t, mod, nil, settings)

	violations := walkRule(ctx, MethodComplexity{}, mod)
	assert.Empty(t, violations)
}

func TestInterfaceSegregation_FlagsOversizedProtocol(t *testing.T) {
	var b strings.Builder
	b.WriteString("class Repo(Protocol):\n")
	for i := 0; i < 8; i++ {
		b.WriteString("    def m")
		b.WriteString(strconv.Itoa(i))
		b.WriteString("(self): ...\n")
	}
	mod := parseModule(t, "src/domain/repo.py", b.String(), nil)
	settings := rules.DefaultSettings()
	settings.InterfaceSegregationLimit = 7
	ctx := newContext(t, mod, nil, settings)

	violations := walkRule(ctx, InterfaceSegregation{}, mod)
	require.Len(t, violations, 1)
	assert.Equal(t, "W9033", violations[0].Code)
}

func TestInterfaceSegregation_SilentForNonProtocolClass(t *testing.T) {
	src := "class Repo:\n    def m1(self): ...\n    def m2(self): ...\n"
	mod := parseModule(t, "src/domain/repo.py", src, nil)
	ctx := newContext(t, mod, nil, rules.DefaultSettings())

	violations := walkRule(ctx, InterfaceSegregation{}, mod)
	assert.Empty(t, violations)
}

func TestConcreteMethodStub_FlagsEmptyBody(t *testing.T) {
	src := "class Service:\n    def run(self):\n        pass\n"
	mod := parseModule(t, "src/use_cases/service.py", src, nil)
	ctx := newContext(t, mod, nil, rules.DefaultSettings())

	violations := walkRule(ctx, ConcreteMethodStub{}, mod)
	require.Len(t, violations, 1)
	assert.Equal(t, "W9202", violations[0].Code)
}

func TestConcreteMethodStub_AllowsAbstractMethod(t *testing.T) {
	src := "class Service:\n    @abstractmethod\n    def run(self):\n        pass\n"
	mod := parseModule(t, "src/use_cases/service.py", src, nil)
	ctx := newContext(t, mod, nil, rules.DefaultSettings())

	violations := walkRule(ctx, ConcreteMethodStub{}, mod)
	assert.Empty(t, violations)
}

func TestConcreteMethodStub_AllowsProtocolMethod(t *testing.T) {
	src := "class Service(Protocol):\n    def run(self):\n        pass\n"
	mod := parseModule(t, "src/use_cases/service.py", src, nil)
	ctx := newContext(t, mod, nil, rules.DefaultSettings())

	violations := walkRule(ctx, ConcreteMethodStub{}, mod)
	assert.Empty(t, violations)
}

func TestExceptionHygiene_FlagsBareExcept(t *testing.T) {
	src := "def run():\n    try:\n        do()\n    except:\n        pass\n"
	mod := parseModule(t, "src/use_cases/run.py", src, nil)
	ctx := newContext(t, mod, nil, rules.DefaultSettings())

	violations := walkRule(ctx, ExceptionHygiene{}, mod)
	require.Len(t, violations, 1)
	assert.Equal(t, "W9035", violations[0].Code)
}

func TestExceptionHygiene_AllowsTypedExcept(t *testing.T) {
	src := "def run():\n    try:\n        do()\n    except ValueError:\n        pass\n"
	mod := parseModule(t, "src/use_cases/run.py", src, nil)
	ctx := newContext(t, mod, nil, rules.DefaultSettings())

	violations := walkRule(ctx, ExceptionHygiene{}, mod)
	assert.Empty(t, violations)
}

