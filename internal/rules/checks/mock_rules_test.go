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

func TestFragileTestMocks_FlagsOverLimit(t *testing.T) {
	src := "def test_thing():\n" +
		"    a = Mock()\n" +
		"    b = Mock()\n" +
		"    c = Mock()\n" +
		"    d = Mock()\n" +
		"    e = Mock()\n"
	mod := parseModule(t, "tests/test_thing.py", src, nil)
	settings := rules.DefaultSettings()
	settings.MockLimit = 4
	ctx := newContext(t, mod, nil, settings)

	driver := rules.NewDriver(nil, nil, []rules.StatefulRule{FragileTestMocks{}})
	violations := driver.Walk(ctx)
	require.Len(t, violations, 1)
	assert.Equal(t, "W9101", violations[0].Code)
	assert.Contains(t, violations[0].Message, "5 mocks")
}

func TestFragileTestMocks_AllowsUnderLimit(t *testing.T) {
	src := "def test_thing():\n" +
		"    a = Mock()\n" +
		"    b = Mock()\n"
	mod := parseModule(t, "tests/test_thing.py", src, nil)
	settings := rules.DefaultSettings()
	settings.MockLimit = 4
	ctx := newContext(t, mod, nil, settings)

	driver := rules.NewDriver(nil, nil, []rules.StatefulRule{FragileTestMocks{}})
	violations := driver.Walk(ctx)
	assert.Empty(t, violations)
}

func TestFragileTestMocks_IgnoresNonTestFunctions(t *testing.T) {
	src := "def build():\n" +
		"    a = Mock()\n" +
		"    b = Mock()\n" +
		"    c = Mock()\n" +
		"    d = Mock()\n" +
		"    e = Mock()\n"
	mod := parseModule(t, "src/use_cases/build.py", src, nil)
	settings := rules.DefaultSettings()
	settings.MockLimit = 4
	ctx := newContext(t, mod, nil, settings)

	driver := rules.NewDriver(nil, nil, []rules.StatefulRule{FragileTestMocks{}})
	violations := driver.Walk(ctx)
	assert.Empty(t, violations)
}

func TestPrivateMethodTest_FlagsProtectedMethodCall(t *testing.T) {
	src := "def test_thing():\n    service._internal_helper()\n"
	mod := parseModule(t, "tests/test_thing.py", src, nil)
	ctx := newContext(t, mod, nil, rules.DefaultSettings())

	violations := walkRule(ctx, PrivateMethodTest{}, mod)
	require.Len(t, violations, 1)
	assert.Equal(t, "W9102", violations[0].Code)
}

func TestPrivateMethodTest_AllowsPublicMethodCall(t *testing.T) {
	src := "def test_thing():\n    service.run()\n"
	mod := parseModule(t, "tests/test_thing.py", src, nil)
	ctx := newContext(t, mod, nil, rules.DefaultSettings())

	violations := walkRule(ctx, PrivateMethodTest{}, mod)
	assert.Empty(t, violations)
}

func TestPrivateMethodTest_SilentOutsideTestFunctions(t *testing.T) {
	src := "def run():\n    service._internal_helper()\n"
	mod := parseModule(t, "src/use_cases/run.py", src, nil)
	ctx := newContext(t, mod, nil, rules.DefaultSettings())

	violations := walkRule(ctx, PrivateMethodTest{}, mod)
	assert.Empty(t, violations)
}
