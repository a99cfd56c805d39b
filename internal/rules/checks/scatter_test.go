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

func TestScatterAnalyzer_FlagsLiteralDuplicatedAcrossFiles(t *testing.T) {
	analyzer := NewScatterAnalyzer()

	src := "STATUSES = ['pending_review', 'approved']\n"
	modA := parseModule(t, "src/domain/order.py", src, nil)
	modB := parseModule(t, "src/domain/invoice.py", src, nil)

	analyzer.RecordModule(newContext(t, modA, nil, rules.DefaultSettings()))
	analyzer.RecordModule(newContext(t, modB, nil, rules.DefaultSettings()))

	violations := analyzer.Reduce()
	require.Len(t, violations, 2)
	assert.Equal(t, "W9030", violations[0].Code)
	assert.Equal(t, "approved", violations[0].Symbol)
	assert.Contains(t, violations[0].Message, "2 files")
}

func TestScatterAnalyzer_SilentForLiteralInOneFileOnly(t *testing.T) {
	analyzer := NewScatterAnalyzer()

	src := "STATUSES = ['pending_review', 'approved']\n"
	mod := parseModule(t, "src/domain/order.py", src, nil)
	analyzer.RecordModule(newContext(t, mod, nil, rules.DefaultSettings()))

	violations := analyzer.Reduce()
	assert.Empty(t, violations)
}

func TestScatterAnalyzer_IgnoresShortLiterals(t *testing.T) {
	analyzer := NewScatterAnalyzer()

	src := "CODES = ['ok', 'ok']\n"
	modA := parseModule(t, "src/domain/order.py", src, nil)
	modB := parseModule(t, "src/domain/invoice.py", src, nil)
	analyzer.RecordModule(newContext(t, modA, nil, rules.DefaultSettings()))
	analyzer.RecordModule(newContext(t, modB, nil, rules.DefaultSettings()))

	violations := analyzer.Reduce()
	assert.Empty(t, violations)
}
