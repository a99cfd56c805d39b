// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package linteradapter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRuffQualityPolicy_ClassifiesByPrefix(t *testing.T) {
	errs, warns, infos := ApplyPolicy([]Issue{
		{Rule: "F401"},
		{Rule: "E501"},
		{Rule: "W605"},
		{Rule: "C901"},
	}, &RuffQualityPolicy)

	assert.Len(t, errs, 2)
	assert.Len(t, warns, 2)
	assert.Empty(t, infos)
}

func TestApplyPolicy_NilPolicyTreatsEverythingAsWarning(t *testing.T) {
	errs, warns, infos := ApplyPolicy([]Issue{{Rule: "F401"}}, nil)
	assert.Empty(t, errs)
	assert.Len(t, warns, 1)
	assert.Empty(t, infos)
}

func TestApplyPolicy_IgnoredRuleIsDropped(t *testing.T) {
	policy := RulePolicy{Ignore: []string{"I001"}, WarnOn: []string{"I"}}
	errs, warns, infos := ApplyPolicy([]Issue{{Rule: "I001"}, {Rule: "I002"}}, &policy)

	assert.Empty(t, errs)
	assert.Len(t, warns, 1, "I002 still matches the broader I warn-on prefix")
	assert.Empty(t, infos)
}

func TestMatchesAny_PrefixRequiresDigitOrSlashBoundary(t *testing.T) {
	policy := RulePolicy{BlockOn: []string{"B"}}
	assert.True(t, policy.ShouldBlock("B006"))
	assert.True(t, policy.ShouldBlock("B"))
	assert.False(t, policy.ShouldBlock("BUGBEAR"), "a non-digit, non-slash continuation must not match the B prefix")
}

func TestMatchesAny_CaseInsensitive(t *testing.T) {
	policy := RulePolicy{BlockOn: []string{"broken"}}
	assert.True(t, policy.ShouldBlock("BROKEN"))
}

func TestImportLinterPolicy_BlocksOnBrokenOnly(t *testing.T) {
	errs, warns, _ := ApplyPolicy([]Issue{{Rule: "broken"}, {Rule: "other"}}, &ImportLinterPolicy)
	assert.Len(t, errs, 1)
	assert.Len(t, warns, 1)
}

func TestMyPyPolicy_ErrorBlocksNoteWarns(t *testing.T) {
	errs, warns, _ := ApplyPolicy([]Issue{{Rule: "error"}, {Rule: "note"}}, &MyPyPolicy)
	assert.Len(t, errs, 1)
	assert.Len(t, warns, 1)
}
