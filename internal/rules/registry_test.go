// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCatalog_StripsToolPrefixFromKeys(t *testing.T) {
	reg, err := LoadCatalog([]byte(`
excelsior.W9010:
  symbol: demeter-violation
  display_name: Law of Demeter violation
  message_template: "chained call too deep"
  fixable: false
  severity: warning
`))
	require.NoError(t, err)

	def, ok := reg.Get("W9010")
	require.True(t, ok)
	assert.Equal(t, "demeter-violation", def.Symbol)
	assert.Equal(t, "W9010", def.Code)
}

func TestLoadCatalog_RejectsDuplicateCode(t *testing.T) {
	_, err := LoadCatalog([]byte(`
a.W9010:
  symbol: one
b.W9010:
  symbol: two
`))
	assert.Error(t, err)
}

func TestLoadCatalog_RejectsReusedSymbol(t *testing.T) {
	_, err := LoadCatalog([]byte(`
excelsior.W9010:
  symbol: shared-symbol
excelsior.W9011:
  symbol: shared-symbol
`))
	assert.Error(t, err)
}

func TestLoadCatalog_RejectsMalformedYAML(t *testing.T) {
	_, err := LoadCatalog([]byte("not: [valid: yaml"))
	assert.Error(t, err)
}

func TestIsFixableAndIsCommentOnly_ReflectCatalogFlags(t *testing.T) {
	reg, err := LoadCatalog([]byte(`
excelsior.W9015:
  symbol: missing-type-hint
  fixable: true
  comment_only: false
excelsior.W9099:
  symbol: governance-only
  fixable: false
  comment_only: true
`))
	require.NoError(t, err)

	assert.True(t, reg.IsFixable("W9015"))
	assert.False(t, reg.IsCommentOnly("W9015"))
	assert.False(t, reg.IsFixable("W9099"))
	assert.True(t, reg.IsCommentOnly("W9099"))

	assert.False(t, reg.IsFixable("W0000"), "an unregistered code is never fixable")
}

func TestSeverity_ReflectsCatalogValueAndDefaultsToWarning(t *testing.T) {
	reg, err := LoadCatalog([]byte(`
excelsior.W9001:
  symbol: illegal-dependency
  severity: error
excelsior.W9030:
  symbol: architectural-entropy-scatter
  severity: info
excelsior.W9099:
  symbol: no-severity-set
`))
	require.NoError(t, err)

	assert.Equal(t, "error", reg.Severity("W9001"))
	assert.Equal(t, "info", reg.Severity("W9030"))
	assert.Equal(t, "warning", reg.Severity("W9099"), "empty catalog severity defaults to warning")
	assert.Equal(t, "warning", reg.Severity("W0000"), "unregistered code defaults to warning")
}

func TestIsPatternSuggestion_MatchesOnlyTheW904xSymbolFamily(t *testing.T) {
	reg, err := LoadCatalog([]byte(`
excelsior.W9041:
  symbol: pattern-suggestion-builder
excelsior.W9010:
  symbol: god-file
`))
	require.NoError(t, err)

	assert.True(t, reg.IsPatternSuggestion("W9041"))
	assert.False(t, reg.IsPatternSuggestion("W9010"))
	assert.False(t, reg.IsPatternSuggestion("W0000"))
}

func TestCodes_ReturnsSortedList(t *testing.T) {
	reg, err := LoadCatalog([]byte(`
excelsior.W9020:
  symbol: b
excelsior.W9010:
  symbol: a
`))
	require.NoError(t, err)
	assert.Equal(t, []string{"W9010", "W9020"}, reg.Codes())
	assert.Equal(t, 2, reg.Len())
}

func TestLoadDefaultCatalog_ParsesEmbeddedCatalogWithoutError(t *testing.T) {
	reg, err := LoadDefaultCatalog()
	require.NoError(t, err)
	assert.Greater(t, reg.Len(), 0)
}
