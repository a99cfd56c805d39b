// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package audittrail

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/archsentry/archsentry/internal/audit"
	"github.com/archsentry/archsentry/internal/handover"
	"github.com/archsentry/archsentry/internal/rules"
)

const fixtureCatalog = `
excelsior.W9010:
  symbol: demeter-violation
  display_name: Law of Demeter violation
  message_template: "chained call too deep"
  fixable: false
  comment_only: false
  manual_instructions: "Introduce a facade method."
  severity: warning
`

func testRegistry(t *testing.T) *rules.Registry {
	t.Helper()
	reg, err := rules.LoadCatalog([]byte(fixtureCatalog))
	require.NoError(t, err)
	return reg
}

func sampleResult() audit.AuditResult {
	return audit.AuditResult{
		Timestamp: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		BlockedBy: audit.BlockedByExcelsior,
		Passes: []audit.PassResult{
			{
				Name:      "architectural",
				Available: true,
				Findings: []audit.Finding{
					{Code: "W9010", Path: "a.py", Line: 1, Column: 1, Message: "chained call too deep", Blocking: true},
				},
			},
			{Name: "ruff-quality", Available: true},
		},
	}
}

func TestWriteAuditResult_WritesCheckArtifactsAlways(t *testing.T) {
	root := t.TempDir()
	trail := New(root)
	reg := testRegistry(t)

	require.NoError(t, trail.WriteAuditResult(sampleResult(), reg, false))

	assert.FileExists(t, filepath.Join(root, rootDir, "check", "last_audit.json"))
	assert.FileExists(t, filepath.Join(root, rootDir, "check", "ai_handover.json"))
	assert.NoFileExists(t, filepath.Join(root, rootDir, "health", "last_audit.json"))
}

func TestWriteAuditResult_MirrorsHealthWhenRequested(t *testing.T) {
	root := t.TempDir()
	trail := New(root)
	reg := testRegistry(t)

	require.NoError(t, trail.WriteAuditResult(sampleResult(), reg, true))

	assert.FileExists(t, filepath.Join(root, rootDir, "health", "last_audit.json"))
	assert.FileExists(t, filepath.Join(root, rootDir, "health", "ai_handover.json"))
}

func TestWriteFixPlan_WritesMarkdownWithOccurrencesAndGuidance(t *testing.T) {
	root := t.TempDir()
	trail := New(root)

	instructions := "Introduce a facade method."
	group := handover.RuleGroup{
		Code:               "W9010",
		Message:            "chained call too deep",
		ManualInstructions: &instructions,
		Occurrences:        []handover.Occurrence{{Path: "a.py", Line: 1, Column: 1}},
		FixFailureReasons:  []string{"could not determine a safe rewrite"},
	}

	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	path, err := trail.WriteFixPlan(group, at)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(data)
	assert.Contains(t, content, "# W9010")
	assert.Contains(t, content, "a.py:1:1")
	assert.Contains(t, content, "Introduce a facade method.")
	assert.Contains(t, content, "could not determine a safe rewrite")
	assert.Contains(t, path, "W9010_20260102T030405Z.md")
}

func TestLogToolRun_WritesLogKeyedByGeneratedRunID(t *testing.T) {
	root := t.TempDir()
	trail := New(root)

	runID, err := trail.LogToolRun("ruff", []byte("some output"))
	require.NoError(t, err)
	assert.NotEmpty(t, runID)

	entries, err := os.ReadDir(filepath.Join(root, rootDir, "logs"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0].Name(), runID)
	assert.Contains(t, entries[0].Name(), "raw_ruff_")
}

func TestLogToolRun_DistinctRunsGetDistinctFiles(t *testing.T) {
	root := t.TempDir()
	trail := New(root)

	id1, err := trail.LogToolRun("mypy", []byte("run one"))
	require.NoError(t, err)
	id2, err := trail.LogToolRun("mypy", []byte("run two"))
	require.NoError(t, err)

	assert.NotEqual(t, id1, id2)

	entries, err := os.ReadDir(filepath.Join(root, rootDir, "logs"))
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}
