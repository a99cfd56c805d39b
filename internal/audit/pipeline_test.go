// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package audit

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/archsentry/archsentry/internal/audit/linteradapter"
)

// fakeAdapter is a scriptable LinterAdapter stand-in, grounded on the same
// port every real adapter implements.
type fakeAdapter struct {
	name      string
	available bool
	result    *linteradapter.Result
	err       error
	calls     int
}

func (f *fakeAdapter) Name() string      { return f.name }
func (f *fakeAdapter) Available() bool   { return f.available }
func (f *fakeAdapter) Run(ctx context.Context, filePath string) (*linteradapter.Result, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if f.result != nil {
		return f.result, nil
	}
	return &linteradapter.Result{Valid: true, Available: true, Tool: f.name}, nil
}

func cleanAdapter(name string) *fakeAdapter {
	return &fakeAdapter{name: name, available: true, result: &linteradapter.Result{Valid: true, Available: true, Tool: name}}
}

func blockingAdapter(name, rule string) *fakeAdapter {
	return &fakeAdapter{
		name:      name,
		available: true,
		result: &linteradapter.Result{
			Valid:     false,
			Available: true,
			Tool:      name,
			Errors:    []linteradapter.Issue{{File: "a.py", Line: 1, Column: 1, Rule: rule, Message: "boom"}},
		},
	}
}

func newTestPipeline(importLinter, ruffImports, mypy, architectural, ruffQuality linteradapter.LinterAdapter) *Pipeline {
	return New(importLinter, ruffImports, mypy, architectural, ruffQuality)
}

func TestRun_AllCleanYieldsBlockedByNone(t *testing.T) {
	p := newTestPipeline(cleanAdapter("import-linter"), cleanAdapter("ruff-imports"), cleanAdapter("mypy"), cleanAdapter("architectural"), cleanAdapter("ruff-quality"))

	result, err := p.Run(context.Background(), []string{"a.py"})
	require.NoError(t, err)
	assert.False(t, result.Blocked())
	assert.Equal(t, BlockedByNone, result.BlockedBy)
	assert.Len(t, result.Passes, 5)
}

func TestRun_FirstBlockingPassStopsLaterPasses(t *testing.T) {
	ruffImports := blockingAdapter("ruff-imports", "TID")
	mypy := cleanAdapter("mypy")
	architectural := cleanAdapter("architectural")

	p := newTestPipeline(cleanAdapter("import-linter"), ruffImports, mypy, architectural, cleanAdapter("ruff-quality"))

	result, err := p.Run(context.Background(), []string{"a.py"})
	require.NoError(t, err)
	assert.True(t, result.Blocked())
	assert.Equal(t, BlockedByRuffImportTyping, result.BlockedBy)
	assert.Len(t, result.Passes, 2, "import-linter ran, ruff-imports blocked, nothing after it ran")
	assert.Equal(t, 0, mypy.calls)
	assert.Equal(t, 0, architectural.calls)
}

func TestRun_DisabledToolSkipsWithoutInvokingAdapter(t *testing.T) {
	mypy := cleanAdapter("mypy")
	p := newTestPipeline(cleanAdapter("import-linter"), cleanAdapter("ruff-imports"), mypy, cleanAdapter("architectural"), cleanAdapter("ruff-quality"))
	p.mypyEnabled = false

	result, err := p.Run(context.Background(), []string{"a.py"})
	require.NoError(t, err)
	assert.Equal(t, 0, mypy.calls)

	var sawSkipped bool
	for _, pr := range result.Passes {
		if pr.Name == string(BlockedByMyPy) && pr.Skipped {
			sawSkipped = true
		}
	}
	assert.True(t, sawSkipped)
}

func TestRun_UnavailableAdapterReportsUnavailableNotBlocking(t *testing.T) {
	mypy := &fakeAdapter{name: "mypy", available: false}
	p := newTestPipeline(cleanAdapter("import-linter"), cleanAdapter("ruff-imports"), mypy, cleanAdapter("architectural"), cleanAdapter("ruff-quality"))

	result, err := p.Run(context.Background(), []string{"a.py"})
	require.NoError(t, err)
	assert.False(t, result.Blocked())

	var found bool
	for _, pr := range result.Passes {
		if pr.Name == "mypy" && !pr.Available {
			found = true
		}
	}
	assert.True(t, found)
}

func TestWithOnly_RestrictsToSinglePassPlusArchitectural(t *testing.T) {
	importLinter := cleanAdapter("import-linter")
	ruffImports := cleanAdapter("ruff-imports")
	mypy := cleanAdapter("mypy")
	ruffQuality := cleanAdapter("ruff-quality")

	p := New(importLinter, ruffImports, mypy, cleanAdapter("architectural"), ruffQuality, WithOnly(BlockedByMyPy))

	_, err := p.Run(context.Background(), []string{"a.py"})
	require.NoError(t, err)
	assert.Equal(t, 0, importLinter.calls)
	assert.Equal(t, 0, ruffImports.calls)
	assert.Equal(t, 1, mypy.calls)
	assert.Equal(t, 0, ruffQuality.calls)
}

func TestSummaryLines_ReportsCleanWhenUnblocked(t *testing.T) {
	result := AuditResult{BlockedBy: BlockedByNone, Passes: []PassResult{{Name: "mypy", Available: true}}}
	lines := result.SummaryLines()
	assert.Equal(t, "clean", lines[len(lines)-1])
}

func TestSummaryLines_ReportsBlockedByOffender(t *testing.T) {
	result := AuditResult{BlockedBy: BlockedByExcelsior, Passes: []PassResult{{Name: "architectural", Available: true}}}
	lines := result.SummaryLines()
	assert.Contains(t, lines[len(lines)-1], "BLOCKED by excelsior")
}
