// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package cst

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/archsentry/archsentry/internal/transform"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestGateway_Apply_RewritesFileAndBacksItUp(t *testing.T) {
	dir := t.TempDir()
	path := writeTempFile(t, dir, "run.py", "def run(a, b):\n    return a\n")

	g := New()
	plan := transform.NewPlan(transform.KindAddReturnType, path, transform.Anchor{StartLine: 1}).WithParam("type", "int")

	result, err := g.Apply(plan)
	require.NoError(t, err)
	assert.True(t, result.Applied)
	assert.NotEmpty(t, result.BackupPath)

	updated, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "def run(a, b) -> int:\n    return a\n", string(updated))

	backup, err := os.ReadFile(result.BackupPath)
	require.NoError(t, err)
	assert.Equal(t, "def run(a, b):\n    return a\n", string(backup))
}

func TestGateway_Apply_NoOpWhenContentUnchanged(t *testing.T) {
	dir := t.TempDir()
	path := writeTempFile(t, dir, "run.py", "import sys\ndef run():\n    pass\n")

	g := New()
	plan := transform.NewPlan(transform.KindAddImport, path, transform.Anchor{StartLine: 1}).WithParam("import", "import sys")

	result, err := g.Apply(plan)
	require.NoError(t, err)
	assert.False(t, result.Applied)
	assert.Empty(t, result.BackupPath)
}

func TestGateway_Apply_ErrorsOnUnrecognizedKind(t *testing.T) {
	dir := t.TempDir()
	path := writeTempFile(t, dir, "run.py", "x = 1\n")

	g := New()
	plan := transform.NewPlan(transform.Kind("bogus_kind"), path, transform.Anchor{StartLine: 1})

	_, err := g.Apply(plan)
	assert.Error(t, err)
}

func TestGateway_Apply_ErrorsWhenTargetMissing(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "missing.py")

	g := New()
	plan := transform.NewPlan(transform.KindAddReturnType, path, transform.Anchor{StartLine: 1}).WithParam("type", "int")

	_, err := g.Apply(plan)
	assert.Error(t, err)
}

func TestGateway_Apply_CreatesPyTypedMarkerOnlyIfAbsent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pkg", "py.typed")

	g := New()
	plan := transform.NewPlan(transform.KindAddPyTypedMarker, path, transform.Anchor{})

	result, err := g.Apply(plan)
	require.NoError(t, err)
	assert.True(t, result.Applied)
	_, statErr := os.Stat(path)
	require.NoError(t, statErr)

	result2, err := g.Apply(plan)
	require.NoError(t, err)
	assert.False(t, result2.Applied)
}

func TestGateway_Apply_CreatesInitFileWithContent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pkg", "__init__.py")

	g := New()
	plan := transform.NewPlan(transform.KindAddInitFile, path, transform.Anchor{}).WithParam("content", "# package marker\n")

	result, err := g.Apply(plan)
	require.NoError(t, err)
	assert.True(t, result.Applied)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "# package marker\n", string(content))
}

func TestGateway_ApplyAll_StopsAtFirstError(t *testing.T) {
	dir := t.TempDir()
	path := writeTempFile(t, dir, "run.py", "def run():\n    pass\n")

	g := New()
	good := transform.NewPlan(transform.KindAddNoneReturnAnnotation, path, transform.Anchor{StartLine: 1})
	bad := transform.NewPlan(transform.Kind("bogus_kind"), path, transform.Anchor{StartLine: 1})

	results, err := g.ApplyAll([]transform.Plan{good, bad})
	assert.Error(t, err)
	require.Len(t, results, 1)
	assert.True(t, results[0].Applied)
}

func TestGateway_Apply_PreservesFileWithoutTrailingNewline(t *testing.T) {
	dir := t.TempDir()
	path := writeTempFile(t, dir, "run.py", "def run():\n    pass")

	g := New()
	plan := transform.NewPlan(transform.KindAddNoneReturnAnnotation, path, transform.Anchor{StartLine: 1})

	_, err := g.Apply(plan)
	require.NoError(t, err)

	updated, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "def run() -> None:\n    pass", string(updated))
}

func TestGateway_Restore_ReproducesOriginalContentBitForBit(t *testing.T) {
	dir := t.TempDir()
	original := "def run(a, b):\n    return a\n"
	path := writeTempFile(t, dir, "run.py", original)

	g := New()
	plan := transform.NewPlan(transform.KindAddReturnType, path, transform.Anchor{StartLine: 1}).WithParam("type", "int")
	results, err := g.ApplyAll([]transform.Plan{plan})
	require.NoError(t, err)

	rewritten, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotEqual(t, original, string(rewritten))

	require.NoError(t, g.Restore(path, results))

	restored, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, original, string(restored))
}

func TestGateway_Restore_NoOpWhenNoBackupWasTaken(t *testing.T) {
	g := New()
	assert.NoError(t, g.Restore("nonexistent.py", nil))
	assert.NoError(t, g.Restore("nonexistent.py", []ApplyResult{{Applied: false}}))
}
