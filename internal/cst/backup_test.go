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
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultBackupConfig_HasSaneDefaults(t *testing.T) {
	cfg := DefaultBackupConfig()
	assert.Equal(t, 5, cfg.MaxBackups)
	assert.Equal(t, ".archsentry-bak", cfg.BackupSuffix)
	assert.NotEmpty(t, cfg.TimeFormat)
}

func TestNewBackupManager_FillsZeroValueFields(t *testing.T) {
	m := NewBackupManager(BackupConfig{})
	assert.Equal(t, 5, m.config.MaxBackups)
	assert.Equal(t, ".archsentry-bak", m.config.BackupSuffix)
	assert.NotEmpty(t, m.config.TimeFormat)
}

func TestBackupBeforeOverwrite_CopiesContentAndReturnsNoErrorForMissingFile(t *testing.T) {
	dir := t.TempDir()
	m := NewBackupManager(DefaultBackupConfig())

	path, err := m.BackupBeforeOverwrite(filepath.Join(dir, "missing.py"))
	require.NoError(t, err)
	assert.Empty(t, path)
}

func TestBackupBeforeOverwrite_CopiesFileContent(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "run.py")
	require.NoError(t, os.WriteFile(src, []byte("original content\n"), 0644))

	m := NewBackupManager(DefaultBackupConfig())
	backupPath, err := m.BackupBeforeOverwrite(src)
	require.NoError(t, err)
	require.NotEmpty(t, backupPath)

	content, err := os.ReadFile(backupPath)
	require.NoError(t, err)
	assert.Equal(t, "original content\n", string(content))
}

func TestBackupBeforeOverwrite_ErrorsForDirectory(t *testing.T) {
	dir := t.TempDir()
	m := NewBackupManager(DefaultBackupConfig())

	_, err := m.BackupBeforeOverwrite(dir)
	assert.Error(t, err)
}

func TestListBackups_ReturnsNewestFirst(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "run.py")
	require.NoError(t, os.WriteFile(src, []byte("v1"), 0644))

	m := NewBackupManager(BackupConfig{MaxBackups: 10, BackupSuffix: ".bak", TimeFormat: "20060102150405"})

	first := filepath.Join(dir, "run.py.bak.20240101000000")
	require.NoError(t, os.WriteFile(first, []byte("old"), 0644))
	older := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(first, older, older))

	second := filepath.Join(dir, "run.py.bak.20240102000000")
	require.NoError(t, os.WriteFile(second, []byte("new"), 0644))

	backups, err := m.ListBackups(src)
	require.NoError(t, err)
	require.Len(t, backups, 2)
	assert.Equal(t, second, backups[0].Path)
	assert.Equal(t, first, backups[1].Path)
}

func TestListBackups_EmptyWhenDirectoryMissing(t *testing.T) {
	m := NewBackupManager(DefaultBackupConfig())
	backups, err := m.ListBackups(filepath.Join(t.TempDir(), "gone", "run.py"))
	require.NoError(t, err)
	assert.Empty(t, backups)
}

func TestRestore_CopiesBackupContentBackOverOriginal(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "run.py")
	require.NoError(t, os.WriteFile(src, []byte("original"), 0644))

	m := NewBackupManager(DefaultBackupConfig())
	backupPath, err := m.BackupBeforeOverwrite(src)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(src, []byte("mutated"), 0644))
	require.NoError(t, m.Restore(src, backupPath))

	content, err := os.ReadFile(src)
	require.NoError(t, err)
	assert.Equal(t, "original", string(content))
}

func TestRestore_NoOpForEmptyBackupPath(t *testing.T) {
	m := NewBackupManager(DefaultBackupConfig())
	assert.NoError(t, m.Restore(filepath.Join(t.TempDir(), "run.py"), ""))
}

func TestBackupBeforeOverwrite_RotatesOldestBeyondMaxBackups(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "run.py")
	require.NoError(t, os.WriteFile(src, []byte("v0"), 0644))

	m := NewBackupManager(BackupConfig{MaxBackups: 1, BackupSuffix: ".bak", TimeFormat: "20060102150405.000000000"})

	_, err := m.BackupBeforeOverwrite(src)
	require.NoError(t, err)
	time.Sleep(2 * time.Millisecond)
	_, err = m.BackupBeforeOverwrite(src)
	require.NoError(t, err)

	backups, err := m.ListBackups(src)
	require.NoError(t, err)
	assert.Len(t, backups, 1)
}
