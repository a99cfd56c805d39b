// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package cst is the CST Gateway: the only component in the repo allowed
// to touch source files on disk during a fix run. It accepts nothing but
// transform.Plan values, never re-derives intent from the AST itself, and
// backs up every file it touches before rewriting it.
package cst

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/archsentry/archsentry/internal/transform"
)

// Gateway applies Plans to files, one plan at a time. It is not safe for
// concurrent use against the same target path.
type Gateway struct {
	backups *BackupManager
}

// New builds a Gateway with the default backup retention policy.
func New() *Gateway {
	return &Gateway{backups: NewBackupManager(DefaultBackupConfig())}
}

// ApplyResult reports what Apply did.
type ApplyResult struct {
	Applied    bool
	BackupPath string
}

// Apply executes plan against its TargetPath. Unrecognized Kinds are a
// hard error: the gateway never silently no-ops on a plan it doesn't
// understand.
func (g *Gateway) Apply(plan transform.Plan) (ApplyResult, error) {
	switch plan.Kind {
	case transform.KindAddPyTypedMarker:
		return g.applyMarkerFile(plan, "")
	case transform.KindAddInitFile:
		return g.applyMarkerFile(plan, plan.Params["content"])
	}

	rewrite, ok := rewriters[plan.Kind]
	if plan.Kind == transform.KindApplyNamedTransformer {
		name := plan.Params["transformer"]
		fn, found := namedTransformers[name]
		if !found {
			return ApplyResult{}, fmt.Errorf("cst: no named transformer registered for %q", name)
		}
		rewrite, ok = fn, true
	}
	if !ok {
		return ApplyResult{}, fmt.Errorf("cst: unrecognized plan kind %q", plan.Kind)
	}

	original, err := os.ReadFile(plan.TargetPath)
	if err != nil {
		return ApplyResult{}, fmt.Errorf("cst: reading %s: %w", plan.TargetPath, err)
	}
	info, err := os.Stat(plan.TargetPath)
	if err != nil {
		return ApplyResult{}, fmt.Errorf("cst: stat %s: %w", plan.TargetPath, err)
	}

	trailingNewline := strings.HasSuffix(string(original), "\n")
	lines := strings.Split(string(original), "\n")
	if trailingNewline {
		lines = lines[:len(lines)-1]
	}

	newLines, err := rewrite(lines, plan)
	if err != nil {
		return ApplyResult{}, fmt.Errorf("cst: applying %s to %s: %w", plan.Kind, plan.TargetPath, err)
	}

	newContent := strings.Join(newLines, "\n")
	if trailingNewline {
		newContent += "\n"
	}
	if newContent == string(original) {
		return ApplyResult{Applied: false}, nil
	}

	backupPath, err := g.backups.BackupBeforeOverwrite(plan.TargetPath)
	if err != nil {
		return ApplyResult{}, fmt.Errorf("cst: backing up %s: %w", plan.TargetPath, err)
	}
	if err := atomicWrite(plan.TargetPath, []byte(newContent), info.Mode()); err != nil {
		return ApplyResult{}, fmt.Errorf("cst: writing %s: %w", plan.TargetPath, err)
	}
	return ApplyResult{Applied: true, BackupPath: backupPath}, nil
}

// applyMarkerFile handles the two plan kinds that create a new file
// outright (py.typed markers, __init__.py stubs) rather than editing an
// existing one.
func (g *Gateway) applyMarkerFile(plan transform.Plan, content string) (ApplyResult, error) {
	if _, err := os.Stat(plan.TargetPath); err == nil {
		return ApplyResult{Applied: false}, nil // already exists
	}
	if err := os.MkdirAll(filepath.Dir(plan.TargetPath), 0755); err != nil {
		return ApplyResult{}, fmt.Errorf("cst: creating parent dir for %s: %w", plan.TargetPath, err)
	}
	if err := atomicWrite(plan.TargetPath, []byte(content), 0644); err != nil {
		return ApplyResult{}, fmt.Errorf("cst: creating %s: %w", plan.TargetPath, err)
	}
	return ApplyResult{Applied: true}, nil
}

// ApplyAll applies every plan in order, stopping at the first failure and
// returning plans already applied alongside the error so callers can
// decide whether to roll back.
func (g *Gateway) ApplyAll(plans []transform.Plan) ([]ApplyResult, error) {
	results := make([]ApplyResult, 0, len(plans))
	for _, p := range plans {
		r, err := g.Apply(p)
		if err != nil {
			return results, err
		}
		results = append(results, r)
	}
	return results, nil
}

// Restore undoes a batch of ApplyAll results against targetPath, used when
// a post-fix validation run (§4.5 step 6) rejects the file's changes. It
// restores from the earliest backup in results, which captured the file's
// content before any plan in the batch touched it; later backups in the
// same batch captured only intermediate states.
func (g *Gateway) Restore(targetPath string, results []ApplyResult) error {
	for _, r := range results {
		if r.BackupPath == "" {
			continue
		}
		return g.backups.Restore(targetPath, r.BackupPath)
	}
	return nil
}
