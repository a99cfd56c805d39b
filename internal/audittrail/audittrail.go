// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package audittrail is the filesystem implementation of the Audit Trail
// Port: it writes every persisted artifact under .excelsior/ — the last
// audit result, the AI-facing handover, per-rule fix-plan briefs, and raw
// external-tool logs — keyed by a run ID so concurrent invocations never
// clobber each other's raw logs.
package audittrail

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/archsentry/archsentry/internal/audit"
	"github.com/archsentry/archsentry/internal/handover"
	"github.com/archsentry/archsentry/internal/rules"
)

// rootDir is the directory name every persisted artifact lives under,
// relative to the project root.
const rootDir = ".excelsior"

// Trail is the Audit Trail Port's filesystem-backed implementation.
type Trail struct {
	projectRoot string
}

// New returns a Trail rooted at projectRoot. projectRoot's .excelsior/
// subtree is created lazily, on first write.
func New(projectRoot string) *Trail {
	return &Trail{projectRoot: projectRoot}
}

func (t *Trail) path(parts ...string) string {
	return filepath.Join(append([]string{t.projectRoot, rootDir}, parts...)...)
}

// lastAuditSchema is the on-disk shape of check/last_audit.json and its
// health/ mirror: version, timestamp, per-pass summary counts, and the
// full per-pass violation list. Each violation carries a fixable flag;
// no manual-fix instructions are written.
type lastAuditSchema struct {
	Version   int                `json:"version"`
	Timestamp time.Time          `json:"timestamp"`
	BlockedBy audit.BlockedBy    `json:"blocked_by"`
	Summary   []passSummary      `json:"summary"`
	Passes    []passDetail       `json:"passes"`
}

type passSummary struct {
	Name      string `json:"name"`
	Findings  int    `json:"findings"`
	Blocking  int    `json:"blocking"`
	Skipped   bool   `json:"skipped"`
	Available bool   `json:"available"`
}

type passDetail struct {
	Name     string          `json:"name"`
	Findings []audit.Finding `json:"findings"`
}

const schemaVersion = 1

// WriteAuditResult persists check/last_audit.json and check/ai_handover.json
// derived from result, and additionally mirrors both into health/ unless
// includeHealthMirror is false (the CLI's `check --no-health`).
func (t *Trail) WriteAuditResult(result audit.AuditResult, reg *rules.Registry, includeHealthMirror bool) error {
	schema := toSchema(result)
	raw, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return fmt.Errorf("audittrail: marshal last_audit: %w", err)
	}
	if err := t.writeFile(filepath.Join("check", "last_audit.json"), raw); err != nil {
		return err
	}

	art := handover.Build(result, reg)
	handoverRaw, err := json.MarshalIndent(art, "", "  ")
	if err != nil {
		return fmt.Errorf("audittrail: marshal handover: %w", err)
	}
	if err := t.writeFile(filepath.Join("check", "ai_handover.json"), handoverRaw); err != nil {
		return err
	}

	if !includeHealthMirror {
		return nil
	}
	if err := t.writeFile(filepath.Join("health", "last_audit.json"), raw); err != nil {
		return err
	}
	return t.writeFile(filepath.Join("health", "ai_handover.json"), handoverRaw)
}

func toSchema(result audit.AuditResult) lastAuditSchema {
	schema := lastAuditSchema{Version: schemaVersion, Timestamp: result.Timestamp, BlockedBy: result.BlockedBy}
	for _, p := range result.Passes {
		blocking := 0
		for _, f := range p.Findings {
			if f.Blocking {
				blocking++
			}
		}
		schema.Summary = append(schema.Summary, passSummary{
			Name: p.Name, Findings: len(p.Findings), Blocking: blocking,
			Skipped: p.Skipped, Available: p.Available,
		})
		schema.Passes = append(schema.Passes, passDetail{Name: p.Name, Findings: p.Findings})
	}
	return schema
}

// WriteFixPlan writes a human-readable fix-plan brief for one rule group
// under fix_plans/<rule>_<timestamp>.md.
func (t *Trail) WriteFixPlan(group handover.RuleGroup, at time.Time) (string, error) {
	name := fmt.Sprintf("%s_%s.md", group.Code, at.UTC().Format("20060102T150405Z"))
	rel := filepath.Join("fix_plans", name)

	content := fmt.Sprintf("# %s\n\n%s\n\n## Occurrences\n\n", group.Code, group.Message)
	for _, occ := range group.Occurrences {
		content += fmt.Sprintf("- %s:%d:%d\n", occ.Path, occ.Line, occ.Column)
	}
	if group.ManualInstructions != nil {
		content += fmt.Sprintf("\n## Manual instructions\n\n%s\n", *group.ManualInstructions)
	}
	if group.ProactiveGuidance != nil {
		content += fmt.Sprintf("\n## Proactive guidance\n\n%s\n", *group.ProactiveGuidance)
	}
	if len(group.FixFailureReasons) > 0 {
		content += "\n## Fix failure reasons\n\n"
		for _, r := range group.FixFailureReasons {
			content += fmt.Sprintf("- %s\n", r)
		}
	}

	if err := t.writeFile(rel, []byte(content)); err != nil {
		return "", err
	}
	return t.path(rel), nil
}

// LogToolRun writes an external tool's captured stdout/stderr under
// logs/raw_<tool>_<runID>.log, returning the run ID used so callers can
// correlate multiple logs from the same invocation.
func (t *Trail) LogToolRun(tool string, output []byte) (runID string, err error) {
	runID = uuid.NewString()
	name := fmt.Sprintf("raw_%s_%s.log", tool, runID)
	return runID, t.writeFile(filepath.Join("logs", name), output)
}

func (t *Trail) writeFile(rel string, content []byte) error {
	full := t.path(rel)
	if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
		return fmt.Errorf("audittrail: creating dir for %s: %w", rel, err)
	}
	if err := os.WriteFile(full, content, 0644); err != nil {
		return fmt.Errorf("audittrail: writing %s: %w", rel, err)
	}
	return nil
}
