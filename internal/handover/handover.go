// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package handover builds the Handover Artifact: a per-rule grouping of an
// AuditResult enriched with the catalog's fixability, manual-instructions,
// and proactive-guidance metadata, serialized for both machine consumption
// (ai_handover.json) and the CLI's human-readable summaries.
package handover

import (
	"sort"
	"time"

	"github.com/archsentry/archsentry/internal/audit"
	"github.com/archsentry/archsentry/internal/rules"
)

// Occurrence is one location a rule fired at.
type Occurrence struct {
	Path   string `json:"path"`
	Line   int    `json:"line"`
	Column int    `json:"column"`
}

// RuleGroup is every finding for one rule code, grouped with the catalog's
// static metadata for that code.
type RuleGroup struct {
	Code               string       `json:"code"`
	Fixable            bool         `json:"fixable"`
	IsCommentOnly      bool         `json:"is_comment_only"`
	Message            string       `json:"message"`
	Occurrences        []Occurrence `json:"occurrences"`
	ManualInstructions *string      `json:"manual_instructions"`
	ProactiveGuidance  *string      `json:"proactive_guidance"`
	FixFailureReasons  []string     `json:"fix_failure_reasons,omitempty"`
}

// Artifact is the full handover: one group per distinct rule code that
// fired, plus the AuditResult's overall blocking verdict.
type Artifact struct {
	Timestamp time.Time        `json:"timestamp"`
	BlockedBy audit.BlockedBy  `json:"blocked_by"`
	Groups    []RuleGroup      `json:"rule_groups"`
}

// Build groups every Finding across every pass of result by code, enriching
// each group with the registry's manual_instructions/proactive_guidance. A
// nil registry entry for a code still produces a group — the catalog is the
// source of truth, but an unregistered code should never silently vanish
// from the handover.
func Build(result audit.AuditResult, registry *rules.Registry) Artifact {
	type accum struct {
		group RuleGroup
	}
	byCode := make(map[string]*accum)
	var order []string

	for _, pass := range result.Passes {
		for _, f := range pass.Findings {
			a, ok := byCode[f.Code]
			if !ok {
				a = &accum{group: RuleGroup{Code: f.Code, Message: f.Message}}
				if def, found := registry.Get(f.Code); found {
					a.group.Fixable = def.Fixable
					a.group.IsCommentOnly = def.CommentOnly
					if def.ManualInstructions != "" {
						a.group.ManualInstructions = strPtr(def.ManualInstructions)
					}
					if def.ProactiveGuidance != "" {
						a.group.ProactiveGuidance = strPtr(def.ProactiveGuidance)
					}
				} else {
					a.group.Fixable = f.Fixable
					a.group.IsCommentOnly = f.IsCommentOnly
				}
				byCode[f.Code] = a
				order = append(order, f.Code)
			}
			a.group.Occurrences = append(a.group.Occurrences, Occurrence{Path: f.Path, Line: f.Line, Column: f.Column})
		}
	}

	sort.Strings(order)
	groups := make([]RuleGroup, 0, len(order))
	for _, code := range order {
		groups = append(groups, byCode[code].group)
	}

	return Artifact{Timestamp: result.Timestamp, BlockedBy: result.BlockedBy, Groups: groups}
}

// BuildFromViolations groups raw rule-engine Violations (e.g. the Fix
// Pipeline's per-pass output) the same way Build groups audit Findings, so
// fix_failure_reason can be surfaced even when no AuditResult exists yet.
func BuildFromViolations(violations []rules.Violation, registry *rules.Registry) []RuleGroup {
	type accum struct {
		group             RuleGroup
		fixFailureReasons []string
	}
	byCode := make(map[string]*accum)
	var order []string

	for _, v := range violations {
		a, ok := byCode[v.Code]
		if !ok {
			a = &accum{group: RuleGroup{Code: v.Code, Message: v.Message, Fixable: v.Fixable, IsCommentOnly: v.IsCommentOnly}}
			if def, found := registry.Get(v.Code); found {
				if def.ManualInstructions != "" {
					a.group.ManualInstructions = strPtr(def.ManualInstructions)
				}
				if def.ProactiveGuidance != "" {
					a.group.ProactiveGuidance = strPtr(def.ProactiveGuidance)
				}
			}
			byCode[v.Code] = a
			order = append(order, v.Code)
		}
		a.group.Occurrences = append(a.group.Occurrences, Occurrence{Path: v.Path, Line: v.Line, Column: v.Column})
		if v.FixFailureReason != "" {
			a.fixFailureReasons = append(a.fixFailureReasons, v.FixFailureReason)
		}
	}

	sort.Strings(order)
	groups := make([]RuleGroup, 0, len(order))
	for _, code := range order {
		a := byCode[code]
		a.group.FixFailureReasons = a.fixFailureReasons
		groups = append(groups, a.group)
	}
	return groups
}

func strPtr(s string) *string { return &s }
