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

import "strings"

// RulePolicy classifies a tool's native rule codes into the three
// severities the pipeline reasons about. Matching is by prefix, so a
// policy entry like "F" also matches "F401", "F811", etc.
type RulePolicy struct {
	BlockOn []string
	WarnOn  []string
	Ignore  []string
}

func (p *RulePolicy) ShouldIgnore(rule string) bool { return matchesAny(rule, p.Ignore) }
func (p *RulePolicy) ShouldBlock(rule string) bool  { return matchesAny(rule, p.BlockOn) }
func (p *RulePolicy) ShouldWarn(rule string) bool   { return matchesAny(rule, p.WarnOn) }

func (p *RulePolicy) Severity(rule string) Severity {
	switch {
	case p.ShouldIgnore(rule):
		return SeverityInfo
	case p.ShouldBlock(rule):
		return SeverityError
	case p.ShouldWarn(rule):
		return SeverityWarning
	default:
		return SeverityWarning
	}
}

func matchesAny(rule string, patterns []string) bool {
	rule = strings.ToLower(rule)
	for _, pattern := range patterns {
		pattern = strings.ToLower(pattern)
		if rule == pattern || strings.HasPrefix(rule, pattern+"/") {
			return true
		}
		if strings.HasPrefix(rule, pattern) && len(rule) > len(pattern) {
			next := rule[len(pattern)]
			if next >= '0' && next <= '9' {
				return true
			}
		}
	}
	return false
}

// ApplyPolicy partitions raw issues into errors/warnings/infos per policy,
// dropping any that match Ignore outright.
func ApplyPolicy(issues []Issue, policy *RulePolicy) (errors, warnings, infos []Issue) {
	if policy == nil {
		return nil, issues, nil
	}
	for _, issue := range issues {
		if policy.ShouldIgnore(issue.Rule) {
			continue
		}
		issue.Severity = policy.Severity(issue.Rule)
		switch issue.Severity {
		case SeverityError:
			errors = append(errors, issue)
		case SeverityWarning:
			warnings = append(warnings, issue)
		case SeverityInfo:
			infos = append(infos, issue)
		}
	}
	return errors, warnings, infos
}

// ImportLinterPolicy: any contract break is blocking; there is no graceful
// degradation for a broken layer boundary.
var ImportLinterPolicy = RulePolicy{BlockOn: []string{"broken"}}

// RuffImportsTypingPolicy backs audit pass 2 / fix pass 1: import hygiene
// (I), pyupgrade (UP), and bugbear (B) categories.
var RuffImportsTypingPolicy = RulePolicy{
	BlockOn: []string{"B"},
	WarnOn:  []string{"I", "UP"},
}

// RuffQualityPolicy backs audit pass 5 / fix pass 5: pyflakes (F) and
// pycodestyle errors (E) block; warnings (W) and mccabe complexity (C90)
// warn only.
var RuffQualityPolicy = RulePolicy{
	BlockOn: []string{"F", "E"},
	WarnOn:  []string{"W", "C90"},
}

// MyPyPolicy: any reported type error blocks.
var MyPyPolicy = RulePolicy{BlockOn: []string{"error"}, WarnOn: []string{"note"}}
