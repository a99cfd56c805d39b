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
	_ "embed"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var embeddedCatalog []byte

// RuleDefinition is one catalog entry: the single source of truth for a
// rule's metadata. No consumer may maintain a parallel list of codes,
// symbols, or fixability outside this structure.
type RuleDefinition struct {
	Code               string `yaml:"-"`
	Symbol             string `yaml:"symbol"`
	DisplayName        string `yaml:"display_name"`
	MessageTemplate    string `yaml:"message_template"`
	Fixable            bool   `yaml:"fixable"`
	CommentOnly        bool   `yaml:"comment_only"`
	ManualInstructions string `yaml:"manual_instructions"`
	ProactiveGuidance  string `yaml:"proactive_guidance"`
	Severity           string `yaml:"severity"`
}

// catalogFile is the on-disk shape: a flat map keyed "<tool>.<code>", e.g.
// "excelsior.W9010".
type catalogFile map[string]RuleDefinition

// Registry is the immutable, process-scoped rule catalog. It is the only
// place rule metadata (display name, fixability, message template) may
// live; Checkable/StatefulRule implementations look up their own Code()
// here rather than hard-coding display strings.
type Registry struct {
	byCode   map[string]RuleDefinition
	bySymbol map[string]string // symbol -> code
}

// ToolPrefix is the external-tool namespace every catalog key is rooted
// under, e.g. "excelsior.W9010". It is the literal handle downstream
// tooling (AuditResult.BlockedBy, artifact directories) uses to identify
// this engine among the other external tools in the pipeline.
const ToolPrefix = "excelsior"

// LoadDefaultCatalog parses the embedded catalog.yaml.
func LoadDefaultCatalog() (*Registry, error) {
	return LoadCatalog(embeddedCatalog)
}

// LoadCatalog parses raw into a Registry, enforcing code and symbol
// uniqueness.
func LoadCatalog(raw []byte) (*Registry, error) {
	var cf catalogFile
	if err := yaml.Unmarshal(raw, &cf); err != nil {
		return nil, fmt.Errorf("rules: parse catalog: %w", err)
	}

	reg := &Registry{
		byCode:   make(map[string]RuleDefinition, len(cf)),
		bySymbol: make(map[string]string, len(cf)),
	}
	for key, def := range cf {
		code := stripToolPrefix(key)
		if _, dup := reg.byCode[code]; dup {
			return nil, fmt.Errorf("rules: duplicate code %q in catalog", code)
		}
		if existing, dup := reg.bySymbol[def.Symbol]; dup {
			return nil, fmt.Errorf("rules: symbol %q reused by %q and %q", def.Symbol, existing, code)
		}
		def.Code = code
		reg.byCode[code] = def
		reg.bySymbol[def.Symbol] = code
	}
	return reg, nil
}

func stripToolPrefix(key string) string {
	for i := 0; i < len(key); i++ {
		if key[i] == '.' {
			return key[i+1:]
		}
	}
	return key
}

// Get returns the RuleDefinition for code.
func (r *Registry) Get(code string) (RuleDefinition, bool) {
	def, ok := r.byCode[code]
	return def, ok
}

// IsFixable reports whether code is marked fixable in the catalog.
func (r *Registry) IsFixable(code string) bool {
	def, ok := r.byCode[code]
	return ok && def.Fixable
}

// IsCommentOnly reports whether code's "fix" is a governance comment
// rather than a code edit.
func (r *Registry) IsCommentOnly(code string) bool {
	def, ok := r.byCode[code]
	return ok && def.CommentOnly
}

// patternSuggestionSymbolPrefix identifies the W904x family (Builder,
// Factory, Strategy, State, Facade) by their shared catalog symbol prefix
// rather than a hard-coded code list, so the catalog stays the single
// source of truth for which codes belong to that family.
const patternSuggestionSymbolPrefix = "pattern-suggestion-"

// IsPatternSuggestion reports whether code is one of the W904x pattern-
// suggestion rules — the only rule family spec.md §9 documents as
// configurably blocking (via Settings.PatternSuggestionsBlock).
func (r *Registry) IsPatternSuggestion(code string) bool {
	def, ok := r.byCode[code]
	return ok && strings.HasPrefix(def.Symbol, patternSuggestionSymbolPrefix)
}

// Severity returns code's catalog severity ("error", "warning", or
// "info"). An unknown code or an empty catalog entry defaults to
// "warning", the same non-blocking-but-reported middle ground the catalog
// itself uses for most rules.
func (r *Registry) Severity(code string) string {
	def, ok := r.byCode[code]
	if !ok || def.Severity == "" {
		return "warning"
	}
	return def.Severity
}

// Codes returns every registered code, sorted.
func (r *Registry) Codes() []string {
	out := make([]string, 0, len(r.byCode))
	for code := range r.byCode {
		out = append(out, code)
	}
	sort.Strings(out)
	return out
}

// Len reports how many rules the catalog defines.
func (r *Registry) Len() int {
	return len(r.byCode)
}
