// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package rules is the Rule Engine: a registry loaded from a single
// declarative catalog, a driver performing one AST walk per file, and the
// Checkable/StatefulRule/Fixable contracts every concrete rule implements.
package rules

import (
	"fmt"

	"github.com/archsentry/archsentry/internal/astmodel"
	"github.com/archsentry/archsentry/internal/layer"
	"github.com/archsentry/archsentry/internal/typeoracle"
)

// Violation is emitted by a rule and is immutable once constructed.
// Deduplication key is (Code, Path, Line, Symbol).
type Violation struct {
	Code            string
	Message         string
	Path            string
	Line            int
	Column          int
	Symbol          string
	Fixable         bool
	FixFailureReason string
	IsCommentOnly   bool
}

// Location renders the violation's (path:line:col) locator.
func (v Violation) Location() string {
	return fmt.Sprintf("%s:%d:%d", v.Path, v.Line, v.Column)
}

// DedupeKey returns the (code, path, line, symbol) tuple violations are
// deduplicated on.
func (v Violation) DedupeKey() string {
	return fmt.Sprintf("%s|%s|%d|%s", v.Code, v.Path, v.Line, v.Symbol)
}

// ScopeToken is the handle a StatefulRule's RecordFunctionDef returns and
// every later callback for the same scope receives back. The driver, not
// the rule, owns the token's lifetime.
type ScopeToken struct {
	ID       int
	FuncNode *astmodel.Node
}

// ScopeCounters are driver-owned, per-scope counters passed into
// LeaveFunctionDef. Rules are pure functions over these counters; no rule
// may hold its own per-traversal state.
type ScopeCounters struct {
	MockCount  int
	CallCount  int
	Complexity int
	Extra      map[string]int
}

// IncExtra increments a named counter in Extra, initializing the map on
// first use.
func (c *ScopeCounters) IncExtra(name string, by int) {
	if c.Extra == nil {
		c.Extra = make(map[string]int)
	}
	c.Extra[name] += by
}

// ContractIntegritySettings configures the 8-rule W9201 decision algorithm.
type ContractIntegritySettings struct {
	RequireProtocol        []string
	InternalImplementation []string
	FrameworkBaseClasses   []string
	AllowPrivatePrefix     bool
	AllowInternalDecorator bool
	ServicesRequireProtocol  bool
	AdaptersRequireProtocol  bool
	GatewaysRequireProtocol  bool
	OtherRequireProtocol     bool
}

// Settings is the ambient, config-sourced tuning surface the rule set
// reads. It is immutable for the duration of a run.
type Settings struct {
	ProjectType           string
	VisibilityEnforcement bool
	SilentLayers          []layer.Layer
	AllowedIOInterfaces   []string
	SharedKernelModules   map[string]bool
	ComplexityThreshold   int
	InterfaceSegregationLimit int
	MockLimit             int
	ContractIntegrity     ContractIntegritySettings
	PatternSuggestionsBlock bool
	ScatterDefinitionContexts []astmodel.NodeKind
}

// DefaultSettings mirrors the config file's documented defaults (§6).
func DefaultSettings() Settings {
	return Settings{
		ProjectType:               "generic",
		VisibilityEnforcement:     true,
		SilentLayers:              []layer.Layer{layer.Domain, layer.UseCase},
		ComplexityThreshold:       10,
		InterfaceSegregationLimit: 7,
		MockLimit:                 4,
		SharedKernelModules:       make(map[string]bool),
		ContractIntegrity: ContractIntegritySettings{
			ServicesRequireProtocol: true,
			AdaptersRequireProtocol: true,
			GatewaysRequireProtocol: true,
		},
		PatternSuggestionsBlock:   false,
		ScatterDefinitionContexts: []astmodel.NodeKind{astmodel.KindDict, astmodel.KindList, astmodel.KindSet},
	}
}

// IsSilentLayer reports whether l is configured as a silent (no-direct-I/O)
// layer.
func (s Settings) IsSilentLayer(l layer.Layer) bool {
	for _, sl := range s.SilentLayers {
		if sl == l {
			return true
		}
	}
	return false
}

// Context is threaded through every rule invocation for one file. Rules
// hold only borrowed references during a pass; Context itself is rebuilt
// per file by the caller that runs the Driver (the audit and fix pipelines).
type Context struct {
	Module   *astmodel.Module
	Resolver *layer.Resolver
	Oracle   *typeoracle.Oracle
	Settings Settings
}
