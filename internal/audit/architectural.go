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
	"os"
	"time"

	"github.com/archsentry/archsentry/internal/astmodel"
	"github.com/archsentry/archsentry/internal/audit/linteradapter"
	"github.com/archsentry/archsentry/internal/layer"
	"github.com/archsentry/archsentry/internal/rules"
	"github.com/archsentry/archsentry/internal/rules/checks"
	"github.com/archsentry/archsentry/internal/typeoracle"
)

// Architectural wraps the in-process rule engine behind the LinterAdapter
// port, so the pipeline driver never special-cases "this pass runs
// locally" — it shells out to external binaries for four passes and
// drives a parser+driver for this one, through the identical interface.
type Architectural struct {
	cache    *astmodel.Cache
	parser   *astmodel.PythonParser
	resolver *layer.Resolver
	oracle   *typeoracle.Oracle
	driver   *rules.Driver
	registry *rules.Registry
	settings rules.Settings
	scatter  *checks.ScatterAnalyzer
}

// NewArchitectural builds the adapter. cache may be shared across passes
// so the Fix Pipeline's cache-invalidation contract between passes has a
// single Module cache to invalidate.
func NewArchitectural(cache *astmodel.Cache, resolver *layer.Resolver, settings rules.Settings, registry *rules.Registry, checkables []rules.Checkable, stateful []rules.StatefulRule) *Architectural {
	return &Architectural{
		cache:    cache,
		parser:   astmodel.NewPythonParser(),
		resolver: resolver,
		oracle:   typeoracle.NewOracle(typeoracle.DefaultStubs),
		driver:   rules.NewDriver(registry, checkables, stateful),
		registry: registry,
		settings: settings,
		scatter:  checks.NewScatterAnalyzer(),
	}
}

// classify maps code to the Severity its Finding/Issue should carry and
// whether it should block the pass, consulting the catalog's own Severity
// field rather than using IsCommentOnly as a blocking proxy — comment-only
// governs which fix pass applies a rule's fix (§4.5), not whether the
// audit pipeline blocks on it (§4.4). The one family the spec calls out as
// configurably blocking, W904x pattern suggestions, is gated on
// Settings.PatternSuggestionsBlock instead of its catalog severity (always
// "info") so flipping that setting actually changes behavior.
func (a *Architectural) classify(code string) (severity linteradapter.Severity, blocking bool) {
	if a.registry != nil && a.registry.IsPatternSuggestion(code) {
		if a.settings.PatternSuggestionsBlock {
			return linteradapter.SeverityError, true
		}
		return linteradapter.SeverityInfo, false
	}
	sev := "warning"
	if a.registry != nil {
		sev = a.registry.Severity(code)
	}
	switch sev {
	case "error":
		return linteradapter.SeverityError, true
	case "info":
		return linteradapter.SeverityInfo, false
	default:
		return linteradapter.SeverityWarning, false
	}
}

func (a *Architectural) Name() string    { return "excelsior" }
func (a *Architectural) Available() bool { return true }

// Run parses filePath (via the cache, so repeated passes in one run reuse
// the AST), resolves its layer, and walks it with the Driver.
func (a *Architectural) Run(ctx context.Context, filePath string) (*linteradapter.Result, error) {
	start := time.Now()

	module, err := a.loadModule(ctx, filePath)
	if err != nil {
		return nil, err
	}

	rctx := &rules.Context{Module: module, Resolver: a.resolver, Oracle: a.oracle, Settings: a.settings}
	a.scatter.RecordModule(rctx)
	violations := a.driver.Walk(rctx)

	result := &linteradapter.Result{Valid: true, Tool: a.Name(), Available: true, Duration: time.Since(start)}
	for _, v := range violations {
		issue := linteradapter.Issue{
			File: v.Path, Line: v.Line, Column: v.Column, Rule: v.Code,
			Message: v.Message, CanAutoFix: v.Fixable,
		}
		severity, blocking := a.classify(v.Code)
		issue.Severity = severity
		switch {
		case blocking:
			result.Errors = append(result.Errors, issue)
		case severity == linteradapter.SeverityInfo:
			result.Infos = append(result.Infos, issue)
		default:
			result.Warnings = append(result.Warnings, issue)
		}
	}
	result.Valid = len(result.Errors) == 0
	return result, nil
}

// DrainScatter runs the W9030 cross-file reduction over every module seen
// by Run so far and returns its violations as adapter issues. The pipeline
// calls this once, after the architectural pass's per-file loop, so the
// scatter finding participates in that pass's blocking decision alongside
// the per-file rule violations.
func (a *Architectural) DrainScatter() []linteradapter.Issue {
	violations := a.scatter.Reduce()
	issues := make([]linteradapter.Issue, 0, len(violations))
	for _, v := range violations {
		severity, _ := a.classify(v.Code)
		issues = append(issues, linteradapter.Issue{
			File: v.Path, Line: v.Line, Column: v.Column, Rule: v.Code,
			Message: v.Message, Severity: severity,
		})
	}
	return issues
}

func (a *Architectural) loadModule(ctx context.Context, filePath string) (*astmodel.Module, error) {
	if m, ok := a.cache.Get(filePath); ok {
		return m, nil
	}

	content, err := os.ReadFile(filePath)
	if err != nil {
		return nil, newError(KindParseError, filePath, "reading file", err)
	}
	module, err := a.parser.Parse(ctx, content, filePath)
	if err != nil {
		return nil, newError(KindParseError, filePath, "parsing", err)
	}

	if l, ok := a.resolver.Resolve(module.DottedName, module.AbsPath, nil); ok {
		module.Layer = string(l)
		module.LayerResolved = true
	}

	a.cache.Put(module)
	return module, nil
}
