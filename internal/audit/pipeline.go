// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package audit is the Gated Audit Pipeline: five ordered passes, each
// reached through the same LinterAdapter port, the first of which to
// report an error-severity finding blocks every pass after it. Warning
// and info findings are recorded but do not block.
package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/archsentry/archsentry/internal/audit/linteradapter"
	"github.com/archsentry/archsentry/internal/audit/otelinstr"
)

// BlockedBy names the pass (or none) responsible for blocking a run.
type BlockedBy string

const (
	BlockedByImportLinter    BlockedBy = "import_linter"
	BlockedByRuffImportTyping BlockedBy = "ruff_import_typing"
	BlockedByMyPy            BlockedBy = "mypy"
	BlockedByExcelsior       BlockedBy = "excelsior"
	BlockedByRuffQuality     BlockedBy = "ruff_code_quality"
	BlockedByNone            BlockedBy = "none"
)

// Finding unifies a rule-engine Violation and an external tool Issue into
// the one shape AuditResult reports per pass.
type Finding struct {
	Code          string
	Path          string
	Line          int
	Column        int
	Message       string
	Fixable       bool
	IsCommentOnly bool
	Blocking      bool
}

// PassResult is one pass's outcome.
type PassResult struct {
	Name      string
	Findings  []Finding
	Available bool
	Duration  time.Duration
	Skipped   bool
	blocked   bool
}

// AuditResult is the pipeline's overall outcome for one run.
type AuditResult struct {
	Timestamp time.Time
	Passes    []PassResult
	BlockedBy BlockedBy
}

// Blocked reports whether any pass stopped the run.
func (r AuditResult) Blocked() bool { return r.BlockedBy != BlockedByNone }

// SummaryLines renders one line per pass for human-readable CLI output.
func (r AuditResult) SummaryLines() []string {
	lines := make([]string, 0, len(r.Passes)+1)
	for _, p := range r.Passes {
		switch {
		case p.Skipped:
			lines = append(lines, fmt.Sprintf("%-22s skipped", p.Name))
		case !p.Available:
			lines = append(lines, fmt.Sprintf("%-22s unavailable", p.Name))
		default:
			lines = append(lines, fmt.Sprintf("%-22s %d finding(s) in %s", p.Name, len(p.Findings), p.Duration.Round(1e6)))
		}
	}
	if r.Blocked() {
		lines = append(lines, fmt.Sprintf("BLOCKED by %s", r.BlockedBy))
	} else {
		lines = append(lines, "clean")
	}
	return lines
}

// ScatterDrainer is implemented by Architectural to surface the W9030
// cross-file reduction step after its per-file loop completes.
type ScatterDrainer interface {
	DrainScatter() []linteradapter.Issue
}

// namedPass pairs a pipeline-visible blocking identity with the adapter
// that backs it and whether configuration enables it at all.
type namedPass struct {
	blockedBy BlockedBy
	adapter   linteradapter.LinterAdapter
	enabled   bool
}

// Pipeline runs the five gated passes over a batch of files.
type Pipeline struct {
	importLinter linteradapter.LinterAdapter
	ruffImports  linteradapter.LinterAdapter
	mypy         linteradapter.LinterAdapter
	architectural linteradapter.LinterAdapter
	ruffQuality  linteradapter.LinterAdapter

	importLinterEnabled bool
	mypyEnabled         bool
	ruffEnabled         bool
	onlyRuff            onlyRuffPass
}

// Option configures a Pipeline at construction.
type Option func(*Pipeline)

// WithToolsEnabled toggles the three externally-backed passes per the
// project config's ruff_enabled/import_linter_enabled/mypy_enabled flags.
func WithToolsEnabled(ruff, importLinter, mypy bool) Option {
	return func(p *Pipeline) {
		p.ruffEnabled = ruff
		p.importLinterEnabled = importLinter
		p.mypyEnabled = mypy
	}
}

// onlyRuffPass narrows which ruff-backed pass WithOnly leaves enabled,
// since one RuffAdapter-derived toggle otherwise covers both.
type onlyRuffPass int

const (
	onlyRuffNone onlyRuffPass = iota
	onlyRuffImports
	onlyRuffQuality
)

// WithOnly restricts a run to a single named pass (plus the always-on
// architectural pass), for CLI callers narrowing `check --linter`.
func WithOnly(only BlockedBy) Option {
	return func(p *Pipeline) {
		p.importLinterEnabled = only == BlockedByImportLinter
		p.mypyEnabled = only == BlockedByMyPy
		switch only {
		case BlockedByRuffImportTyping:
			p.ruffEnabled = true
			p.onlyRuff = onlyRuffImports
		case BlockedByRuffQuality:
			p.ruffEnabled = true
			p.onlyRuff = onlyRuffQuality
		default:
			p.ruffEnabled = false
		}
	}
}

// New builds a Pipeline wired to concrete adapters. architectural must be
// an adapter that runs the in-process rule engine (see Architectural in
// this package).
func New(importLinter, ruffImports, mypy, architectural, ruffQuality linteradapter.LinterAdapter, opts ...Option) *Pipeline {
	p := &Pipeline{
		importLinter:        importLinter,
		ruffImports:         ruffImports,
		mypy:                mypy,
		architectural:       architectural,
		ruffQuality:         ruffQuality,
		importLinterEnabled: true,
		mypyEnabled:         true,
		ruffEnabled:         true,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Pipeline) orderedPasses() []namedPass {
	ruffImportsEnabled := p.ruffEnabled && p.onlyRuff != onlyRuffQuality
	ruffQualityEnabled := p.ruffEnabled && p.onlyRuff != onlyRuffImports
	return []namedPass{
		{BlockedByImportLinter, p.importLinter, p.importLinterEnabled},
		{BlockedByRuffImportTyping, p.ruffImports, ruffImportsEnabled},
		{BlockedByMyPy, p.mypy, p.mypyEnabled},
		{BlockedByExcelsior, p.architectural, true},
		{BlockedByRuffQuality, p.ruffQuality, ruffQualityEnabled},
	}
}

// runOne runs a single pass over files. The pass blocks when an adapter
// result has errors or a drained scatter issue has error severity;
// warning and info findings are recorded without blocking. import-linter
// is invoked once, with only the first path.
func (r *Pipeline) runOne(ctx context.Context, np namedPass, files []string) (PassResult, error) {
	start := time.Now()
	if !np.enabled {
		return PassResult{Name: string(np.blockedBy), Skipped: true}.withDuration(start), nil
	}
	if !np.adapter.Available() {
		return PassResult{Name: np.adapter.Name(), Available: false}.withDuration(start), nil
	}

	runFiles := files
	if np.blockedBy == BlockedByImportLinter && len(files) > 0 {
		runFiles = files[:1] // import-linter audits the whole project per invocation; see ImportLinterAdapter.Run.
	}

	spanCtx, span := otelinstr.StartPassSpan(ctx, string(np.blockedBy), fmt.Sprintf("%d files", len(files)))
	var findings []Finding
	blocked := false
	for _, f := range runFiles {
		result, err := np.adapter.Run(spanCtx, f)
		if err != nil {
			otelinstr.SetPassSpanResult(span, 0, true)
			span.End()
			return PassResult{}, newError(KindExternalToolError, f, "running "+np.adapter.Name(), err)
		}
		if result.HasErrors() {
			blocked = true
		}
		for _, issue := range result.Errors {
			findings = append(findings, Finding{
				Code: issue.Rule, Path: issue.File, Line: issue.Line, Column: issue.Column,
				Message: issue.Message, Fixable: issue.CanAutoFix, Blocking: true,
			})
		}
		for _, issue := range append(result.Warnings, result.Infos...) {
			findings = append(findings, Finding{
				Code: issue.Rule, Path: issue.File, Line: issue.Line, Column: issue.Column,
				Message: issue.Message, Fixable: issue.CanAutoFix,
			})
		}
	}

	if drainer, ok := np.adapter.(ScatterDrainer); ok {
		for _, issue := range drainer.DrainScatter() {
			issueBlocks := issue.Severity == linteradapter.SeverityError
			blocked = blocked || issueBlocks
			findings = append(findings, Finding{
				Code: issue.Rule, Path: issue.File, Line: issue.Line, Column: issue.Column,
				Message: issue.Message, Blocking: issueBlocks,
			})
		}
	}

	otelinstr.SetPassSpanResult(span, len(findings), blocked)
	otelinstr.RecordPassMetrics(spanCtx, string(np.blockedBy), time.Since(start), len(findings), blocked)
	span.End()

	return PassResult{Name: np.adapter.Name(), Findings: findings, Available: true, blocked: blocked}.withDuration(start), nil
}

func (r PassResult) withDuration(start time.Time) PassResult {
	r.Duration = time.Since(start)
	return r
}

// Run executes all five passes in order against files, stopping at the
// first one that blocks (see runOne); passes after it do not run.
func (p *Pipeline) Run(ctx context.Context, files []string) (AuditResult, error) {
	result := AuditResult{Timestamp: time.Now(), BlockedBy: BlockedByNone}

	for _, np := range p.orderedPasses() {
		pr, err := p.runOne(ctx, np, files)
		if err != nil {
			return result, err
		}
		result.Passes = append(result.Passes, pr)
		if !pr.Skipped && pr.blocked {
			result.BlockedBy = np.blockedBy
			return result, nil
		}
	}
	return result, nil
}
