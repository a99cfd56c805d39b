// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package fix is the Fix Pipeline: five passes over a file set, two of
// which (Architectural, Governance Comments) run only when a fresh Audit
// Pipeline run reports AuditResult.BlockedBy == audit.BlockedByNone.
package fix

import (
	"context"
	"fmt"
	"os"

	"github.com/archsentry/archsentry/internal/astmodel"
	"github.com/archsentry/archsentry/internal/audit"
	"github.com/archsentry/archsentry/internal/cst"
	"github.com/archsentry/archsentry/internal/layer"
	"github.com/archsentry/archsentry/internal/rules"
	"github.com/archsentry/archsentry/internal/transform"
	"github.com/archsentry/archsentry/internal/typeoracle"
)

// externalFixer is the subset of RuffAdapter's surface the quick-fix
// passes need: an in-place, whole-file autofix.
type externalFixer interface {
	Name() string
	Available() bool
	Fix(ctx context.Context, filePath string) error
}

// Pipeline runs the five fix passes: external quick-fix imports, type-hint
// injection, a cache clear, gated architectural fixes, gated governance
// comments, and external quick-fix quality.
type Pipeline struct {
	registry   *rules.Registry
	checkables []rules.Checkable
	fixables   map[string]rules.Fixable // code -> Fixable
	cache      *astmodel.Cache
	parser     *astmodel.PythonParser
	resolver   *layer.Resolver
	oracle     *typeoracle.Oracle
	settings   rules.Settings
	gateway    *cst.Gateway
	auditor    *audit.Pipeline

	quickFixImports externalFixer
	quickFixQuality externalFixer

	commentsEnabled bool
	validator       TestValidator
	rootDir         string
}

// Option configures a Pipeline at construction.
type Option func(*Pipeline)

// WithComments toggles pass 4 (governance comments). Defaults to enabled;
// the CLI's `fix --comments=false` disables it.
func WithComments(enabled bool) Option {
	return func(p *Pipeline) { p.commentsEnabled = enabled }
}

// WithValidator installs the optional post-fix test-suite gate (§4.5 step
// 6) for the two gated rule-driven passes. rootDir is the directory the
// validator's test runner is invoked against. Omitting this option leaves
// validation skipped, which is the spec's default ("optional").
func WithValidator(v TestValidator, rootDir string) Option {
	return func(p *Pipeline) { p.validator = v; p.rootDir = rootDir }
}

// New builds a Fix Pipeline. auditor is used to gate passes 3 and 4: a
// fresh Run is invoked before each, and the pass is skipped unless it
// comes back clean.
func New(registry *rules.Registry, checkables []rules.Checkable, fixables []rules.Fixable, cache *astmodel.Cache, resolver *layer.Resolver, settings rules.Settings, gateway *cst.Gateway, auditor *audit.Pipeline, quickFixImports, quickFixQuality externalFixer, opts ...Option) *Pipeline {
	byCode := make(map[string]rules.Fixable, len(fixables))
	for _, f := range fixables {
		if c, ok := f.(rules.Checkable); ok {
			byCode[c.Code()] = f
		} else if s, ok := f.(rules.StatefulRule); ok {
			byCode[s.Code()] = f
		}
	}
	p := &Pipeline{
		registry: registry, checkables: checkables, fixables: byCode,
		cache: cache, parser: astmodel.NewPythonParser(), resolver: resolver,
		oracle: typeoracle.NewOracle(typeoracle.DefaultStubs), settings: settings,
		gateway: gateway, auditor: auditor,
		quickFixImports: quickFixImports, quickFixQuality: quickFixQuality,
		commentsEnabled: true,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// PassOutcome reports what one fix pass did.
type PassOutcome struct {
	Name          string
	Skipped       bool
	SkipReason    string
	FilesChanged  int
	FilesRejected int
	Violations    []rules.Violation
}

// Result is the outcome of a full fix run.
type Result struct {
	Passes []PassOutcome
}

// Run executes all five passes over files in order.
func (p *Pipeline) Run(ctx context.Context, files []string) (Result, error) {
	var result Result

	result.Passes = append(result.Passes, p.runExternalQuickFix(ctx, "external-quick-fix-imports", p.quickFixImports, files))
	result.Passes = append(result.Passes, p.runTypeHintInjection(ctx, files))

	p.cache.Clear() // stale after passes 1-2 rewrote source on disk.

	archOutcome, err := p.runGated(ctx, "architectural-code-fixes", files, false)
	if err != nil {
		return result, err
	}
	result.Passes = append(result.Passes, archOutcome)

	if p.commentsEnabled {
		commentOutcome, err := p.runGated(ctx, "governance-comments", files, true)
		if err != nil {
			return result, err
		}
		result.Passes = append(result.Passes, commentOutcome)
	} else {
		result.Passes = append(result.Passes, PassOutcome{Name: "governance-comments", Skipped: true, SkipReason: "disabled via --comments=false"})
	}

	result.Passes = append(result.Passes, p.runExternalQuickFix(ctx, "external-quick-fix-quality", p.quickFixQuality, files))

	return result, nil
}

func (p *Pipeline) runExternalQuickFix(ctx context.Context, name string, fixer externalFixer, files []string) PassOutcome {
	if fixer == nil || !fixer.Available() {
		return PassOutcome{Name: name, Skipped: true, SkipReason: "tool unavailable"}
	}
	changed := 0
	for _, f := range files {
		before, err := os.ReadFile(f)
		if err != nil {
			continue
		}
		if err := fixer.Fix(ctx, f); err != nil {
			continue
		}
		after, err := os.ReadFile(f)
		if err == nil && string(before) != string(after) {
			changed++
		}
	}
	return PassOutcome{Name: name, FilesChanged: changed}
}

// runTypeHintInjection is fix pass 2: walk every file for W9015 only and
// apply its fixes, independent of audit state.
func (p *Pipeline) runTypeHintInjection(ctx context.Context, files []string) PassOutcome {
	const code = "W9015"
	fixer, ok := p.fixables[code]
	outcome := PassOutcome{Name: "type-hint-injection"}
	if !ok {
		outcome.Skipped = true
		outcome.SkipReason = code + " not registered"
		return outcome
	}

	var target rules.Checkable
	for _, c := range p.checkables {
		if c.Code() == code {
			target = c
			break
		}
	}
	if target == nil {
		outcome.Skipped = true
		outcome.SkipReason = code + " checkable not found"
		return outcome
	}
	driver := rules.NewDriver(p.registry, []rules.Checkable{target}, nil)

	for _, f := range files {
		module, err := p.loadModule(ctx, f)
		if err != nil {
			continue
		}
		rctx := &rules.Context{Module: module, Resolver: p.resolver, Oracle: p.oracle, Settings: p.settings}
		violations := driver.Walk(rctx)

		var plans []transform.Plan
		for _, v := range violations {
			filePlans, reason := fixer.Fix(rctx, v)
			if reason != "" || len(filePlans) == 0 {
				outcome.Violations = append(outcome.Violations, withFailureReason(v, reason))
				continue
			}
			plans = append(plans, filePlans...)
			outcome.Violations = append(outcome.Violations, v)
		}

		if len(plans) == 0 {
			continue
		}
		if applied, err := p.gateway.ApplyAll(plans); err != nil {
			_ = p.gateway.Restore(f, applied) // all of the file's plans or none
			continue
		}
		outcome.FilesChanged++
		p.cache.Invalidate(f)
	}
	return outcome
}

// runGated runs the full Audit Pipeline first; if it reports any blocking
// pass, the fix pass is skipped with a reason naming that stage.
func (p *Pipeline) runGated(ctx context.Context, name string, files []string, commentOnly bool) (PassOutcome, error) {
	auditResult, err := p.auditor.Run(ctx, files)
	if err != nil {
		return PassOutcome{}, err
	}
	if auditResult.Blocked() {
		return PassOutcome{Name: name, Skipped: true, SkipReason: fmt.Sprintf("audit blocked by %s", auditResult.BlockedBy)}, nil
	}
	return p.runRuleDrivenPass(ctx, name, files, commentOnly), nil
}

// runRuleDrivenPass parses each file, walks every Checkable, and applies
// fixes for violations whose comment-only-ness matches commentOnly.
func (p *Pipeline) runRuleDrivenPass(ctx context.Context, name string, files []string, commentOnly bool) PassOutcome {
	driver := rules.NewDriver(p.registry, p.checkables, nil)
	outcome := PassOutcome{Name: name}

	for _, f := range files {
		module, err := p.loadModule(ctx, f)
		if err != nil {
			continue
		}
		rctx := &rules.Context{Module: module, Resolver: p.resolver, Oracle: p.oracle, Settings: p.settings}
		violations := driver.Walk(rctx)

		var plans []transform.Plan
		for _, v := range violations {
			if !p.registry.IsFixable(v.Code) {
				continue
			}
			if p.registry.IsCommentOnly(v.Code) != commentOnly {
				continue
			}
			fixer, ok := p.fixables[v.Code]
			if !ok {
				continue
			}
			filePlans, reason := fixer.Fix(rctx, v)
			if reason != "" || len(filePlans) == 0 {
				outcome.Violations = append(outcome.Violations, withFailureReason(v, reason))
				continue
			}
			plans = append(plans, filePlans...)
			outcome.Violations = append(outcome.Violations, v)
		}

		if len(plans) == 0 {
			continue
		}
		applied, err := p.gateway.ApplyAll(plans)
		if err != nil {
			_ = p.gateway.Restore(f, applied) // undo the plans applied before the failure
			continue // file's fixes are rejected; violation already recorded above
		}
		p.cache.Invalidate(f)

		if rejectReason := p.validateFile(ctx, f); rejectReason != "" {
			if restoreErr := p.gateway.Restore(f, applied); restoreErr == nil {
				p.cache.Invalidate(f)
				outcome.FilesRejected++
				for i := range outcome.Violations {
					if outcome.Violations[i].Path == f && outcome.Violations[i].FixFailureReason == "" {
						outcome.Violations[i].FixFailureReason = rejectReason
					}
				}
				continue
			}
		}
		outcome.FilesChanged++
	}
	return outcome
}

// validateFile runs the configured TestValidator, if any, after a file's
// fixes have been applied. An empty return means validation passed or was
// skipped (no validator configured, or the backing tool isn't installed);
// a non-empty return is the ValidationFailure reason to restore and reject.
func (p *Pipeline) validateFile(ctx context.Context, file string) string {
	if p.validator == nil || !p.validator.Available() {
		return ""
	}
	if err := p.validator.Validate(ctx, p.rootDir); err != nil {
		return fmt.Sprintf("validation failed: %s", err.Error())
	}
	return ""
}

func withFailureReason(v rules.Violation, reason string) rules.Violation {
	v.FixFailureReason = reason
	return v
}

func (p *Pipeline) loadModule(ctx context.Context, filePath string) (*astmodel.Module, error) {
	if m, ok := p.cache.Get(filePath); ok {
		return m, nil
	}
	content, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}
	module, err := p.parser.Parse(ctx, content, filePath)
	if err != nil {
		return nil, err
	}
	if l, ok := p.resolver.Resolve(module.DottedName, module.AbsPath, nil); ok {
		module.Layer = string(l)
		module.LayerResolved = true
	}
	p.cache.Put(module)
	return module, nil
}
