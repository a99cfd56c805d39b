// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/archsentry/archsentry/internal/astmodel"
	"github.com/archsentry/archsentry/internal/audit"
	"github.com/archsentry/archsentry/internal/audit/linteradapter"
	"github.com/archsentry/archsentry/internal/audittrail"
	"github.com/archsentry/archsentry/internal/config"
	"github.com/archsentry/archsentry/internal/cst"
	"github.com/archsentry/archsentry/internal/fix"
	"github.com/archsentry/archsentry/internal/layer"
	"github.com/archsentry/archsentry/internal/rules"
	"github.com/archsentry/archsentry/internal/rules/checks"
)

// configFileName is the project-root config file's conventional name.
const configFileName = ".excelsior.yaml"

// engineOptions carries CLI-flag-derived overrides into buildEngine without
// exposing the audit/fix package option types directly to every caller.
type engineOptions struct {
	auditOpts []audit.Option
	fixOpts   []fix.Option
}

type engineOption func(*engineOptions)

func withAuditOption(o audit.Option) engineOption {
	return func(e *engineOptions) { e.auditOpts = append(e.auditOpts, o) }
}

func withFixOption(o fix.Option) engineOption {
	return func(e *engineOptions) { e.fixOpts = append(e.fixOpts, o) }
}

// engine bundles every long-lived component a check/fix/verify invocation
// needs, built once per command from the project-root config.
type engine struct {
	cfg      config.Config
	registry *rules.Registry
	cache    *astmodel.Cache
	resolver *layer.Resolver
	settings rules.Settings
	audit    *audit.Pipeline
	fix      *fix.Pipeline
	trail    *audittrail.Trail
	gateway  *cst.Gateway
}

func buildEngine(root string, opts ...engineOption) (*engine, error) {
	var cfgOpt engineOptions
	for _, o := range opts {
		o(&cfgOpt)
	}
	cfgPath := filepath.Join(root, configFileName)
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", configFileName, err)
	}

	registry, err := rules.LoadDefaultCatalog()
	if err != nil {
		return nil, fmt.Errorf("loading rule catalog: %w", err)
	}

	settings := cfg.ToSettings()
	resolver := cfg.ToResolver()
	cache := astmodel.NewCache()
	checkables := checks.AllCheckables(settings)
	stateful := checks.AllStateful(settings)
	fixables := checks.Fixables(settings)

	tools := cfg.Tools()
	architectural := audit.NewArchitectural(cache, resolver, settings, registry, checkables, stateful)
	importLinter := linteradapter.NewImportLinterAdapter(filepath.Join(root, "setup.cfg"))
	ruffImports := linteradapter.NewRuffImportsTypingAdapter()
	mypy := linteradapter.NewMyPyAdapter()
	ruffQuality := linteradapter.NewRuffQualityAdapter()

	auditOpts := append([]audit.Option{audit.WithToolsEnabled(tools.Ruff, tools.ImportLinter, tools.MyPy)}, cfgOpt.auditOpts...)
	auditPipeline := audit.New(importLinter, ruffImports, mypy, architectural, ruffQuality, auditOpts...)

	gateway := cst.New()
	validatorOpt := fix.WithValidator(fix.NewPytestValidator(root), root)
	fixOpts := append([]fix.Option{validatorOpt}, cfgOpt.fixOpts...)
	fixPipeline := fix.New(registry, checkables, fixables, cache, resolver, settings, gateway, auditPipeline, ruffImports, ruffQuality, fixOpts...)

	return &engine{
		cfg: cfg, registry: registry, cache: cache, resolver: resolver, settings: settings,
		audit: auditPipeline, fix: fixPipeline, trail: audittrail.New(root), gateway: gateway,
	}, nil
}

// discoverPythonFiles walks root for *.py files, skipping common
// vendored/cache directories so a check/fix run never audits them.
func discoverPythonFiles(root string) ([]string, error) {
	var files []string
	skip := map[string]bool{".git": true, ".venv": true, "venv": true, "__pycache__": true, "node_modules": true, ".excelsior": true}
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if skip[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasSuffix(path, ".py") {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

func projectRoot() string {
	wd, err := os.Getwd()
	if err != nil {
		return "."
	}
	return wd
}
