// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package layer maps a module's dotted path and file path to a coarse
// architectural zone: Domain, UseCase, Interface, or Infrastructure. The
// algorithm is deterministic over (config, path) and never touches the AST
// except to read class decorators passed in by the caller.
package layer

import (
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// Layer is one configured architectural zone name.
type Layer string

const (
	Domain         Layer = "Domain"
	UseCase        Layer = "UseCase"
	Interface      Layer = "Interface"
	Infrastructure Layer = "Infrastructure"
)

// DefaultLayers is the built-in layer set, extensible via config.
var DefaultLayers = []Layer{Domain, UseCase, Interface, Infrastructure}

// RegexRule pairs a compiled file-path pattern with the layer it maps to.
type RegexRule struct {
	Pattern *regexp.Regexp
	Layer   Layer
}

// Resolver implements the Layer Resolver component: a pure function of
// (config, path), with no shared mutable state once built.
type Resolver struct {
	// LayerMap maps a dotted-module-path prefix to a layer. Longest
	// prefix wins.
	LayerMap map[string]Layer
	// RegexRules are applied, in order, to the absolute file path.
	RegexRules []RegexRule
	// SharedKernelModules are dotted module names that always opt out of
	// layer resolution (treated as an exception, rule 1).
	SharedKernelModules map[string]bool
	// ExceptionDecorators opt a class out of layer resolution (rule 1)
	// when present on the class node passed to Resolve.
	ExceptionDecorators map[string]bool
}

// NewResolver returns a Resolver with empty maps, ready for configuration.
func NewResolver() *Resolver {
	return &Resolver{
		LayerMap:            make(map[string]Layer),
		SharedKernelModules:  make(map[string]bool),
		ExceptionDecorators: make(map[string]bool),
	}
}

// Resolve maps modulePath/absPath to a Layer. The returned bool reports
// whether resolution succeeded; false means "unresolved" (rule 6), which
// W9017 reports when absPath lives under src/.
//
// classDecorators, when non-nil, are the decorator names attached to the
// class under consideration — used only for rule 1's opt-out exceptions.
func (r *Resolver) Resolve(modulePath, absPath string, classDecorators []string) (Layer, bool) {
	// Rule 1: exceptions.
	if r.SharedKernelModules[modulePath] {
		return "", false
	}
	for _, d := range classDecorators {
		if r.ExceptionDecorators[d] {
			return "", false
		}
	}

	// Rule 2: explicit layer_map, longest dotted-prefix match.
	if layer, ok := r.longestPrefixMatch(modulePath); ok {
		return layer, true
	}

	// Rule 3: regex patterns against the file path.
	normalized := filepath.ToSlash(absPath)
	for _, rule := range r.RegexRules {
		if rule.Pattern.MatchString(normalized) {
			return rule.Layer, true
		}
	}

	// Rule 4: directory-segment convention, case-insensitive.
	if layer, ok := conventionLayer(normalized); ok {
		return layer, true
	}

	// Rule 5: site-packages / .venv path, strict, not overridable by
	// convention (checked after convention, first match wins,
	// but site-packages segments never also match a layer directory in
	// practice; this ordering still satisfies "first match wins" since
	// convention would not have matched a dependency path).
	if isVendoredPath(normalized) {
		return Infrastructure, true
	}

	// Rule 6: unresolved.
	return "", false
}

func (r *Resolver) longestPrefixMatch(modulePath string) (Layer, bool) {
	best := ""
	var bestLayer Layer
	found := false
	for prefix, layer := range r.LayerMap {
		if prefix == modulePath || strings.HasPrefix(modulePath, prefix+".") {
			if len(prefix) > len(best) {
				best = prefix
				bestLayer = layer
				found = true
			}
		}
	}
	return bestLayer, found
}

var conventionSegments = map[string]Layer{
	"domain":         Domain,
	"use_cases":      UseCase,
	"usecases":       UseCase,
	"interface":      Interface,
	"interfaces":     Interface,
	"infrastructure": Infrastructure,
}

func conventionLayer(normalizedPath string) (Layer, bool) {
	segs := strings.Split(normalizedPath, "/")
	for _, seg := range segs {
		if layer, ok := conventionSegments[strings.ToLower(seg)]; ok {
			return layer, true
		}
	}
	return "", false
}

var vendoredSegments = map[string]bool{
	"site-packages": true,
	".venv":         true,
	"venv":          true,
	"dist-packages": true,
}

func isVendoredPath(normalizedPath string) bool {
	for _, seg := range strings.Split(normalizedPath, "/") {
		if vendoredSegments[strings.ToLower(seg)] {
			return true
		}
	}
	return false
}

// SortedLayerMapPrefixes returns LayerMap's keys sorted longest-first,
// useful for deterministic debug output.
func (r *Resolver) SortedLayerMapPrefixes() []string {
	out := make([]string, 0, len(r.LayerMap))
	for k := range r.LayerMap {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return len(out[i]) > len(out[j]) })
	return out
}
