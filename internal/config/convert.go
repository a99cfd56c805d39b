// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package config

import (
	"github.com/archsentry/archsentry/internal/layer"
	"github.com/archsentry/archsentry/internal/rules"
)

// ToSettings converts the loaded config into the rule engine's tuning
// surface, starting from rules.DefaultSettings: an empty project type,
// empty list or non-positive limit keeps the rule engine's default.
// VisibilityEnforcement and the whole ContractIntegrity block are copied
// as-is, zero values included.
func (c Config) ToSettings() rules.Settings {
	s := rules.DefaultSettings()
	ca := c.CleanArch

	if ca.ProjectType != "" {
		s.ProjectType = string(ca.ProjectType)
	}
	s.VisibilityEnforcement = ca.VisibilityEnforcement
	if len(ca.SilentLayers) > 0 {
		s.SilentLayers = make([]layer.Layer, 0, len(ca.SilentLayers))
		for _, name := range ca.SilentLayers {
			s.SilentLayers = append(s.SilentLayers, layer.Layer(name))
		}
	}
	if len(ca.AllowedIOInterfaces) > 0 {
		s.AllowedIOInterfaces = ca.AllowedIOInterfaces
	}
	if len(ca.SharedKernelModules) > 0 {
		s.SharedKernelModules = make(map[string]bool, len(ca.SharedKernelModules))
		for _, m := range ca.SharedKernelModules {
			s.SharedKernelModules[m] = true
		}
	}
	if ca.ComplexityThreshold > 0 {
		s.ComplexityThreshold = ca.ComplexityThreshold
	}
	if ca.InterfaceSegregationLimit > 0 {
		s.InterfaceSegregationLimit = ca.InterfaceSegregationLimit
	}
	if ca.MockLimit > 0 {
		s.MockLimit = ca.MockLimit
	}

	s.ContractIntegrity = rules.ContractIntegritySettings{
		RequireProtocol:         ca.ContractIntegrity.RequireProtocol,
		InternalImplementation:  ca.ContractIntegrity.InternalImplementation,
		FrameworkBaseClasses:    ca.ContractIntegrity.FrameworkBaseClasses,
		AllowPrivatePrefix:      ca.ContractIntegrity.AllowPrivatePrefix,
		AllowInternalDecorator:  ca.ContractIntegrity.AllowInternalDecorator,
		ServicesRequireProtocol: ca.ContractIntegrity.ServicesRequireProtocol,
		AdaptersRequireProtocol: ca.ContractIntegrity.AdaptersRequireProtocol,
		GatewaysRequireProtocol: ca.ContractIntegrity.GatewaysRequireProtocol,
		OtherRequireProtocol:    ca.ContractIntegrity.OtherRequireProtocol,
	}

	return s
}

// ToResolver builds a layer.Resolver from the config's layer_map and
// shared_kernel_modules. RegexRules and ExceptionDecorators are left for
// the caller to extend; the config file only expresses the dotted-prefix
// and shared-kernel forms.
func (c Config) ToResolver() *layer.Resolver {
	r := layer.NewResolver()
	for modulePrefix, layerName := range c.CleanArch.LayerMap {
		r.LayerMap[modulePrefix] = layer.Layer(layerName)
	}
	for _, m := range c.CleanArch.SharedKernelModules {
		r.SharedKernelModules[m] = true
	}
	return r
}

// ToolsEnabled reports which external linter adapters the Gated Audit
// Pipeline should run, per the config's ruff_enabled/import_linter_enabled/
// mypy_enabled flags.
type ToolsEnabled struct {
	Ruff         bool
	ImportLinter bool
	MyPy         bool
}

func (c Config) Tools() ToolsEnabled {
	return ToolsEnabled{
		Ruff:         c.CleanArch.RuffEnabled,
		ImportLinter: c.CleanArch.ImportLinterEnabled,
		MyPy:         c.CleanArch.MyPyEnabled,
	}
}
