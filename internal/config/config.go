// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package config loads the project's .excelsior.yaml (its clean-arch
// namespace): the single source
// of truth for layer mapping, silent-layer I/O policy, contract-integrity
// overrides, and which external tools back the audit/fix pipelines.
package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// ProjectType narrows a handful of directory-convention defaults (not
// currently read by the layer resolver beyond documentation, but plumbed
// through so downstream tooling can specialize on it).
type ProjectType string

const (
	ProjectGeneric     ProjectType = "generic"
	ProjectCLIApp      ProjectType = "cli_app"
	ProjectWebLike     ProjectType = "web_like"
	ProjectDataPipeline ProjectType = "data_pipeline"
)

// ContractIntegrity mirrors the clean-arch.contract_integrity sub-table.
type ContractIntegrity struct {
	RequireProtocol         []string `yaml:"require_protocol"`
	InternalImplementation  []string `yaml:"internal_implementation"`
	FrameworkBaseClasses    []string `yaml:"framework_base_classes"`
	AllowPrivatePrefix      bool     `yaml:"allow_private_prefix"`
	AllowInternalDecorator  bool     `yaml:"allow_internal_decorator"`
	ServicesRequireProtocol bool     `yaml:"services_require_protocol"`
	AdaptersRequireProtocol bool     `yaml:"adapters_require_protocol"`
	GatewaysRequireProtocol bool     `yaml:"gateways_require_protocol"`
	OtherRequireProtocol    bool     `yaml:"other_require_protocol"`
}

// CleanArch is the `clean-arch` namespace of the project config file.
type CleanArch struct {
	ProjectType           ProjectType       `yaml:"project_type" validate:"omitempty,oneof=generic cli_app web_like data_pipeline"`
	VisibilityEnforcement bool              `yaml:"visibility_enforcement"`
	SilentLayers          []string          `yaml:"silent_layers"`
	AllowedIOInterfaces   []string          `yaml:"allowed_io_interfaces"`
	SharedKernelModules   []string          `yaml:"shared_kernel_modules"`
	LayerMap              map[string]string `yaml:"layer_map"`
	ContractIntegrity     ContractIntegrity `yaml:"contract_integrity"`
	ComplexityThreshold   int               `yaml:"complexity_threshold" validate:"omitempty,min=1"`
	InterfaceSegregationLimit int           `yaml:"interface_segregation_limit" validate:"omitempty,min=1"`
	MockLimit             int               `yaml:"mock_limit" validate:"omitempty,min=1"`
	RuffEnabled           bool              `yaml:"ruff_enabled"`
	ImportLinterEnabled   bool              `yaml:"import_linter_enabled"`
	MyPyEnabled           bool              `yaml:"mypy_enabled"`
}

// Config is the file's top-level shape.
type Config struct {
	CleanArch CleanArch `yaml:"clean-arch"`
}

var validate = validator.New()

// Default returns the documented baseline defaults used when no project
// config file is present.
func Default() Config {
	return Config{CleanArch: CleanArch{
		ProjectType:               ProjectGeneric,
		VisibilityEnforcement:     true,
		SilentLayers:              []string{"Domain", "UseCase"},
		AllowedIOInterfaces:       []string{},
		SharedKernelModules:       []string{},
		LayerMap:                  map[string]string{},
		ComplexityThreshold:       10,
		InterfaceSegregationLimit: 7,
		MockLimit:                 4,
		RuffEnabled:               true,
		ImportLinterEnabled:       true,
		MyPyEnabled:               true,
		ContractIntegrity: ContractIntegrity{
			RequireProtocol:         []string{},
			InternalImplementation:  []string{},
			FrameworkBaseClasses:    []string{},
			ServicesRequireProtocol: true,
			AdaptersRequireProtocol: true,
			GatewaysRequireProtocol: true,
		},
	}}
}

// Load reads and validates a config file at path. A missing file is not an
// error: it yields Default().
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := validate.Struct(cfg.CleanArch); err != nil {
		return Config{}, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// WriteDefault writes Default() to path. The parent directory must already
// exist; none is created. Used by the `init` CLI command.
func WriteDefault(path string) error {
	data, err := yaml.Marshal(Default())
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
