// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package checks

import (
	"testing"

	"github.com/archsentry/archsentry/internal/layer"
	"github.com/archsentry/archsentry/internal/rules"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContractIntegrity_FlagsMissingProtocolUnderServicesDirectory(t *testing.T) {
	resolver := resolverForPath("infrastructure.services.billing", layer.Infrastructure)
	src := "class BillingService:\n    pass\n"
	mod := parseModule(t, "src/infrastructure/services/billing.py", src, resolver)
	ctx := newContext(t, mod, resolver, rules.DefaultSettings())

	violations := walkRule(ctx, ContractIntegrity{}, mod)
	require.Len(t, violations, 1)
	assert.Equal(t, "W9201", violations[0].Code)
}

func TestContractIntegrity_AllowsProtocolAncestorUnderServices(t *testing.T) {
	resolver := resolverForPath("infrastructure.services.billing", layer.Infrastructure)
	src := "class BillingService(BillingProtocol):\n    pass\n"
	mod := parseModule(t, "src/infrastructure/services/billing.py", src, resolver)
	ctx := newContext(t, mod, resolver, rules.DefaultSettings())

	violations := walkRule(ctx, ContractIntegrity{}, mod)
	assert.Empty(t, violations)
}

func TestContractIntegrity_SilentOutsideInfrastructure(t *testing.T) {
	resolver := resolverForPath("domain.billing", layer.Domain)
	src := "class BillingService:\n    pass\n"
	mod := parseModule(t, "src/domain/billing.py", src, resolver)
	ctx := newContext(t, mod, resolver, rules.DefaultSettings())

	violations := walkRule(ctx, ContractIntegrity{}, mod)
	assert.Empty(t, violations)
}

func TestContractIntegrity_InternalImplementationOverrideExempts(t *testing.T) {
	resolver := resolverForPath("infrastructure.services.billing", layer.Infrastructure)
	src := "class BillingService:\n    pass\n"
	mod := parseModule(t, "src/infrastructure/services/billing.py", src, resolver)
	settings := rules.DefaultSettings()
	settings.ContractIntegrity.InternalImplementation = []string{"BillingService"}
	ctx := newContext(t, mod, resolver, settings)

	violations := walkRule(ctx, ContractIntegrity{}, mod)
	assert.Empty(t, violations)
}

func TestContractIntegrity_RequireProtocolOverrideFlagsEvenOutsideDirectories(t *testing.T) {
	resolver := resolverForPath("infrastructure.widget", layer.Infrastructure)
	src := "class Widget:\n    pass\n"
	mod := parseModule(t, "src/infrastructure/widget.py", src, resolver)
	settings := rules.DefaultSettings()
	settings.ContractIntegrity.RequireProtocol = []string{"Widget"}
	ctx := newContext(t, mod, resolver, settings)

	violations := walkRule(ctx, ContractIntegrity{}, mod)
	require.Len(t, violations, 1)
	assert.Equal(t, "W9201", violations[0].Code)
}

func TestContractIntegrity_DataclassExempt(t *testing.T) {
	resolver := resolverForPath("infrastructure.services.dto", layer.Infrastructure)
	src := "@dataclass\nclass BillingDTO:\n    pass\n"
	mod := parseModule(t, "src/infrastructure/services/dto.py", src, resolver)
	ctx := newContext(t, mod, resolver, rules.DefaultSettings())

	violations := walkRule(ctx, ContractIntegrity{}, mod)
	assert.Empty(t, violations)
}

func TestContractIntegrity_AllowPrivatePrefixExempts(t *testing.T) {
	resolver := resolverForPath("infrastructure.services.billing", layer.Infrastructure)
	src := "class _BillingHelper:\n    pass\n"
	mod := parseModule(t, "src/infrastructure/services/billing.py", src, resolver)
	settings := rules.DefaultSettings()
	settings.ContractIntegrity.AllowPrivatePrefix = true
	ctx := newContext(t, mod, resolver, settings)

	violations := walkRule(ctx, ContractIntegrity{}, mod)
	assert.Empty(t, violations)
}

func TestContractIntegrity_SilentWhenNoDirectoryOrOverrideApplies(t *testing.T) {
	resolver := resolverForPath("infrastructure.widget", layer.Infrastructure)
	src := "class Widget:\n    pass\n"
	mod := parseModule(t, "src/infrastructure/widget.py", src, resolver)
	ctx := newContext(t, mod, resolver, rules.DefaultSettings())

	violations := walkRule(ctx, ContractIntegrity{}, mod)
	assert.Empty(t, violations)
}

func TestContractIntegrity_ServicesRequireProtocolFalseExemptsServicesDirectory(t *testing.T) {
	resolver := resolverForPath("infrastructure.services.billing", layer.Infrastructure)
	src := "class BillingService:\n    pass\n"
	mod := parseModule(t, "src/infrastructure/services/billing.py", src, resolver)
	settings := rules.DefaultSettings()
	settings.ContractIntegrity.ServicesRequireProtocol = false
	ctx := newContext(t, mod, resolver, settings)

	violations := walkRule(ctx, ContractIntegrity{}, mod)
	assert.Empty(t, violations, "services_require_protocol: false must exempt classes under services/ even though the path matches")
}

func TestContractIntegrity_AdaptersRequireProtocolFalseExemptsAdaptersDirectory(t *testing.T) {
	resolver := resolverForPath("infrastructure.adapters.billing", layer.Infrastructure)
	src := "class BillingAdapter:\n    pass\n"
	mod := parseModule(t, "src/infrastructure/adapters/billing.py", src, resolver)
	settings := rules.DefaultSettings()
	settings.ContractIntegrity.AdaptersRequireProtocol = false
	ctx := newContext(t, mod, resolver, settings)

	violations := walkRule(ctx, ContractIntegrity{}, mod)
	assert.Empty(t, violations)
}

func TestContractIntegrity_GatewaysRequireProtocolFalseExemptsGatewaysDirectory(t *testing.T) {
	resolver := resolverForPath("infrastructure.gateways.billing", layer.Infrastructure)
	src := "class BillingGateway:\n    pass\n"
	mod := parseModule(t, "src/infrastructure/gateways/billing.py", src, resolver)
	settings := rules.DefaultSettings()
	settings.ContractIntegrity.GatewaysRequireProtocol = false
	ctx := newContext(t, mod, resolver, settings)

	violations := walkRule(ctx, ContractIntegrity{}, mod)
	assert.Empty(t, violations)
}

func TestContractIntegrity_OtherRequireProtocolTrueFlagsNonMatchingDirectory(t *testing.T) {
	resolver := resolverForPath("infrastructure.widget", layer.Infrastructure)
	src := "class Widget:\n    pass\n"
	mod := parseModule(t, "src/infrastructure/widget.py", src, resolver)
	settings := rules.DefaultSettings()
	settings.ContractIntegrity.OtherRequireProtocol = true
	ctx := newContext(t, mod, resolver, settings)

	violations := walkRule(ctx, ContractIntegrity{}, mod)
	require.Len(t, violations, 1)
	assert.Equal(t, "W9201", violations[0].Code)
}
