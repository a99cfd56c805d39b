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

import "github.com/archsentry/archsentry/internal/rules"

// AllCheckables returns one instance of every stateless rule in the
// catalog. Settings do not affect which rules are instantiated — only how
// they behave — so this ignores its rules.Settings parameter today but
// keeps it for forward compatibility with rules that may need to be
// conditionally registered.
func AllCheckables(_ rules.Settings) []rules.Checkable {
	return []rules.Checkable{
		IllegalDependency{},
		LayerIntegrity{},
		DIViolation{},
		ConstructorInjection{},
		ForbiddenIOInSilentLayer{},
		IllegalIOInSilentCore{},
		DefensiveNoneCheck{},
		UIConcernInDomain{},
		LawOfDemeter{},
		ProtectedMemberAccess{},
		MissingTypeHint{},
		BannedAny{},
		UninferableDependency{},
		NakedReturn{},
		MissingAbstraction{},
		GodFile{},
		DeepStructure{},
		NoTopLevelFunctions{},
		GlobalState{},
		MethodComplexity{},
		InterfaceSegregation{},
		ConcreteMethodStub{},
		ExceptionHygiene{},
		DelegationAntiPattern{},
		PatternSuggestionFactory{},
		PatternSuggestionStrategy{},
		PatternSuggestionState{},
		PatternSuggestionFacade{},
		PatternSuggestionBuilder{},
		PrivateMethodTest{},
		ContractIntegrity{},
		AntiBypass{},
		DomainImmutability{},
	}
}

// AllStateful returns one instance of every StatefulRule in the catalog.
func AllStateful(_ rules.Settings) []rules.StatefulRule {
	return []rules.StatefulRule{
		FragileTestMocks{},
	}
}

// Fixables lists the subset of AllCheckables that also implement Fixable,
// for callers (the Fix Pipeline) that need the narrower interface.
func Fixables(settings rules.Settings) []rules.Fixable {
	var out []rules.Fixable
	for _, c := range AllCheckables(settings) {
		if f, ok := c.(rules.Fixable); ok {
			out = append(out, f)
		}
	}
	return out
}
