// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package transform defines TransformationPlan, the only currency accepted
// by the CST Gateway at its boundary. Fix() implementations on rules in
// internal/rules/checks build Plans; nothing downstream of the Rule Engine
// may accept a raw rewriter object instead.
package transform

// Kind enumerates the transformation kinds the CST Gateway understands.
// Unrecognized kinds must fail loudly at the gateway rather than silently
// no-op.
type Kind string

const (
	KindAddReturnType          Kind = "add_return_type"
	KindAddParameterType       Kind = "add_parameter_type"
	KindAddFrozenDecorator     Kind = "add_frozen_decorator"
	KindAddImport              Kind = "add_import"
	KindAddGovernanceComment   Kind = "add_governance_comment"
	KindAddPyTypedMarker       Kind = "add_py_typed_marker"
	KindAddInitFile            Kind = "add_init_file"
	KindAddNoneReturnAnnotation Kind = "add_none_return_annotation"
	KindStripDuplicateAnnotation Kind = "strip_duplicate_annotation"
	KindApplyNamedTransformer  Kind = "apply_named_transformer"
)

// Anchor locates the edit point: a node kind, an identifying name, and the
// byte/line span of the node it targets.
type Anchor struct {
	NodeKind  string
	Identifier string
	StartLine int
	StartCol  int
	EndLine   int
	EndCol    int
}

// Plan is a declarative, side-effect-free description of a source edit.
// Plans own everything the CST Gateway needs to execute them without
// re-touching the AST.
type Plan struct {
	Kind       Kind
	TargetPath string
	Anchor     Anchor
	Params     map[string]string
}

// NewPlan builds a Plan with an initialized Params map.
func NewPlan(kind Kind, targetPath string, anchor Anchor) Plan {
	return Plan{Kind: kind, TargetPath: targetPath, Anchor: anchor, Params: make(map[string]string)}
}

// WithParam sets a param and returns the plan for chaining.
func (p Plan) WithParam(key, value string) Plan {
	if p.Params == nil {
		p.Params = make(map[string]string)
	}
	p.Params[key] = value
	return p
}
