// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package typeoracle is a best-effort type inference surface over the AST
// Model: explicit annotations first, literal inference second, bundled
// stub files last. Callers must treat a zero Type (Resolved == false) as
// "unknown, do not guess" — never as an absence of a type.
package typeoracle

import (
	"strings"
	"sync"

	"github.com/archsentry/archsentry/internal/astmodel"
)

// Type is a resolved, normalized qualified name (e.g. "builtins.str").
type Type struct {
	QName    string
	Resolved bool
}

// Unknown is the zero Type; callers must not guess when they observe it.
var Unknown = Type{}

// primitiveAliases normalizes short-form literal/annotation text to
// fully-qualified builtin names.
var primitiveAliases = map[string]string{
	"int":   "builtins.int",
	"str":   "builtins.str",
	"float": "builtins.float",
	"bool":  "builtins.bool",
	"bytes": "builtins.bytes",
	"list":  "builtins.list",
	"dict":  "builtins.dict",
	"set":   "builtins.set",
	"tuple": "builtins.tuple",
	"None":  "builtins.NoneType",
}

// trustedAuthorities is the registry for is_trusted_authority_call:
// receivers whose attribute chains are exempt from the Law of Demeter rule
// because they are well-known, safe, stable APIs. The set is fixed in code;
// no config setting extends it, and it holds no subprocess-result or
// primitive-type entries.
var trustedAuthorities = map[string]bool{
	"os.path": true,
	"pathlib": true,
	"re":      true,
}

// Oracle resolves types over an astmodel.Module using a Stub table that is
// loaded lazily and cached for the process lifetime.
type Oracle struct {
	stubsOnce sync.Once
	stubs     *StubTable
	loadStubs func() *StubTable
}

// NewOracle returns an Oracle whose stub table is built lazily via
// loadStubs on first use. Pass DefaultStubs if the caller has no custom
// stub source.
func NewOracle(loadStubs func() *StubTable) *Oracle {
	if loadStubs == nil {
		loadStubs = DefaultStubs
	}
	return &Oracle{loadStubs: loadStubs}
}

func (o *Oracle) stubTable() *StubTable {
	o.stubsOnce.Do(func() { o.stubs = o.loadStubs() })
	return o.stubs
}

// ResolveAnnotation normalizes an explicit type-hint string (source 1).
// Returns Unknown only for an empty annotation.
func (o *Oracle) ResolveAnnotation(annotation string) Type {
	annotation = strings.TrimSpace(annotation)
	if annotation == "" {
		return Unknown
	}
	return Type{QName: o.Normalize(annotation), Resolved: true}
}

// ResolveConst infers a type from a Const node's literal text (source 2).
func (o *Oracle) ResolveConst(n *astmodel.Node) Type {
	if n == nil || n.Kind != astmodel.KindConst {
		return Unknown
	}
	v := strings.TrimSpace(n.Value)
	switch {
	case strings.HasPrefix(v, `"`) || strings.HasPrefix(v, "'"):
		return Type{QName: "builtins.str", Resolved: true}
	case v == "True" || v == "False":
		return Type{QName: "builtins.bool", Resolved: true}
	case v == "None":
		return Type{QName: "builtins.NoneType", Resolved: true}
	case isFloatLiteral(v):
		return Type{QName: "builtins.float", Resolved: true}
	case isIntLiteral(v):
		return Type{QName: "builtins.int", Resolved: true}
	default:
		return Unknown
	}
}

// ResolveStub looks up qname in the bundled stub table (source 3).
func (o *Oracle) ResolveStub(qname string) Type {
	t, ok := o.stubTable().Lookup(qname)
	if !ok {
		return Unknown
	}
	return Type{QName: t, Resolved: true}
}

// Resolve tries all three sources in order for a parameter/return
// annotation string plus an optional literal node fallback.
func (o *Oracle) Resolve(annotation string, literal *astmodel.Node) Type {
	if t := o.ResolveAnnotation(annotation); t.Resolved {
		return t
	}
	if t := o.ResolveConst(literal); t.Resolved {
		return t
	}
	return Unknown
}

// Normalize maps a short primitive alias to its fully-qualified name,
// leaving already-qualified or unrecognized names untouched.
func (o *Oracle) Normalize(name string) string {
	name = strings.TrimSpace(name)
	if qname, ok := primitiveAliases[name]; ok {
		return qname
	}
	return name
}

// IsPrimitive reports whether qname is a builtin primitive.
func (o *Oracle) IsPrimitive(qname string) bool {
	for _, v := range primitiveAliases {
		if v == qname {
			return true
		}
	}
	return strings.HasPrefix(qname, "builtins.")
}

// IsStdlibQName reports whether qname belongs to the host language's
// standard library, per the stub table's module index.
func (o *Oracle) IsStdlibQName(qname string) bool {
	return o.stubTable().IsStdlib(qname)
}

// IsFluentCall reports whether a call's resolved return type equals its
// receiver's type — a fluent/builder-style chain link that Law of Demeter
// treats as a single hop rather than traversal depth.
func (o *Oracle) IsFluentCall(receiverType, returnType Type) bool {
	return receiverType.Resolved && returnType.Resolved && receiverType.QName == returnType.QName
}

// IsTrustedAuthorityCall reports whether receiverQName is a well-known,
// stable API exempted from Law of Demeter chain-length checks.
func (o *Oracle) IsTrustedAuthorityCall(receiverQName string) bool {
	if trustedAuthorities[receiverQName] {
		return true
	}
	for prefix := range trustedAuthorities {
		if strings.HasPrefix(receiverQName, prefix+".") {
			return true
		}
	}
	return false
}

func isIntLiteral(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if r == '-' && i == 0 {
			continue
		}
		if r < '0' || r > '9' {
			if r == '_' {
				continue
			}
			return false
		}
	}
	return true
}

func isFloatLiteral(s string) bool {
	if !strings.Contains(s, ".") {
		return false
	}
	for i, r := range s {
		if (r == '-' && i == 0) || r == '.' || r == '_' {
			continue
		}
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
