// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package cst

import (
	"fmt"
	"strings"

	"github.com/archsentry/archsentry/internal/transform"
)

// rewriteFunc applies one Plan kind to a file's lines (1-indexed access via
// line-1) and returns the edited lines. Line-based, not byte-offset, since
// every plan anchor carries a line/col pair rather than a byte span.
type rewriteFunc func(lines []string, plan transform.Plan) ([]string, error)

var rewriters = map[transform.Kind]rewriteFunc{
	transform.KindAddReturnType:           rewriteAddReturnType,
	transform.KindAddParameterType:        rewriteAddParameterType,
	transform.KindAddFrozenDecorator:      rewriteAddFrozenDecorator,
	transform.KindAddImport:               rewriteAddImport,
	transform.KindAddGovernanceComment:    rewriteAddGovernanceComment,
	transform.KindAddNoneReturnAnnotation: rewriteAddNoneReturnAnnotation,
	transform.KindStripDuplicateAnnotation: rewriteStripDuplicateAnnotation,
}

// namedTransformers holds KindApplyNamedTransformer handlers registered by
// callers that need a plan kind the gateway doesn't ship a built-in
// rewriter for (manual-only fix instructions rendered by the Handover
// writer, mostly). Register before Apply is called on such a plan.
var namedTransformers = map[string]rewriteFunc{}

// RegisterNamedTransformer installs a rewriteFunc under name for
// KindApplyNamedTransformer plans whose Params["transformer"] == name.
func RegisterNamedTransformer(name string, fn func(lines []string, plan transform.Plan) ([]string, error)) {
	namedTransformers[name] = fn
}

func lineIndex(lines []string, line int) (int, error) {
	idx := line - 1
	if idx < 0 || idx >= len(lines) {
		return 0, fmt.Errorf("line %d out of range (file has %d lines)", line, len(lines))
	}
	return idx, nil
}

func rewriteAddReturnType(lines []string, plan transform.Plan) ([]string, error) {
	idx, err := lineIndex(lines, plan.Anchor.StartLine)
	if err != nil {
		return nil, err
	}
	typ := plan.Params["type"]
	if typ == "" {
		return nil, fmt.Errorf("add_return_type: missing type param")
	}
	line := lines[idx]
	colon := strings.LastIndex(line, ":")
	if colon < 0 {
		return nil, fmt.Errorf("add_return_type: no ':' found on line %d", plan.Anchor.StartLine)
	}
	lines[idx] = line[:colon] + " -> " + typ + line[colon:]
	return lines, nil
}

func rewriteAddParameterType(lines []string, plan transform.Plan) ([]string, error) {
	idx, err := lineIndex(lines, plan.Anchor.StartLine)
	if err != nil {
		return nil, err
	}
	typ := plan.Params["type"]
	param := plan.Anchor.Identifier
	if typ == "" || param == "" {
		return nil, fmt.Errorf("add_parameter_type: missing type or identifier")
	}
	line := lines[idx]
	// Match the bare parameter name (not already annotated) at a word
	// boundary so we don't clobber a substring of another identifier.
	old := param
	replacement := param + ": " + typ
	lines[idx] = replaceWholeWordOnce(line, old, replacement)
	return lines, nil
}

func replaceWholeWordOnce(line, word, replacement string) string {
	for i := 0; i+len(word) <= len(line); i++ {
		if line[i:i+len(word)] != word {
			continue
		}
		beforeOK := i == 0 || !isIdentChar(line[i-1])
		afterOK := i+len(word) == len(line) || !isIdentChar(line[i+len(word)])
		if beforeOK && afterOK {
			return line[:i] + replacement + line[i+len(word):]
		}
	}
	return line
}

func isIdentChar(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

func rewriteAddFrozenDecorator(lines []string, plan transform.Plan) ([]string, error) {
	idx, err := lineIndex(lines, plan.Anchor.StartLine)
	if err != nil {
		return nil, err
	}
	decorator := plan.Params["decorator"]
	if decorator == "" {
		decorator = "dataclass(frozen=True)"
	}
	indent := leadingWhitespace(lines[idx])
	decoLine := indent + "@" + strings.TrimPrefix(decorator, "@")
	return insertBefore(lines, idx, decoLine), nil
}

func rewriteAddImport(lines []string, plan transform.Plan) ([]string, error) {
	stmt := plan.Params["import"]
	if stmt == "" {
		return nil, fmt.Errorf("add_import: missing import param")
	}
	for _, l := range lines {
		if strings.TrimSpace(l) == strings.TrimSpace(stmt) {
			return lines, nil // already present
		}
	}
	insertAt := 0
	if plan.Anchor.StartLine > 0 {
		insertAt, _ = lineIndex(lines, plan.Anchor.StartLine)
	}
	return insertBefore(lines, insertAt, stmt), nil
}

func rewriteAddGovernanceComment(lines []string, plan transform.Plan) ([]string, error) {
	idx, err := lineIndex(lines, plan.Anchor.StartLine)
	if err != nil {
		return nil, err
	}
	comment := plan.Params["comment"]
	if comment == "" {
		return nil, fmt.Errorf("add_governance_comment: missing comment param")
	}
	indent := leadingWhitespace(lines[idx])
	return insertBefore(lines, idx, indent+"# "+comment), nil
}

func rewriteAddNoneReturnAnnotation(lines []string, plan transform.Plan) ([]string, error) {
	idx, err := lineIndex(lines, plan.Anchor.StartLine)
	if err != nil {
		return nil, err
	}
	line := lines[idx]
	colon := strings.LastIndex(line, ":")
	if colon < 0 {
		return nil, fmt.Errorf("add_none_return_annotation: no ':' found on line %d", plan.Anchor.StartLine)
	}
	lines[idx] = line[:colon] + " -> None" + line[colon:]
	return lines, nil
}

func rewriteStripDuplicateAnnotation(lines []string, plan transform.Plan) ([]string, error) {
	idx, err := lineIndex(lines, plan.Anchor.StartLine)
	if err != nil {
		return nil, err
	}
	dup := plan.Params["text"]
	if dup == "" {
		return nil, fmt.Errorf("strip_duplicate_annotation: missing text param")
	}
	lines[idx] = strings.Replace(lines[idx], dup, "", 1)
	return lines, nil
}

func insertBefore(lines []string, idx int, newLine string) []string {
	out := make([]string, 0, len(lines)+1)
	out = append(out, lines[:idx]...)
	out = append(out, newLine)
	out = append(out, lines[idx:]...)
	return out
}

func leadingWhitespace(line string) string {
	i := 0
	for i < len(line) && (line[i] == ' ' || line[i] == '\t') {
		i++
	}
	return line[:i]
}
