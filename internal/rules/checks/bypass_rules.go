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
	"fmt"
	"strings"

	"github.com/archsentry/archsentry/internal/astmodel"
	"github.com/archsentry/archsentry/internal/rules"
)

// disableDirectivePrefix is the comment token source files use to suppress
// a rule for one line, e.g. "# excelsior: disable=W9001".
const disableDirectivePrefix = "excelsior: disable="

// justificationMarker must appear on the same line or the line immediately
// above a disable directive for it to be honored.
const justificationMarker = "JUSTIFICATION:"

// AntiBypass implements W9501. It works directly over raw source text
// rather than the AST — a disable directive inside a string literal or a
// syntactically broken file must still be caught — and is invoked by the
// driver once per module via the Module node.
type AntiBypass struct{}

func (AntiBypass) Code() string        { return "W9501" }
func (AntiBypass) Description() string { return "a rule-disable directive must carry an adjacent justification" }
func (AntiBypass) Subscriptions() []astmodel.NodeKind {
	return []astmodel.NodeKind{astmodel.KindModule}
}

func (AntiBypass) Check(ctx *rules.Context, n *astmodel.Node) []rules.Violation {
	if ctx.Module == nil || len(ctx.Module.Source) == 0 {
		return nil
	}
	path := pathOf(ctx)
	lines := strings.Split(string(ctx.Module.Source), "\n")
	var out []rules.Violation
	for i, line := range lines {
		idx := strings.Index(line, disableDirectivePrefix)
		if idx < 0 {
			continue
		}
		if strings.Contains(line, justificationMarker) {
			continue
		}
		if i > 0 && strings.Contains(lines[i-1], justificationMarker) {
			continue
		}
		rule := strings.TrimSpace(line[idx+len(disableDirectivePrefix):])
		v := rules.Violation{
			Code:    "W9501",
			Message: fmt.Sprintf("disable directive for %s has no adjacent JUSTIFICATION comment", rule),
			Path:    path,
			Line:    i + 1,
			Symbol:  rule,
		}
		out = append(out, v)
	}
	return out
}
