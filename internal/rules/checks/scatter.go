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
	"sort"
	"strings"
	"sync"

	"github.com/archsentry/archsentry/internal/astmodel"
	"github.com/archsentry/archsentry/internal/rules"
)

// ScatterAnalyzer implements W9030 as a cross-file accumulator rather than
// a per-node Checkable: it must see every file's definition-context string
// literals before it can decide whether one is duplicated. The audit
// pipeline drives it directly — RecordModule once per file during the
// (possibly parallel) per-file pass, then a single Reduce call in a final,
// single-threaded step, per the engine's concurrency model.
type ScatterAnalyzer struct {
	mu        sync.Mutex
	locations map[string]map[string]bool // literal -> set of file paths
}

// NewScatterAnalyzer returns a ready-to-use analyzer.
func NewScatterAnalyzer() *ScatterAnalyzer {
	return &ScatterAnalyzer{locations: make(map[string]map[string]bool)}
}

// RecordModule scans one module's AST for string/numeric literals sitting
// directly inside a configured definition context (by default list, set,
// and dict literals) and records the (literal, file) pair. Safe to call
// concurrently from independent per-worker AST caches.
func (s *ScatterAnalyzer) RecordModule(ctx *rules.Context) {
	if ctx.Module == nil || ctx.Module.Root == nil {
		return
	}
	contexts := ctx.Settings.ScatterDefinitionContexts
	if len(contexts) == 0 {
		contexts = []astmodel.NodeKind{astmodel.KindDict, astmodel.KindList, astmodel.KindSet}
	}
	allowed := make(map[astmodel.NodeKind]bool, len(contexts))
	for _, k := range contexts {
		allowed[k] = true
	}
	path := ctx.Module.AbsPath

	s.mu.Lock()
	defer s.mu.Unlock()

	ctx.Module.Root.Walk(func(n *astmodel.Node) {
		if !allowed[n.Kind] {
			return
		}
		for _, c := range n.Children {
			if c.Kind != astmodel.KindConst {
				continue
			}
			lit := normalizeLiteral(c.Value)
			if lit == "" {
				continue
			}
			if s.locations[lit] == nil {
				s.locations[lit] = make(map[string]bool)
			}
			s.locations[lit][path] = true
		}
	})
}

func normalizeLiteral(raw string) string {
	v := strings.TrimSpace(raw)
	v = strings.Trim(v, `"'`)
	if len(v) < 3 {
		return "" // too short to be a meaningful duplicated identifier.
	}
	return v
}

// Reduce emits one W9030 violation per literal duplicated across two or
// more distinct files, deterministically ordered.
func (s *ScatterAnalyzer) Reduce() []rules.Violation {
	s.mu.Lock()
	defer s.mu.Unlock()

	var literals []string
	for lit, paths := range s.locations {
		if len(paths) >= 2 {
			literals = append(literals, lit)
		}
	}
	sort.Strings(literals)

	var out []rules.Violation
	for _, lit := range literals {
		paths := make([]string, 0, len(s.locations[lit]))
		for p := range s.locations[lit] {
			paths = append(paths, p)
		}
		sort.Strings(paths)
		msg := fmt.Sprintf("literal %q appears in definition contexts across %d files: %s", lit, len(paths), strings.Join(paths, ", "))
		out = append(out, rules.Violation{
			Code:    "W9030",
			Message: msg,
			Path:    paths[0],
			Symbol:  lit,
		})
	}
	return out
}
