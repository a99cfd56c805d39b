// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package linteradapter

import (
	"bufio"
	"bytes"
	"context"
	"strings"
)

// ImportLinterAdapter wraps the `lint-imports` CLI (the import-linter
// project), which checks layering contracts declared in its own config
// file rather than accepting a single target path. It backs audit pass 1.
type ImportLinterAdapter struct {
	exec execConfig
}

// NewImportLinterAdapter builds the adapter. configPath, if non-empty, is
// passed via --config.
func NewImportLinterAdapter(configPath string) *ImportLinterAdapter {
	args := []string{"--no-cache"}
	if configPath != "" {
		args = append(args, "--config", configPath)
	}
	return &ImportLinterAdapter{exec: execConfig{command: "lint-imports", args: args, available: detect("lint-imports"), policy: &ImportLinterPolicy}}
}

func (a *ImportLinterAdapter) Name() string    { return "import-linter" }
func (a *ImportLinterAdapter) Available() bool { return a.exec.available }

// Run ignores filePath: import-linter audits the whole project against its
// contracts file in one invocation, so every per-file call in a batch
// shares the same Result; callers should run it once per batch, not once
// per file.
func (a *ImportLinterAdapter) Run(ctx context.Context, filePath string) (*Result, error) {
	return a.exec.run(ctx, filePath, parseImportLinterOutput)
}

// parseImportLinterOutput scans lint-imports' human-readable report for
// "BROKEN" contract lines; the tool has no stable JSON output format.
func parseImportLinterOutput(raw []byte) ([]Issue, error) {
	var issues []Issue
	scanner := bufio.NewScanner(bytes.NewReader(raw))
	var currentContract string
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if strings.HasSuffix(line, "BROKEN") {
			currentContract = strings.TrimSpace(strings.TrimSuffix(line, "BROKEN"))
			issues = append(issues, Issue{Rule: "broken", Message: "contract broken: " + currentContract})
			continue
		}
		if strings.Contains(line, "->") && currentContract != "" && len(issues) > 0 {
			issues[len(issues)-1].Message += " (" + line + ")"
		}
	}
	return issues, scanner.Err()
}
