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
	"strconv"
	"strings"
)

// MyPyAdapter wraps `mypy --no-error-summary` and backs audit pass 3.
type MyPyAdapter struct {
	exec execConfig
}

func NewMyPyAdapter() *MyPyAdapter {
	return &MyPyAdapter{exec: execConfig{
		command:   "mypy",
		args:      []string{"--no-error-summary", "--no-color-output"},
		available: detect("mypy"),
		policy:    &MyPyPolicy,
	}}
}

func (a *MyPyAdapter) Name() string    { return "mypy" }
func (a *MyPyAdapter) Available() bool { return a.exec.available }

func (a *MyPyAdapter) Run(ctx context.Context, filePath string) (*Result, error) {
	return a.exec.run(ctx, filePath, parseMyPyOutput)
}

// parseMyPyOutput handles mypy's default "file:line: severity: message"
// text format (no JSON output is stable across mypy versions).
func parseMyPyOutput(raw []byte) ([]Issue, error) {
	var issues []Issue
	scanner := bufio.NewScanner(bytes.NewReader(raw))
	for scanner.Scan() {
		line := scanner.Text()
		parts := strings.SplitN(line, ":", 4)
		if len(parts) < 4 {
			continue
		}
		lineNo, _ := strconv.Atoi(strings.TrimSpace(parts[1]))
		rest := strings.TrimSpace(parts[2])
		msg := strings.TrimSpace(parts[3])
		severity := "note"
		if idx := strings.Index(rest, " "); idx >= 0 {
			severity = rest[:idx]
		} else {
			severity = rest
		}
		issues = append(issues, Issue{
			File:    parts[0],
			Line:    lineNo,
			Rule:    severity,
			Message: msg,
		})
	}
	return issues, scanner.Err()
}
