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
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"time"
)

// ruffDiagnostic is the shape of one entry in `ruff check --output-format=json`.
type ruffDiagnostic struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	Filename string `json:"filename"`
	Fix      *struct {
		Applicability string `json:"applicability"`
	} `json:"fix"`
	Location struct {
		Row    int `json:"row"`
		Column int `json:"column"`
	} `json:"location"`
}

// RuffAdapter wraps the `ruff check` CLI, configured with a rule selection
// and policy so the same binary backs two distinct pipeline passes:
// imports/typing (I, UP, B) and code quality (E, F, W, C90).
type RuffAdapter struct {
	name    string
	exec    execConfig
	select_ []string
}

// NewRuffImportsTypingAdapter backs audit pass 2 / fix pass 1.
func NewRuffImportsTypingAdapter() *RuffAdapter {
	return newRuffAdapter("ruff-imports-typing", []string{"I", "UP", "B"}, &RuffImportsTypingPolicy)
}

// NewRuffQualityAdapter backs audit pass 5 / fix pass 5.
func NewRuffQualityAdapter() *RuffAdapter {
	return newRuffAdapter("ruff-quality", []string{"E", "F", "W", "C90"}, &RuffQualityPolicy)
}

func newRuffAdapter(name string, select_ []string, policy *RulePolicy) *RuffAdapter {
	args := []string{"check", "--output-format=json", "--select", joinComma(select_)}
	return &RuffAdapter{
		name:    name,
		exec:    execConfig{command: "ruff", args: args, available: detect("ruff"), policy: policy},
		select_: select_,
	}
}

func joinComma(parts []string) string {
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += ","
		}
		out += p
	}
	return out
}

func (a *RuffAdapter) Name() string    { return a.name }
func (a *RuffAdapter) Available() bool { return a.exec.available }

func (a *RuffAdapter) Run(ctx context.Context, filePath string) (*Result, error) {
	return a.exec.run(ctx, filePath, func(raw []byte) ([]Issue, error) {
		var issues []Issue
		err := decodeJSONLines(raw, func(msg json.RawMessage) error {
			var d ruffDiagnostic
			if err := json.Unmarshal(msg, &d); err != nil {
				return err
			}
			issues = append(issues, Issue{
				File:       d.Filename,
				Line:       d.Location.Row,
				Column:     d.Location.Column,
				Rule:       d.Code,
				Message:    d.Message,
				CanAutoFix: d.Fix != nil,
			})
			return nil
		})
		return issues, err
	})
}

// Fix runs `ruff check --fix` against filePath, modifying it in place for
// the adapter's rule selection. It backs the Fix Pipeline's external
// quick-fix passes (1 and 5), neither of which is gated on a clean audit.
func (a *RuffAdapter) Fix(ctx context.Context, filePath string) error {
	if !a.exec.available {
		return nil
	}
	args := []string{"check", "--fix", "--exit-zero", "--select", joinComma(a.select_), filePath}
	cmdCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	cmd := exec.CommandContext(cmdCtx, "ruff", args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if cmdCtx.Err() == context.DeadlineExceeded {
			return fmt.Errorf("ruff --fix: timed out: %s", stderr.String())
		}
		return fmt.Errorf("ruff --fix failed: %w: %s", err, stderr.String())
	}
	return nil
}
