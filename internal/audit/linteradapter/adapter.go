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

// LinterAdapter is the port every external tool the audit pipeline shells
// out to must satisfy. Callers never depend on a concrete adapter type.
type LinterAdapter interface {
	// Name identifies the adapter for logs, metrics, and Handover grouping.
	Name() string
	// Available reports whether the backing executable was found in PATH.
	Available() bool
	// Run executes the tool against filePath and returns a normalized
	// Result. When the tool is unavailable, Run returns a non-blocking
	// empty Result rather than an error.
	Run(ctx context.Context, filePath string) (*Result, error)
}

// execConfig is shared plumbing for command-line adapters.
type execConfig struct {
	command   string
	args      []string
	timeout   time.Duration
	available bool
	policy    *RulePolicy
}

func detect(command string) bool {
	_, err := exec.LookPath(command)
	return err == nil
}

func (c *execConfig) run(ctx context.Context, filePath string, parse func([]byte) ([]Issue, error)) (*Result, error) {
	start := time.Now()
	if !c.available {
		return &Result{Valid: true, Available: false, Tool: c.command, Duration: time.Since(start)}, nil
	}

	timeout := c.timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	cmdCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	args := append(append([]string{}, c.args...), filePath)
	cmd := exec.CommandContext(cmdCtx, c.command, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if cmdCtx.Err() == context.DeadlineExceeded {
		return nil, fmt.Errorf("%s: timed out after %s: %s", c.command, timeout, stderr.String())
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	// Many linters exit non-zero when they find issues; only treat it as
	// a tool failure if there's no stdout to parse.
	if err != nil && stdout.Len() == 0 {
		return nil, fmt.Errorf("%s failed: %w: %s", c.command, err, stderr.String())
	}

	issues, parseErr := parse(stdout.Bytes())
	if parseErr != nil {
		return nil, fmt.Errorf("%s: parsing output: %w", c.command, parseErr)
	}

	errs, warns, infos := ApplyPolicy(issues, c.policy)
	return &Result{
		Valid:     len(errs) == 0,
		Errors:    errs,
		Warnings:  warns,
		Infos:     infos,
		Duration:  time.Since(start),
		Tool:      c.command,
		Available: true,
	}, nil
}

// decodeJSONLines is a small helper most JSON-emitting linters can reuse:
// it accepts either a single JSON array or newline-delimited JSON objects.
func decodeJSONLines(raw []byte, each func(json.RawMessage) error) error {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil
	}
	if trimmed[0] == '[' {
		var arr []json.RawMessage
		if err := json.Unmarshal(trimmed, &arr); err != nil {
			return err
		}
		for _, item := range arr {
			if err := each(item); err != nil {
				return err
			}
		}
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(trimmed))
	for dec.More() {
		var item json.RawMessage
		if err := dec.Decode(&item); err != nil {
			return err
		}
		if err := each(item); err != nil {
			return err
		}
	}
	return nil
}
