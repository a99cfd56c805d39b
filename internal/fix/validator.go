// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package fix

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
)

// TestValidator is the optional post-fix gate described by §4.5 step 6:
// after a rule-driven pass rewrites a file, run the project's test suite
// and report whether it still passes. A nil TestValidator (the default)
// means validation is skipped entirely, matching "optional" in the spec.
type TestValidator interface {
	Name() string
	Available() bool
	Validate(ctx context.Context, rootDir string) error
}

// PytestValidator shells out to `pytest` against the project root. It is
// the same exec.Command/exec.LookPath shape every linteradapter.Adapter
// uses, kept local to fix since it backs a single pipeline step rather
// than a pluggable audit pass.
type PytestValidator struct {
	rootDir   string
	available bool
}

// NewPytestValidator builds a validator rooted at rootDir. Available
// reports false when pytest isn't on PATH, so callers can skip the whole
// validation step rather than fail every fix run in a project with no
// Python test runner installed.
func NewPytestValidator(rootDir string) *PytestValidator {
	_, err := exec.LookPath("pytest")
	return &PytestValidator{rootDir: rootDir, available: err == nil}
}

func (p *PytestValidator) Name() string    { return "pytest" }
func (p *PytestValidator) Available() bool { return p.available }

// Validate runs the suite quietly and returns a non-nil error (wrapping
// stderr) on any non-zero exit, which callers treat as ValidationFailure:
// restore the file from backup, reject its fixes, continue to the next.
func (p *PytestValidator) Validate(ctx context.Context, rootDir string) error {
	if !p.available {
		return nil
	}
	cmd := exec.CommandContext(ctx, "pytest", "-q", rootDir)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("pytest: %w: %s", err, stderr.String())
	}
	return nil
}
