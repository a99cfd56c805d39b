// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/archsentry/archsentry/internal/audit"
)

const baselineFileName = "baseline.json"

func runVerify(cmd *cobra.Command, args []string) {
	root := targetPath(args)
	eng, err := buildEngine(root)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(CLIExitError)
	}

	files, err := discoverPythonFiles(root)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(CLIExitError)
	}

	result, err := eng.audit.Run(context.Background(), files)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(CLIExitError)
	}

	baselinePath := filepath.Join(root, ".excelsior", "check", baselineFileName)

	if verifyBaseline {
		raw, _ := json.MarshalIndent(result, "", "  ")
		if err := os.MkdirAll(filepath.Dir(baselinePath), 0755); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(CLIExitError)
		}
		if err := os.WriteFile(baselinePath, raw, 0644); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(CLIExitError)
		}
		fmt.Println("baseline written")
		os.Exit(CLIExitSuccess)
	}

	baseline, err := loadBaseline(baselinePath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "no baseline found; run `archsentry verify --baseline` first")
		os.Exit(CLIExitError)
	}

	regressed := countFindings(result) > countFindings(baseline)

	if jsonOutput {
		_ = OutputJSON(map[string]interface{}{
			"current":           result,
			"baseline_findings": countFindings(baseline),
			"current_findings":  countFindings(result),
			"regressed":         regressed,
		}, false)
	} else {
		fmt.Printf("baseline findings: %d\n", countFindings(baseline))
		fmt.Printf("current findings:  %d\n", countFindings(result))
		if regressed {
			fmt.Println("REGRESSED")
		} else {
			fmt.Println("no regression")
		}
	}

	if regressed || result.Blocked() {
		os.Exit(CLIExitFindings)
	}
	os.Exit(CLIExitSuccess)
}

func loadBaseline(path string) (audit.AuditResult, error) {
	var result audit.AuditResult
	raw, err := os.ReadFile(path)
	if err != nil {
		return result, err
	}
	err = json.Unmarshal(raw, &result)
	return result, err
}

func countFindings(result audit.AuditResult) int {
	n := 0
	for _, p := range result.Passes {
		n += len(p.Findings)
	}
	return n
}
