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
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/archsentry/archsentry/internal/audit"
)

func linterFilterOption(selector string) (audit.Option, error) {
	switch selector {
	case "", "all":
		return nil, nil
	case "import":
		return audit.WithOnly(audit.BlockedByImportLinter), nil
	case "typing":
		return audit.WithOnly(audit.BlockedByRuffImportTyping), nil
	case "types":
		return audit.WithOnly(audit.BlockedByMyPy), nil
	case "quality":
		return audit.WithOnly(audit.BlockedByRuffQuality), nil
	default:
		return nil, fmt.Errorf("unknown --linter value %q (want all|import|typing|types|quality)", selector)
	}
}

func runCheck(cmd *cobra.Command, args []string) {
	root := targetPath(args)

	opt, err := linterFilterOption(checkLinter)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(CLIExitError)
	}
	var engineOpts []engineOption
	if opt != nil {
		engineOpts = append(engineOpts, withAuditOption(opt))
	}

	eng, err := buildEngine(root, engineOpts...)
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

	if err := eng.trail.WriteAuditResult(result, eng.registry, !checkNoHealth); err != nil {
		fmt.Fprintln(os.Stderr, "warning: failed to persist audit artifacts:", err)
	}

	if jsonOutput {
		_ = OutputJSON(result, false)
	} else {
		for _, line := range result.SummaryLines() {
			fmt.Println(line)
		}
	}

	if result.Blocked() {
		os.Exit(CLIExitFindings)
	}
	os.Exit(CLIExitSuccess)
}

func targetPath(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return projectRoot()
}
