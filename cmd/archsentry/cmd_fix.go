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
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/archsentry/archsentry/internal/fix"
	"github.com/archsentry/archsentry/internal/handover"
)

func runFix(cmd *cobra.Command, args []string) {
	root := targetPath(args)
	eng, err := buildEngine(root, withFixOption(fix.WithComments(fixComments)))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(CLIExitError)
	}

	files, err := discoverPythonFiles(root)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(CLIExitError)
	}

	if fixManualOnly {
		reportManualOnly(eng, files)
		return
	}

	if fixConfirm && !confirmFix(files) {
		fmt.Println("aborted")
		os.Exit(CLIExitSuccess)
	}

	ctx := context.Background()
	result, err := eng.fix.Run(ctx, files)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(CLIExitError)
	}

	if fixIterative {
		for i := 0; i < 4; i++ { // bounded fixed-point search
			changed := false
			for _, p := range result.Passes {
				if p.FilesChanged > 0 {
					changed = true
				}
			}
			if !changed {
				break
			}
			result, err = eng.fix.Run(ctx, files)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(CLIExitError)
			}
		}
	}

	if jsonOutput {
		_ = OutputJSON(result, false)
	} else {
		printFixSummary(result)
	}
}

func printFixSummary(result fix.Result) {
	for _, p := range result.Passes {
		if p.Skipped {
			fmt.Printf("%-28s skipped (%s)\n", p.Name, p.SkipReason)
			continue
		}
		fmt.Printf("%-28s %d file(s) changed, %d rejected, %d violation(s) seen\n", p.Name, p.FilesChanged, p.FilesRejected, len(p.Violations))
	}
}

// reportManualOnly runs the audit, groups its findings, and prints every
// rule that carries manual_instructions without applying any edit.
func reportManualOnly(eng *engine, files []string) {
	result, err := eng.audit.Run(context.Background(), files)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(CLIExitError)
	}
	art := handover.Build(result, eng.registry)
	for _, g := range art.Groups {
		if g.ManualInstructions == nil {
			continue
		}
		fmt.Printf("%s (%d occurrence(s))\n  %s\n\n", g.Code, len(g.Occurrences), *g.ManualInstructions)
	}
}

func confirmFix(files []string) bool {
	fmt.Printf("About to run fixes across %d file(s). Continue? [y/N] ", len(files))
	reader := bufio.NewReader(os.Stdin)
	line, _ := reader.ReadString('\n')
	return strings.ToLower(strings.TrimSpace(line)) == "y"
}
