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
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/archsentry/archsentry/internal/rules"
)

func runPlan(cmd *cobra.Command, args []string) {
	registry, err := rules.LoadDefaultCatalog()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(CLIExitError)
	}

	if len(args) == 0 {
		for _, code := range registry.Codes() {
			def, _ := registry.Get(code)
			fmt.Printf("%-8s %s\n", code, def.DisplayName)
		}
		return
	}

	def, ok := registry.Get(args[0])
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown rule code %q\n", args[0])
		os.Exit(CLIExitError)
	}

	if jsonOutput {
		_ = OutputJSON(def, false)
		return
	}

	fmt.Printf("%s — %s\n\n", def.Code, def.DisplayName)
	if def.ManualInstructions != "" {
		fmt.Printf("Manual instructions:\n  %s\n\n", def.ManualInstructions)
	}
	if def.ProactiveGuidance != "" {
		fmt.Printf("Proactive guidance:\n  %s\n\n", def.ProactiveGuidance)
	}
	fmt.Printf("fixable=%v comment_only=%v\n", def.Fixable, def.CommentOnly)
}
