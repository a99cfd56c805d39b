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

import "github.com/spf13/cobra"

var (
	jsonOutput bool

	// check flags
	checkLinter   string
	checkNoHealth bool

	// fix flags
	fixIterative   bool
	fixManualOnly  bool
	fixComments    bool
	fixConfirm     bool

	// plan/blueprint/verify flags
	blueprintSource string
	verifyBaseline  bool

	rootCmd = &cobra.Command{
		Use:   "archsentry",
		Short: "Architectural governance for clean-architecture Python projects",
		Long: `archsentry audits a Python codebase against its configured clean-
architecture boundaries, reports violations grouped by rule, and can apply
safe autofixes where a rule defines one.`,
	}

	initCmd = &cobra.Command{
		Use:   "init",
		Short: "Write a default project config file",
		Run:   runInit,
	}

	checkCmd = &cobra.Command{
		Use:   "check [path]",
		Short: "Run the audit pipeline and report violations",
		Args:  cobra.MaximumNArgs(1),
		Run:   runCheck,
	}

	fixCmd = &cobra.Command{
		Use:   "fix [path]",
		Short: "Run the fix pipeline, applying autofixes where possible",
		Args:  cobra.MaximumNArgs(1),
		Run:   runFix,
	}

	planCmd = &cobra.Command{
		Use:   "plan [topic]",
		Short: "Print manual-instructions guidance for a rule or topic",
		Args:  cobra.MaximumNArgs(1),
		Run:   runPlan,
	}

	blueprintCmd = &cobra.Command{
		Use:   "blueprint",
		Short: "Strategic refactor blueprint (out of scope for this engine)",
		Run:   runBlueprint,
	}

	verifyCmd = &cobra.Command{
		Use:   "verify [path]",
		Short: "Re-run the audit and compare against a prior baseline",
		Args:  cobra.MaximumNArgs(1),
		Run:   runVerify,
	}
)

func init() {
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "emit machine-readable JSON")

	checkCmd.Flags().StringVar(&checkLinter, "linter", "all", "restrict to one pass: all|import|typing|types|quality")
	checkCmd.Flags().BoolVar(&checkNoHealth, "no-health", false, "skip writing the health/ artifact mirror")

	fixCmd.Flags().BoolVar(&fixIterative, "iterative", false, "re-run the fix pipeline until no file changes (at most 4 extra runs)")
	fixCmd.Flags().BoolVar(&fixManualOnly, "manual-only", false, "report manual-instructions rules without applying edits")
	fixCmd.Flags().BoolVar(&fixComments, "comments", true, "apply governance-comment fixes (pass 4)")
	fixCmd.Flags().BoolVar(&fixConfirm, "confirm", false, "prompt once for confirmation before applying any fixes")

	blueprintCmd.Flags().StringVar(&blueprintSource, "source", "check", "artifact set to summarize: check|health")

	verifyCmd.Flags().BoolVar(&verifyBaseline, "baseline", false, "write the current result as the new baseline instead of comparing")

	rootCmd.AddCommand(initCmd, checkCmd, fixCmd, planCmd, blueprintCmd, verifyCmd)
}
