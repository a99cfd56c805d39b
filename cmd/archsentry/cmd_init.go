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
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/archsentry/archsentry/internal/config"
)

func runInit(cmd *cobra.Command, args []string) {
	root := projectRoot()
	cfgPath := filepath.Join(root, configFileName)

	if _, err := os.Stat(cfgPath); err == nil {
		fmt.Fprintf(os.Stderr, "%s already exists; remove it first to regenerate defaults\n", configFileName)
		os.Exit(CLIExitError)
	}

	if err := config.WriteDefault(cfgPath); err != nil {
		fmt.Fprintf(os.Stderr, "writing %s: %v\n", configFileName, err)
		os.Exit(CLIExitError)
	}

	if jsonOutput {
		_ = OutputJSON(map[string]string{"config_path": cfgPath}, false)
		return
	}
	fmt.Printf("Wrote %s with default clean-arch settings.\n", configFileName)
}
