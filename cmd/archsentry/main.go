// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Command archsentry audits and fixes clean-architecture violations in a
// Python project.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/archsentry/archsentry/internal/audit/otelinstr"
)

func main() {
	os.Exit(run())
}

func run() int {
	shutdown, err := otelinstr.SetupTracerProvider(context.Background())
	if err != nil {
		fmt.Fprintln(os.Stderr, "warning: tracer setup failed:", err)
		shutdown = func(context.Context) error { return nil }
	}
	defer shutdown(context.Background())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return CLIExitError
	}
	return CLIExitSuccess
}
