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

	"github.com/spf13/cobra"
)

// runBlueprint is a stub: the strategic-refactor blueprint subsystem that
// would consume check/ or health/ artifacts to propose multi-file
// restructurings is out of scope for this engine.
func runBlueprint(cmd *cobra.Command, args []string) {
	if jsonOutput {
		_ = OutputJSON(map[string]string{
			"status": "out_of_scope",
			"source": blueprintSource,
			"notice": "strategic refactor blueprints are not part of this engine",
		}, false)
		return
	}
	fmt.Printf("blueprint (source=%s): out of scope for this engine.\n", blueprintSource)
	fmt.Println("Run `archsentry check` or `archsentry plan <code>` for audit-level guidance instead.")
}
