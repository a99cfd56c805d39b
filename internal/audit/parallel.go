// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package audit

import (
	"context"
	"sync"

	"github.com/archsentry/archsentry/internal/astmodel"
	"github.com/archsentry/archsentry/internal/audit/linteradapter"
	"github.com/archsentry/archsentry/internal/layer"
	"github.com/archsentry/archsentry/internal/rules"
	"github.com/archsentry/archsentry/internal/rules/checks"
	"github.com/archsentry/archsentry/internal/typeoracle"
)

// WorkerResult is one worker's accumulated per-file findings.
type WorkerResult struct {
	Errors   []linteradapter.Issue
	Warnings []linteradapter.Issue
}

// RunParallel partitions files across workers goroutines, each with its
// own astmodel.Cache (the AST is never shared across goroutines), all
// sharing one ScatterAnalyzer so W9030's cross-file reduction still sees
// every worker's files. workers<=1 runs fully serially — the common
// default — and the shared scatter reduction then degenerates to a
// single-worker pass-through.
func RunParallel(ctx context.Context, files []string, workers int, resolver *layer.Resolver, settings rules.Settings, registry *rules.Registry, checkables []rules.Checkable, stateful []rules.StatefulRule) ([]WorkerResult, []linteradapter.Issue, error) {
	if workers < 1 {
		workers = 1
	}
	sharedScatter := checks.NewScatterAnalyzer()

	buckets := make([][]string, workers)
	for i, f := range files {
		buckets[i%workers] = append(buckets[i%workers], f)
	}

	results := make([]WorkerResult, workers)
	errs := make([]error, workers)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			arch := &Architectural{
				cache:    astmodel.NewCache(),
				parser:   astmodel.NewPythonParser(),
				resolver: resolver,
				oracle:   typeoracle.NewOracle(typeoracle.DefaultStubs),
				driver:   rules.NewDriver(registry, checkables, stateful),
				settings: settings,
				scatter:  sharedScatter,
			}
			var wr WorkerResult
			for _, f := range buckets[idx] {
				res, err := arch.Run(ctx, f)
				if err != nil {
					errs[idx] = err
					return
				}
				wr.Errors = append(wr.Errors, res.Errors...)
				wr.Warnings = append(wr.Warnings, res.Warnings...)
			}
			results[idx] = wr
		}(w)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, nil, err
		}
	}

	// Single-threaded reduction step: every worker shared one
	// ScatterAnalyzer, so any worker's DrainScatter sees the full picture.
	// Draining via a throwaway Architectural avoids exposing the shared
	// analyzer outside this package.
	scatterIssues := (&Architectural{scatter: sharedScatter}).DrainScatter()

	return results, scatterIssues, nil
}
