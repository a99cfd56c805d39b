// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package otelinstr wraps the engine's OpenTelemetry tracing and metrics
// for the audit and fix pipelines behind plain functions, so pipeline code
// never imports the otel SDK directly.
package otelinstr

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

var (
	tracer = otel.Tracer("archsentry.audit")
	meter  = otel.Meter("archsentry.audit")
)

var (
	passLatency    metric.Float64Histogram
	passTotal      metric.Int64Counter
	violationsFound metric.Int64Histogram

	metricsOnce sync.Once
	metricsErr  error
)

func initMetrics() error {
	metricsOnce.Do(func() {
		var err error
		passLatency, err = meter.Float64Histogram(
			"audit_pass_duration_seconds",
			metric.WithDescription("Duration of one audit/fix pass"),
			metric.WithUnit("s"),
		)
		if err != nil {
			metricsErr = err
			return
		}
		passTotal, err = meter.Int64Counter(
			"audit_pass_total",
			metric.WithDescription("Total number of audit/fix passes run"),
		)
		if err != nil {
			metricsErr = err
			return
		}
		violationsFound, err = meter.Int64Histogram(
			"audit_violations_found",
			metric.WithDescription("Violations found per pass"),
		)
		if err != nil {
			metricsErr = err
			return
		}
	})
	return metricsErr
}

// StartPassSpan opens a span for one named pipeline pass over one file.
func StartPassSpan(ctx context.Context, pass, filePath string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "Pipeline.Pass",
		trace.WithAttributes(
			attribute.String("audit.pass", pass),
			attribute.String("audit.file_path", filePath),
		),
	)
}

// SetPassSpanResult annotates the span with the pass's outcome.
func SetPassSpanResult(span trace.Span, violationCount int, blocked bool) {
	span.SetAttributes(
		attribute.Int("audit.violation_count", violationCount),
		attribute.Bool("audit.blocked", blocked),
	)
}

// RecordPassMetrics records latency, throughput, and violation-count
// metrics for one pass. Failures to initialize the meter are swallowed —
// metrics must never become a reason an audit run fails.
func RecordPassMetrics(ctx context.Context, pass string, duration time.Duration, violationCount int, blocked bool) {
	if err := initMetrics(); err != nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("pass", pass),
		attribute.Bool("blocked", blocked),
	)
	passLatency.Record(ctx, duration.Seconds(), attrs)
	passTotal.Add(ctx, 1, attrs)
	violationsFound.Record(ctx, int64(violationCount), metric.WithAttributes(attribute.String("pass", pass)))
}
