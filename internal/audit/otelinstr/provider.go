// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package otelinstr

import (
	"context"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// SetupTracerProvider registers a stdout-backed TracerProvider as the
// global OTel provider for the process's lifetime, returning a shutdown
// func the caller must invoke before exit. Spans are only written when
// ARCHSENTRY_TRACE_OUT is set to a destination, since a single CLI
// invocation has no always-on collector to export to.
func SetupTracerProvider(ctx context.Context) (func(context.Context) error, error) {
	dest := os.Getenv("ARCHSENTRY_TRACE_OUT")
	if dest == "" {
		return func(context.Context) error { return nil }, nil
	}

	w := os.Stderr
	if dest != "-" {
		f, err := os.OpenFile(dest, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, err
		}
		w = f
	}

	exporter, err := stdouttrace.New(stdouttrace.WithWriter(w), stdouttrace.WithPrettyPrint())
	if err != nil {
		return nil, err
	}

	provider := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exporter))
	otel.SetTracerProvider(provider)

	return provider.Shutdown, nil
}
