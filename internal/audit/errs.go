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

import "fmt"

// Kind distinguishes the pipeline's typed error conditions, matching the
// seven error kinds the audit/fix pipelines contract on.
type Kind string

const (
	KindConfigError        Kind = "ConfigError"
	KindParseError         Kind = "ParseError"
	KindInferenceFailure   Kind = "InferenceFailure"
	KindExternalToolError  Kind = "ExternalToolError"
	KindExternalToolTimeout Kind = "ExternalToolTimeout"
	KindFixApplyError      Kind = "FixApplyError"
	KindValidationFailure  Kind = "ValidationFailure"
)

// Error is the typed wrapper every pipeline-level failure is returned as.
// It carries enough context to support errors.Is/errors.As on Kind while
// still wrapping the underlying cause.
type Error struct {
	Kind    Kind
	Path    string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s: %s", e.Kind, e.Path, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// Is supports errors.Is(err, &Error{Kind: K}) to test only the Kind.
func (e *Error) Is(target error) bool {
	other, ok := target.(*Error)
	if !ok {
		return false
	}
	return other.Kind == e.Kind
}

func newError(kind Kind, path, message string, cause error) *Error {
	return &Error{Kind: kind, Path: path, Message: message, Cause: cause}
}
