// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package astmodel

import (
	"errors"
	"fmt"
)

// Sentinel errors. Use errors.Is against these rather than string matching.
var (
	ErrUnsupportedLanguage = errors.New("astmodel: unsupported language")
	ErrParseFailed         = errors.New("astmodel: parse failed")
	ErrInvalidContent      = errors.New("astmodel: invalid content")
	ErrContextCanceled     = errors.New("astmodel: context canceled")
	ErrTimeout             = errors.New("astmodel: parse timeout")
)

// ParseError wraps a parse failure with file location context. It
// satisfies error and unwraps to Cause (or one of the sentinels above).
type ParseError struct {
	FilePath string
	Line     int
	Column   int
	Message  string
	Cause    error
}

func (e *ParseError) Error() string {
	switch {
	case e.Line > 0 && e.Column > 0:
		return fmt.Sprintf("%s:%d:%d: %s", e.FilePath, e.Line, e.Column, e.Message)
	case e.Line > 0:
		return fmt.Sprintf("%s:%d: %s", e.FilePath, e.Line, e.Message)
	default:
		return fmt.Sprintf("%s: %s", e.FilePath, e.Message)
	}
}

func (e *ParseError) Unwrap() error {
	if e.Cause != nil {
		return e.Cause
	}
	return ErrParseFailed
}

// NewParseError builds a ParseError with no line/column information.
func NewParseError(filePath, message string) *ParseError {
	return &ParseError{FilePath: filePath, Message: message}
}

// NewParseErrorWithCause builds a ParseError wrapping cause.
func NewParseErrorWithCause(filePath string, line, col int, message string, cause error) *ParseError {
	return &ParseError{FilePath: filePath, Line: line, Column: col, Message: message, Cause: cause}
}

// WrapParseError wraps err as a ParseError unless it already is one, in
// which case it is returned unchanged to avoid double-wrapping.
func WrapParseError(filePath string, err error) error {
	if err == nil {
		return nil
	}
	var pe *ParseError
	if errors.As(err, &pe) {
		return err
	}
	return NewParseErrorWithCause(filePath, 0, 0, err.Error(), err)
}

// IsParseError reports whether err is (or wraps) a *ParseError.
func IsParseError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}

// IsUnsupportedLanguage reports whether err is (or wraps) ErrUnsupportedLanguage.
func IsUnsupportedLanguage(err error) bool {
	return errors.Is(err, ErrUnsupportedLanguage)
}

// IsParseFailed reports whether err is (or wraps) ErrParseFailed.
func IsParseFailed(err error) bool {
	return errors.Is(err, ErrParseFailed)
}
