// Package errors provides error handling for bspecgen.
//
// This package re-exports github.com/cockroachdb/errors, providing stack
// traces, wrapping, user hints and markers. Sentinels below classify pipeline
// failures so the orchestrator can decide which stage a failure is fatal to.
//
// Usage:
//
//	if err := os.WriteFile(path, data, 0644); err != nil {
//	    return errors.Wrapf(err, "failed to write %s", path)
//	}
//
//	// Classify while keeping the original message
//	return errors.Mark(errors.Newf("member %s missing", name), errors.ErrArtifact)
//
//	// Check classification
//	if errors.Is(err, errors.ErrInvariant) {
//	    // parser bug, abort the run
//	}
//
// For full documentation see: https://pkg.go.dev/github.com/cockroachdb/errors
package errors

import (
	crdb "github.com/cockroachdb/errors"
)

// Core error creation and wrapping
var (
	New          = crdb.New
	Newf         = crdb.Newf
	Wrap         = crdb.Wrap
	Wrapf        = crdb.Wrapf
	WithStack    = crdb.WithStack
	WithMessage  = crdb.WithMessage
	WithMessagef = crdb.WithMessagef
)

// User-facing messages and details
var (
	WithHint       = crdb.WithHint
	WithHintf      = crdb.WithHintf
	WithDetail     = crdb.WithDetail
	WithDetailf    = crdb.WithDetailf
	GetAllHints    = crdb.GetAllHints
	GetAllDetails  = crdb.GetAllDetails
	FlattenHints   = crdb.FlattenHints
	FlattenDetails = crdb.FlattenDetails
)

// Error inspection
var (
	Is         = crdb.Is
	IsAny      = crdb.IsAny
	As         = crdb.As
	Mark       = crdb.Mark
	Unwrap     = crdb.Unwrap
	UnwrapOnce = crdb.UnwrapOnce
	UnwrapAll  = crdb.UnwrapAll
)

// Assertions
var (
	AssertionFailedf = crdb.AssertionFailedf
	CombineErrors    = crdb.CombineErrors
)

// Sentinels for classifying pipeline failures.
// Wrap or Mark with these to preserve the classification across layers.
var (
	// ErrInvariant indicates a canonical-model invariant that can only be
	// broken by a parser defect (a table key that differs from its record code)
	ErrInvariant = New("model invariant violated")

	// ErrArtifact indicates a packaged artifact that is missing members or is
	// not valid compressed content
	ErrArtifact = New("invalid packaged artifact")

	// ErrNoDocuments indicates the input tree produced no usable documents
	ErrNoDocuments = New("no documents found")

	// ErrInvalidVersion indicates a version string that is not a semantic version
	ErrInvalidVersion = New("invalid version")

	// ErrNotFound indicates the requested resource does not exist
	ErrNotFound = New("not found")

	// ErrUnknownTarget indicates an emitter name with no registered generator
	ErrUnknownTarget = New("unknown target")
)

// IsInvariantError checks if an error is or wraps ErrInvariant
func IsInvariantError(err error) bool {
	return err != nil && Is(err, ErrInvariant)
}

// IsArtifactError checks if an error is or wraps ErrArtifact
func IsArtifactError(err error) bool {
	return err != nil && Is(err, ErrArtifact)
}

// NewArtifactError creates an artifact error with a formatted message
func NewArtifactError(format string, args ...interface{}) error {
	return Mark(Newf(format, args...), ErrArtifact)
}

// NewInvariantError creates an invariant error with a formatted message
func NewInvariantError(format string, args ...interface{}) error {
	return Mark(Newf(format, args...), ErrInvariant)
}
