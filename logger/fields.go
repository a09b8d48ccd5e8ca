package logger

import (
	"context"

	"go.uber.org/zap"
)

// Standard field names for consistent structured logging across bspecgen.
// Use these constants instead of raw strings to ensure consistency.
const (
	// Identity and context
	FieldRunID     = "run_id"
	FieldComponent = "component"
	FieldStage     = "stage"
	FieldTarget    = "target"

	// Model
	FieldCode     = "code"
	FieldDomain   = "domain"
	FieldVersion  = "version"
	FieldWarning  = "warning"
	FieldRevision = "revision"

	// Files and paths
	FieldPath     = "path"
	FieldArchive  = "archive"
	FieldOutput   = "output"
	FieldScratch  = "scratch"
	FieldFirstAt  = "first_path"
	FieldBytes    = "bytes"
	FieldMembers  = "members"
	FieldSkipped  = "skipped"
	FieldFileType = "file_type"

	// Timing and counts
	FieldDurationMS = "duration_ms"
	FieldCount      = "count"

	// Errors
	FieldError = "error"
)

type contextKey string

const (
	runIDKey     contextKey = "logger_run_id"
	componentKey contextKey = "logger_component"
)

// WithRunID adds a pipeline run ID to the context for logging
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, runIDKey, runID)
}

// WithComponent adds a component name to the context for logging
func WithComponent(ctx context.Context, component string) context.Context {
	return context.WithValue(ctx, componentKey, component)
}

// FieldsFromContext extracts logging fields from context.
// Returns key-value pairs suitable for use with Infow/Errorw/etc.
func FieldsFromContext(ctx context.Context) []interface{} {
	var fields []interface{}

	if runID, ok := ctx.Value(runIDKey).(string); ok && runID != "" {
		fields = append(fields, FieldRunID, runID)
	}
	if component, ok := ctx.Value(componentKey).(string); ok && component != "" {
		fields = append(fields, FieldComponent, component)
	}

	return fields
}

// LoggerFromContext returns the global logger with fields extracted from context.
func LoggerFromContext(ctx context.Context) *zap.SugaredLogger {
	fields := FieldsFromContext(ctx)
	if len(fields) == 0 {
		return Logger
	}
	return Logger.With(fields...)
}

// ComponentLogger returns a named logger for a specific component.
// This is the preferred way to get a logger for dependency injection.
//
// Example:
//
//	builder := model.NewBuilder(cfg, logger.ComponentLogger("model"))
func ComponentLogger(name string) *zap.SugaredLogger {
	return Logger.Named(name)
}

// OrNop returns l, or a no-op logger when l is nil.
func OrNop(l *zap.SugaredLogger) *zap.SugaredLogger {
	if l == nil {
		return zap.NewNop().Sugar()
	}
	return l
}
