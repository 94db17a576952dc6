// internal/logging/context.go
package logging

import (
	"context"

	"go.uber.org/zap"
)

// Context key types
type groupCtxKey struct{}
type projectCtxKey struct{}
type commandCtxKey struct{}
type loggerCtxKey struct{}

// ContextFields extracts correlation data from context.
func ContextFields(ctx context.Context) []zap.Field {
	fields := make([]zap.Field, 0, 3)

	if cmd := CommandFromContext(ctx); cmd != "" {
		fields = append(fields, zap.String("command", cmd))
	}
	if group := GroupFromContext(ctx); group != "" {
		fields = append(fields, zap.String("group", group))
	}
	if project := ProjectFromContext(ctx); project != "" {
		fields = append(fields, zap.String("project", project))
	}

	return fields
}

// WithGroup adds a group name to context.
func WithGroup(ctx context.Context, group string) context.Context {
	return context.WithValue(ctx, groupCtxKey{}, group)
}

// GroupFromContext extracts the group name from context.
func GroupFromContext(ctx context.Context) string {
	if g, ok := ctx.Value(groupCtxKey{}).(string); ok {
		return g
	}
	return ""
}

// WithProject adds both the owning group and the project name to context.
func WithProject(ctx context.Context, group, project string) context.Context {
	ctx = WithGroup(ctx, group)
	return context.WithValue(ctx, projectCtxKey{}, project)
}

// ProjectFromContext extracts the project name from context.
func ProjectFromContext(ctx context.Context) string {
	if p, ok := ctx.Value(projectCtxKey{}).(string); ok {
		return p
	}
	return ""
}

// WithCommand records the CLI command being executed.
func WithCommand(ctx context.Context, command string) context.Context {
	return context.WithValue(ctx, commandCtxKey{}, command)
}

// CommandFromContext extracts the command name from context.
func CommandFromContext(ctx context.Context) string {
	if c, ok := ctx.Value(commandCtxKey{}).(string); ok {
		return c
	}
	return ""
}

// WithLogger stores logger in context.
func WithLogger(ctx context.Context, logger *Logger) context.Context {
	return context.WithValue(ctx, loggerCtxKey{}, logger)
}

// FromContext retrieves logger from context.
// Returns a nop logger if not found.
func FromContext(ctx context.Context) *Logger {
	if l, ok := ctx.Value(loggerCtxKey{}).(*Logger); ok {
		return l
	}
	return Nop()
}
