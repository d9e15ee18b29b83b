package logging

import (
	"context"

	"github.com/rs/zerolog"
)

type loggerKey struct{}

// WithLogger attaches logger to ctx. A nil logger attaches the default.
func WithLogger(ctx context.Context, logger *zerolog.Logger) context.Context {
	if logger == nil {
		logger = Default()
	}
	return context.WithValue(ctx, loggerKey{}, logger)
}

// FromContext returns the logger attached to ctx, or the default.
func FromContext(ctx context.Context) *zerolog.Logger {
	if ctx != nil {
		if logger, ok := ctx.Value(loggerKey{}).(*zerolog.Logger); ok && logger != nil {
			return logger
		}
	}
	return Default()
}

// WithFile tags the context logger with the source file being read.
func WithFile(ctx context.Context, path string) context.Context {
	return withStr(ctx, "file", path)
}

// WithRoot tags the context logger with the scan root being walked.
func WithRoot(ctx context.Context, root string) context.Context {
	return withStr(ctx, "root", root)
}

// WithOperation tags the context logger with the running operation.
func WithOperation(ctx context.Context, operation string) context.Context {
	return withStr(ctx, "operation", operation)
}

func withStr(ctx context.Context, key, value string) context.Context {
	logger := FromContext(ctx).With().Str(key, value).Logger()
	return WithLogger(ctx, &logger)
}
