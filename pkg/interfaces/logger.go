package interfaces

import "context"

// Logger is the leveled logger every pipeline stage writes to. Arguments
// after msg are key/value pairs. The method set matches go-logger's Logger.
type Logger interface {
	Trace(msg string, args ...any)
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	Fatal(msg string, args ...any)
	WithContext(ctx context.Context) Logger
}

// FieldsLogger is implemented by loggers that can carry structured fields
// such as run_id, slug or channel.
type FieldsLogger interface {
	WithFields(fields map[string]any) Logger
}

// LoggerProvider returns the logger for a dotted module name like
// "crosspost.newsletter".
type LoggerProvider interface {
	GetLogger(name string) Logger
}
