package log

// NoopLogger drops every entry. It is the default logger of a Rotor and of
// plugins started outside one.
type NoopLogger struct{}

// NewNoopLogger returns a logger that drops every entry.
func NewNoopLogger() *NoopLogger {
	return &NoopLogger{}
}

func (NoopLogger) Debug(msg string, fields ...Field) {}
func (NoopLogger) Info(msg string, fields ...Field)  {}
func (NoopLogger) Warn(msg string, fields ...Field)  {}
func (NoopLogger) Error(msg string, fields ...Field) {}
