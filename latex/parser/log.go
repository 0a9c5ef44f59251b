package parser

import "github.com/tliron/commonlog"

// Logger receives diagnostics from a Collector. Every method takes a
// message followed by alternating keys and values. Implementations must not
// fail; any commonlog.Logger satisfies it.
type Logger interface {
	Critical(message string, keysAndValues ...any)
	Error(message string, keysAndValues ...any)
	Warning(message string, keysAndValues ...any)
	Info(message string, keysAndValues ...any)
	Debug(message string, keysAndValues ...any)
}

const LoggerName = "texnodes.parser"

func defaultLogger() Logger {
	return commonlog.GetLogger(LoggerName)
}
