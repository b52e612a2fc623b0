package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/vvka-141/sprocgen/pkg/sprocgen"
)

// ZapLogger writes structured records through zap.
// Verbose maps onto the debug level.
type ZapLogger struct {
	log *zap.SugaredLogger
}

// NewZapLogger creates a ZapLogger with zap's production JSON encoder on stderr.
func NewZapLogger(verbose bool) (*ZapLogger, error) {
	config := zap.NewProductionConfig()
	config.OutputPaths = []string{"stderr"}
	config.DisableStacktrace = true
	if verbose {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}

	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return NewZapLoggerFrom(logger), nil
}

// NewZapLoggerFrom wraps an existing zap logger.
func NewZapLoggerFrom(logger *zap.Logger) *ZapLogger {
	return &ZapLogger{log: logger.Sugar()}
}

// Verbose logs at debug level.
func (l *ZapLogger) Verbose(format string, args ...interface{}) {
	l.log.Debugf(format, args...)
}

// Info logs at info level.
func (l *ZapLogger) Info(format string, args ...interface{}) {
	l.log.Infof(format, args...)
}

// Warning logs at warn level.
func (l *ZapLogger) Warning(format string, args ...interface{}) {
	l.log.Warnf(format, args...)
}

// Error logs at error level.
func (l *ZapLogger) Error(format string, args ...interface{}) {
	l.log.Errorf(format, args...)
}

// SQLWithError logs the rejected statement as one record.
func (l *ZapLogger) SQLWithError(sql string, errorLine int) {
	l.log.Errorw("statement failed", "line", errorLine, "sql", sql)
}

// Sync flushes buffered records.
func (l *ZapLogger) Sync() error {
	return l.log.Sync()
}

var (
	_ sprocgen.Logger    = (*ZapLogger)(nil)
	_ sprocgen.SQLLogger = (*ZapLogger)(nil)
)
