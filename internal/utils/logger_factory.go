package utils

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	logLevelDebugStringConstant          = "debug"
	logLevelInfoStringConstant           = "info"
	logLevelWarnStringConstant           = "warn"
	logLevelErrorStringConstant          = "error"
	logFormatStructuredStringConstant    = "structured"
	logFormatConsoleStringConstant       = "console"
	humanReadableMessageKeyConstant      = "message"
	unsupportedLogLevelTemplateConstant  = "unsupported log level: %s"
	unsupportedLogFormatTemplateConstant = "unsupported log format: %s"
)

// LogLevel enumerates supported logging granularities.
type LogLevel string

// Exported log level constants for reuse across packages.
const (
	LogLevelDebug LogLevel = LogLevel(logLevelDebugStringConstant)
	LogLevelInfo  LogLevel = LogLevel(logLevelInfoStringConstant)
	LogLevelWarn  LogLevel = LogLevel(logLevelWarnStringConstant)
	LogLevelError LogLevel = LogLevel(logLevelErrorStringConstant)
)

// LogFormat enumerates supported logger output encodings.
type LogFormat string

// Exported log format constants for reuse across packages.
const (
	LogFormatStructured LogFormat = LogFormat(logFormatStructuredStringConstant)
	LogFormatConsole    LogFormat = LogFormat(logFormatConsoleStringConstant)
)

var logLevelMapping = map[LogLevel]zapcore.Level{
	LogLevelDebug: zapcore.DebugLevel,
	LogLevelInfo:  zapcore.InfoLevel,
	LogLevelWarn:  zapcore.WarnLevel,
	LogLevelError: zapcore.ErrorLevel,
}

// SupportedLogLevels lists the accepted log level names in increasing severity.
func SupportedLogLevels() []string {
	return []string{string(LogLevelDebug), string(LogLevelInfo), string(LogLevelWarn), string(LogLevelError)}
}

// SupportedLogFormats lists the accepted log format names.
func SupportedLogFormats() []string {
	return []string{string(LogFormatStructured), string(LogFormatConsole)}
}

// ParseLogLevel normalizes user input into a LogLevel.
func ParseLogLevel(value string) (LogLevel, error) {
	level := LogLevel(strings.ToLower(strings.TrimSpace(value)))
	if _, supported := logLevelMapping[level]; !supported {
		return "", fmt.Errorf(unsupportedLogLevelTemplateConstant, value)
	}
	return level, nil
}

// ParseLogFormat normalizes user input into a LogFormat.
func ParseLogFormat(value string) (LogFormat, error) {
	format := LogFormat(strings.ToLower(strings.TrimSpace(value)))
	switch format {
	case LogFormatStructured, LogFormatConsole:
		return format, nil
	default:
		return "", fmt.Errorf(unsupportedLogFormatTemplateConstant, value)
	}
}

// LoggerOutputs pairs the diagnostic logger with the logger used for human-readable command events.
// HumanReadableLogger is a no-op for the structured format.
type LoggerOutputs struct {
	DiagnosticLogger    *zap.Logger
	HumanReadableLogger *zap.Logger
}

// LoggerFactory builds zap.Logger instances with consistent configuration.
type LoggerFactory struct {
	destination zapcore.WriteSyncer
}

// NewLoggerFactory constructs a logger factory writing to standard error.
func NewLoggerFactory() *LoggerFactory {
	return &LoggerFactory{}
}

// NewLoggerFactoryWithDestination constructs a logger factory writing to destination.
func NewLoggerFactoryWithDestination(destination zapcore.WriteSyncer) *LoggerFactory {
	return &LoggerFactory{destination: destination}
}

// CreateLogger produces a zap.Logger honoring the requested log level and format.
func (factory *LoggerFactory) CreateLogger(requestedLogLevel LogLevel, requestedLogFormat LogFormat) (*zap.Logger, error) {
	outputs, creationError := factory.CreateLoggerOutputs(requestedLogLevel, requestedLogFormat)
	if creationError != nil {
		return nil, creationError
	}
	return outputs.DiagnosticLogger, nil
}

// CreateLoggerOutputs builds the diagnostic logger and, for the console format, a message-only
// logger that renders command lifecycle events at info level regardless of the requested level.
func (factory *LoggerFactory) CreateLoggerOutputs(requestedLogLevel LogLevel, requestedLogFormat LogFormat) (LoggerOutputs, error) {
	zapLogLevel, levelExists := logLevelMapping[requestedLogLevel]
	if !levelExists {
		return LoggerOutputs{}, fmt.Errorf(unsupportedLogLevelTemplateConstant, requestedLogLevel)
	}

	destination := factory.resolveDestination()
	encoderConfiguration := zap.NewProductionEncoderConfig()
	encoderConfiguration.EncodeTime = zapcore.ISO8601TimeEncoder

	switch requestedLogFormat {
	case LogFormatStructured:
		diagnosticCore := zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfiguration), destination, zap.NewAtomicLevelAt(zapLogLevel))
		return LoggerOutputs{
			DiagnosticLogger:    zap.New(diagnosticCore, zap.AddCaller()),
			HumanReadableLogger: zap.NewNop(),
		}, nil
	case LogFormatConsole:
		encoderConfiguration.EncodeLevel = zapcore.CapitalLevelEncoder
		diagnosticCore := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfiguration), destination, zap.NewAtomicLevelAt(zapLogLevel))

		humanReadableConfiguration := zapcore.EncoderConfig{
			MessageKey: humanReadableMessageKeyConstant,
			LineEnding: zapcore.DefaultLineEnding,
		}
		humanReadableCore := zapcore.NewCore(zapcore.NewConsoleEncoder(humanReadableConfiguration), destination, zap.NewAtomicLevelAt(zapcore.InfoLevel))
		return LoggerOutputs{
			DiagnosticLogger:    zap.New(diagnosticCore),
			HumanReadableLogger: zap.New(humanReadableCore),
		}, nil
	default:
		return LoggerOutputs{}, fmt.Errorf(unsupportedLogFormatTemplateConstant, requestedLogFormat)
	}
}

func (factory *LoggerFactory) resolveDestination() zapcore.WriteSyncer {
	if factory == nil || factory.destination == nil {
		return zapcore.Lock(os.Stderr)
	}
	return factory.destination
}
