/*
 * Copyright (c) 2025, WSO2 LLC. (http://www.wso2.com).
 *
 * WSO2 LLC. licenses this file to you under the Apache License,
 * Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing,
 * software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
 * KIND, either express or implied.  See the License for the
 * specific language governing permissions and limitations
 * under the License.
 */

package log

import (
	"fmt"
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	logger *Logger
	nop    = &Logger{internal: zap.NewNop()}
	mu     sync.RWMutex
)

// Logger is a wrapper around the zap logger.
type Logger struct {
	internal *zap.Logger
}

// GetLogger returns the process wide logger. A no-op logger is returned until Init is called.
func GetLogger() *Logger {
	mu.RLock()
	defer mu.RUnlock()
	if logger == nil {
		return nop
	}
	return logger
}

// Init initializes the zap logger with the given log level string.
func Init(logLevel string) error {
	level, err := parseLogLevel(logLevel)
	if err != nil {
		return fmt.Errorf("error parsing log level: %w", err)
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.Lock(os.Stdout),
		zap.NewAtomicLevelAt(level),
	)

	mu.Lock()
	logger = &Logger{
		internal: zap.New(core),
	}
	mu.Unlock()
	return nil
}

// With creates a new logger instance with additional fields.
func (l *Logger) With(fields ...Field) *Logger {
	return &Logger{
		internal: l.internal.With(convertFields(fields)...),
	}
}

// Info logs an informational message with custom fields.
func (l *Logger) Info(msg string, fields ...Field) {
	l.internal.Info(msg, convertFields(fields)...)
}

// Debug logs a debug message with custom fields.
func (l *Logger) Debug(msg string, fields ...Field) {
	l.internal.Debug(msg, convertFields(fields)...)
}

// Warn logs a warning message with custom fields.
func (l *Logger) Warn(msg string, fields ...Field) {
	l.internal.Warn(msg, convertFields(fields)...)
}

// Error logs an error message with custom fields.
func (l *Logger) Error(msg string, fields ...Field) {
	l.internal.Error(msg, convertFields(fields)...)
}

// Sync flushes any buffered log entries.
func (l *Logger) Sync() {
	_ = l.internal.Sync()
}

// parseLogLevel parses the log level string and returns the corresponding zap level.
func parseLogLevel(logLevel string) (zapcore.Level, error) {
	if logLevel == "" {
		return zapcore.InfoLevel, nil
	}
	level, err := zapcore.ParseLevel(logLevel)
	if err != nil {
		return zapcore.ErrorLevel, err
	}
	return level, nil
}

// convertFields converts a slice of Field to zap fields.
func convertFields(fields []Field) []zap.Field {
	converted := make([]zap.Field, len(fields))
	for i, field := range fields {
		converted[i] = zap.Any(field.Key, field.Value)
	}
	return converted
}
