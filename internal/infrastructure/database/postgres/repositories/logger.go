package repositories

import (
	"fmt"

	"github.com/compsred/comps-engine/internal/infrastructure/monitoring/logging"
)

// Logger is the minimal logging contract required by repository
// implementations. Call sites pass alternating key/value pairs.
type Logger interface {
	Debug(msg string, keysAndValues ...interface{})
	Info(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// AdaptLogger bridges the platform's typed-field logger to the key/value
// Logger contract.
func AdaptLogger(l logging.Logger) Logger {
	return fieldLogger{l: l}
}

type fieldLogger struct {
	l logging.Logger
}

func (f fieldLogger) Debug(msg string, keysAndValues ...interface{}) {
	f.l.Debug(msg, kvFields(keysAndValues)...)
}

func (f fieldLogger) Info(msg string, keysAndValues ...interface{}) {
	f.l.Info(msg, kvFields(keysAndValues)...)
}

func (f fieldLogger) Warn(msg string, keysAndValues ...interface{}) {
	f.l.Warn(msg, kvFields(keysAndValues)...)
}

func (f fieldLogger) Error(msg string, keysAndValues ...interface{}) {
	f.l.Error(msg, kvFields(keysAndValues)...)
}

// kvFields converts alternating key/value pairs to typed fields. A trailing
// unpaired value is dropped; non-string keys are stringified.
func kvFields(kv []interface{}) []logging.Field {
	fields := make([]logging.Field, 0, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			key = fmt.Sprint(kv[i])
		}
		fields = append(fields, logging.Any(key, kv[i+1]))
	}
	return fields
}

//Personal.AI order the ending
