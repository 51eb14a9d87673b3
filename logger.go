package semaphore

import (
	"fmt"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/sirupsen/logrus"
)

var _ retryablehttp.LeveledLogger = (*leveledLogger)(nil)

// leveledLogger feeds retryablehttp log lines into logrus. Values are passed
// through redact since retryablehttp logs the full request url.
type leveledLogger struct {
	logger logrus.FieldLogger
	redact func(string) string
}

func (l *leveledLogger) Error(msg string, keysAndValues ...interface{}) {
	l.with(keysAndValues).Error(msg)
}

func (l *leveledLogger) Info(msg string, keysAndValues ...interface{}) {
	l.with(keysAndValues).Info(msg)
}

func (l *leveledLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.with(keysAndValues).Debug(msg)
}

func (l *leveledLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.with(keysAndValues).Warn(msg)
}

func (l *leveledLogger) with(keysAndValues []interface{}) logrus.FieldLogger {
	fields := logrus.Fields{}

	for i := 0; i+1 < len(keysAndValues); i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			continue
		}

		fields[key] = l.value(keysAndValues[i+1])
	}

	return l.logger.WithFields(fields)
}

func (l *leveledLogger) value(v interface{}) interface{} {
	if l.redact == nil {
		return v
	}

	switch v.(type) {
	case string, error, fmt.Stringer:
		return l.redact(fmt.Sprint(v))
	default:
		return v
	}
}
