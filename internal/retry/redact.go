package retry

import (
	"fmt"
	"regexp"

	"github.com/deusflow/railnews/internal/logger"
)

var secretParam = regexp.MustCompile(`(?i)((?:api_?key|access_token|token)=)[^&\s"]+`)

// Redact masks credential query parameters in s.
func Redact(s string) string {
	return secretParam.ReplaceAllString(s, "${1}REDACTED")
}

// redactingLogger feeds retryablehttp's log calls into the package logger
// with credentials masked out of URLs and errors.
type redactingLogger struct{}

func (redactingLogger) Error(msg string, keysAndValues ...interface{}) {
	logger.Logger.Error(msg, redactArgs(keysAndValues)...)
}

func (redactingLogger) Info(msg string, keysAndValues ...interface{}) {
	logger.Logger.Info(msg, redactArgs(keysAndValues)...)
}

func (redactingLogger) Debug(msg string, keysAndValues ...interface{}) {
	logger.Logger.Debug(msg, redactArgs(keysAndValues)...)
}

func (redactingLogger) Warn(msg string, keysAndValues ...interface{}) {
	logger.Logger.Warn(msg, redactArgs(keysAndValues)...)
}

func redactArgs(kv []interface{}) []interface{} {
	out := make([]interface{}, len(kv))
	for i, v := range kv {
		switch t := v.(type) {
		case string:
			out[i] = Redact(t)
		case error:
			out[i] = Redact(t.Error())
		case fmt.Stringer:
			out[i] = Redact(t.String())
		default:
			out[i] = v
		}
	}
	return out
}
