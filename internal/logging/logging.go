package logging

import (
	"fmt"
	"strings"
	"sync"

	"github.com/pion/logging"
)

var (
	loggerFactory = logging.NewDefaultLoggerFactory()

	mu      sync.Mutex
	loggers = map[string]logging.LeveledLogger{}
)

func NewLogger(scope string) logging.LeveledLogger {
	mu.Lock()
	defer mu.Unlock()

	if l, ok := loggers[scope]; ok {
		return l
	}
	l := loggerFactory.NewLogger(scope)
	loggers[scope] = l
	return l
}

var levels = map[string]logging.LogLevel{
	"disabled": logging.LogLevelDisabled,
	"error":    logging.LogLevelError,
	"warn":     logging.LogLevelWarn,
	"info":     logging.LogLevelInfo,
	"debug":    logging.LogLevelDebug,
	"trace":    logging.LogLevelTrace,
}

// ParseLevel converts a level name (error, warn, info, debug, trace,
// disabled) into a pion log level.
func ParseLevel(s string) (logging.LogLevel, error) {
	level, ok := levels[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return logging.LogLevelDisabled, fmt.Errorf("unknown log level %q", s)
	}
	return level, nil
}

// SetLevel changes the level of every logger created so far and of the
// ones created later. PION_LOG_* environment variables are overridden.
func SetLevel(level logging.LogLevel) {
	mu.Lock()
	defer mu.Unlock()

	loggerFactory.DefaultLogLevel = level
	loggerFactory.ScopeLevels = map[string]logging.LogLevel{}
	for _, l := range loggers {
		if setter, ok := l.(interface{ SetLevel(logging.LogLevel) }); ok {
			setter.SetLevel(level)
		}
	}
}

// SetScopeLevel changes the level of a single scope, e.g. "firewire/dc1394".
func SetScopeLevel(scope string, level logging.LogLevel) {
	mu.Lock()
	defer mu.Unlock()

	if loggerFactory.ScopeLevels == nil {
		loggerFactory.ScopeLevels = map[string]logging.LogLevel{}
	}
	loggerFactory.ScopeLevels[scope] = level
	if setter, ok := loggers[scope].(interface{ SetLevel(logging.LogLevel) }); ok {
		setter.SetLevel(level)
	}
}
