package log

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// SetupLogger installs the process-wide slog logger.
// Output is JSON in the Cloud Logging layout, and errors carrying a
// cockroachdb stack are expanded into a stacktrace attribute.
func SetupLogger(loglevel string, w io.Writer) error {
	level, err := ToLogLevel(loglevel)
	if err != nil {
		return err
	}
	if w == nil {
		w = os.Stdout
	}
	slog.SetDefault(slog.New(NewHandler(w, level)))
	return nil
}

// NewHandler builds the JSON handler used by SetupLogger.
func NewHandler(w io.Writer, level slog.Level) slog.Handler {
	ops := slog.HandlerOptions{
		AddSource: true,
		Level:     level,
		// Replace attributes to convert to CloudLogging format.
		ReplaceAttr: func(groups []string, attr slog.Attr) slog.Attr {
			switch attr.Key {
			case slog.LevelKey:
				attr = slog.Attr{
					Key:   "severity",
					Value: attr.Value,
				}
			case slog.MessageKey:
				attr = slog.Attr{
					Key:   "message",
					Value: attr.Value,
				}
			case slog.SourceKey:
				attr = slog.Attr{
					Key:   "logging.googleapis.com/sourceLocation",
					Value: attr.Value,
				}
			}
			return attr
		},
	}
	return WrapByErrFmtHandler(slog.NewJSONHandler(w, &ops))
}

// ToLogLevel parses a configuration level name.
func ToLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "info", "":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid log level :%s", level)
	}
}

const (
	ErrAttrKey        = "error"
	StacktraceAttrKey = "stacktrace"
)

// ErrAttr is a wrapper to pass err to slog.
func ErrAttr(err error) slog.Attr {
	return slog.Any(ErrAttrKey, err)
}
