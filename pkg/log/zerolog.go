package log

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// ZerologWarnFunc returns a sink for errors.SetZerologWarnFunc.
// Warnings implementing zerolog.LogObjectMarshaler are logged as structured
// objects under "warning".
func ZerologWarnFunc(w io.Writer) func(warning error) {
	if w == nil {
		w = os.Stderr
	}
	logger := zerolog.New(w).With().Timestamp().Str(ComponentKey, "warnings").Logger()
	return func(warning error) {
		event := logger.Warn()
		if m, ok := warning.(zerolog.LogObjectMarshaler); ok {
			event = event.Object("warning", m)
		}
		event.Msg(warning.Error())
	}
}
