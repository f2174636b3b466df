package logging

import (
	"io"
	"os"

	hclog "github.com/hashicorp/go-hclog"
)

const defaultLevel = hclog.Warn

// New builds the root logger. Unknown level names fall back to warn.
func New(level string, output io.Writer) hclog.Logger {
	if output == nil {
		output = os.Stderr
	}
	lvl := hclog.LevelFromString(level)
	if lvl == hclog.NoLevel {
		lvl = defaultLevel
	}
	return hclog.New(&hclog.LoggerOptions{
		Name:   "cuplog",
		Level:  lvl,
		Output: output,
	})
}

// Discard is used where a component is built without a logger.
func Discard() hclog.Logger {
	return hclog.NewNullLogger()
}

// OrDiscard returns l, or a null logger when l is nil.
func OrDiscard(l hclog.Logger) hclog.Logger {
	if l == nil {
		return Discard()
	}
	return l
}
