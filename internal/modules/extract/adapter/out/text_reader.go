package out

import (
	"context"
	"fmt"
	"os"
	"unicode/utf8"

	extractout "cuplog/internal/modules/extract/port/out"
)

type LocalTextReader struct{}

func NewLocalTextReader() extractout.TextReader {
	return &LocalTextReader{}
}

func (r *LocalTextReader) Read(_ context.Context, path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read roaster notes: %w", err)
	}
	if !utf8.Valid(b) {
		return "", fmt.Errorf("read roaster notes: %s is not valid UTF-8", path)
	}
	return string(b), nil
}
