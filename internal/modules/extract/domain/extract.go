package domain

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

type Kind string

const (
	KindPDF   Kind = "pdf"
	KindText  Kind = "text"
	KindImage Kind = "image"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported roaster note format")
	ErrNoExtractor       = errors.New("no enabled extractor for format")
	ErrExtractorDisabled = errors.New("extractor is disabled")
	ErrChecksumMismatch  = errors.New("extractor checksum mismatch")
	ErrExtractorTimeout  = errors.New("extractor timeout")
)

var kindByExt = map[string]Kind{
	".pdf":  KindPDF,
	".txt":  KindText,
	".md":   KindText,
	".png":  KindImage,
	".jpg":  KindImage,
	".jpeg": KindImage,
	".heic": KindImage,
	".webp": KindImage,
}

// Format is the lowercased file extension without the dot.
func Format(path string) string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
}

func KindForPath(path string) (Kind, error) {
	kind, ok := kindByExt[strings.ToLower(filepath.Ext(path))]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
	return kind, nil
}

var sha256Pattern = regexp.MustCompile(`^[a-f0-9]{64}$`)

// Manifest declares one out-of-process extractor in <home>/plugins/extractors.json.
type Manifest struct {
	Name    string   `json:"name"`
	Version string   `json:"version"`
	Binary  string   `json:"binary"`
	SHA256  string   `json:"sha256"`
	Enabled bool     `json:"enabled"`
	Formats []string `json:"formats,omitempty"`
}

func (m Manifest) Validate() error {
	if m.Name == "" {
		return fmt.Errorf("extractor name is required")
	}
	if m.Version == "" {
		return fmt.Errorf("extractor version is required")
	}
	if m.Binary == "" {
		return fmt.Errorf("extractor binary path is required")
	}
	if !sha256Pattern.MatchString(m.SHA256) {
		return fmt.Errorf("extractor sha256 must be lowercase 64-char hex")
	}
	for _, format := range m.Formats {
		if kindByExt["."+format] != KindImage {
			return fmt.Errorf("extractor %s: format %q is not an image format", m.Name, format)
		}
	}
	return nil
}

// Handles reports whether the extractor accepts the format. No formats means every image format.
func (m Manifest) Handles(format string) bool {
	if len(m.Formats) == 0 {
		return kindByExt["."+format] == KindImage
	}
	for _, f := range m.Formats {
		if f == format {
			return true
		}
	}
	return false
}

type Metadata struct {
	Name    string
	Version string
	Formats []string
}

type Result struct {
	Path      string
	Kind      Kind
	Text      string
	Extractor string
}

// CleanText collapses runs of whitespace.
func CleanText(raw string) string {
	return strings.Join(strings.Fields(raw), " ")
}
