package out

import (
	"context"
	"fmt"
	"strings"

	extractout "cuplog/internal/modules/extract/port/out"
	"rsc.io/pdf"
)

type LocalPDFReader struct{}

func NewLocalPDFReader() extractout.PDFReader {
	return &LocalPDFReader{}
}

// ReadText concatenates the text runs of every page. Pages are separated by a blank line.
func (r *LocalPDFReader) ReadText(ctx context.Context, path string) (string, error) {
	doc, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	pages := make([]string, 0, doc.NumPage())
	for n := 1; n <= doc.NumPage(); n++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		p := doc.Page(n)
		if p.V.IsNull() {
			return "", fmt.Errorf("pdf page %d is null", n)
		}
		content := p.Content()
		parts := make([]string, 0, len(content.Text))
		for _, text := range content.Text {
			if strings.TrimSpace(text.S) == "" {
				continue
			}
			parts = append(parts, text.S)
		}
		pages = append(pages, strings.Join(parts, " "))
	}
	return strings.Join(pages, "\n\n"), nil
}
