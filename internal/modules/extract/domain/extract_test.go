package domain_test

import (
	"errors"
	"strings"
	"testing"

	"cuplog/internal/modules/extract/domain"
)

func TestKindForPath(t *testing.T) {
	t.Parallel()
	cases := map[string]domain.Kind{
		"sheet.PDF":       domain.KindPDF,
		"notes.txt":       domain.KindText,
		"notes.md":        domain.KindText,
		"label.jpeg":      domain.KindImage,
		"/tmp/label.webp": domain.KindImage,
	}
	for path, want := range cases {
		got, err := domain.KindForPath(path)
		if err != nil {
			t.Fatalf("kind for %s: %v", path, err)
		}
		if got != want {
			t.Fatalf("kind for %s: want %s got %s", path, want, got)
		}
	}
	if _, err := domain.KindForPath("sheet.docx"); !errors.Is(err, domain.ErrUnsupportedFormat) {
		t.Fatalf("expected unsupported format, got %v", err)
	}
}

func TestManifestValidate(t *testing.T) {
	t.Parallel()
	valid := domain.Manifest{Name: "ocr", Version: "1.0.0", Binary: "/bin/ocr", SHA256: strings.Repeat("a", 64), Enabled: true}
	if err := valid.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	bad := valid
	bad.SHA256 = "ABC"
	if err := bad.Validate(); err == nil {
		t.Fatalf("expected sha256 error")
	}
	bad = valid
	bad.Formats = []string{"pdf"}
	if err := bad.Validate(); err == nil {
		t.Fatalf("expected non-image format error")
	}
}

func TestManifestHandles(t *testing.T) {
	t.Parallel()
	all := domain.Manifest{}
	if !all.Handles("png") || all.Handles("pdf") {
		t.Fatalf("empty formats must accept images only")
	}
	jpegOnly := domain.Manifest{Formats: []string{"jpg", "jpeg"}}
	if jpegOnly.Handles("png") || !jpegOnly.Handles("jpeg") {
		t.Fatalf("explicit formats not honored")
	}
}

func TestCleanText(t *testing.T) {
	t.Parallel()
	if got := domain.CleanText("  plum\n\tcacao   nib "); got != "plum cacao nib" {
		t.Fatalf("unexpected clean text: %q", got)
	}
}
