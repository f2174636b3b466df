package service_test

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	extractout "cuplog/internal/modules/extract/adapter/out"
	"cuplog/internal/modules/extract/domain"
	"cuplog/internal/modules/extract/service"
)

type fakePDF struct{ text string }

func (f fakePDF) ReadText(context.Context, string) (string, error) { return f.text, nil }

type fakeHost struct {
	text      string
	err       error
	extracted []string
}

func (f *fakeHost) CheckLifecycle(context.Context, domain.Manifest) error { return f.err }
func (f *fakeHost) GetMetadata(_ context.Context, m domain.Manifest) (domain.Metadata, error) {
	return domain.Metadata{Name: m.Name, Version: m.Version}, f.err
}
func (f *fakeHost) Extract(_ context.Context, m domain.Manifest, path string) (string, error) {
	f.extracted = append(f.extracted, m.Name+":"+path)
	return f.text, f.err
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func writeManifests(t *testing.T, home string, manifests []domain.Manifest) {
	t.Helper()
	raw, err := json.Marshal(manifests)
	if err != nil {
		t.Fatalf("marshal manifests: %v", err)
	}
	writeFile(t, filepath.Join(home, "plugins", "extractors.json"), string(raw))
}

func fakeBinary(t *testing.T, home string) (string, string) {
	t.Helper()
	path := filepath.Join(home, "bin", "ocr")
	writeFile(t, path, "not-a-real-plugin")
	hash := sha256.Sum256([]byte("not-a-real-plugin"))
	return path, hex.EncodeToString(hash[:])
}

func TestExtractTextAndPDF(t *testing.T) {
	t.Parallel()
	home := t.TempDir()
	txt := filepath.Join(home, "notes.txt")
	writeFile(t, txt, "  Plum,\n  cacao nib\n")
	pdfPath := filepath.Join(home, "sheet.pdf")
	writeFile(t, pdfPath, "%PDF-1.4")

	svc := service.NewExtractService(fakePDF{text: "Red   apple\n\nhoney"}, extractout.NewLocalTextReader(), extractout.NewFileManifestStore(home), nil, nil)

	result, err := svc.Extract(context.Background(), txt)
	if err != nil {
		t.Fatalf("extract text: %v", err)
	}
	if result.Kind != domain.KindText || result.Text != "Plum, cacao nib" {
		t.Fatalf("unexpected text result: %+v", result)
	}

	result, err = svc.Extract(context.Background(), pdfPath)
	if err != nil {
		t.Fatalf("extract pdf: %v", err)
	}
	if result.Kind != domain.KindPDF || result.Text != "Red apple honey" {
		t.Fatalf("unexpected pdf result: %+v", result)
	}
}

func TestExtractImageUsesEnabledPlugin(t *testing.T) {
	t.Parallel()
	home := t.TempDir()
	bin, sum := fakeBinary(t, home)
	writeManifests(t, home, []domain.Manifest{
		{Name: "png-only", Version: "1", Binary: bin, SHA256: sum, Enabled: true, Formats: []string{"png"}},
		{Name: "ocr", Version: "1", Binary: bin, SHA256: sum, Enabled: true},
	})
	image := filepath.Join(home, "label.jpg")
	writeFile(t, image, "jpeg")
	host := &fakeHost{text: "Jasmine\nbergamot"}
	svc := service.NewExtractService(fakePDF{}, extractout.NewLocalTextReader(), extractout.NewFileManifestStore(home), host, nil)

	result, err := svc.Extract(context.Background(), image)
	if err != nil {
		t.Fatalf("extract image: %v", err)
	}
	if result.Extractor != "ocr" || result.Text != "Jasmine bergamot" {
		t.Fatalf("unexpected image result: %+v", result)
	}
	if len(host.extracted) != 1 || !strings.HasPrefix(host.extracted[0], "ocr:") {
		t.Fatalf("unexpected host calls: %v", host.extracted)
	}
}

func TestExtractImageRejectsChecksumMismatch(t *testing.T) {
	t.Parallel()
	home := t.TempDir()
	bin, _ := fakeBinary(t, home)
	writeManifests(t, home, []domain.Manifest{
		{Name: "ocr", Version: "1", Binary: bin, SHA256: strings.Repeat("0", 64), Enabled: true},
	})
	image := filepath.Join(home, "label.png")
	writeFile(t, image, "png")
	host := &fakeHost{}
	svc := service.NewExtractService(fakePDF{}, extractout.NewLocalTextReader(), extractout.NewFileManifestStore(home), host, nil)

	if _, err := svc.Extract(context.Background(), image); !errors.Is(err, domain.ErrChecksumMismatch) {
		t.Fatalf("expected checksum mismatch, got %v", err)
	}
	if len(host.extracted) != 0 {
		t.Fatalf("plugin must not run on checksum mismatch")
	}
}

func TestExtractImageWithoutExtractor(t *testing.T) {
	t.Parallel()
	home := t.TempDir()
	bin, sum := fakeBinary(t, home)
	writeManifests(t, home, []domain.Manifest{
		{Name: "ocr", Version: "1", Binary: bin, SHA256: sum, Enabled: false},
	})
	image := filepath.Join(home, "label.webp")
	writeFile(t, image, "webp")
	svc := service.NewExtractService(fakePDF{}, extractout.NewLocalTextReader(), extractout.NewFileManifestStore(home), &fakeHost{}, nil)

	if _, err := svc.Extract(context.Background(), image); !errors.Is(err, domain.ErrExtractorDisabled) {
		t.Fatalf("expected disabled extractor, got %v", err)
	}

	writeManifests(t, home, []domain.Manifest{})
	if _, err := svc.Extract(context.Background(), image); !errors.Is(err, domain.ErrNoExtractor) {
		t.Fatalf("expected no extractor, got %v", err)
	}
}

func TestExtractRejectsUnsupportedAndMissing(t *testing.T) {
	t.Parallel()
	svc := service.NewExtractService(fakePDF{}, extractout.NewLocalTextReader(), nil, nil, nil)
	if _, err := svc.Extract(context.Background(), "/tmp/sheet.docx"); !errors.Is(err, domain.ErrUnsupportedFormat) {
		t.Fatalf("expected unsupported format, got %v", err)
	}
	if _, err := svc.Extract(context.Background(), filepath.Join(t.TempDir(), "missing.txt")); err == nil {
		t.Fatalf("expected missing file error")
	}
}

func TestDoctorReportsChecksumAndLifecycle(t *testing.T) {
	t.Parallel()
	home := t.TempDir()
	bin, sum := fakeBinary(t, home)
	writeManifests(t, home, []domain.Manifest{
		{Name: "good", Version: "1", Binary: bin, SHA256: sum, Enabled: true},
		{Name: "bad-sum", Version: "1", Binary: bin, SHA256: strings.Repeat("0", 64), Enabled: true},
		{Name: "missing", Version: "1", Binary: filepath.Join(home, "nope"), SHA256: sum, Enabled: true},
	})
	svc := service.NewExtractService(fakePDF{}, extractout.NewLocalTextReader(), extractout.NewFileManifestStore(home), &fakeHost{}, nil)

	results, err := svc.Doctor(context.Background())
	if err != nil {
		t.Fatalf("doctor: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected three results, got %d", len(results))
	}
	if !results[0].LifecycleOK || !results[0].ChecksumValid {
		t.Fatalf("unexpected good result: %+v", results[0])
	}
	if results[1].ChecksumValid || results[1].Error != "checksum mismatch" {
		t.Fatalf("unexpected bad-sum result: %+v", results[1])
	}
	if results[2].BinaryReachable {
		t.Fatalf("unexpected missing result: %+v", results[2])
	}
}
