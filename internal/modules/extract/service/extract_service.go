package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	hclog "github.com/hashicorp/go-hclog"

	"cuplog/internal/modules/extract/domain"
	"cuplog/internal/modules/extract/dto"
	extractout "cuplog/internal/modules/extract/port/out"
	"cuplog/internal/platform/logging"
)

type ExtractService struct {
	pdf    extractout.PDFReader
	text   extractout.TextReader
	store  extractout.ManifestStore
	host   extractout.Host
	logger hclog.Logger
}

func NewExtractService(pdf extractout.PDFReader, text extractout.TextReader, store extractout.ManifestStore, host extractout.Host, logger hclog.Logger) *ExtractService {
	return &ExtractService{pdf: pdf, text: text, store: store, host: host, logger: logging.OrDiscard(logger).Named("extract")}
}

// Extract dispatches on the file extension: PDFs and text files are read in process,
// images go to the first enabled extractor plugin that handles the format.
func (s *ExtractService) Extract(ctx context.Context, path string) (domain.Result, error) {
	kind, err := domain.KindForPath(path)
	if err != nil {
		return domain.Result{}, err
	}
	if _, err := os.Stat(path); err != nil {
		return domain.Result{}, fmt.Errorf("stat roaster notes: %w", err)
	}
	result := domain.Result{Path: path, Kind: kind}
	var raw string
	switch kind {
	case domain.KindPDF:
		raw, err = s.pdf.ReadText(ctx, path)
	case domain.KindText:
		raw, err = s.text.Read(ctx, path)
	case domain.KindImage:
		var manifest domain.Manifest
		manifest, err = s.extractorFor(ctx, domain.Format(path))
		if err == nil {
			result.Extractor = manifest.Name
			raw, err = s.host.Extract(ctx, manifest, path)
			if errors.Is(err, context.DeadlineExceeded) {
				err = fmt.Errorf("%w: %s", domain.ErrExtractorTimeout, manifest.Name)
			}
		}
	}
	if err != nil {
		return domain.Result{}, err
	}
	result.Text = domain.CleanText(raw)
	s.logger.Debug("roaster notes extracted", "path", path, "kind", kind, "chars", len(result.Text))
	return result, nil
}

func (s *ExtractService) List(ctx context.Context) ([]dto.ExtractorInfo, error) {
	manifests, err := s.loadValidated(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ExtractorInfo, 0, len(manifests))
	for _, m := range manifests {
		out = append(out, dto.ExtractorInfo{Name: m.Name, Version: m.Version, Enabled: m.Enabled, Binary: m.Binary, Formats: m.Formats})
	}
	return out, nil
}

func (s *ExtractService) Doctor(ctx context.Context) ([]dto.DoctorResult, error) {
	manifests, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	results := make([]dto.DoctorResult, 0, len(manifests))
	for _, m := range manifests {
		result := dto.DoctorResult{Name: m.Name}
		if err := m.Validate(); err != nil {
			result.Error = err.Error()
			results = append(results, result)
			continue
		}
		result.BinaryReachable = fileExists(m.Binary)
		if !result.BinaryReachable {
			result.Error = fmt.Sprintf("binary does not exist: %s", m.Binary)
			results = append(results, result)
			continue
		}
		result.ChecksumValid = checksumMatches(m.Binary, m.SHA256) == nil
		if !result.ChecksumValid {
			result.Error = "checksum mismatch"
			results = append(results, result)
			continue
		}
		if m.Enabled && s.host != nil {
			if err := s.host.CheckLifecycle(ctx, m); err != nil {
				result.Error = err.Error()
			} else {
				result.LifecycleOK = true
			}
		}
		results = append(results, result)
	}
	return results, nil
}

func (s *ExtractService) loadValidated(ctx context.Context) ([]domain.Manifest, error) {
	if s.store == nil {
		return []domain.Manifest{}, nil
	}
	manifests, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	seen := map[string]struct{}{}
	for _, m := range manifests {
		if err := m.Validate(); err != nil {
			return nil, err
		}
		if _, ok := seen[m.Name]; ok {
			return nil, fmt.Errorf("duplicate extractor name: %s", m.Name)
		}
		seen[m.Name] = struct{}{}
	}
	return manifests, nil
}

func (s *ExtractService) extractorFor(ctx context.Context, format string) (domain.Manifest, error) {
	if s.host == nil {
		return domain.Manifest{}, fmt.Errorf("%w: %s", domain.ErrNoExtractor, format)
	}
	manifests, err := s.loadValidated(ctx)
	if err != nil {
		return domain.Manifest{}, err
	}
	disabled := ""
	for _, m := range manifests {
		if !m.Handles(format) {
			continue
		}
		if !m.Enabled {
			disabled = m.Name
			continue
		}
		if err := checksumMatches(m.Binary, m.SHA256); err != nil {
			return domain.Manifest{}, err
		}
		return m, nil
	}
	if disabled != "" {
		return domain.Manifest{}, fmt.Errorf("%w: %s", domain.ErrExtractorDisabled, disabled)
	}
	return domain.Manifest{}, fmt.Errorf("%w: %s", domain.ErrNoExtractor, format)
}

func checksumMatches(path string, expected string) error {
	payload, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read extractor binary: %w", err)
	}
	hash := sha256.Sum256(payload)
	if hex.EncodeToString(hash[:]) != expected {
		return fmt.Errorf("%w: %s", domain.ErrChecksumMismatch, filepath.Base(path))
	}
	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
