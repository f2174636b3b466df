package usecase

import (
	"context"
	"fmt"
	"strings"

	"cuplog/internal/modules/extract/dto"
	extractin "cuplog/internal/modules/extract/port/in"
	"cuplog/internal/modules/extract/service"
	apperrors "cuplog/internal/platform/errors"
)

type Interactor struct {
	svc *service.ExtractService
}

func NewInteractor(svc *service.ExtractService) extractin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) Extract(ctx context.Context, input dto.ExtractInput) (dto.ExtractOutput, error) {
	path := strings.TrimSpace(input.Path)
	if path == "" {
		return dto.ExtractOutput{}, fmt.Errorf("%w: path is required", apperrors.ErrInvalidInput)
	}
	result, err := i.svc.Extract(ctx, path)
	if err != nil {
		return dto.ExtractOutput{}, err
	}
	return dto.ExtractOutput{
		Path:      result.Path,
		Kind:      string(result.Kind),
		Text:      result.Text,
		Extractor: result.Extractor,
	}, nil
}

func (i *Interactor) ListExtractors(ctx context.Context) ([]dto.ExtractorInfo, error) {
	return i.svc.List(ctx)
}

func (i *Interactor) Doctor(ctx context.Context) ([]dto.DoctorResult, error) {
	return i.svc.Doctor(ctx)
}
