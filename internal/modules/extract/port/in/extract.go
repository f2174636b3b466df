package in

import (
	"context"

	"cuplog/internal/modules/extract/dto"
)

type Usecase interface {
	Extract(ctx context.Context, input dto.ExtractInput) (dto.ExtractOutput, error)
	ListExtractors(ctx context.Context) ([]dto.ExtractorInfo, error)
	Doctor(ctx context.Context) ([]dto.DoctorResult, error)
}
