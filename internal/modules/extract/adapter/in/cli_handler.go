package in

import (
	"context"

	extractdto "cuplog/internal/modules/extract/dto"
	extractin "cuplog/internal/modules/extract/port/in"
)

type CLIHandler struct {
	usecase extractin.Usecase
}

func NewCLIHandler(usecase extractin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Extract(ctx context.Context, path string) (extractdto.ExtractOutput, error) {
	return h.usecase.Extract(ctx, extractdto.ExtractInput{Path: path})
}

func (h CLIHandler) List(ctx context.Context) ([]extractdto.ExtractorInfo, error) {
	return h.usecase.ListExtractors(ctx)
}

func (h CLIHandler) Doctor(ctx context.Context) ([]extractdto.DoctorResult, error) {
	return h.usecase.Doctor(ctx)
}
