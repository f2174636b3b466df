package out

import (
	"context"

	extractdto "cuplog/internal/modules/extract/dto"
	extractin "cuplog/internal/modules/extract/port/in"
	"cuplog/internal/modules/tasting/domain"
	tastingout "cuplog/internal/modules/tasting/port/out"
)

// ExtractNoteSource reads roaster notes through the extract module.
type ExtractNoteSource struct {
	extractor extractin.Usecase
}

func NewExtractNoteSource(extractor extractin.Usecase) tastingout.NoteSource {
	return &ExtractNoteSource{extractor: extractor}
}

func (s *ExtractNoteSource) Extract(ctx context.Context, path string) (domain.RoasterNotes, error) {
	out, err := s.extractor.Extract(ctx, extractdto.ExtractInput{Path: path})
	if err != nil {
		return domain.RoasterNotes{}, err
	}
	return domain.RoasterNotes{Text: out.Text, Source: out.Kind}, nil
}
