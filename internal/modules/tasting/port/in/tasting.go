package in

import (
	"context"

	"cuplog/internal/modules/tasting/dto"
)

type Usecase interface {
	Start(ctx context.Context, input dto.StartInput) (dto.SessionOutput, error)
	GetActive(ctx context.Context) (dto.SessionOutput, error)
	Discard(ctx context.Context) error

	SetCoffeeInfo(ctx context.Context, input dto.CoffeeInfo) (dto.SessionOutput, error)
	SetBrewSettings(ctx context.Context, input dto.BrewSettings) (dto.SessionOutput, error)
	SetExperimentalData(ctx context.Context, input dto.ExperimentalData) (dto.SessionOutput, error)
	RecordQCMeasurement(ctx context.Context, input dto.QCMeasurement) (dto.SessionOutput, error)
	SetFlavors(ctx context.Context, flavors []dto.Flavor) (dto.SessionOutput, error)
	SetSensoryExpressions(ctx context.Context, expressions []dto.SensoryExpression) (dto.SessionOutput, error)
	SetSensorySliders(ctx context.Context, input dto.SlidersInput) (dto.SessionOutput, error)
	SetComment(ctx context.Context, input dto.CommentInput) (dto.SessionOutput, error)
	SetRoasterNotes(ctx context.Context, input dto.RoasterNotesInput) (dto.SessionOutput, error)

	Advance(ctx context.Context, input dto.NavigateInput) (dto.NavigateOutput, error)
	Back(ctx context.Context, input dto.NavigateInput) (dto.NavigateOutput, error)

	Save(ctx context.Context, input dto.SaveInput) (dto.SaveOutput, error)
	ListRecords(ctx context.Context, userID string) ([]dto.RecordOutput, error)
	Statistics(ctx context.Context, coffeeName string) (*dto.StatisticsOutput, error)
	TopFlavors(ctx context.Context, limit int) ([]dto.FlavorCountOutput, error)
	Reindex(ctx context.Context) (dto.ReindexOutput, error)
}
