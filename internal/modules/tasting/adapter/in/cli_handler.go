package in

import (
	"context"

	tastingdto "cuplog/internal/modules/tasting/dto"
	tastingin "cuplog/internal/modules/tasting/port/in"
)

type CLIHandler struct {
	usecase tastingin.Usecase
}

func NewCLIHandler(usecase tastingin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Start(ctx context.Context, mode string) (tastingdto.SessionOutput, error) {
	return h.usecase.Start(ctx, tastingdto.StartInput{Mode: mode})
}

func (h CLIHandler) Show(ctx context.Context) (tastingdto.SessionOutput, error) {
	return h.usecase.GetActive(ctx)
}

func (h CLIHandler) Discard(ctx context.Context) error {
	return h.usecase.Discard(ctx)
}

// Next validates the step's own requirements before asking for the following step.
func (h CLIHandler) Next(ctx context.Context, from string) (tastingdto.NavigateOutput, error) {
	return h.usecase.Advance(ctx, tastingdto.NavigateInput{From: from, Required: RequiredFields(from)})
}

func (h CLIHandler) Back(ctx context.Context, from string) (tastingdto.NavigateOutput, error) {
	return h.usecase.Back(ctx, tastingdto.NavigateInput{From: from})
}

func (h CLIHandler) Save(ctx context.Context, userID string) (tastingdto.SaveOutput, error) {
	return h.usecase.Save(ctx, tastingdto.SaveInput{UserID: userID})
}

func (h CLIHandler) SetCoffeeInfo(ctx context.Context, input tastingdto.CoffeeInfo) (tastingdto.SessionOutput, error) {
	return h.usecase.SetCoffeeInfo(ctx, input)
}

func (h CLIHandler) SetBrewSettings(ctx context.Context, input tastingdto.BrewSettings) (tastingdto.SessionOutput, error) {
	return h.usecase.SetBrewSettings(ctx, input)
}

func (h CLIHandler) SetExperimentalData(ctx context.Context, input tastingdto.ExperimentalData) (tastingdto.SessionOutput, error) {
	return h.usecase.SetExperimentalData(ctx, input)
}

func (h CLIHandler) RecordQC(ctx context.Context, input tastingdto.QCMeasurement) (tastingdto.SessionOutput, error) {
	return h.usecase.RecordQCMeasurement(ctx, input)
}

// SetFlavors takes "id=text" pairs; a bare value is used as both.
func (h CLIHandler) SetFlavors(ctx context.Context, pairs []string) (tastingdto.SessionOutput, error) {
	flavors := make([]tastingdto.Flavor, 0, len(pairs))
	for _, pair := range pairs {
		id, text := splitPair(pair)
		flavors = append(flavors, tastingdto.Flavor{ID: id, Text: text})
	}
	return h.usecase.SetFlavors(ctx, flavors)
}

// SetSensory takes "category:id=text" triples; the category may be omitted.
func (h CLIHandler) SetSensory(ctx context.Context, items []string) (tastingdto.SessionOutput, error) {
	expressions := make([]tastingdto.SensoryExpression, 0, len(items))
	for _, item := range items {
		category, rest := "", item
		if idx := indexByte(item, ':'); idx >= 0 {
			category, rest = item[:idx], item[idx+1:]
		}
		id, text := splitPair(rest)
		expressions = append(expressions, tastingdto.SensoryExpression{ID: id, Category: category, Text: text})
	}
	return h.usecase.SetSensoryExpressions(ctx, expressions)
}

func (h CLIHandler) SetSliders(ctx context.Context, ratings map[string]float64, notes string) (tastingdto.SessionOutput, error) {
	return h.usecase.SetSensorySliders(ctx, tastingdto.SlidersInput{Ratings: ratings, Notes: notes})
}

func (h CLIHandler) SetComment(ctx context.Context, comment string) (tastingdto.SessionOutput, error) {
	return h.usecase.SetComment(ctx, tastingdto.CommentInput{Comment: comment})
}

func (h CLIHandler) SetRoasterNotes(ctx context.Context, text, fromFile string, level int) (tastingdto.SessionOutput, error) {
	return h.usecase.SetRoasterNotes(ctx, tastingdto.RoasterNotesInput{Text: text, FromFile: fromFile, Level: level})
}

func (h CLIHandler) ListRecords(ctx context.Context, userID string) ([]tastingdto.RecordOutput, error) {
	return h.usecase.ListRecords(ctx, userID)
}

func (h CLIHandler) Statistics(ctx context.Context, coffeeName string) (*tastingdto.StatisticsOutput, error) {
	return h.usecase.Statistics(ctx, coffeeName)
}

func (h CLIHandler) TopFlavors(ctx context.Context, limit int) ([]tastingdto.FlavorCountOutput, error) {
	return h.usecase.TopFlavors(ctx, limit)
}

func (h CLIHandler) Reindex(ctx context.Context) (tastingdto.ReindexOutput, error) {
	return h.usecase.Reindex(ctx)
}

func splitPair(pair string) (string, string) {
	if idx := indexByte(pair, '='); idx >= 0 {
		return pair[:idx], pair[idx+1:]
	}
	return pair, pair
}

func indexByte(s string, b byte) int {
	for i := 0; i < len(s); i++ {
		if s[i] == b {
			return i
		}
	}
	return -1
}
